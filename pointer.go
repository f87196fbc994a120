package rowan

import "sort"

// PointerRouter resolves pointer poses to bound interaction elements. A
// pointer captures the element whose collider its ray hits at start and
// keeps delivering to it until the pointer ends, even when later rays miss.
// Multiple pointers captured on one element merge into a single synthetic
// pose so the element always sees one interaction stream.
type PointerRouter struct {
	scene   *Scene
	targets map[*Node]InteractionElement
	active  map[int]*pointerState
}

type pointerState struct {
	pose    Pose
	element InteractionElement // nil when the start ray missed
}

// NewPointerRouter builds a router over the binder's node-to-element map.
func NewPointerRouter(scene *Scene, targets map[*Node]InteractionElement) *PointerRouter {
	return &PointerRouter{
		scene:   scene,
		targets: targets,
		active:  make(map[int]*pointerState),
	}
}

// ActivePointers returns the number of pointers currently down.
func (r *PointerRouter) ActivePointers() int {
	return len(r.active)
}

// InteractionStart begins tracking a pointer. The ray is resolved against
// the scene and the nearest bound element (searching up from the hit node)
// captures the pointer. Reusing a live pointer id is a usage error.
func (r *PointerRouter) InteractionStart(id int, p Pose) error {
	if _, live := r.active[id]; live {
		return &InteractionUsageError{PointerID: id, Detail: "pointer already started"}
	}
	st := &pointerState{pose: p}
	if hit, ok := r.scene.Raycast(p.Ray()); ok {
		st.element = r.elementFor(hit.Node)
	}
	r.active[id] = st
	if st.element == nil {
		return nil
	}
	if r.pointersOn(st.element) == 1 {
		st.element.HandleStart(r.mergedPose(st.element))
	} else {
		// A joining pointer shifts the merged pose, not the drag state.
		st.element.HandleContinue(r.mergedPose(st.element))
	}
	return nil
}

// InteractionContinue updates a live pointer's pose.
func (r *PointerRouter) InteractionContinue(id int, p Pose) error {
	st, live := r.active[id]
	if !live {
		return &InteractionUsageError{PointerID: id, Detail: "pointer not started"}
	}
	st.pose = p
	if st.element != nil {
		st.element.HandleContinue(r.mergedPose(st.element))
	}
	return nil
}

// InteractionEnd releases a pointer. The captured element receives
// HandleEnd only when its last pointer lifts.
func (r *PointerRouter) InteractionEnd(id int, p Pose) error {
	st, live := r.active[id]
	if !live {
		return &InteractionUsageError{PointerID: id, Detail: "pointer not started"}
	}
	st.pose = p
	delete(r.active, id)
	if st.element == nil {
		return nil
	}
	if r.pointersOn(st.element) == 0 {
		st.element.HandleEnd(p)
	} else {
		st.element.HandleContinue(r.mergedPose(st.element))
	}
	return nil
}

// Reset drops all live pointers without delivering end events. Used on
// teardown.
func (r *PointerRouter) Reset() {
	r.active = make(map[int]*pointerState)
}

// elementFor finds the bound interaction element for a hit node, walking up
// the hierarchy so child mesh hits resolve to the bound ancestor.
func (r *PointerRouter) elementFor(n *Node) InteractionElement {
	for cur := n; cur != nil; cur = cur.Parent {
		if el, ok := r.targets[cur]; ok {
			return el
		}
	}
	return nil
}

func (r *PointerRouter) pointersOn(el InteractionElement) int {
	count := 0
	for _, st := range r.active {
		if st.element == el {
			count++
		}
	}
	return count
}

// mergedPose folds all poses captured on an element into one: the
// positional mean and an iterative slerp of the pose rotations, folded in
// pointer id order so the merge is deterministic.
func (r *PointerRouter) mergedPose(el InteractionElement) Pose {
	ids := make([]int, 0, len(r.active))
	for id, st := range r.active {
		if st.element == el {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	poses := make([]Pose, 0, len(ids))
	for _, id := range ids {
		poses = append(poses, r.active[id].pose)
	}
	if len(poses) == 1 {
		return poses[0]
	}
	if len(poses) == 2 {
		if p, ok := twoPointerPose(poses[0], poses[1]); ok {
			return p
		}
	}
	var pos Vec3
	rot := poses[0].Rotation()
	for i, p := range poses {
		pos = pos.Add(p.Position)
		if i > 0 {
			rot = rot.Slerp(p.Rotation(), 1/float64(i+1))
		}
	}
	pos = pos.Scale(1 / float64(len(poses)))
	return Pose{
		Position: pos,
		Forward:  rot.Rotate(Vec3{0, 0, 1}),
		Up:       rot.Rotate(Vec3{0, 1, 0}),
	}
}

// twoPointerPose synthesizes the pose of a two-pointer grip: the midpoint
// position, a right axis along the line between the pointers, and the
// blended pointer forward orthogonalized against that line. Reports false
// when the pointers coincide or look straight along their own axis.
func twoPointerPose(a, b Pose) (Pose, bool) {
	axis := b.Position.Sub(a.Position)
	if axis.Length() < 1e-9 {
		return Pose{}, false
	}
	right := axis.Normalized()
	fwd := a.Rotation().Slerp(b.Rotation(), 0.5).Rotate(Vec3{0, 0, 1})
	fwd = fwd.Sub(right.Scale(fwd.Dot(right)))
	if fwd.Length() < 1e-9 {
		return Pose{}, false
	}
	fwd = fwd.Normalized()
	return Pose{
		Position: a.Position.Add(b.Position).Scale(0.5),
		Forward:  fwd,
		Up:       fwd.Cross(right),
	}, true
}
