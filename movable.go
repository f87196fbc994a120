package rowan

import "time"

// snapProximityFactor scales an object's size into the release distance
// within which a movable eases toward its nearest snap pose.
const snapProximityFactor = 1.5

// fallbackObjectSize sizes the snap threshold for movables without mesh data.
const fallbackObjectSize = 0.2

// parsedSnapPose is a SnapPose with its tuple strings resolved.
type parsedSnapPose struct {
	position Vec3
	rotation Quat
	hasRot   bool
}

// Movable follows the pointer pose freely during a drag, preserving the
// grab offset, and eases toward the nearest configured snap pose on release
// when close enough. Rotation blends toward the nearest snap pose in
// proportion to closeness throughout the drag, not only at release.
type Movable struct {
	elementBase
	spec      *InteractionSpec
	snapPoses []parsedSnapPose

	dragging  bool
	offsetPos Vec3 // object position in the pointer's frame at grab
	offsetRot Quat // object rotation in the pointer's frame at grab

	snap *PoseTween // active snap animation
}

func newMovable(spec *InteractionSpec, node *Node) (*Movable, error) {
	m := &Movable{elementBase: newElementBase(spec.Name, node), spec: spec}
	for i, sp := range spec.SnapPoses {
		pos, ok := ParseVec3Tuple(sp.Position)
		if !ok {
			return nil, configErrorf("", "movable %q: snap pose %d has malformed position %q", spec.Name, i, sp.Position)
		}
		parsed := parsedSnapPose{position: pos, rotation: QuatIdentity}
		if sp.Rotation != nil {
			euler, ok := ParseVec3Tuple(*sp.Rotation)
			if !ok {
				return nil, configErrorf("", "movable %q: snap pose %d has malformed rotation %q", spec.Name, i, *sp.Rotation)
			}
			parsed.rotation = eulerDegrees(euler.X, euler.Y, euler.Z)
			parsed.hasRot = true
		}
		m.snapPoses = append(m.snapPoses, parsed)
	}
	if err := applyInitialAttributes(m, spec); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Movable) Kind() InteractionKind { return KindMovable }

// Value returns the node's current local position.
func (m *Movable) Value() any { return m.node.Position }

func (m *Movable) SetAttribute(attr Attribute, raw string) error {
	if handled, err := m.setCommonAttribute(attr, raw); handled {
		return err
	}
	return configErrorf("", "movable %q has no attribute %q", m.name, attr)
}

func (m *Movable) transitionTime() time.Duration {
	if m.spec.TransitionTimeInMs > 0 {
		return time.Duration(m.spec.TransitionTimeInMs) * time.Millisecond
	}
	return defaultTransitionTime
}

// objectSize estimates the represented object's extent for the snap
// proximity threshold.
func (m *Movable) objectSize() float64 {
	if m.node.Mesh != nil {
		if r := m.node.Mesh.Radius() * averageScale(m.node.World().Scale); r > 1e-9 {
			return r
		}
	}
	return fallbackObjectSize
}

// nearestSnap returns the snap pose closest to the node's current local
// position, with its distance.
func (m *Movable) nearestSnap() (parsedSnapPose, float64, bool) {
	if len(m.snapPoses) == 0 {
		return parsedSnapPose{}, 0, false
	}
	best := m.snapPoses[0]
	bestDist := m.node.Position.Sub(best.position).Length()
	for _, sp := range m.snapPoses[1:] {
		if d := m.node.Position.Sub(sp.position).Length(); d < bestDist {
			best, bestDist = sp, d
		}
	}
	return best, bestDist, true
}

func (m *Movable) HandleStart(p Pose) {
	if m.fixed {
		return
	}
	m.snap = nil
	poseRot := p.Rotation()
	inv := poseRot.Inverse()
	world := m.worldPose()
	m.offsetPos = inv.Rotate(world.Position.Sub(p.Position))
	m.offsetRot = inv.Mul(world.Rotation)
	m.dragging = true
}

func (m *Movable) HandleContinue(p Pose) {
	if m.fixed || !m.dragging {
		return
	}
	poseRot := p.Rotation()
	targetPos := p.Position.Add(poseRot.Rotate(m.offsetPos))
	targetRot := poseRot.Mul(m.offsetRot)

	m.setWorldPose(targetPos, targetRot)

	// Blend rotation toward the nearest snap pose in proportion to
	// closeness while dragging.
	if sp, dist, ok := m.nearestSnap(); ok && sp.hasRot {
		threshold := snapProximityFactor * m.objectSize()
		if dist < threshold {
			closeness := 1 - dist/threshold
			m.node.SetRotation(m.node.Rotation.Slerp(sp.rotation, closeness))
		}
	}

	pos := m.node.Position
	m.raise(EventMove, Params{"x": pos.X, "y": pos.Y, "z": pos.Z})
}

func (m *Movable) HandleEnd(p Pose) {
	if !m.dragging {
		return
	}
	m.dragging = false

	if sp, dist, ok := m.nearestSnap(); ok && dist < snapProximityFactor*m.objectSize() {
		rot := m.node.Rotation
		if sp.hasRot {
			rot = sp.rotation
		}
		m.snap = newPoseTween(m.node, sp.position, rot, m.transitionTime())
		m.snap.OnComplete = func() {
			pos := m.node.Position
			m.raise(EventSnap, Params{"x": pos.X, "y": pos.Y, "z": pos.Z})
		}
	}

	pos := m.node.Position
	m.raise(EventMoveEnd, Params{"x": pos.X, "y": pos.Y, "z": pos.Z})
}

func (m *Movable) Update(dt float32) {
	if m.snap != nil {
		m.snap.Update(dt)
		if m.snap.Done {
			m.snap = nil
		}
	}
}

func (m *Movable) Teardown() {
	m.dragging = false
	m.snap = nil
	m.teardownBase()
}

// worldPose returns the node's world position and rotation.
func (m *Movable) worldPose() Transform {
	return m.node.World()
}

// setWorldPose writes a world-space pose back through the node's parent
// frame, preferring a physics body's move API when one is attached.
func (m *Movable) setWorldPose(pos Vec3, rot Quat) {
	if m.node.Body != nil {
		m.node.Body.MoveTo(pos, rot)
		return
	}
	localPos := pos
	localRot := rot
	if m.node.Parent != nil {
		parent := m.node.Parent.World()
		localPos = parent.Invert(pos)
		localRot = parent.Rotation.Inverse().Mul(rot)
	}
	m.node.SetPosition(localPos)
	m.node.SetRotation(localRot)
}
