package rowan

import "testing"

func poseAt(pos Vec3) Pose {
	return Pose{Position: pos, Forward: Vec3{0, 0, 1}, Up: Vec3{0, 1, 0}}
}

func movableSpec(snaps ...SnapPose) *InteractionSpec {
	return &InteractionSpec{
		Name:      "Crate",
		Kind:      KindMovable,
		SnapPoses: snaps,
	}
}

func newTestMovable(t *testing.T, spec *InteractionSpec) (*Movable, *Node) {
	t.Helper()
	node := NewNode(spec.Name)
	m, err := newMovable(spec, node)
	if err != nil {
		t.Fatalf("newMovable: %v", err)
	}
	return m, node
}

func TestMovableRejectsMalformedSnapPose(t *testing.T) {
	if _, err := newMovable(movableSpec(SnapPose{Position: "over there"}), NewNode("Crate")); err == nil {
		t.Fatal("malformed snap position should fail")
	}
	rot := "sideways"
	if _, err := newMovable(movableSpec(SnapPose{Position: "(0, 0, 0)", Rotation: &rot}), NewNode("Crate")); err == nil {
		t.Fatal("malformed snap rotation should fail")
	}
}

func TestMovableDragPreservesGrabOffset(t *testing.T) {
	m, node := newTestMovable(t, movableSpec())
	rec := wireRecorder(t, m)

	// Grab from one unit to the right of the object: it keeps that offset.
	m.HandleStart(poseAt(Vec3{1, 0, 0}))
	m.HandleContinue(poseAt(Vec3{3, 1, 0}))
	assertVec(t, "offset move", node.Position, Vec3{2, 1, 0})
	m.HandleEnd(poseAt(Vec3{3, 1, 0}))

	assertEventTypes(t, rec.types(), EventMove, EventMoveEnd)
	ev := rec.events[0]
	assertNear(t, "MOVE x", ev.Params["x"], 2)
	assertNear(t, "MOVE y", ev.Params["y"], 1)
	assertNear(t, "MOVE z", ev.Params["z"], 0)
}

func TestMovableFollowsPointerRotation(t *testing.T) {
	m, node := newTestMovable(t, movableSpec())

	m.HandleStart(poseAt(Vec3{0, 0, 0}))
	// Turn the pointer 90 degrees so its forward swings from +z to +x.
	turned := Pose{Position: Vec3{0, 0, 0}, Forward: Vec3{1, 0, 0}, Up: Vec3{0, 1, 0}}
	m.HandleContinue(turned)
	assertVec(t, "rotated with pointer", node.Rotation.Rotate(Vec3{0, 0, 1}), Vec3{1, 0, 0})
}

func TestMovableSnapsOnNearbyRelease(t *testing.T) {
	m, node := newTestMovable(t, movableSpec(SnapPose{Position: "(1, 0, 0)"}))
	rec := wireRecorder(t, m)

	m.HandleStart(poseAt(Vec3{0, 0, 0}))
	m.HandleContinue(poseAt(Vec3{0.9, 0, 0}))
	m.HandleEnd(poseAt(Vec3{0.9, 0, 0}))

	// The snap animates over the transition time and raises SNAP when it
	// lands, after MOVE_END.
	m.Update(0.5)
	if node.Position.Sub(Vec3{1, 0, 0}).Length() < epsilon {
		t.Fatal("snap should ease, not jump")
	}
	m.Update(0.6)
	assertVec(t, "snapped position", node.Position, Vec3{1, 0, 0})
	assertEventTypes(t, rec.types(), EventMove, EventMoveEnd, EventSnap)
	assertNear(t, "SNAP x", rec.last().Params["x"], 1)
}

func TestMovableIgnoresDistantSnap(t *testing.T) {
	m, node := newTestMovable(t, movableSpec(SnapPose{Position: "(1, 0, 0)"}))
	rec := wireRecorder(t, m)

	m.HandleStart(poseAt(Vec3{0, 0, 0}))
	m.HandleContinue(poseAt(Vec3{5, 0, 0}))
	m.HandleEnd(poseAt(Vec3{5, 0, 0}))
	m.Update(10)
	assertVec(t, "stays put", node.Position, Vec3{5, 0, 0})
	assertEventTypes(t, rec.types(), EventMove, EventMoveEnd)
}

func TestMovableSnapAppliesRotation(t *testing.T) {
	rot := "(0, 0, 90)"
	m, node := newTestMovable(t, movableSpec(SnapPose{Position: "(0.1, 0, 0)", Rotation: &rot}))

	m.HandleStart(poseAt(Vec3{0, 0, 0}))
	m.HandleEnd(poseAt(Vec3{0, 0, 0}))
	m.Update(10)
	assertVec(t, "snapped rotation", node.Rotation.Rotate(Vec3{1, 0, 0}), Vec3{0, 1, 0})
}

func TestMovableFixedIgnoresDrag(t *testing.T) {
	m, node := newTestMovable(t, movableSpec())
	rec := wireRecorder(t, m)
	if err := m.SetAttribute(AttrFixed, "true"); err != nil {
		t.Fatalf("SetAttribute: %v", err)
	}
	m.HandleStart(poseAt(Vec3{1, 0, 0}))
	m.HandleContinue(poseAt(Vec3{3, 0, 0}))
	assertVec(t, "fixed stays", node.Position, Vec3{0, 0, 0})
	if len(rec.events) != 0 {
		t.Errorf("fixed movable raised %v", rec.types())
	}
}

func TestMovableTeardownRestores(t *testing.T) {
	m, node := newTestMovable(t, movableSpec())
	m.HandleStart(poseAt(Vec3{0, 0, 0}))
	m.HandleContinue(poseAt(Vec3{4, 4, 4}))
	m.Teardown()
	assertVec(t, "restored", node.Position, Vec3{0, 0, 0})
}
