package rowan

import (
	"math"
	"testing"
)

func TestNewNodeDefaults(t *testing.T) {
	n := NewNode("part")
	if n.Name != "part" {
		t.Errorf("Name = %q, want %q", n.Name, "part")
	}
	if n.ID == 0 {
		t.Error("ID should be assigned")
	}
	if n.Rotation != QuatIdentity {
		t.Errorf("Rotation = %v, want identity", n.Rotation)
	}
	if n.Scale != Vec3One {
		t.Errorf("Scale = %v, want one", n.Scale)
	}
	if !n.Visible {
		t.Error("new nodes should be visible")
	}
}

func TestNewMeshNodeCollider(t *testing.T) {
	n := NewMeshNode("box", boxMesh(1, 2, 3))
	if !n.ColliderEnabled {
		t.Fatal("mesh node should have its collider enabled")
	}
	min, max, ok := n.colliderBounds()
	if !ok {
		t.Fatal("colliderBounds should report a box")
	}
	assertVec(t, "collider min", min, Vec3{-1, -2, -3})
	assertVec(t, "collider max", max, Vec3{1, 2, 3})
}

func TestAddChildReparents(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	child := NewNode("child")
	a.AddChild(child)
	b.AddChild(child)
	if child.Parent != b {
		t.Error("child should be reparented to b")
	}
	if a.NumChildren() != 0 {
		t.Errorf("a.NumChildren() = %d, want 0", a.NumChildren())
	}
}

func TestAddChildPanics(t *testing.T) {
	n := NewNode("n")
	assertPanics(t, "nil child", func() { n.AddChild(nil) })

	parent := NewNode("parent")
	parent.AddChild(n)
	assertPanics(t, "cycle", func() { n.AddChild(parent) })
}

func TestRemoveChildPanicsOnWrongParent(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	assertPanics(t, "wrong parent", func() { a.RemoveChild(b) })
}

func assertPanics(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	fn()
}

func TestWorldTransformPropagates(t *testing.T) {
	parent := NewNode("parent")
	child := NewNode("child")
	parent.AddChild(child)
	parent.SetPosition(Vec3{10, 0, 0})
	child.SetPosition(Vec3{1, 0, 0})
	assertVec(t, "world", child.WorldPosition(), Vec3{11, 0, 0})

	// Moving the parent dirties the child.
	parent.SetPosition(Vec3{20, 0, 0})
	assertVec(t, "world after move", child.WorldPosition(), Vec3{21, 0, 0})
}

func TestWorldTransformRotationScale(t *testing.T) {
	parent := NewNode("parent")
	parent.SetRotation(QuatAxisAngle(Vec3{0, 0, 1}, math.Pi/2))
	parent.SetScale(Vec3{2, 2, 2})
	child := NewNode("child")
	child.SetPosition(Vec3{1, 0, 0})
	parent.AddChild(child)
	assertVec(t, "rotated scaled", child.WorldPosition(), Vec3{0, 2, 0})
}

func TestNodePathDepth(t *testing.T) {
	root := NewNode("root")
	mid := NewNode("mid")
	leaf := NewNode("leaf")
	root.AddChild(mid)
	mid.AddChild(leaf)
	if got := leaf.Path(); got != "root/mid/leaf" {
		t.Errorf("Path() = %q, want %q", got, "root/mid/leaf")
	}
	if got := leaf.Depth(); got != 2 {
		t.Errorf("Depth() = %d, want 2", got)
	}
}

func TestSnapshotRestore(t *testing.T) {
	n := NewMeshNode("part", quadMesh(1, 1))
	snap := snapshotNode(n)

	n.SetPosition(Vec3{5, 5, 5})
	n.Visible = false
	n.EmissionAlpha = 0.7
	n.LightOn = true
	n.Volume = 0.4
	n.ScreenContent = "toast.png"
	n.ScreenTexts = []string{"hello"}

	snap.restore(n)
	assertVec(t, "position restored", n.Position, Vec3{})
	if !n.Visible || n.EmissionAlpha != 0 || n.LightOn || n.Volume != 0 {
		t.Error("appearance fields should be restored")
	}
	if n.ScreenContent != "" || n.ScreenTexts != nil {
		t.Error("screen fields should be restored")
	}
}

func TestDispose(t *testing.T) {
	parent := NewNode("parent")
	child := NewNode("child")
	grand := NewNode("grand")
	parent.AddChild(child)
	child.AddChild(grand)

	child.Dispose()
	if !child.IsDisposed() || !grand.IsDisposed() {
		t.Error("dispose should cascade to descendants")
	}
	if parent.NumChildren() != 0 {
		t.Error("disposed child should detach from parent")
	}
	if grand.Parent != nil || child.Mesh != nil {
		t.Error("disposed nodes should drop references")
	}
}
