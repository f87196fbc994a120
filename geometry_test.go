package rowan

import (
	"math"
	"testing"
)

func quadMesh(hx, hy float64) *Mesh {
	return &Mesh{
		Vertices: []Vec3{
			{-hx, -hy, 0}, {hx, -hy, 0}, {hx, hy, 0}, {-hx, hy, 0},
		},
		Triangles: []int{0, 1, 2, 0, 2, 3},
	}
}

func boxMesh(hx, hy, hz float64) *Mesh {
	return &Mesh{
		Vertices: []Vec3{
			{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, hy, -hz}, {-hx, hy, -hz},
			{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz},
		},
		Triangles: []int{0, 1, 2, 0, 2, 3, 4, 5, 6, 4, 6, 7},
	}
}

// --- Surface ---

func TestSurfaceUV(t *testing.T) {
	s := Surface{
		Origin: Vec3{0, 0, 0},
		XAxis:  Vec3{2, 0, 0},
		YAxis:  Vec3{0, 4, 0},
		Center: Vec3{1, 2, 0},
	}
	u, v := s.UV(Vec3{1, 2, 0})
	assertNear(t, "u center", u, 0.5)
	assertNear(t, "v center", v, 0.5)
	u, v = s.UV(Vec3{2, 4, 0})
	assertNear(t, "u corner", u, 1)
	assertNear(t, "v corner", v, 1)
	u, _ = s.UV(Vec3{-1, 0, 0})
	assertNear(t, "u outside", u, -0.5)
}

func TestSurfaceNormal(t *testing.T) {
	s := Surface{XAxis: Vec3{2, 0, 0}, YAxis: Vec3{0, 3, 0}}
	assertVec(t, "normal", s.Normal(), Vec3{0, 0, 1})
}

func TestBoundingSurfaceFitsMesh(t *testing.T) {
	mesh := quadMesh(1, 2)
	s := BoundingSurface(mesh, IdentityTransform, Vec3{0, 0, 1}, Vec3{0, 1, 0})
	assertNear(t, "width", s.XAxis.Length(), 2)
	assertNear(t, "height", s.YAxis.Length(), 4)
	assertVec(t, "center", s.Center, Vec3{0, 0, 0})

	u, v := s.UV(Vec3{-1, -2, 0})
	// The UV origin corner maps to one of the rectangle corners.
	if !(near(u, 0) || near(u, 1)) || !(near(v, 0) || near(v, 1)) {
		t.Errorf("corner uv = (%v, %v), want corner of unit square", u, v)
	}
}

func TestBoundingSurfaceTranslated(t *testing.T) {
	mesh := quadMesh(1, 1)
	world := Transform{Position: Vec3{5, 3, -2}, Rotation: QuatIdentity, Scale: Vec3One}
	s := BoundingSurface(mesh, world, Vec3{0, 0, 1}, Vec3{0, 1, 0})
	assertVec(t, "translated center", s.Center, Vec3{5, 3, -2})
}

func near(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

// --- Ray helpers ---

func TestClosestPointOnRay(t *testing.T) {
	r := Ray{Origin: Vec3{0, 0, 0}, Direction: Vec3{1, 0, 0}}
	assertVec(t, "beside", ClosestPointOnRay(r, Vec3{3, 5, 0}), Vec3{3, 0, 0})
	assertVec(t, "behind clamps", ClosestPointOnRay(r, Vec3{-4, 1, 0}), Vec3{0, 0, 0})
}

func TestSphereRayIntersectionHit(t *testing.T) {
	center := Vec3{0, 0, 5}
	r := Ray{Origin: Vec3{0, 0, 0}, Direction: Vec3{0, 0, 1}}
	p := SphereRayIntersection(center, 1, r)
	assertVec(t, "near intersection", p, Vec3{0, 0, 4})
}

func TestSphereRayIntersectionMissStaysOnSphere(t *testing.T) {
	center := Vec3{0, 0, 5}
	// Ray passes well to the side of the sphere.
	r := Ray{Origin: Vec3{0, 0, 0}, Direction: Vec3{3, 0, 5}.Normalized()}
	p := SphereRayIntersection(center, 1, r)
	assertNear(t, "on sphere", p.Sub(center).Length(), 1)
}

func TestSphereRayIntersectionNeverUndefined(t *testing.T) {
	center := Vec3{1, 2, 3}
	rays := []Ray{
		{Origin: Vec3{0, 0, 0}, Direction: Vec3{0, 0, -1}}, // pointing away
		{Origin: Vec3{1, 2, 3}, Direction: Vec3{0, 1, 0}},  // from center
		{Origin: Vec3{50, 0, 0}, Direction: Vec3{0, 1, 0}}, // far miss
	}
	for i, r := range rays {
		p := SphereRayIntersection(center, 0.5, r)
		if d := p.Sub(center).Length(); math.Abs(d-0.5) > 1e-6 {
			t.Errorf("ray %d: point %v at distance %v from center, want 0.5", i, p, d)
		}
	}
}

// --- Axis projection ---

func TestProjectOntoAxis(t *testing.T) {
	from := Vec3{0, 0, 0}
	to := Vec3{10, 0, 0}
	// Ray pointing straight down at x=5.
	r := Ray{Origin: Vec3{5, 5, 0}, Direction: Vec3{0, -1, 0}}
	assertNear(t, "middle", ProjectOntoAxis(r, from, to), 0.5)
}

func TestProjectOntoAxisClamps(t *testing.T) {
	from := Vec3{0, 0, 0}
	to := Vec3{10, 0, 0}
	before := Ray{Origin: Vec3{-5, 5, 0}, Direction: Vec3{0, -1, 0}}
	beyond := Ray{Origin: Vec3{25, 5, 0}, Direction: Vec3{0, -1, 0}}
	assertNear(t, "before clamps to 0", ProjectOntoAxis(before, from, to), 0)
	assertNear(t, "beyond clamps to 1", ProjectOntoAxis(beyond, from, to), 1)
}

func TestProjectOntoAxisParallel(t *testing.T) {
	from := Vec3{0, 0, 0}
	to := Vec3{10, 0, 0}
	r := Ray{Origin: Vec3{3, 1, 0}, Direction: Vec3{1, 0, 0}}
	assertNear(t, "parallel projects origin", ProjectOntoAxis(r, from, to), 0.3)
}

func TestProjectOntoAxisDegenerate(t *testing.T) {
	r := Ray{Origin: Vec3{1, 1, 1}, Direction: Vec3{0, -1, 0}}
	assertNear(t, "zero axis", ProjectOntoAxis(r, Vec3{2, 0, 0}, Vec3{2, 0, 0}), 0)
}

// --- Ray/box ---

func TestRayBoxIntersect(t *testing.T) {
	min := Vec3{-1, -1, -1}
	max := Vec3{1, 1, 1}
	r := Ray{Origin: Vec3{0, 0, -5}, Direction: Vec3{0, 0, 1}}
	d, hit := rayBoxIntersect(r, min, max)
	if !hit {
		t.Fatal("expected hit")
	}
	assertNear(t, "entry distance", d, 4)
}

func TestRayBoxIntersectFromInside(t *testing.T) {
	d, hit := rayBoxIntersect(Ray{Origin: Vec3{0, 0, 0}, Direction: Vec3{0, 0, 1}}, Vec3{-1, -1, -1}, Vec3{1, 1, 1})
	if !hit {
		t.Fatal("expected hit from inside")
	}
	assertNear(t, "exit distance", d, 1)
}

func TestRayBoxIntersectMiss(t *testing.T) {
	if _, hit := rayBoxIntersect(Ray{Origin: Vec3{5, 5, -5}, Direction: Vec3{0, 0, 1}}, Vec3{-1, -1, -1}, Vec3{1, 1, 1}); hit {
		t.Error("expected miss")
	}
	if _, hit := rayBoxIntersect(Ray{Origin: Vec3{0, 0, 5}, Direction: Vec3{0, 0, 1}}, Vec3{-1, -1, -1}, Vec3{1, 1, 1}); hit {
		t.Error("expected miss behind")
	}
}

func TestRayBoxIntersectFlatBox(t *testing.T) {
	// Zero-thickness boxes (flat quads) still intersect.
	d, hit := rayBoxIntersect(Ray{Origin: Vec3{0, 0, -2}, Direction: Vec3{0, 0, 1}}, Vec3{-1, -1, 0}, Vec3{1, 1, 0})
	if !hit {
		t.Fatal("expected hit on flat box")
	}
	assertNear(t, "flat distance", d, 2)
}

func TestOrientedBoxFromMesh(t *testing.T) {
	mesh := boxMesh(1, 2, 3)
	center, axes := OrientedBoxFromMesh(mesh, IdentityTransform)
	assertVec(t, "center", center, Vec3{0, 0, 0})
	assertNear(t, "x half-extent", axes[0].Length(), 1)
	assertNear(t, "y half-extent", axes[1].Length(), 2)
	assertNear(t, "z half-extent", axes[2].Length(), 3)
}
