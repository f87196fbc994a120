package rowan

import "math"

// Geometry utilities: pure, stateless functions that turn 3D pointer rays
// into 1D/2D interaction coordinates. None of them ever return "no result" —
// continuous drag tracking needs a defined point even when the pointer ray
// has left the element (see SphereRayIntersection).

// Surface is an oriented rectangle in world space. Origin is the corner at
// (u, v) = (0, 0); XAxis and YAxis span the rectangle (lengths = extents).
type Surface struct {
	Origin Vec3
	XAxis  Vec3
	YAxis  Vec3
	Center Vec3
}

// Normal returns the unit normal of the surface.
func (s Surface) Normal() Vec3 {
	return s.XAxis.Cross(s.YAxis).Normalized()
}

// UV projects a world point onto the surface and returns its normalized
// coordinates: (0,0) at Origin, (1,1) at the opposite corner. Points outside
// the rectangle yield coordinates outside [0,1].
func (s Surface) UV(p Vec3) (float64, float64) {
	d := p.Sub(s.Origin)
	lx := s.XAxis.Length()
	ly := s.YAxis.Length()
	var u, v float64
	if lx > 1e-12 {
		u = d.Dot(s.XAxis) / (lx * lx)
	}
	if ly > 1e-12 {
		v = d.Dot(s.YAxis) / (ly * ly)
	}
	return u, v
}

// BoundingSurface projects the mesh vertices (transformed by world) onto the
// plane orthogonal to normal and returns the smallest enclosing rectangle
// whose YAxis aligns with up. Placed through the projected centroid so the
// surface fully occludes the mesh from straight-on view.
func BoundingSurface(mesh *Mesh, world Transform, normal, up Vec3) Surface {
	n := normal.Normalized()
	// Build in-plane axes: y = up minus its normal component, x = y × n.
	y := up.Sub(n.Scale(up.Dot(n))).Normalized()
	if y.Length() < 1e-12 {
		// up parallel to normal: pick an arbitrary in-plane axis.
		y = Vec3{0, 0, 1}.Sub(n.Scale(n.Z)).Normalized()
		if y.Length() < 1e-12 {
			y = Vec3{0, 1, 0}
		}
	}
	x := y.Cross(n).Normalized()

	if mesh == nil || len(mesh.Vertices) == 0 {
		center := world.Position
		return Surface{Origin: center, XAxis: x.Scale(0), YAxis: y.Scale(0), Center: center}
	}

	minU, minV := math.Inf(1), math.Inf(1)
	maxU, maxV := math.Inf(-1), math.Inf(-1)
	var centroid Vec3
	for _, v := range mesh.Vertices {
		w := world.Apply(v)
		centroid = centroid.Add(w)
		u := w.Dot(x)
		vv := w.Dot(y)
		minU = math.Min(minU, u)
		maxU = math.Max(maxU, u)
		minV = math.Min(minV, vv)
		maxV = math.Max(maxV, vv)
	}
	centroid = centroid.Scale(1 / float64(len(mesh.Vertices)))
	// Project the centroid onto the plane offset so the rectangle sits on the
	// mesh's depth along the normal.
	depth := centroid.Dot(n)

	origin := x.Scale(minU).Add(y.Scale(minV)).Add(n.Scale(depth))
	xAxis := x.Scale(maxU - minU)
	yAxis := y.Scale(maxV - minV)
	center := origin.Add(xAxis.Scale(0.5)).Add(yAxis.Scale(0.5))
	return Surface{Origin: origin, XAxis: xAxis, YAxis: yAxis, Center: center}
}

// ClosestPointOnRay returns the point on the ray closest to p. The result is
// clamped to the ray origin for points behind it.
func ClosestPointOnRay(r Ray, p Vec3) Vec3 {
	t := p.Sub(r.Origin).Dot(r.Direction)
	if t < 0 {
		t = 0
	}
	return r.At(t)
}

// SphereRayIntersection returns a point on the sphere for any ray. If the ray
// intersects the sphere, the near intersection is returned. Otherwise the
// closest-approach direction is reflected across the center-to-origin
// direction and the mirrored point on the far side is returned, so a dragging
// pointer that slides off the sphere still maps to a well-defined contact
// point.
func SphereRayIntersection(center Vec3, radius float64, r Ray) Vec3 {
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Direction)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc >= 0 {
		sq := math.Sqrt(disc)
		t := -b - sq
		if t < 0 {
			t = -b + sq
		}
		if t >= 0 {
			return r.At(t)
		}
	}
	// Miss: mirror the closest-approach direction across the direction from
	// the center to the ray origin.
	closest := ClosestPointOnRay(r, center)
	d := closest.Sub(center).Normalized()
	if d.Length() < 1e-12 {
		d = oc.Normalized()
		if d.Length() < 1e-12 {
			d = Vec3{0, 1, 0}
		}
	}
	axis := oc.Normalized()
	if axis.Length() < 1e-12 {
		return center.Add(d.Scale(radius))
	}
	mirrored := axis.Scale(2 * d.Dot(axis)).Sub(d)
	return center.Add(mirrored.Scale(-radius))
}

// ProjectOntoAxis returns the normalized position in [0,1] along the segment
// from to to of the point on the axis line closest to the ray. Rays pointing
// away from or beyond the segment clamp to 0 or 1.
func ProjectOntoAxis(r Ray, from, to Vec3) float64 {
	axis := to.Sub(from)
	axisLen := axis.Length()
	if axisLen < 1e-12 {
		return 0
	}
	axisDir := axis.Scale(1 / axisLen)

	// Closest points between the ray line and the axis line.
	w0 := from.Sub(r.Origin)
	b := r.Direction.Dot(axisDir)
	d := r.Direction.Dot(w0)
	e := axisDir.Dot(w0)
	denom := 1 - b*b
	var s float64
	if math.Abs(denom) < 1e-12 {
		// Parallel lines: project the ray origin onto the axis.
		s = -e
	} else {
		s = (d*b - e) / denom
	}
	t := s / axisLen
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// OrientedBoxFromMesh returns the mesh's local bounding box lifted into world
// space: center plus the three half-extent axes.
func OrientedBoxFromMesh(mesh *Mesh, world Transform) (center Vec3, axes [3]Vec3) {
	min, max := mesh.Bounds()
	localCenter := min.Add(max).Scale(0.5)
	half := max.Sub(min).Scale(0.5)
	center = world.Apply(localCenter)
	axes[0] = world.ApplyDirection(Vec3{1, 0, 0}).Scale(half.X * world.Scale.X)
	axes[1] = world.ApplyDirection(Vec3{0, 1, 0}).Scale(half.Y * world.Scale.Y)
	axes[2] = world.ApplyDirection(Vec3{0, 0, 1}).Scale(half.Z * world.Scale.Z)
	return center, axes
}

// rayBoxIntersect performs a slab test of a local-space ray against the box
// (min, max). Returns the entry distance and whether the ray hits.
func rayBoxIntersect(r Ray, min, max Vec3) (float64, bool) {
	tMin := math.Inf(-1)
	tMax := math.Inf(1)
	origins := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dirs := [3]float64{r.Direction.X, r.Direction.Y, r.Direction.Z}
	mins := [3]float64{min.X, min.Y, min.Z}
	maxs := [3]float64{max.X, max.Y, max.Z}
	for i := 0; i < 3; i++ {
		if math.Abs(dirs[i]) < 1e-12 {
			if origins[i] < mins[i] || origins[i] > maxs[i] {
				return 0, false
			}
			continue
		}
		t1 := (mins[i] - origins[i]) / dirs[i]
		t2 := (maxs[i] - origins[i]) / dirs[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	if tMax < 0 {
		return 0, false
	}
	if tMin < 0 {
		return tMax, true
	}
	return tMin, true
}
