package rowan

// Mesh holds local-space triangle geometry for a scene node.
// Triangles index into Vertices.
type Mesh struct {
	Vertices  []Vec3
	Triangles []int
}

// Bounds returns the local-space axis-aligned bounding box as (min, max).
// An empty mesh yields a degenerate box at the origin.
func (m *Mesh) Bounds() (Vec3, Vec3) {
	if m == nil || len(m.Vertices) == 0 {
		return Vec3{}, Vec3{}
	}
	min, max := m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		if v.X < min.X {
			min.X = v.X
		}
		if v.Y < min.Y {
			min.Y = v.Y
		}
		if v.Z < min.Z {
			min.Z = v.Z
		}
		if v.X > max.X {
			max.X = v.X
		}
		if v.Y > max.Y {
			max.Y = v.Y
		}
		if v.Z > max.Z {
			max.Z = v.Z
		}
	}
	return min, max
}

// Center returns the center of the local bounding box.
func (m *Mesh) Center() Vec3 {
	min, max := m.Bounds()
	return min.Add(max).Scale(0.5)
}

// Radius returns half the bounding box diagonal: a conservative
// bounding-sphere radius around Center.
func (m *Mesh) Radius() float64 {
	min, max := m.Bounds()
	return max.Sub(min).Length() / 2
}
