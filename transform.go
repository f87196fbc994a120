package rowan

import "math"

// --- Vec3 ---

// Vec3 is a 3D vector used for positions, directions, axes, and scales
// throughout the API. The JSON field names match the configuration file
// format.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Mul returns the component-wise product of v and o.
func (v Vec3) Mul(o Vec3) Vec3 {
	return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product of v and o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Length returns the Euclidean length of v.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalized returns v scaled to unit length.
// The zero vector is returned unchanged.
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l < 1e-12 {
		return v
	}
	return v.Scale(1 / l)
}

// Lerp returns the linear interpolation between v and o at t.
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return v.Add(o.Sub(v).Scale(t))
}

// Vec3One is the unit scale vector.
var Vec3One = Vec3{1, 1, 1}

// --- Quat ---

// Quat is a rotation quaternion (W scalar part).
type Quat struct {
	W, X, Y, Z float64
}

// QuatIdentity is the no-rotation quaternion.
var QuatIdentity = Quat{W: 1}

// QuatAxisAngle builds a quaternion rotating angle radians around axis.
// The axis does not need to be normalized.
func QuatAxisAngle(axis Vec3, angle float64) Quat {
	a := axis.Normalized()
	s, c := math.Sincos(angle / 2)
	return Quat{W: c, X: a.X * s, Y: a.Y * s, Z: a.Z * s}
}

// QuatLookRotation builds a rotation whose forward is forward and whose up
// stays as close to up as orthogonality allows. Degenerate inputs fall back
// to the identity rotation.
func QuatLookRotation(forward, up Vec3) Quat {
	f := forward.Normalized()
	if f.Length() < 1e-12 {
		return QuatIdentity
	}
	r := up.Cross(f).Normalized()
	if r.Length() < 1e-12 {
		// forward parallel to up: pick any perpendicular.
		r = Vec3{1, 0, 0}.Cross(f).Normalized()
		if r.Length() < 1e-12 {
			r = Vec3{0, 0, 1}
		}
	}
	u := f.Cross(r)
	// Rotation matrix with columns (r, u, f), converted to a quaternion.
	m00, m01, m02 := r.X, u.X, f.X
	m10, m11, m12 := r.Y, u.Y, f.Y
	m20, m21, m22 := r.Z, u.Z, f.Z
	trace := m00 + m11 + m22
	var q Quat
	switch {
	case trace > 0:
		s := math.Sqrt(trace+1) * 2
		q = Quat{W: s / 4, X: (m21 - m12) / s, Y: (m02 - m20) / s, Z: (m10 - m01) / s}
	case m00 > m11 && m00 > m22:
		s := math.Sqrt(1+m00-m11-m22) * 2
		q = Quat{W: (m21 - m12) / s, X: s / 4, Y: (m01 + m10) / s, Z: (m02 + m20) / s}
	case m11 > m22:
		s := math.Sqrt(1+m11-m00-m22) * 2
		q = Quat{W: (m02 - m20) / s, X: (m01 + m10) / s, Y: s / 4, Z: (m12 + m21) / s}
	default:
		s := math.Sqrt(1+m22-m00-m11) * 2
		q = Quat{W: (m10 - m01) / s, X: (m02 + m20) / s, Y: (m12 + m21) / s, Z: s / 4}
	}
	return q.Normalized()
}

// Mul returns the composed rotation: q applied after o in q's frame.
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
	}
}

// Inverse returns the inverse rotation. Assumes q is normalized.
func (q Quat) Inverse() Quat {
	return Quat{W: q.W, X: -q.X, Y: -q.Y, Z: -q.Z}
}

// Normalized returns q scaled to unit length.
func (q Quat) Normalized() Quat {
	l := math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
	if l < 1e-12 {
		return QuatIdentity
	}
	return Quat{W: q.W / l, X: q.X / l, Y: q.Y / l, Z: q.Z / l}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	s := q.W
	return u.Scale(2 * u.Dot(v)).
		Add(v.Scale(s*s - u.Dot(u))).
		Add(u.Cross(v).Scale(2 * s))
}

// Slerp returns the spherical interpolation from q to o at t.
func (q Quat) Slerp(o Quat, t float64) Quat {
	cosHalf := q.W*o.W + q.X*o.X + q.Y*o.Y + q.Z*o.Z
	if cosHalf < 0 {
		o = Quat{W: -o.W, X: -o.X, Y: -o.Y, Z: -o.Z}
		cosHalf = -cosHalf
	}
	if cosHalf > 0.9995 {
		// Nearly identical: lerp and renormalize.
		return Quat{
			W: q.W + (o.W-q.W)*t,
			X: q.X + (o.X-q.X)*t,
			Y: q.Y + (o.Y-q.Y)*t,
			Z: q.Z + (o.Z-q.Z)*t,
		}.Normalized()
	}
	halfTheta := math.Acos(cosHalf)
	sinHalf := math.Sin(halfTheta)
	wa := math.Sin((1-t)*halfTheta) / sinHalf
	wb := math.Sin(t*halfTheta) / sinHalf
	return Quat{
		W: q.W*wa + o.W*wb,
		X: q.X*wa + o.X*wb,
		Y: q.Y*wa + o.Y*wb,
		Z: q.Z*wa + o.Z*wb,
	}
}

// AngleTo returns the absolute angle in radians between q and o.
func (q Quat) AngleTo(o Quat) float64 {
	d := q.W*o.W + q.X*o.X + q.Y*o.Y + q.Z*o.Z
	d = math.Abs(d)
	if d > 1 {
		d = 1
	}
	return 2 * math.Acos(d)
}

// --- Transform ---

// Transform is a local TRS transform.
type Transform struct {
	Position Vec3
	Rotation Quat
	Scale    Vec3
}

// IdentityTransform is the no-op transform.
var IdentityTransform = Transform{Rotation: QuatIdentity, Scale: Vec3One}

// Compose returns parent * child: the child transform expressed in the
// parent's frame. Scale composes component-wise.
func Compose(parent, child Transform) Transform {
	return Transform{
		Position: parent.Position.Add(parent.Rotation.Rotate(child.Position.Mul(parent.Scale))),
		Rotation: parent.Rotation.Mul(child.Rotation),
		Scale:    parent.Scale.Mul(child.Scale),
	}
}

// Apply transforms a local-space point to the transform's outer space.
func (t Transform) Apply(p Vec3) Vec3 {
	return t.Position.Add(t.Rotation.Rotate(p.Mul(t.Scale)))
}

// ApplyDirection transforms a local-space direction (rotation only).
func (t Transform) ApplyDirection(d Vec3) Vec3 {
	return t.Rotation.Rotate(d)
}

// Invert transforms a world-space point into the transform's local space.
func (t Transform) Invert(p Vec3) Vec3 {
	local := t.Rotation.Inverse().Rotate(p.Sub(t.Position))
	sx, sy, sz := t.Scale.X, t.Scale.Y, t.Scale.Z
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	if sz == 0 {
		sz = 1
	}
	return Vec3{local.X / sx, local.Y / sy, local.Z / sz}
}

// InvertDirection transforms a world-space direction into local space.
func (t Transform) InvertDirection(d Vec3) Vec3 {
	return t.Rotation.Inverse().Rotate(d)
}
