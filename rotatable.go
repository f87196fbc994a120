package rowan

import (
	"math"
	"time"
)

// fallbackSphereRadius is used when neither a collider hit nor mesh bounds
// can size the interaction sphere.
const fallbackSphereRadius = 0.1

// Rotatable accumulates a signed rotation angle around a configured axis,
// mapping it to a value in [0,1] across [MinRotation, MaxRotation] degrees.
// Drag tracking projects pointer rays onto an interaction sphere built at
// drag start, preferring the actual collider hit over mesh bounds over a
// fixed fallback radius.
type Rotatable struct {
	elementBase
	spec  *InteractionSpec
	scene *Scene
	value float64
	angle float64 // degrees, within [MinRotation, MaxRotation]

	baseRotation Quat

	dragging bool
	radius   float64
	lastDir  Vec3
}

func newRotatable(spec *InteractionSpec, node *Node, scene *Scene) (*Rotatable, error) {
	if spec.MaxRotation == spec.MinRotation {
		return nil, configErrorf("", "rotatable %q: MinRotation and MaxRotation are equal", spec.Name)
	}
	r := &Rotatable{
		elementBase:  newElementBase(spec.Name, node),
		spec:         spec,
		scene:        scene,
		baseRotation: node.Rotation,
		angle:        spec.MinRotation,
	}
	if err := applyInitialAttributes(r, spec); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Rotatable) Kind() InteractionKind { return KindRotatable }

func (r *Rotatable) Value() any { return r.value }

// FloatValue returns the normalized rotation.
func (r *Rotatable) FloatValue() float64 { return r.value }

// Angle returns the current rotation in degrees.
func (r *Rotatable) Angle() float64 { return r.angle }

func (r *Rotatable) SetAttribute(attr Attribute, raw string) error {
	if handled, err := r.setCommonAttribute(attr, raw); handled {
		return err
	}
	if attr == AttrValue {
		v, ok := parseFloatValue(raw)
		if !ok {
			return configErrorf("", "rotatable %q: VALUE wants a number, got %q", r.name, raw)
		}
		r.SetValue(v)
		return nil
	}
	return configErrorf("", "rotatable %q has no attribute %q", r.name, attr)
}

// SetValue launches a smooth interpolation toward the resolution-quantized
// target, interrupting any prior interpolation or active drag.
func (r *Rotatable) SetValue(v float64) {
	target := quantize(clamp01(v), r.spec.PositionResolution)
	r.dragging = false
	r.tween = newValueTween(r.value, target, r.transitionTime(), r.applyValue)
}

func (r *Rotatable) transitionTime() time.Duration {
	if r.spec.TransitionTimeInMs > 0 {
		return time.Duration(r.spec.TransitionTimeInMs) * time.Millisecond
	}
	return defaultTransitionTime
}

func (r *Rotatable) span() float64 {
	return r.spec.MaxRotation - r.spec.MinRotation
}

// applyValue rotates the represented node to the angle for value v.
func (r *Rotatable) applyValue(v float64) {
	r.value = clamp01(v)
	r.angle = r.spec.MinRotation + r.value*r.span()
	r.applyRotation()
}

func (r *Rotatable) applyRotation() {
	axis := r.spec.RotationAxis.Direction.Normalized()
	rad := r.angle * math.Pi / 180
	r.node.SetRotation(QuatAxisAngle(axis, rad).Mul(r.baseRotation))
}

// sphereCenter returns the interaction sphere center in world space.
func (r *Rotatable) sphereCenter() Vec3 {
	if r.node.Parent != nil {
		return r.node.Parent.World().Apply(r.spec.RotationAxis.Origin)
	}
	return r.spec.RotationAxis.Origin
}

// worldAxis returns the rotation axis direction in world space.
func (r *Rotatable) worldAxis() Vec3 {
	dir := r.spec.RotationAxis.Direction
	if r.node.Parent != nil {
		dir = r.node.Parent.World().ApplyDirection(dir)
	}
	return dir.Normalized()
}

// projectOntoPlane returns the unit direction from the sphere center to the
// ray's sphere contact point, flattened onto the rotation plane.
func (r *Rotatable) projectOntoPlane(ray Ray) (Vec3, bool) {
	center := r.sphereCenter()
	axis := r.worldAxis()
	p := SphereRayIntersection(center, r.radius, ray)
	d := p.Sub(center)
	flat := d.Sub(axis.Scale(d.Dot(axis)))
	if flat.Length() < 1e-9 {
		return Vec3{}, false
	}
	return flat.Normalized(), true
}

func (r *Rotatable) HandleStart(p Pose) {
	if r.fixed {
		return
	}
	r.cancelTween()

	// Size the interaction sphere: collider hit, then mesh bounds, then a
	// fixed fallback.
	center := r.sphereCenter()
	r.radius = fallbackSphereRadius
	if r.scene != nil {
		if hit, ok := r.scene.RaycastNode(r.node, p.Ray()); ok {
			r.radius = hit.Point.Sub(center).Length()
		} else if r.node.Mesh != nil {
			r.radius = r.node.Mesh.Radius() * averageScale(r.node.World().Scale)
		}
	} else if r.node.Mesh != nil {
		r.radius = r.node.Mesh.Radius() * averageScale(r.node.World().Scale)
	}
	if r.radius < 1e-9 {
		r.radius = fallbackSphereRadius
	}

	if dir, ok := r.projectOntoPlane(p.Ray()); ok {
		r.lastDir = dir
		r.dragging = true
	}
}

func (r *Rotatable) HandleContinue(p Pose) {
	if r.fixed || !r.dragging {
		return
	}
	dir, ok := r.projectOntoPlane(p.Ray())
	if !ok {
		return
	}
	axis := r.worldAxis()
	delta := math.Atan2(r.lastDir.Cross(dir).Dot(axis), r.lastDir.Dot(dir)) * 180 / math.Pi
	r.lastDir = dir
	if delta == 0 {
		return
	}

	angle := r.angle + delta
	if r.spec.AllowsForInfiniteRotation {
		// Re-wrap into [MinRotation, MaxRotation) after each update.
		angle = r.spec.MinRotation + math.Mod(angle-r.spec.MinRotation, r.span())
		if angle < r.spec.MinRotation {
			angle += r.span()
		}
	} else {
		angle = math.Max(r.spec.MinRotation, math.Min(r.spec.MaxRotation, angle))
	}
	if angle == r.angle {
		return
	}
	r.angle = angle
	r.value = clamp01((r.angle - r.spec.MinRotation) / r.span())
	r.applyRotation()
	r.raise(EventDrag, Params{"value": r.value})
}

func (r *Rotatable) HandleEnd(p Pose) {
	if !r.dragging {
		return
	}
	r.dragging = false
	r.applyValue(quantize(r.value, r.spec.PositionResolution))
	r.raise(EventDragEnd, Params{"value": r.value})
}

func (r *Rotatable) Update(dt float32) {
	r.updateTween(dt)
}

func (r *Rotatable) Teardown() {
	r.dragging = false
	r.teardownBase()
}

func averageScale(s Vec3) float64 {
	return (s.X + s.Y + s.Z) / 3
}
