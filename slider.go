package rowan

import "time"

// defaultTransitionTime is used for programmatic value transitions when a
// spec omits TransitionTimeInMs.
const defaultTransitionTime = 1000 * time.Millisecond

// Slider maps pointer poses onto the axis between MinPosition and
// MaxPosition, yielding a value in [0,1]. MinPosition and MaxPosition are
// expressed in the represented node's parent space, so applying a value is a
// plain local-position lerp.
type Slider struct {
	elementBase
	spec  *InteractionSpec
	value float64

	dragging   bool
	dragOffset float64
}

func newSlider(spec *InteractionSpec, node *Node) (*Slider, error) {
	s := &Slider{elementBase: newElementBase(spec.Name, node), spec: spec}
	s.applyValue(0)
	if err := applyInitialAttributes(s, spec); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Slider) Kind() InteractionKind { return KindSlider }

func (s *Slider) Value() any { return s.value }

// FloatValue returns the slider's normalized position.
func (s *Slider) FloatValue() float64 { return s.value }

func (s *Slider) SetAttribute(attr Attribute, raw string) error {
	if handled, err := s.setCommonAttribute(attr, raw); handled {
		return err
	}
	if attr == AttrValue {
		v, ok := parseFloatValue(raw)
		if !ok {
			return configErrorf("", "slider %q: VALUE wants a number, got %q", s.name, raw)
		}
		s.SetValue(v)
		return nil
	}
	return configErrorf("", "slider %q has no attribute %q", s.name, attr)
}

// SetValue launches a smooth interpolation toward the resolution-quantized
// target, interrupting any prior interpolation or active drag.
func (s *Slider) SetValue(v float64) {
	target := quantize(clamp01(v), s.spec.PositionResolution)
	s.dragging = false
	s.tween = newValueTween(s.value, target, s.transitionTime(), s.applyValue)
}

func (s *Slider) transitionTime() time.Duration {
	if s.spec.TransitionTimeInMs > 0 {
		return time.Duration(s.spec.TransitionTimeInMs) * time.Millisecond
	}
	return defaultTransitionTime
}

// applyValue moves the represented node to the lerped axis position.
func (s *Slider) applyValue(v float64) {
	s.value = clamp01(v)
	s.node.SetPosition(s.spec.MinPosition.Lerp(s.spec.MaxPosition, s.value))
}

// axisEndpoints returns the slider axis in world space.
func (s *Slider) axisEndpoints() (Vec3, Vec3) {
	if s.node.Parent == nil {
		return s.spec.MinPosition, s.spec.MaxPosition
	}
	parent := s.node.Parent.World()
	return parent.Apply(s.spec.MinPosition), parent.Apply(s.spec.MaxPosition)
}

func (s *Slider) HandleStart(p Pose) {
	if s.fixed {
		return
	}
	s.cancelTween()
	from, to := s.axisEndpoints()
	s.dragOffset = ProjectOntoAxis(p.Ray(), from, to) - s.value
	s.dragging = true
}

func (s *Slider) HandleContinue(p Pose) {
	if s.fixed || !s.dragging {
		return
	}
	from, to := s.axisEndpoints()
	v := clamp01(ProjectOntoAxis(p.Ray(), from, to) - s.dragOffset)
	v = quantize(v, s.spec.PositionResolution)
	if v == s.value {
		return
	}
	s.applyValue(v)
	s.raise(EventDrag, Params{"value": s.value})
}

func (s *Slider) HandleEnd(p Pose) {
	if !s.dragging {
		return
	}
	s.dragging = false
	s.applyValue(quantize(s.value, s.spec.PositionResolution))
	s.raise(EventDragEnd, Params{"value": s.value})
}

func (s *Slider) Update(dt float32) {
	s.updateTween(dt)
}

func (s *Slider) Teardown() {
	s.dragging = false
	s.teardownBase()
}
