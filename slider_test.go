package rowan

import "testing"

func sliderSpec() *InteractionSpec {
	return &InteractionSpec{
		Name:        "Fader",
		Kind:        KindSlider,
		MinPosition: Vec3{0, 0, 0},
		MaxPosition: Vec3{10, 0, 0},
	}
}

// rayAtX points straight down at the slider axis (which runs along x).
func rayAtX(x float64) Pose {
	return Pose{Position: Vec3{x, 5, 0}, Forward: Vec3{0, -1, 0}, Up: Vec3{0, 0, 1}}
}

func newTestSlider(t *testing.T, spec *InteractionSpec) (*Slider, *Node) {
	t.Helper()
	node := NewNode(spec.Name)
	s, err := newSlider(spec, node)
	if err != nil {
		t.Fatalf("newSlider: %v", err)
	}
	return s, node
}

func TestSliderStartsAtMin(t *testing.T) {
	s, node := newTestSlider(t, sliderSpec())
	assertNear(t, "initial value", s.FloatValue(), 0)
	assertVec(t, "initial position", node.Position, Vec3{0, 0, 0})
}

func TestSliderDrag(t *testing.T) {
	s, node := newTestSlider(t, sliderSpec())
	rec := wireRecorder(t, s)

	s.HandleStart(rayAtX(0))
	s.HandleContinue(rayAtX(5))
	assertNear(t, "dragged value", s.FloatValue(), 0.5)
	assertVec(t, "dragged position", node.Position, Vec3{5, 0, 0})
	s.HandleEnd(rayAtX(5))
	assertEventTypes(t, rec.types(), EventDrag, EventDragEnd)
	assertNear(t, "DRAG value param", rec.events[0].Params["value"], 0.5)
}

func TestSliderDragPreservesGrabOffset(t *testing.T) {
	s, _ := newTestSlider(t, sliderSpec())
	s.SetValue(0.5)
	s.Update(10) // finish the tween

	// Grab at x=6 while the handle sits at value 0.5; moving the pointer to
	// x=7 moves the value by +0.1, not to 0.7.
	s.HandleStart(rayAtX(6))
	s.HandleContinue(rayAtX(7))
	assertNear(t, "offset drag", s.FloatValue(), 0.6)
}

func TestSliderClampsToRange(t *testing.T) {
	s, _ := newTestSlider(t, sliderSpec())
	s.HandleStart(rayAtX(0))
	s.HandleContinue(rayAtX(25))
	assertNear(t, "clamped high", s.FloatValue(), 1)
	s.HandleContinue(rayAtX(-25))
	assertNear(t, "clamped low", s.FloatValue(), 0)
}

func TestSliderQuantizesToResolution(t *testing.T) {
	spec := sliderSpec()
	spec.PositionResolution = 3 // values {0, 0.5, 1}
	s, _ := newTestSlider(t, spec)
	s.HandleStart(rayAtX(0))
	s.HandleContinue(rayAtX(6))
	assertNear(t, "quantized", s.FloatValue(), 0.5)
}

func TestSliderDragEmitsOnlyOnChange(t *testing.T) {
	s, _ := newTestSlider(t, sliderSpec())
	rec := wireRecorder(t, s)
	s.HandleStart(rayAtX(0))
	s.HandleContinue(rayAtX(5))
	s.HandleContinue(rayAtX(5))
	s.HandleContinue(rayAtX(5))
	assertEventTypes(t, rec.types(), EventDrag)
}

func TestSliderSetValueAnimates(t *testing.T) {
	spec := sliderSpec()
	spec.TransitionTimeInMs = 1000
	s, node := newTestSlider(t, spec)

	s.SetValue(1)
	assertNear(t, "not yet moved", s.FloatValue(), 0)
	s.Update(0.5)
	if v := s.FloatValue(); v <= 0 || v >= 1 {
		t.Errorf("mid-transition value = %v, want in (0, 1)", v)
	}
	s.Update(0.6)
	assertNear(t, "settled", s.FloatValue(), 1)
	assertVec(t, "settled position", node.Position, Vec3{10, 0, 0})
}

func TestSliderSetValueIdempotent(t *testing.T) {
	s, _ := newTestSlider(t, sliderSpec())
	s.SetValue(0.7)
	s.Update(10)
	first := s.FloatValue()
	s.SetValue(0.7)
	s.Update(10)
	assertNear(t, "repeated set", s.FloatValue(), first)
}

func TestSliderFixedIgnoresDrag(t *testing.T) {
	s, _ := newTestSlider(t, sliderSpec())
	rec := wireRecorder(t, s)
	if err := s.SetAttribute(AttrFixed, "true"); err != nil {
		t.Fatalf("SetAttribute: %v", err)
	}
	s.HandleStart(rayAtX(0))
	s.HandleContinue(rayAtX(8))
	assertNear(t, "fixed value", s.FloatValue(), 0)
	if len(rec.events) != 0 {
		t.Errorf("fixed slider raised %v", rec.types())
	}
}

func TestSliderDragInterruptsTween(t *testing.T) {
	spec := sliderSpec()
	spec.TransitionTimeInMs = 1000
	s, _ := newTestSlider(t, spec)
	s.SetValue(1)
	s.Update(0.2)
	mid := s.FloatValue()

	s.HandleStart(rayAtX(mid * 10))
	s.Update(1) // the canceled tween must not keep pulling
	assertNear(t, "tween canceled", s.FloatValue(), mid)
}

func TestSliderParentSpaceAxis(t *testing.T) {
	parent := NewNode("panel")
	parent.SetPosition(Vec3{100, 0, 0})
	node := NewNode("Fader")
	parent.AddChild(node)
	s, err := newSlider(sliderSpec(), node)
	if err != nil {
		t.Fatalf("newSlider: %v", err)
	}
	// The axis endpoints are declared in parent space, so the world-space
	// pointer must aim near x=105 for the midpoint.
	s.HandleStart(rayAtX(100))
	s.HandleContinue(rayAtX(105))
	assertNear(t, "parent-space drag", s.FloatValue(), 0.5)
	assertVec(t, "local position", node.Position, Vec3{5, 0, 0})
}
