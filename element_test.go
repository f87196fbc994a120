package rowan

import (
	"testing"
	"time"
)

// eventRecorder collects raised element events for assertions.
type eventRecorder struct {
	events []ElementEvent
}

func (r *eventRecorder) sink() func(ElementEvent) {
	return func(ev ElementEvent) { r.events = append(r.events, ev) }
}

func (r *eventRecorder) types() []EventType {
	out := make([]EventType, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

func (r *eventRecorder) last() ElementEvent {
	return r.events[len(r.events)-1]
}

func (r *eventRecorder) reset() {
	r.events = nil
}

func assertEventTypes(t *testing.T, got []EventType, want ...EventType) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}
}

// emitter is implemented by every concrete element via elementBase.
type emitter interface {
	SetEmitter(func(ElementEvent))
}

func wireRecorder(t *testing.T, el InteractionElement) *eventRecorder {
	t.Helper()
	rec := &eventRecorder{}
	e, ok := el.(emitter)
	if !ok {
		t.Fatalf("%T does not expose SetEmitter", el)
	}
	e.SetEmitter(rec.sink())
	return rec
}

func TestElementBaseAttachNode(t *testing.T) {
	node := NewNode("Knob")
	b, err := newButton(&InteractionSpec{Name: "Knob", Kind: KindButton}, node)
	if err != nil {
		t.Fatalf("newButton: %v", err)
	}
	if node.NumChildren() != 1 {
		t.Fatalf("bind should attach one behavior child, got %d", node.NumChildren())
	}
	attach := node.Children()[0]
	if attach.Name != "Knob"+attachSuffix {
		t.Errorf("attach name = %q", attach.Name)
	}
	b.Teardown()
	if node.NumChildren() != 0 {
		t.Error("teardown should dispose the behavior child")
	}
}

func TestTeardownRestoresNode(t *testing.T) {
	node := NewNode("Knob")
	node.SetPosition(Vec3{1, 2, 3})
	b, err := newButton(&InteractionSpec{Name: "Knob", Kind: KindButton}, node)
	if err != nil {
		t.Fatalf("newButton: %v", err)
	}
	if err := b.SetAttribute(AttrPosition, "(9, 9, 9)"); err != nil {
		t.Fatalf("SetAttribute: %v", err)
	}
	assertVec(t, "moved", node.Position, Vec3{9, 9, 9})
	b.Teardown()
	assertVec(t, "restored", node.Position, Vec3{1, 2, 3})
}

func TestCommonAttributes(t *testing.T) {
	node := NewNode("Knob")
	b, err := newButton(&InteractionSpec{Name: "Knob", Kind: KindButton}, node)
	if err != nil {
		t.Fatalf("newButton: %v", err)
	}

	if err := b.SetAttribute(AttrFixed, "true"); err != nil || !b.Fixed() {
		t.Errorf("FIXED true: err=%v fixed=%v", err, b.Fixed())
	}
	if err := b.SetAttribute(AttrFixed, "off"); err != nil || b.Fixed() {
		t.Errorf("FIXED off: err=%v fixed=%v", err, b.Fixed())
	}
	if err := b.SetAttribute(AttrFixed, "maybe"); err == nil {
		t.Error("FIXED maybe should fail")
	}

	if err := b.SetAttribute(AttrRotation, "(0, 0, 90)"); err != nil {
		t.Fatalf("ROTATION: %v", err)
	}
	assertVec(t, "rotated", node.Rotation.Rotate(Vec3{1, 0, 0}), Vec3{0, 1, 0})

	if err := b.SetAttribute(AttrPosition, "nope"); err == nil {
		t.Error("malformed POSITION should fail")
	}
}

func TestApplyInitialAttributes(t *testing.T) {
	node := NewNode("Knob")
	spec := &InteractionSpec{
		Name: "Knob",
		Kind: KindButton,
		InitialAttributeValues: []AttributeValue{
			{Attribute: AttrFixed, Value: "true"},
			{Attribute: AttrPosition, Value: "(1, 0, 0)"},
		},
	}
	b, err := newButton(spec, node)
	if err != nil {
		t.Fatalf("newButton: %v", err)
	}
	if !b.Fixed() {
		t.Error("initial FIXED should apply")
	}
	assertVec(t, "initial position", node.Position, Vec3{1, 0, 0})

	spec.InitialAttributeValues = []AttributeValue{{Attribute: AttrFixed, Value: "banana"}}
	if _, err := newButton(spec, NewNode("Other")); err == nil {
		t.Error("bad initial attribute should fail bind")
	}
}

func TestQuantize(t *testing.T) {
	// steps<=1 leaves values alone.
	assertNear(t, "no steps", quantize(0.37, 0), 0.37)
	assertNear(t, "one step", quantize(0.37, 1), 0.37)
	// 3 steps snap to {0, 0.5, 1}.
	assertNear(t, "down", quantize(0.2, 3), 0)
	assertNear(t, "mid", quantize(0.4, 3), 0.5)
	assertNear(t, "up", quantize(0.9, 3), 1)
}

func TestValueAsFloat(t *testing.T) {
	if v, ok := valueAsFloat(0.5); !ok || v != 0.5 {
		t.Errorf("float64: (%v, %v)", v, ok)
	}
	if v, ok := valueAsFloat(true); !ok || v != 1 {
		t.Errorf("bool: (%v, %v)", v, ok)
	}
	if _, ok := valueAsFloat("nope"); ok {
		t.Error("string should not coerce")
	}
	if _, ok := valueAsFloat(nil); ok {
		t.Error("nil should not coerce")
	}
}

func TestValueTweenImmediateAndIdempotent(t *testing.T) {
	var got []float64
	apply := func(v float64) { got = append(got, v) }

	vt := newValueTween(0, 1, 0, apply)
	if !vt.Done || len(got) != 1 || got[0] != 1 {
		t.Fatalf("zero duration: done=%v got=%v", vt.Done, got)
	}

	got = nil
	vt = newValueTween(0, 1, time.Second, apply)
	vt.Update(0.5)
	vt.Update(0.6)
	if !vt.Done {
		t.Fatal("tween should finish")
	}
	if got[len(got)-1] != 1 {
		t.Errorf("final value = %v, want exactly 1", got[len(got)-1])
	}
	// Updating a finished tween applies nothing further.
	n := len(got)
	vt.Update(1)
	if len(got) != n {
		t.Error("finished tween should be inert")
	}
}
