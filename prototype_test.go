package rowan

import (
	"errors"
	"testing"
	"testing/fstest"
	"time"
)

// A complete in-memory toaster: lever slider, cancel button, indicator
// light, and a timeout back to idle.

const toasterScene = `{
	"groupName": "Toaster",
	"objects": [
		{
			"name": "Lever",
			"transform": {"position": [1.2, 0.8, 0], "rotation": [0, 0, 0], "scale": [1, 1, 1]},
			"mesh": {
				"vertices": [[-0.15, -0.1, 0], [0.15, -0.1, 0], [0.15, 0.1, 0], [-0.15, 0.1, 0]],
				"triangles": [0, 1, 2, 0, 2, 3]
			}
		},
		{
			"name": "CancelButton",
			"transform": {"position": [-0.5, 1.15, 0], "rotation": [0, 0, 0], "scale": [1, 1, 1]},
			"mesh": {
				"vertices": [[-0.12, -0.12, 0], [0.12, -0.12, 0], [0.12, 0.12, 0], [-0.12, 0.12, 0]],
				"triangles": [0, 1, 2, 0, 2, 3]
			}
		},
		{
			"name": "IndicatorLight",
			"transform": {"position": [0.5, 1.15, 0], "rotation": [0, 0, 0], "scale": [1, 1, 1]},
			"mesh": {
				"vertices": [[-0.1, -0.1, 0], [0.1, -0.1, 0], [0.1, 0.1, 0], [-0.1, 0.1, 0]],
				"triangles": [0, 1, 2, 0, 2, 3]
			}
		}
	]
}`

const toasterInteractions = `{"Elements": [
	{"Name": "Lever", "Type": "Slider",
	 "MinPosition": {"x": 1.2, "y": 0.8, "z": 0},
	 "MaxPosition": {"x": 1.2, "y": 0.2, "z": 0},
	 "TransitionTimeInMs": 400},
	{"Name": "CancelButton", "Type": "Button"}
]}`

const toasterVisualizations = `{"Elements": [
	{"Name": "IndicatorLight", "Type": "Light", "EmissionColor": {"r": 1, "g": 0.45, "b": 0.1, "a": 1}}
]}`

const toasterStates = `{"States": [
	{"Name": "Idle", "Conditions": [
		{"Type": "FloatValueVisualization", "VisualizationElement": "IndicatorLight", "Value": 0},
		{"Type": "InteractionElementCondition", "InteractionElement": "Lever", "Attribute": "VALUE", "Value": 0}
	]},
	{"Name": "Toasting", "Conditions": [
		{"Type": "FloatValueVisualization", "VisualizationElement": "IndicatorLight", "Value": 1}
	]}
]}`

const toasterTransitions = `{"Transitions": [
	{"SourceState": "Idle", "DestinationState": "Toasting", "InteractionElement": "Lever", "Event": "DRAG_END",
	 "Guards": [{"Type": "EventParameterGuard", "EventParameter": "value", "Operator": "LARGER_EQUALS", "CompareValue": 0.95}]},
	{"SourceState": "Toasting", "DestinationState": "Idle", "InteractionElement": "CancelButton", "Event": "BUTTON_PRESS"},
	{"SourceState": "Toasting", "DestinationState": "Idle", "Timeout": 5000}
]}`

func toasterBundle() *Bundle {
	return NewBundleFS(fstest.MapFS{
		"prototype.yaml":             {Data: []byte("name: Toaster\n")},
		"Scene.json":                 {Data: []byte(toasterScene)},
		"InteractionElements.json":   {Data: []byte(toasterInteractions)},
		"VisualizationElements.json": {Data: []byte(toasterVisualizations)},
		"States.json":                {Data: []byte(toasterStates)},
		"Transitions.json":           {Data: []byte(toasterTransitions)},
	})
}

func loadToaster(t *testing.T) (*Prototype, *MockClock) {
	t.Helper()
	clock := NewMockClock(time.Unix(0, 0))
	p, err := LoadPrototypeBundle(toasterBundle(), clock)
	if err != nil {
		t.Fatalf("LoadPrototypeBundle: %v", err)
	}
	if err := p.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return p, clock
}

// leverPose aims straight at the lever track from the front.
func leverPose(y float64) Pose {
	return Pose{Position: Vec3{1.2, y, -5}, Forward: Vec3{0, 0, 1}, Up: Vec3{0, 1, 0}}
}

// pushLever drags the lever from its rest position all the way down.
func pushLever(t *testing.T, p *Prototype) {
	t.Helper()
	if err := p.InteractionStart(1, leverPose(0.8)); err != nil {
		t.Fatalf("InteractionStart: %v", err)
	}
	if err := p.InteractionContinue(1, leverPose(0.2)); err != nil {
		t.Fatalf("InteractionContinue: %v", err)
	}
	if err := p.InteractionEnd(1, leverPose(0.2)); err != nil {
		t.Fatalf("InteractionEnd: %v", err)
	}
}

func TestToasterLoads(t *testing.T) {
	p, _ := loadToaster(t)
	defer p.Unload()

	if p.Manifest().Name != "Toaster" {
		t.Errorf("manifest name = %q", p.Manifest().Name)
	}
	if got := p.Current(); got != "Idle" {
		t.Fatalf("initial state = %q", got)
	}
	light := p.Scene().FindNode("IndicatorLight")
	if light == nil {
		t.Fatal("scene missing IndicatorLight")
	}
	if light.LightOn {
		t.Error("Idle entry should leave the indicator off")
	}
}

func TestToasterFullCycle(t *testing.T) {
	p, _ := loadToaster(t)
	defer p.Unload()
	light := p.Scene().FindNode("IndicatorLight")
	lever := p.Binder().Interaction("Lever")

	pushLever(t, p)
	if got := p.Current(); got != "Toasting" {
		t.Fatalf("after lever push: %q", got)
	}
	if !light.LightOn || light.EmissionAlpha != 1 {
		t.Error("Toasting entry should light the indicator")
	}

	// Cancel: the indicator goes dark and the lever pops back up.
	if err := p.InteractionStart(2, leverPose(0)); err != nil {
		t.Fatalf("InteractionStart: %v", err)
	}
	p.InteractionEnd(2, leverPose(0))
	// That ray missed everything; press the actual cancel button.
	press := Pose{Position: Vec3{-0.5, 1.15, -5}, Forward: Vec3{0, 0, 1}, Up: Vec3{0, 1, 0}}
	if err := p.InteractionStart(3, press); err != nil {
		t.Fatalf("InteractionStart: %v", err)
	}
	p.InteractionEnd(3, press)

	if got := p.Current(); got != "Idle" {
		t.Fatalf("after cancel: %q", got)
	}
	if light.LightOn {
		t.Error("Idle entry should darken the indicator")
	}

	// The Idle entry condition resets the lever over its transition time.
	for i := 0; i < 60; i++ {
		p.Update(1.0 / 60)
	}
	v, ok := valueAsFloat(lever.Value())
	if !ok || v > epsilon {
		t.Errorf("lever value = %v, want 0 after pop-back", lever.Value())
	}
	if p.Err() != nil {
		t.Errorf("runtime error: %v", p.Err())
	}
}

func TestToasterTimeout(t *testing.T) {
	p, clock := loadToaster(t)
	defer p.Unload()

	pushLever(t, p)
	if got := p.Current(); got != "Toasting" {
		t.Fatalf("setup: %q", got)
	}

	clock.Advance(4999 * time.Millisecond)
	p.Update(0)
	if got := p.Current(); got != "Toasting" {
		t.Fatalf("timer fired early: %q", got)
	}
	clock.Advance(2 * time.Millisecond)
	p.Update(0)
	if got := p.Current(); got != "Idle" {
		t.Errorf("timeout should pop back to Idle: %q", got)
	}
}

func TestToasterHalfPushStaysIdle(t *testing.T) {
	p, _ := loadToaster(t)
	defer p.Unload()

	p.InteractionStart(1, leverPose(0.8))
	p.InteractionContinue(1, leverPose(0.55))
	p.InteractionEnd(1, leverPose(0.55))
	if got := p.Current(); got != "Idle" {
		t.Errorf("half push must not start toasting: %q", got)
	}
}

func TestToasterPointerContract(t *testing.T) {
	p, _ := loadToaster(t)
	defer p.Unload()

	p.InteractionStart(1, leverPose(0.8))
	var usage *InteractionUsageError
	if err := p.InteractionStart(1, leverPose(0.8)); !errors.As(err, &usage) {
		t.Errorf("duplicate pointer error = %v", err)
	}
	if err := p.InteractionContinue(9, leverPose(0.8)); !errors.As(err, &usage) {
		t.Errorf("stale pointer error = %v", err)
	}
}

func TestToasterReload(t *testing.T) {
	p, _ := loadToaster(t)
	defer p.Unload()

	pushLever(t, p)
	if got := p.Current(); got != "Toasting" {
		t.Fatalf("setup: %q", got)
	}
	if err := p.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if got := p.Current(); got != "Idle" {
		t.Errorf("reload should restart in the initial state: %q", got)
	}
	// The rebuilt runtime is fully interactive.
	pushLever(t, p)
	if got := p.Current(); got != "Toasting" {
		t.Errorf("after reload interaction: %q", got)
	}
}

func TestToasterUnloadRestoresScene(t *testing.T) {
	p, _ := loadToaster(t)
	light := p.Scene().FindNode("IndicatorLight")

	pushLever(t, p)
	if !light.LightOn {
		t.Fatal("setup: indicator should be lit")
	}
	if err := p.Unload(); err != nil {
		t.Fatalf("Unload: %v", err)
	}
	if light.LightOn || light.EmissionAlpha != 0 {
		t.Error("unload should restore the scene node")
	}
	if p.Machine().Running() {
		t.Error("unloaded prototype still running")
	}
}
