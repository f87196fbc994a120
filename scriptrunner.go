package rowan

import (
	"encoding/json"
	"fmt"
)

// scriptStep represents a single action in an interaction script.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Z      float64 `json:"z,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	FromZ  float64 `json:"fromZ,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	ToZ    float64 `json:"toZ,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// interactionScript is the top-level JSON structure for a script.
type interactionScript struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptRunner sequences scripted pointer interactions against a prototype
// across frames, for automated walkthroughs and regression runs. Call Step
// once per frame before Prototype.Update.
//
// Actions: "press" taps the named element; "drag" sweeps a pointer between
// two world points over a frame count; "wait" idles for a frame count;
// "expect" fails the run unless the named state is active.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	err       error

	nextPointer int
	drag        *scriptDrag
}

type scriptDrag struct {
	pointer  int
	from, to Vec3
	frame    int
	frames   int
}

// LoadScript parses a JSON interaction script.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var script interactionScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse interaction script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse interaction script: no steps")
	}
	return &ScriptRunner{steps: script.Steps}, nil
}

// Done reports whether all steps have been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Err returns the first expectation or routing failure.
func (r *ScriptRunner) Err() error {
	return r.err
}

// Step advances the script by one frame.
func (r *ScriptRunner) Step(p *Prototype) {
	if r.done || r.err != nil {
		return
	}
	// Drain an in-flight drag before advancing.
	if r.drag != nil {
		r.stepDrag(p)
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "press":
		r.press(p, st)
	case "drag":
		r.drag = &scriptDrag{
			pointer: r.allocPointer(),
			from:    Vec3{st.FromX, st.FromY, st.FromZ},
			to:      Vec3{st.ToX, st.ToY, st.ToZ},
			frames:  max(st.Frames, 2),
		}
		r.stepDrag(p)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "expect":
		if got := p.Current(); got != st.Label {
			r.err = fmt.Errorf("script expect: state %q, got %q", st.Label, got)
		}
	default:
		r.err = fmt.Errorf("script: unknown action %q", st.Action)
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && r.drag == nil {
		r.done = true
	}
}

// press taps the named element, or the world point when no label is given.
func (r *ScriptRunner) press(p *Prototype, st scriptStep) {
	target := Vec3{st.X, st.Y, st.Z}
	if st.Label != "" {
		el := p.Binder().Interaction(st.Label)
		if el == nil {
			r.err = fmt.Errorf("script press: unknown element %q", st.Label)
			return
		}
		target = el.Node().WorldPosition()
	}
	id := r.allocPointer()
	pose := poseToward(target)
	if err := p.InteractionStart(id, pose); err != nil {
		r.err = err
		return
	}
	if err := p.InteractionEnd(id, pose); err != nil {
		r.err = err
	}
}

// stepDrag advances a drag by one frame. The destination pose arrives on the
// last continue frame; the release follows one frame later.
func (r *ScriptRunner) stepDrag(p *Prototype) {
	d := r.drag
	var err error
	switch {
	case d.frame == 0:
		err = p.InteractionStart(d.pointer, poseToward(d.from))
	case d.frame < d.frames:
		t := float64(d.frame) / float64(d.frames-1)
		err = p.InteractionContinue(d.pointer, poseToward(d.from.Lerp(d.to, t)))
	default:
		err = p.InteractionEnd(d.pointer, poseToward(d.to))
	}
	if err != nil {
		r.err = err
		r.drag = nil
		return
	}
	d.frame++
	if d.frame > d.frames {
		r.drag = nil
		if r.cursor >= len(r.steps) && r.waitCount == 0 {
			r.done = true
		}
	}
}

func (r *ScriptRunner) allocPointer() int {
	r.nextPointer++
	return r.nextPointer
}

// poseToward builds a pointer pose one unit in front of the target, looking
// along +Z. Scripted bundles keep interactive colliders visible from -Z.
func poseToward(target Vec3) Pose {
	return Pose{
		Position: target.Sub(Vec3{0, 0, 1}),
		Forward:  Vec3{0, 0, 1},
		Up:       Vec3{0, 1, 0},
	}
}
