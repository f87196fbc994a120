package rowan

import (
	"math"
	"strconv"
	"strings"
)

// Live elements pair a spec with a scene node. Each holds the current
// interaction value and restores the represented node's pre-binding state on
// teardown. The behavior node is a synthetic child under the represented
// object so live elements never collide with the model's native components.

// LiveElement is the behavior shared by interaction and visualization
// elements.
type LiveElement interface {
	Name() string
	// Node returns the represented scene node.
	Node() *Node
	// Update advances any active interpolation task by dt seconds.
	Update(dt float32)
	// Teardown cancels owned tasks and restores the represented node.
	Teardown()
}

// InteractionElement converts pointer poses into a normalized value and
// discrete named events.
type InteractionElement interface {
	LiveElement
	Kind() InteractionKind
	// Value returns the current interaction value: bool, float64, Vec3, or
	// string depending on the element kind.
	Value() any
	Fixed() bool
	// SetAttribute applies a raw attribute value string from a condition or
	// an InitialAttributeValues entry.
	SetAttribute(attr Attribute, raw string) error

	HandleStart(p Pose)
	HandleContinue(p Pose)
	HandleEnd(p Pose)
}

// VisualizationElement renders a state-declared output value. Side-effecting
// but not state-bearing.
type VisualizationElement interface {
	LiveElement
	Kind() VisualizationKind
	// Visualize applies a value; every element accepts bool and float64,
	// some also accept string content.
	Visualize(value any) error
}

// attachSuffix names the synthetic behavior node created under each
// represented object.
const attachSuffix = "#rowan"

// elementBase carries the bookkeeping common to all live elements.
type elementBase struct {
	name     string
	node     *Node // represented object
	attach   *Node // synthetic behavior child
	snapshot nodeSnapshot
	emit     func(ElementEvent)
	fixed    bool
	tween    *ValueTween // active task slot; overwritten on new drag/set
}

func newElementBase(name string, node *Node) elementBase {
	attach := NewNode(name + attachSuffix)
	node.AddChild(attach)
	return elementBase{
		name:     name,
		node:     node,
		attach:   attach,
		snapshot: snapshotNode(node),
	}
}

func (b *elementBase) Name() string {
	return b.name
}

func (b *elementBase) Node() *Node {
	return b.node
}

func (b *elementBase) Fixed() bool {
	return b.fixed
}

// SetEmitter registers the event sink. The binder wires this to the state
// machine's dispatch.
func (b *elementBase) SetEmitter(emit func(ElementEvent)) {
	b.emit = emit
}

func (b *elementBase) raise(t EventType, params Params) {
	if b.emit != nil {
		b.emit(ElementEvent{Element: b.name, Type: t, Params: params})
	}
}

// cancelTween drops any running interpolation task.
func (b *elementBase) cancelTween() {
	b.tween = nil
}

func (b *elementBase) updateTween(dt float32) {
	if b.tween != nil {
		b.tween.Update(dt)
		if b.tween.Done {
			b.tween = nil
		}
	}
}

// teardownBase restores the represented node and disposes the behavior node.
func (b *elementBase) teardownBase() {
	b.tween = nil
	b.attach.Dispose()
	b.snapshot.restore(b.node)
}

// setCommonAttribute handles the attributes every interaction element
// supports the same way. Returns handled=false for VALUE, which each element
// interprets itself.
func (b *elementBase) setCommonAttribute(attr Attribute, raw string) (handled bool, err error) {
	switch attr {
	case AttrFixed:
		v, ok := parseBool(raw)
		if !ok {
			return true, configErrorf("", "element %q: FIXED wants a bool, got %q", b.name, raw)
		}
		b.fixed = v
		return true, nil
	case AttrPosition:
		v, ok := ParseVec3Tuple(raw)
		if !ok {
			return true, configErrorf("", "element %q: POSITION wants a \"(x, y, z)\" tuple, got %q", b.name, raw)
		}
		b.node.SetPosition(v)
		return true, nil
	case AttrRotation:
		v, ok := ParseVec3Tuple(raw)
		if !ok {
			return true, configErrorf("", "element %q: ROTATION wants a \"(x, y, z)\" tuple, got %q", b.name, raw)
		}
		b.node.SetRotation(eulerDegrees(v.X, v.Y, v.Z))
		return true, nil
	}
	return false, nil
}

// applyInitialAttributes runs the spec's InitialAttributeValues through the
// element, surfacing type mismatches at bind time.
func applyInitialAttributes(el InteractionElement, spec *InteractionSpec) error {
	for _, av := range spec.InitialAttributeValues {
		if err := el.SetAttribute(av.Attribute, av.Value); err != nil {
			return err
		}
	}
	return nil
}

// --- Value helpers ---

// valueAsFloat coerces a live element value to a float for guard and
// condition evaluation. Bools map to 0/1.
func valueAsFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case int:
		return float64(x), true
	}
	return 0, false
}

// parseFloatValue parses a raw attribute value string into a float,
// accepting bool spellings as 0/1.
func parseFloatValue(raw string) (float64, bool) {
	if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		return f, true
	}
	if b, ok := parseBool(raw); ok {
		if b {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// quantize snaps v in [0,1] to steps equal intervals. steps <= 1 leaves v
// unchanged.
func quantize(v float64, steps int) float64 {
	if steps <= 1 {
		return v
	}
	q := math.Round(v*float64(steps-1)) / float64(steps-1)
	return clamp01(q)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
