package rowan

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// The JSON field names match the configuration file format.
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// ColorWhite is the default emission tint.
var ColorWhite = Color{1, 1, 1, 1}

// Resolution is a 2D pixel resolution for screens and touch areas.
type Resolution struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pose describes a pointer's 3D ray and orientation in world space.
type Pose struct {
	Position Vec3
	Forward  Vec3
	Up       Vec3
}

// Ray returns the pointer ray of the pose.
func (p Pose) Ray() Ray {
	return Ray{Origin: p.Position, Direction: p.Forward.Normalized()}
}

// Rotation returns the pose orientation as a quaternion.
func (p Pose) Rotation() Quat {
	return QuatLookRotation(p.Forward, p.Up)
}

// Ray is a half-line in world space. Direction is expected to be normalized.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// --- Events ---

// EventType identifies a discrete event raised by an interaction element.
// The string values appear verbatim in Transitions.json.
type EventType string

const (
	EventButtonPress EventType = "BUTTON_PRESS"
	EventToggleOn    EventType = "TOGGLE_ON"
	EventToggleOff   EventType = "TOGGLE_OFF"
	EventDrag        EventType = "DRAG"
	EventDragEnd     EventType = "DRAG_END"
	EventTouch       EventType = "TOUCH"
	EventTouchEnd    EventType = "TOUCH_END"
	EventMove        EventType = "MOVE"
	EventMoveEnd     EventType = "MOVE_END"
	EventSnap        EventType = "SNAP"

	// Passthrough elements relay undifferentiated interaction phases.
	EventInteractionStart EventType = "INTERACTION_START"
	EventInteraction      EventType = "INTERACTION"
	EventInteractionEnd   EventType = "INTERACTION_END"
)

// Params carries named float parameters of a raised event.
type Params map[string]float64

// ElementEvent is a discrete event raised by a named interaction element.
type ElementEvent struct {
	Element string
	Type    EventType
	Params  Params
}

// Listener receives runtime notifications. The state machine publishes to a
// bounded registered list rather than open multicast.
type Listener interface {
	// StateChanged fires on every committed transition and on Start.
	StateChanged(stateName string)
	// ElementEvent fires for every discrete event raised by an element.
	ElementEvent(ev ElementEvent)
}

// --- Attributes & operators ---

// Attribute names a settable/readable property of an interaction element.
type Attribute string

const (
	AttrFixed    Attribute = "FIXED"
	AttrValue    Attribute = "VALUE"
	AttrPosition Attribute = "POSITION"
	AttrRotation Attribute = "ROTATION"
)

// Operator is a guard comparison operator.
type Operator string

const (
	OpEquals        Operator = "EQUALS"
	OpNotEquals     Operator = "NOT_EQUALS"
	OpLarger        Operator = "LARGER"
	OpLargerEquals  Operator = "LARGER_EQUALS"
	OpSmaller       Operator = "SMALLER"
	OpSmallerEquals Operator = "SMALLER_EQUALS"
)

// compareFloats applies op to a and b.
// Unknown operators report false; the spec model rejects them at load time.
func compareFloats(a float64, op Operator, b float64) bool {
	switch op {
	case OpEquals:
		return a == b
	case OpNotEquals:
		return a != b
	case OpLarger:
		return a > b
	case OpLargerEquals:
		return a >= b
	case OpSmaller:
		return a < b
	case OpSmallerEquals:
		return a <= b
	}
	return false
}

// knownOperator reports whether op is part of the closed operator set.
func knownOperator(op Operator) bool {
	switch op {
	case OpEquals, OpNotEquals, OpLarger, OpLargerEquals, OpSmaller, OpSmallerEquals:
		return true
	}
	return false
}
