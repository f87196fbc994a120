package rowan

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Spec Model: the immutable, validated in-memory form of the configuration
// files. Each element family is a closed tagged variant (a flat struct with a
// Kind discriminator) so the binder's construct-from-spec dispatch stays
// exhaustive.

// Configuration file names within a prototype bundle.
const (
	FileInteractionElements      = "InteractionElements.json"
	FileVisualizationElements    = "VisualizationElements.json"
	FileVisualizationArrays      = "VisualizationArrays.json"
	FileStates                   = "States.json"
	FileTransitions              = "Transitions.json"
	FileFunctionalSpecification  = "FunctionalSpecification.json"
)

// --- Interaction element specs ---

// InteractionKind discriminates interaction element spec variants.
type InteractionKind string

const (
	KindButton       InteractionKind = "Button"
	KindToggleButton InteractionKind = "ToggleButton"
	KindSlider       InteractionKind = "Slider"
	KindRotatable    InteractionKind = "Rotatable"
	KindTouchArea    InteractionKind = "TouchArea"
	KindMovable      InteractionKind = "Movable"
)

// AttributeValue is an initial attribute assignment on an element spec.
// Value is kept raw: it may encode a number, a bool, a "(x, y, z)" tuple, or
// the name of another element whose live value should be mirrored.
type AttributeValue struct {
	Attribute Attribute `json:"Attribute"`
	Value     string    `json:"Value"`
}

// RotationAxis defines a rotatable's hinge in world space.
type RotationAxis struct {
	Origin    Vec3 `json:"Origin"`
	Direction Vec3 `json:"Direction"`
}

// SnapPose is a predefined target pose a movable eases toward on release.
// Position and Rotation are "(x, y, z)" tuple strings in the file format.
type SnapPose struct {
	Position string  `json:"Position"`
	Rotation *string `json:"Rotation,omitempty"`
}

// InteractionSpec describes one interaction element. Fields beyond Name and
// Kind are meaningful only for the variants that declare them.
type InteractionSpec struct {
	Name string          `json:"Name"`
	Kind InteractionKind `json:"Type"`

	InitialAttributeValues []AttributeValue `json:"InitialAttributeValues,omitempty"`

	// Slider
	MinPosition Vec3 `json:"MinPosition"`
	MaxPosition Vec3 `json:"MaxPosition"`

	// Slider, Rotatable
	PositionResolution int `json:"PositionResolution,omitempty"`
	// Slider, Rotatable, Movable: duration of programmatic value transitions.
	TransitionTimeInMs int `json:"TransitionTimeInMs,omitempty"`

	// Rotatable
	MinRotation               float64      `json:"MinRotation"`
	MaxRotation               float64      `json:"MaxRotation"`
	RotationAxis              RotationAxis `json:"RotationAxis"`
	AllowsForInfiniteRotation bool         `json:"AllowsForInfiniteRotation,omitempty"`

	// TouchArea, also Screen-like plane normal
	Plane      Vec3       `json:"Plane"`
	Resolution Resolution `json:"Resolution"`

	// Movable
	SnapPoses []SnapPose `json:"SnapPoses,omitempty"`
}

// --- Visualization element specs ---

// VisualizationKind discriminates visualization element spec variants.
type VisualizationKind string

const (
	KindLight           VisualizationKind = "Light"
	KindScreen          VisualizationKind = "Screen"
	KindAppearingObject VisualizationKind = "AppearingObject"
	KindSoundSource     VisualizationKind = "SoundSource"
	KindAnimation       VisualizationKind = "Animation"
	KindParticles       VisualizationKind = "Particles"
	KindLightArray      VisualizationKind = "LightArray"
)

// VisualizationSpec describes one visualization element or array.
type VisualizationSpec struct {
	Name string            `json:"Name"`
	Kind VisualizationKind `json:"Type"`

	// Light
	EmissionColor Color `json:"EmissionColor"`

	// Screen
	Plane      Vec3       `json:"Plane"`
	Resolution Resolution `json:"Resolution"`

	// AppearingObject
	Value *float64 `json:"Value,omitempty"`

	// Arrays (LightArray): member element names, in fan-out order.
	Members []string `json:"Members,omitempty"`
}

// IsArray reports whether the spec aggregates other visualization elements.
func (v *VisualizationSpec) IsArray() bool {
	return v.Kind == KindLightArray
}

// --- State specs ---

// ConditionKind discriminates state condition variants.
type ConditionKind string

const (
	CondFloatValue         ConditionKind = "FloatValueVisualization"
	CondScreenContent      ConditionKind = "ScreenContentVisualization"
	CondValueOfInteraction ConditionKind = "ValueOfInteractionElementVisualization"
	CondInteractionAttr    ConditionKind = "InteractionElementCondition"
)

// ConditionSpec is one declared effect of a state on a live element.
type ConditionSpec struct {
	Kind ConditionKind

	VisualizationElement string
	Value                float64  // FloatValueVisualization
	FileName             string   // ScreenContentVisualization
	Texts                []string // ScreenContentVisualization overlay texts

	InteractionElement string
	Attribute          Attribute // InteractionElementCondition
	// RawValue keeps the attribute value unparsed: number, bool, tuple, or a
	// reference to another element's live value.
	RawValue string
}

// RefElement returns the referenced element name when RawValue is neither a
// number, bool, nor tuple — i.e. the condition mirrors another element.
func (c *ConditionSpec) RefElement() (string, bool) {
	if c.Kind != CondInteractionAttr {
		return "", false
	}
	raw := strings.TrimSpace(c.RawValue)
	if raw == "" {
		return "", false
	}
	if _, err := strconv.ParseFloat(raw, 64); err == nil {
		return "", false
	}
	if _, ok := parseBool(raw); ok {
		return "", false
	}
	if _, ok := ParseVec3Tuple(raw); ok {
		return "", false
	}
	return raw, true
}

// StateSpec is a named state with its ordered condition list.
type StateSpec struct {
	Name       string
	Conditions []ConditionSpec
}

// --- Transition specs ---

// GuardKind discriminates guard variants.
type GuardKind string

const (
	GuardEventParameter  GuardKind = "EventParameterGuard"
	GuardElementAttr     GuardKind = "InteractionElementAttributeGuard"
)

// GuardSpec is a boolean predicate gating a transition. A transition's
// guards combine with logical AND.
type GuardSpec struct {
	Kind GuardKind

	EventParameter     string // EventParameterGuard
	InteractionElement string // InteractionElementAttributeGuard
	Attribute          Attribute

	Operator     Operator
	CompareValue string
}

// compareNumber returns CompareValue parsed as a float.
func (g *GuardSpec) compareNumber() (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(g.CompareValue), 64)
	return f, err == nil
}

// TransitionSpec is a directed edge of the state machine, triggered by
// exactly one of an (element, event) pair or a timeout.
type TransitionSpec struct {
	SourceState      string
	DestinationState string

	InteractionElement string
	Event              EventType
	Timeout            *int // milliseconds

	Guards []GuardSpec
}

// IsTimeout reports whether the transition is timeout-triggered.
func (t *TransitionSpec) IsTimeout() bool {
	return t.Timeout != nil
}

// --- Spec model ---

// SpecModel is the validated aggregate of the configuration documents.
// Created once at load time; immutable thereafter.
type SpecModel struct {
	Interactions   []InteractionSpec
	Visualizations []VisualizationSpec // elements and arrays, one namespace
	States         []StateSpec
	Transitions    []TransitionSpec

	interactionIdx   map[string]*InteractionSpec
	visualizationIdx map[string]*VisualizationSpec
	stateIdx         map[string]*StateSpec
}

// InteractionByName returns the named interaction element spec, or nil.
func (m *SpecModel) InteractionByName(name string) *InteractionSpec {
	return m.interactionIdx[name]
}

// VisualizationByName returns the named visualization spec, or nil.
func (m *SpecModel) VisualizationByName(name string) *VisualizationSpec {
	return m.visualizationIdx[name]
}

// StateByName returns the named state spec, or nil.
func (m *SpecModel) StateByName(name string) *StateSpec {
	return m.stateIdx[name]
}

// InitialState returns the first declared state.
func (m *SpecModel) InitialState() *StateSpec {
	return &m.States[0]
}

// NewSpecModel parses and cross-validates the four configuration documents.
// arrays may be nil (an absent VisualizationArrays.json means no arrays).
func NewSpecModel(interactions, visualizations, arrays, states, transitions []byte) (*SpecModel, error) {
	m := &SpecModel{}
	var err error

	if m.Interactions, err = parseInteractionElements(interactions); err != nil {
		return nil, err
	}
	if m.Visualizations, err = parseVisualizationElements(visualizations); err != nil {
		return nil, err
	}
	if arrays != nil {
		arr, err := parseVisualizationArrays(arrays)
		if err != nil {
			return nil, err
		}
		m.Visualizations = append(m.Visualizations, arr...)
	}
	if m.States, err = parseStates(states); err != nil {
		return nil, err
	}
	if m.Transitions, err = parseTransitions(transitions); err != nil {
		return nil, err
	}

	if err := m.buildIndexes(); err != nil {
		return nil, err
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// ParseFunctionalSpecification loads the combined single-document form that
// aggregates all four configuration files.
func ParseFunctionalSpecification(data []byte) (*SpecModel, error) {
	var combined struct {
		InteractionElements   json.RawMessage `json:"interaction_elements"`
		VisualizationElements json.RawMessage `json:"visualization_elements"`
		VisualizationArrays   json.RawMessage `json:"visualization_arrays"`
		States                json.RawMessage `json:"states"`
		Transitions           json.RawMessage `json:"transitions"`
	}
	if err := json.Unmarshal(data, &combined); err != nil {
		return nil, configErrorf(FileFunctionalSpecification, "malformed JSON: %v", err)
	}
	if combined.InteractionElements == nil || combined.VisualizationElements == nil ||
		combined.States == nil || combined.Transitions == nil {
		return nil, configErrorf(FileFunctionalSpecification, "missing one of interaction_elements, visualization_elements, states, transitions")
	}
	return NewSpecModel(combined.InteractionElements, combined.VisualizationElements,
		combined.VisualizationArrays, combined.States, combined.Transitions)
}

// --- Parsing ---

func parseInteractionElements(data []byte) ([]InteractionSpec, error) {
	if data == nil {
		return nil, configErrorf(FileInteractionElements, "file missing")
	}
	var doc struct {
		Elements []json.RawMessage `json:"Elements"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, configErrorf(FileInteractionElements, "malformed JSON: %v", err)
	}
	specs := make([]InteractionSpec, 0, len(doc.Elements))
	for i, raw := range doc.Elements {
		var spec InteractionSpec
		if err := json.Unmarshal(raw, &spec); err != nil {
			return nil, configErrorf(FileInteractionElements, "element %d: %v", i, err)
		}
		if spec.Name == "" {
			return nil, configErrorf(FileInteractionElements, "element %d: missing Name", i)
		}
		switch spec.Kind {
		case KindButton, KindToggleButton, KindSlider, KindRotatable, KindTouchArea, KindMovable:
		default:
			return nil, &UnsupportedSpecError{Kind: "interaction element", Type: string(spec.Kind)}
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func parseVisualizationElements(data []byte) ([]VisualizationSpec, error) {
	if data == nil {
		return nil, configErrorf(FileVisualizationElements, "file missing")
	}
	var doc struct {
		Elements []json.RawMessage `json:"Elements"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, configErrorf(FileVisualizationElements, "malformed JSON: %v", err)
	}
	specs := make([]VisualizationSpec, 0, len(doc.Elements))
	for i, raw := range doc.Elements {
		var spec VisualizationSpec
		if err := json.Unmarshal(raw, &spec); err != nil {
			return nil, configErrorf(FileVisualizationElements, "element %d: %v", i, err)
		}
		if spec.Name == "" {
			return nil, configErrorf(FileVisualizationElements, "element %d: missing Name", i)
		}
		switch spec.Kind {
		case KindLight, KindScreen, KindAppearingObject, KindSoundSource, KindAnimation, KindParticles:
		default:
			return nil, &UnsupportedSpecError{Kind: "visualization element", Type: string(spec.Kind)}
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func parseVisualizationArrays(data []byte) ([]VisualizationSpec, error) {
	var doc struct {
		Arrays []json.RawMessage `json:"Arrays"`
		// Legacy documents use {"Elements": []}; tolerated when empty.
		Elements []json.RawMessage `json:"Elements"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, configErrorf(FileVisualizationArrays, "malformed JSON: %v", err)
	}
	if len(doc.Elements) > 0 {
		return nil, configErrorf(FileVisualizationArrays, "legacy 'Elements' form must be empty")
	}
	specs := make([]VisualizationSpec, 0, len(doc.Arrays))
	for i, raw := range doc.Arrays {
		var spec VisualizationSpec
		if err := json.Unmarshal(raw, &spec); err != nil {
			return nil, configErrorf(FileVisualizationArrays, "array %d: %v", i, err)
		}
		if spec.Name == "" {
			return nil, configErrorf(FileVisualizationArrays, "array %d: missing Name", i)
		}
		if spec.Kind != KindLightArray {
			return nil, &UnsupportedSpecError{Kind: "visualization array", Type: string(spec.Kind)}
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func parseStates(data []byte) ([]StateSpec, error) {
	if data == nil {
		return nil, configErrorf(FileStates, "file missing")
	}
	var doc struct {
		States []struct {
			Name       string            `json:"Name"`
			Conditions []json.RawMessage `json:"Conditions"`
		} `json:"States"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, configErrorf(FileStates, "malformed JSON: %v", err)
	}
	if len(doc.States) == 0 {
		return nil, configErrorf(FileStates, "no states declared")
	}
	states := make([]StateSpec, 0, len(doc.States))
	for _, s := range doc.States {
		if s.Name == "" {
			return nil, configErrorf(FileStates, "state with missing Name")
		}
		state := StateSpec{Name: s.Name}
		for i, raw := range s.Conditions {
			cond, err := parseCondition(raw)
			if err != nil {
				return nil, configErrorf(FileStates, "state %q condition %d: %v", s.Name, i, err)
			}
			state.Conditions = append(state.Conditions, cond)
		}
		states = append(states, state)
	}
	return states, nil
}

func parseCondition(raw json.RawMessage) (ConditionSpec, error) {
	var head struct {
		Type ConditionKind `json:"Type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return ConditionSpec{}, err
	}
	switch head.Type {
	case CondFloatValue:
		var c struct {
			VisualizationElement string  `json:"VisualizationElement"`
			Value                float64 `json:"Value"`
		}
		if err := json.Unmarshal(raw, &c); err != nil {
			return ConditionSpec{}, err
		}
		return ConditionSpec{Kind: CondFloatValue, VisualizationElement: c.VisualizationElement, Value: c.Value}, nil
	case CondScreenContent:
		var c struct {
			VisualizationElement string   `json:"VisualizationElement"`
			FileName             string   `json:"FileName"`
			Texts                []string `json:"Texts"`
		}
		if err := json.Unmarshal(raw, &c); err != nil {
			return ConditionSpec{}, err
		}
		return ConditionSpec{Kind: CondScreenContent, VisualizationElement: c.VisualizationElement, FileName: c.FileName, Texts: c.Texts}, nil
	case CondValueOfInteraction:
		var c struct {
			VisualizationElement string `json:"VisualizationElement"`
			InteractionElement   string `json:"InteractionElement"`
		}
		if err := json.Unmarshal(raw, &c); err != nil {
			return ConditionSpec{}, err
		}
		return ConditionSpec{Kind: CondValueOfInteraction, VisualizationElement: c.VisualizationElement, InteractionElement: c.InteractionElement}, nil
	case CondInteractionAttr:
		var c struct {
			InteractionElement string          `json:"InteractionElement"`
			Attribute          Attribute       `json:"Attribute"`
			Value              json.RawMessage `json:"Value"`
		}
		if err := json.Unmarshal(raw, &c); err != nil {
			return ConditionSpec{}, err
		}
		raw, err := rawToString(c.Value)
		if err != nil {
			return ConditionSpec{}, err
		}
		return ConditionSpec{Kind: CondInteractionAttr, InteractionElement: c.InteractionElement, Attribute: c.Attribute, RawValue: raw}, nil
	}
	return ConditionSpec{}, &UnsupportedSpecError{Kind: "condition", Type: string(head.Type)}
}

func parseTransitions(data []byte) ([]TransitionSpec, error) {
	if data == nil {
		return nil, configErrorf(FileTransitions, "file missing")
	}
	var doc struct {
		Transitions []struct {
			SourceState        string            `json:"SourceState"`
			DestinationState   string            `json:"DestinationState"`
			InteractionElement string            `json:"InteractionElement"`
			Event              string            `json:"Event"`
			Timeout            *int              `json:"Timeout"`
			Guards             []json.RawMessage `json:"Guards"`
		} `json:"Transitions"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, configErrorf(FileTransitions, "malformed JSON: %v", err)
	}
	transitions := make([]TransitionSpec, 0, len(doc.Transitions))
	for i, t := range doc.Transitions {
		spec := TransitionSpec{
			SourceState:        t.SourceState,
			DestinationState:   t.DestinationState,
			InteractionElement: t.InteractionElement,
			Event:              EventType(t.Event),
			Timeout:            t.Timeout,
		}
		for j, raw := range t.Guards {
			guard, err := parseGuard(raw)
			if err != nil {
				return nil, configErrorf(FileTransitions, "transition %d guard %d: %v", i, j, err)
			}
			spec.Guards = append(spec.Guards, guard)
		}
		transitions = append(transitions, spec)
	}
	return transitions, nil
}

func parseGuard(raw json.RawMessage) (GuardSpec, error) {
	var head struct {
		Type GuardKind `json:"Type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return GuardSpec{}, err
	}
	switch head.Type {
	case GuardEventParameter:
		var g struct {
			EventParameter string          `json:"EventParameter"`
			Operator       Operator        `json:"Operator"`
			CompareValue   json.RawMessage `json:"CompareValue"`
		}
		if err := json.Unmarshal(raw, &g); err != nil {
			return GuardSpec{}, err
		}
		cmp, err := rawToString(g.CompareValue)
		if err != nil {
			return GuardSpec{}, err
		}
		return GuardSpec{Kind: GuardEventParameter, EventParameter: g.EventParameter, Operator: g.Operator, CompareValue: cmp}, nil
	case GuardElementAttr:
		var g struct {
			InteractionElement string          `json:"InteractionElement"`
			Attribute          Attribute       `json:"Attribute"`
			Operator           Operator        `json:"Operator"`
			CompareValue       json.RawMessage `json:"CompareValue"`
		}
		if err := json.Unmarshal(raw, &g); err != nil {
			return GuardSpec{}, err
		}
		cmp, err := rawToString(g.CompareValue)
		if err != nil {
			return GuardSpec{}, err
		}
		return GuardSpec{Kind: GuardElementAttr, InteractionElement: g.InteractionElement, Attribute: g.Attribute, Operator: g.Operator, CompareValue: cmp}, nil
	}
	return GuardSpec{}, &UnsupportedSpecError{Kind: "guard", Type: string(head.Type)}
}

// rawToString renders a JSON scalar (string or number or bool) as its string
// form, so downstream code can parse it uniformly.
func rawToString(raw json.RawMessage) (string, error) {
	if raw == nil {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return strconv.FormatBool(b), nil
	}
	return "", fmt.Errorf("value %s is not a scalar", string(raw))
}

// --- Indexing & validation ---

func (m *SpecModel) buildIndexes() error {
	m.interactionIdx = make(map[string]*InteractionSpec, len(m.Interactions))
	for i := range m.Interactions {
		spec := &m.Interactions[i]
		if _, dup := m.interactionIdx[spec.Name]; dup {
			return configErrorf(FileInteractionElements, "duplicate element name %q", spec.Name)
		}
		m.interactionIdx[spec.Name] = spec
	}
	// Visualization elements and arrays merge into one namespace.
	m.visualizationIdx = make(map[string]*VisualizationSpec, len(m.Visualizations))
	for i := range m.Visualizations {
		spec := &m.Visualizations[i]
		if _, dup := m.visualizationIdx[spec.Name]; dup {
			return configErrorf(FileVisualizationElements, "duplicate visualization name %q (elements and arrays share one namespace)", spec.Name)
		}
		m.visualizationIdx[spec.Name] = spec
	}
	m.stateIdx = make(map[string]*StateSpec, len(m.States))
	for i := range m.States {
		spec := &m.States[i]
		if _, dup := m.stateIdx[spec.Name]; dup {
			return configErrorf(FileStates, "duplicate state name %q", spec.Name)
		}
		m.stateIdx[spec.Name] = spec
	}
	return nil
}

func (m *SpecModel) validate() error {
	// Array members must reference existing non-array visualizations.
	for i := range m.Visualizations {
		spec := &m.Visualizations[i]
		if !spec.IsArray() {
			continue
		}
		for _, member := range spec.Members {
			target := m.visualizationIdx[member]
			if target == nil {
				return configErrorf(FileVisualizationArrays, "array %q references unknown element %q", spec.Name, member)
			}
			if target.IsArray() {
				return configErrorf(FileVisualizationArrays, "array %q may not nest array %q", spec.Name, member)
			}
		}
	}

	// Conditions must reference declared elements.
	for si := range m.States {
		state := &m.States[si]
		for ci := range state.Conditions {
			cond := &state.Conditions[ci]
			switch cond.Kind {
			case CondFloatValue, CondScreenContent:
				if m.visualizationIdx[cond.VisualizationElement] == nil {
					return configErrorf(FileStates, "state %q references unknown visualization %q", state.Name, cond.VisualizationElement)
				}
			case CondValueOfInteraction:
				if m.visualizationIdx[cond.VisualizationElement] == nil {
					return configErrorf(FileStates, "state %q references unknown visualization %q", state.Name, cond.VisualizationElement)
				}
				if m.interactionIdx[cond.InteractionElement] == nil {
					return configErrorf(FileStates, "state %q references unknown interaction element %q", state.Name, cond.InteractionElement)
				}
			case CondInteractionAttr:
				if m.interactionIdx[cond.InteractionElement] == nil {
					return configErrorf(FileStates, "state %q references unknown interaction element %q", state.Name, cond.InteractionElement)
				}
				switch cond.Attribute {
				case AttrFixed, AttrValue, AttrPosition, AttrRotation:
				default:
					return configErrorf(FileStates, "state %q: unknown attribute %q", state.Name, cond.Attribute)
				}
				if ref, ok := cond.RefElement(); ok {
					if m.interactionIdx[ref] == nil {
						return configErrorf(FileStates, "state %q: attribute value references unknown element %q", state.Name, ref)
					}
				}
			}
		}
	}

	// Transitions must resolve states, carry exactly one trigger, and carry
	// well-formed guards.
	for i := range m.Transitions {
		tr := &m.Transitions[i]
		if m.stateIdx[tr.SourceState] == nil {
			return configErrorf(FileTransitions, "transition %d: unknown source state %q", i, tr.SourceState)
		}
		if m.stateIdx[tr.DestinationState] == nil {
			return configErrorf(FileTransitions, "transition %d: unknown destination state %q", i, tr.DestinationState)
		}
		hasEvent := tr.InteractionElement != "" || tr.Event != ""
		if hasEvent && (tr.InteractionElement == "" || tr.Event == "") {
			return configErrorf(FileTransitions, "transition %d: InteractionElement and Event must appear together", i)
		}
		if hasEvent && tr.IsTimeout() {
			return configErrorf(FileTransitions, "transition %d: specifies both an event and a timeout", i)
		}
		if !hasEvent && !tr.IsTimeout() {
			return configErrorf(FileTransitions, "transition %d: specifies neither an event nor a timeout", i)
		}
		if tr.IsTimeout() && *tr.Timeout <= 0 {
			return configErrorf(FileTransitions, "transition %d: timeout must be positive", i)
		}
		if hasEvent && m.interactionIdx[tr.InteractionElement] == nil {
			return configErrorf(FileTransitions, "transition %d: unknown interaction element %q", i, tr.InteractionElement)
		}
		for j := range tr.Guards {
			g := &tr.Guards[j]
			if !knownOperator(g.Operator) {
				return configErrorf(FileTransitions, "transition %d guard %d: unknown operator %q", i, j, g.Operator)
			}
			switch g.Kind {
			case GuardEventParameter:
				// Event parameter guards are illegal on timeout transitions:
				// timeouts carry no parameters.
				if tr.IsTimeout() {
					return configErrorf(FileTransitions, "transition %d guard %d: event parameter guard on timeout transition", i, j)
				}
			case GuardElementAttr:
				if m.interactionIdx[g.InteractionElement] == nil {
					return configErrorf(FileTransitions, "transition %d guard %d: unknown interaction element %q", i, j, g.InteractionElement)
				}
				switch g.Attribute {
				case AttrFixed, AttrValue, AttrPosition, AttrRotation:
				default:
					return configErrorf(FileTransitions, "transition %d guard %d: unknown attribute %q", i, j, g.Attribute)
				}
			}
		}
	}
	return nil
}

// --- Value string parsing ---

// ParseVec3Tuple parses a "(x, y, z)" tuple string.
func ParseVec3Tuple(s string) (Vec3, bool) {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "(") || !strings.HasSuffix(trimmed, ")") {
		return Vec3{}, false
	}
	parts := strings.Split(trimmed[1:len(trimmed)-1], ",")
	if len(parts) != 3 {
		return Vec3{}, false
	}
	var out [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Vec3{}, false
		}
		out[i] = f
	}
	return Vec3{out[0], out[1], out[2]}, true
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "on":
		return true, true
	case "false", "off":
		return false, true
	}
	return false, false
}
