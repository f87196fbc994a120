package rowan

import (
	"fmt"
	"strconv"
	"time"
)

// positionEpsilon is the tolerance for POSITION and ROTATION equality guards.
const positionEpsilon = 1e-6

// stateTimer is an armed timeout transition. Timers carry the epoch of the
// state entry that armed them; re-entering a state bumps the epoch, so timers
// armed by an earlier visit expire silently.
type stateTimer struct {
	deadline time.Time
	tr       *TransitionSpec
	epoch    uint64
	fired    bool
}

// StateMachine walks the declared states, applying each state's conditions
// and dispatching element events and timeouts to transitions. Transitions
// are tried in declaration order and the first whose guards all pass wins.
// Single-threaded: HandleEvent and Update must be called from the same
// goroutine that drives the elements.
type StateMachine struct {
	model          *SpecModel
	interactions   map[string]InteractionElement
	visualizations map[string]VisualizationElement
	clock          Clock
	listeners      []Listener

	current *StateSpec
	running bool
	fatal   error

	epoch  uint64
	timers []stateTimer
}

// NewStateMachine builds a machine over bound live elements. clock may be
// nil, in which case the system clock drives timeouts.
func NewStateMachine(model *SpecModel, interactions map[string]InteractionElement, visualizations map[string]VisualizationElement, clock Clock) *StateMachine {
	if clock == nil {
		clock = SystemClock{}
	}
	return &StateMachine{
		model:          model,
		interactions:   interactions,
		visualizations: visualizations,
		clock:          clock,
	}
}

// AddListener registers a notification sink. Listeners are invoked in
// registration order, synchronously, on the driving goroutine.
func (m *StateMachine) AddListener(l Listener) {
	m.listeners = append(m.listeners, l)
}

// Current returns the active state name, or "" before Start.
func (m *StateMachine) Current() string {
	if m.current == nil {
		return ""
	}
	return m.current.Name
}

// Running reports whether the machine is started and not stopped or failed.
func (m *StateMachine) Running() bool {
	return m.running && m.fatal == nil
}

// Err returns the error that halted the machine, if any.
func (m *StateMachine) Err() error {
	return m.fatal
}

// Start enters the first declared state.
func (m *StateMachine) Start() error {
	if m.running {
		return fmt.Errorf("rowan: state machine already started")
	}
	m.running = true
	m.fatal = nil
	m.enterState(m.model.InitialState())
	return m.fatal
}

// Stop halts dispatch. Armed timers are dropped.
func (m *StateMachine) Stop() {
	m.running = false
	m.current = nil
	m.timers = nil
	m.epoch++
}

// HandleEvent dispatches a discrete element event against the active state's
// outgoing transitions, in declaration order. Used as the emitter for every
// bound interaction element.
func (m *StateMachine) HandleEvent(ev ElementEvent) {
	if !m.Running() {
		return
	}
	for _, l := range m.listeners {
		l.ElementEvent(ev)
	}
	for i := range m.model.Transitions {
		tr := &m.model.Transitions[i]
		if tr.SourceState != m.current.Name || tr.IsTimeout() {
			continue
		}
		if tr.InteractionElement != ev.Element || tr.Event != ev.Type {
			continue
		}
		pass, err := m.guardsPass(tr, ev.Params)
		if err != nil {
			m.fail(err)
			return
		}
		if pass {
			m.enterState(m.model.StateByName(tr.DestinationState))
			return
		}
	}
}

// Update advances the machine by one tick: expires due timers, then applies
// the active state's continuous conditions.
func (m *StateMachine) Update(dt float32) {
	if !m.Running() {
		return
	}
	now := m.clock.Now()
	for i := range m.timers {
		t := &m.timers[i]
		if t.fired || t.epoch != m.epoch || now.Before(t.deadline) {
			continue
		}
		t.fired = true
		pass, err := m.guardsPass(t.tr, nil)
		if err != nil {
			m.fail(err)
			return
		}
		if pass {
			m.enterState(m.model.StateByName(t.tr.DestinationState))
			return
		}
	}
	m.applyConditions(false)
}

// enterState commits a transition: re-arms timers under a fresh epoch,
// applies the new state's conditions (edge and continuous), and notifies
// listeners.
func (m *StateMachine) enterState(s *StateSpec) {
	m.current = s
	m.epoch++
	m.timers = m.timers[:0]
	now := m.clock.Now()
	for i := range m.model.Transitions {
		tr := &m.model.Transitions[i]
		if tr.SourceState != s.Name || !tr.IsTimeout() {
			continue
		}
		m.timers = append(m.timers, stateTimer{
			deadline: now.Add(time.Duration(*tr.Timeout) * time.Millisecond),
			tr:       tr,
			epoch:    m.epoch,
		})
	}
	m.applyConditions(true)
	if m.fatal != nil {
		return
	}
	for _, l := range m.listeners {
		l.StateChanged(s.Name)
	}
}

// applyConditions runs the active state's conditions. Edge-triggered
// conditions (content pushes, attribute writes) run only on state entry;
// value mirrors run every tick.
func (m *StateMachine) applyConditions(entry bool) {
	if m.current == nil {
		return
	}
	for i := range m.current.Conditions {
		cond := &m.current.Conditions[i]
		var err error
		switch cond.Kind {
		case CondFloatValue:
			if entry {
				err = m.visualizations[cond.VisualizationElement].Visualize(cond.Value)
			}
		case CondScreenContent:
			if entry {
				err = m.visualizations[cond.VisualizationElement].Visualize(ScreenContent{FileName: cond.FileName, Texts: cond.Texts})
			}
		case CondValueOfInteraction:
			src := m.interactions[cond.InteractionElement]
			v, ok := valueAsFloat(src.Value())
			if !ok {
				err = configErrorf(FileStates, "state %q: value of %q is not numeric", m.current.Name, cond.InteractionElement)
				break
			}
			err = m.visualizations[cond.VisualizationElement].Visualize(v)
		case CondInteractionAttr:
			if ref, ok := cond.RefElement(); ok {
				// Mirror the referenced element's live value continuously.
				src := m.interactions[ref]
				err = m.interactions[cond.InteractionElement].SetAttribute(cond.Attribute, formatValue(src.Value()))
			} else if entry {
				err = m.interactions[cond.InteractionElement].SetAttribute(cond.Attribute, cond.RawValue)
			}
		}
		if err != nil {
			m.fail(err)
			return
		}
	}
}

// guardsPass evaluates a transition's guard conjunction. params carries the
// triggering event's parameters and is nil for timeouts.
func (m *StateMachine) guardsPass(tr *TransitionSpec, params Params) (bool, error) {
	for i := range tr.Guards {
		ok, err := m.evalGuard(&tr.Guards[i], params)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (m *StateMachine) evalGuard(g *GuardSpec, params Params) (bool, error) {
	switch g.Kind {
	case GuardEventParameter:
		v, ok := params[g.EventParameter]
		if !ok {
			return false, configErrorf(FileTransitions, "event carries no parameter %q", g.EventParameter)
		}
		cmp, ok := g.compareNumber()
		if !ok {
			return false, configErrorf(FileTransitions, "guard compare value %q is not a number", g.CompareValue)
		}
		return compareFloats(v, g.Operator, cmp), nil
	case GuardElementAttr:
		return m.evalAttrGuard(g)
	}
	return false, configErrorf(FileTransitions, "unknown guard kind %q", g.Kind)
}

func (m *StateMachine) evalAttrGuard(g *GuardSpec) (bool, error) {
	el := m.interactions[g.InteractionElement]
	switch g.Attribute {
	case AttrValue:
		v, ok := valueAsFloat(el.Value())
		if !ok {
			return false, configErrorf(FileTransitions, "guard on %q: VALUE is not numeric", g.InteractionElement)
		}
		cmp, ok := g.compareNumber()
		if !ok {
			if b, bok := parseBool(g.CompareValue); bok {
				cmp = 0
				if b {
					cmp = 1
				}
				ok = true
			}
		}
		if !ok {
			return false, configErrorf(FileTransitions, "guard compare value %q is not a number", g.CompareValue)
		}
		return compareFloats(v, g.Operator, cmp), nil
	case AttrFixed:
		want, ok := parseBool(g.CompareValue)
		if !ok {
			return false, configErrorf(FileTransitions, "guard compare value %q is not a bool", g.CompareValue)
		}
		switch g.Operator {
		case OpEquals:
			return el.Fixed() == want, nil
		case OpNotEquals:
			return el.Fixed() != want, nil
		}
		return false, configErrorf(FileTransitions, "operator %q not applicable to FIXED", g.Operator)
	case AttrPosition, AttrRotation:
		// Spatial attributes compare by proximity. Ordering operators have no
		// meaning for vectors.
		cmp, ok := ParseVec3Tuple(g.CompareValue)
		if !ok {
			return false, configErrorf(FileTransitions, "guard compare value %q is not a tuple", g.CompareValue)
		}
		var dist float64
		if g.Attribute == AttrPosition {
			dist = el.Node().Position.Sub(cmp).Length()
		} else {
			dist = el.Node().Rotation.AngleTo(eulerDegrees(cmp.X, cmp.Y, cmp.Z))
		}
		switch g.Operator {
		case OpEquals:
			return dist < positionEpsilon, nil
		case OpNotEquals:
			return dist >= positionEpsilon, nil
		}
		return false, configErrorf(FileTransitions, "operator %q not applicable to %s", g.Operator, g.Attribute)
	}
	return false, configErrorf(FileTransitions, "unknown attribute %q", g.Attribute)
}

func (m *StateMachine) fail(err error) {
	if m.fatal == nil {
		m.fatal = err
	}
}

// formatValue renders a live element value as a raw attribute string.
func formatValue(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case Vec3:
		return fmt.Sprintf("(%g, %g, %g)", x.X, x.Y, x.Z)
	case string:
		return x
	}
	return fmt.Sprint(v)
}
