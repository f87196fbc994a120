package rowan

// Button is a momentary interaction element: it raises BUTTON_PRESS on
// interaction start and carries no value. Buttons are unaffected by FIXED.
type Button struct {
	elementBase
}

func newButton(spec *InteractionSpec, node *Node) (*Button, error) {
	b := &Button{elementBase: newElementBase(spec.Name, node)}
	if err := applyInitialAttributes(b, spec); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Button) Kind() InteractionKind { return KindButton }

func (b *Button) Value() any { return nil }

func (b *Button) SetAttribute(attr Attribute, raw string) error {
	if handled, err := b.setCommonAttribute(attr, raw); handled {
		return err
	}
	return configErrorf("", "button %q has no attribute %q", b.name, attr)
}

func (b *Button) HandleStart(Pose) {
	b.raise(EventButtonPress, nil)
}

func (b *Button) HandleContinue(Pose) {}

func (b *Button) HandleEnd(Pose) {}

func (b *Button) Update(float32) {}

func (b *Button) Teardown() {
	b.teardownBase()
}

// ToggleButton stores a bool that flips on every press. Each press raises
// BUTTON_PRESS plus TOGGLE_ON or TOGGLE_OFF for the new value.
type ToggleButton struct {
	elementBase
	on bool
}

func newToggleButton(spec *InteractionSpec, node *Node) (*ToggleButton, error) {
	t := &ToggleButton{elementBase: newElementBase(spec.Name, node)}
	if err := applyInitialAttributes(t, spec); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *ToggleButton) Kind() InteractionKind { return KindToggleButton }

func (t *ToggleButton) Value() any { return t.on }

func (t *ToggleButton) SetAttribute(attr Attribute, raw string) error {
	if handled, err := t.setCommonAttribute(attr, raw); handled {
		return err
	}
	if attr == AttrValue {
		v, ok := parseFloatValue(raw)
		if !ok {
			return configErrorf("", "toggle button %q: VALUE wants a bool or number, got %q", t.name, raw)
		}
		t.on = v > 0
		return nil
	}
	return configErrorf("", "toggle button %q has no attribute %q", t.name, attr)
}

func (t *ToggleButton) HandleStart(Pose) {
	t.on = !t.on
	t.raise(EventButtonPress, nil)
	if t.on {
		t.raise(EventToggleOn, nil)
	} else {
		t.raise(EventToggleOff, nil)
	}
}

func (t *ToggleButton) HandleContinue(Pose) {}

func (t *ToggleButton) HandleEnd(Pose) {}

func (t *ToggleButton) Update(float32) {}

func (t *ToggleButton) Teardown() {
	t.teardownBase()
}

// passthroughElement is bound to scene nodes that carry no declared role and
// have none below them. It relays undifferentiated interaction phases so a
// host can still observe touches on "dead" parts of the model.
type passthroughElement struct {
	elementBase
}

func newPassthrough(node *Node) *passthroughElement {
	return &passthroughElement{elementBase: newElementBase(node.Name, node)}
}

func (p *passthroughElement) Kind() InteractionKind { return "" }

func (p *passthroughElement) Value() any { return nil }

func (p *passthroughElement) SetAttribute(attr Attribute, raw string) error {
	if handled, err := p.setCommonAttribute(attr, raw); handled {
		return err
	}
	return configErrorf("", "passthrough %q has no attribute %q", p.name, attr)
}

func (p *passthroughElement) HandleStart(Pose) {
	p.raise(EventInteractionStart, nil)
}

func (p *passthroughElement) HandleContinue(Pose) {
	p.raise(EventInteraction, nil)
}

func (p *passthroughElement) HandleEnd(Pose) {
	p.raise(EventInteractionEnd, nil)
}

func (p *passthroughElement) Update(float32) {}

func (p *passthroughElement) Teardown() {
	p.teardownBase()
}
