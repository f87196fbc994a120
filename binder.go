package rowan

import (
	"log"
	"sort"
	"strings"
)

// Binder matches declared element names against scene node names and
// instantiates the live elements. Node names match an element name exactly
// or by trailing segment, so exporters may prefix names ("Panel_PowerButton"
// binds element "PowerButton").
type Binder struct {
	scene *Scene
	model *SpecModel

	elements []LiveElement // instantiation order

	interactions   map[string]InteractionElement   // first bound per name
	visualizations map[string]VisualizationElement // first bound per name
	targets        map[*Node]InteractionElement
}

// Bind resolves every declared element against the scene and brings it to
// life. Zero matching nodes for an element is fatal; several matches bind
// them all with a warning, and by-name lookups answer with the deepest one.
// resolve may be nil when no screens need content loading.
func Bind(scene *Scene, model *SpecModel, resolve ContentResolver) (*Binder, error) {
	b := &Binder{
		scene:          scene,
		model:          model,
		interactions:   make(map[string]InteractionElement),
		visualizations: make(map[string]VisualizationElement),
		targets:        make(map[*Node]InteractionElement),
	}
	matches := suffixIndex(scene)

	// Resolve every declared element to its nodes before instantiating
	// anything, then bring the pairs to life deepest node first. By-name
	// lookups answer the deepest match.
	type bindPair struct {
		interaction   *InteractionSpec
		visualization *VisualizationSpec
		node          *Node
	}
	var pairs []bindPair
	for i := range model.Interactions {
		spec := &model.Interactions[i]
		nodes, err := b.matchNodes(matches, spec.Name, FileInteractionElements)
		if err != nil {
			return nil, err
		}
		for _, node := range nodes {
			pairs = append(pairs, bindPair{interaction: spec, node: node})
		}
	}
	for i := range model.Visualizations {
		spec := &model.Visualizations[i]
		if spec.IsArray() {
			continue
		}
		nodes, err := b.matchNodes(matches, spec.Name, FileVisualizationElements)
		if err != nil {
			return nil, err
		}
		for _, node := range nodes {
			pairs = append(pairs, bindPair{visualization: spec, node: node})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].node.Depth() > pairs[j].node.Depth()
	})

	for _, pr := range pairs {
		if pr.interaction != nil {
			el, err := b.newInteraction(pr.interaction, pr.node)
			if err != nil {
				b.Teardown()
				return nil, err
			}
			b.elements = append(b.elements, el)
			b.targets[pr.node] = el
			if _, bound := b.interactions[pr.interaction.Name]; !bound {
				b.interactions[pr.interaction.Name] = el
			}
			continue
		}
		el, err := b.newVisualization(pr.visualization, pr.node, resolve)
		if err != nil {
			b.Teardown()
			return nil, err
		}
		b.elements = append(b.elements, el)
		if _, bound := b.visualizations[pr.visualization.Name]; !bound {
			b.visualizations[pr.visualization.Name] = el
		}
	}

	// Arrays aggregate already-bound members.
	for i := range model.Visualizations {
		spec := &model.Visualizations[i]
		if !spec.IsArray() {
			continue
		}
		members := make([]VisualizationElement, 0, len(spec.Members))
		for _, name := range spec.Members {
			members = append(members, b.visualizations[name])
		}
		arr := newLightArray(spec, members)
		b.elements = append(b.elements, arr)
		b.visualizations[spec.Name] = arr
	}

	b.bindPassthroughs()
	return b, nil
}

// matchNodes resolves an element name to its scene nodes, in walk order.
func (b *Binder) matchNodes(matches map[string][]*Node, name, file string) ([]*Node, error) {
	nodes := matches[name]
	if len(nodes) == 0 {
		return nil, configErrorf(file, "element %q matches no scene node", name)
	}
	if len(nodes) > 1 {
		log.Printf("rowan: element %q matches %d scene nodes, binding all", name, len(nodes))
	}
	return nodes, nil
}

func (b *Binder) newInteraction(spec *InteractionSpec, node *Node) (InteractionElement, error) {
	switch spec.Kind {
	case KindButton:
		return newButton(spec, node)
	case KindToggleButton:
		return newToggleButton(spec, node)
	case KindSlider:
		return newSlider(spec, node)
	case KindRotatable:
		return newRotatable(spec, node, b.scene)
	case KindTouchArea:
		return newTouchArea(spec, node, b.scene)
	case KindMovable:
		return newMovable(spec, node)
	}
	return nil, &UnsupportedSpecError{Kind: "interaction element", Type: string(spec.Kind)}
}

func (b *Binder) newVisualization(spec *VisualizationSpec, node *Node, resolve ContentResolver) (VisualizationElement, error) {
	switch spec.Kind {
	case KindLight:
		return newLight(spec, node), nil
	case KindScreen:
		return newScreen(spec, node, resolve), nil
	case KindAppearingObject:
		return newAppearingObject(spec, node), nil
	case KindSoundSource:
		return newSoundSource(spec, node), nil
	case KindAnimation:
		return newAnimationElement(spec, node), nil
	case KindParticles:
		return newParticlesElement(spec, node), nil
	}
	return nil, &UnsupportedSpecError{Kind: "visualization element", Type: string(spec.Kind)}
}

// bindPassthroughs attaches relay elements to mesh nodes with no declared
// role on themselves or below, so hosts can observe touches on dead parts.
func (b *Binder) bindPassthroughs() {
	b.scene.Walk(func(n *Node) {
		if n.Mesh == nil {
			return
		}
		for cur := n; cur != nil; cur = cur.Parent {
			if _, bound := b.targets[cur]; bound {
				return
			}
		}
		if b.subtreeBound(n) {
			return
		}
		p := newPassthrough(n)
		b.elements = append(b.elements, p)
		b.targets[n] = p
	})
}

func (b *Binder) subtreeBound(n *Node) bool {
	bound := false
	var visit func(*Node)
	visit = func(cur *Node) {
		if bound {
			return
		}
		if _, ok := b.targets[cur]; ok && cur != n {
			bound = true
			return
		}
		for _, c := range cur.Children() {
			visit(c)
		}
	}
	visit(n)
	return bound
}

// Interaction returns the live element bound for a declared name, or nil.
func (b *Binder) Interaction(name string) InteractionElement {
	return b.interactions[name]
}

// Visualization returns the live element bound for a declared name, or nil.
func (b *Binder) Visualization(name string) VisualizationElement {
	return b.visualizations[name]
}

// Interactions returns the by-name interaction element map.
func (b *Binder) Interactions() map[string]InteractionElement {
	return b.interactions
}

// Visualizations returns the by-name visualization element map.
func (b *Binder) Visualizations() map[string]VisualizationElement {
	return b.visualizations
}

// Targets returns the node-to-element capture map for pointer routing.
func (b *Binder) Targets() map[*Node]InteractionElement {
	return b.targets
}

// SetEmitter wires every bound element's event sink.
func (b *Binder) SetEmitter(emit func(ElementEvent)) {
	for _, el := range b.elements {
		if e, ok := el.(interface{ SetEmitter(func(ElementEvent)) }); ok {
			e.SetEmitter(emit)
		}
	}
}

// Update advances every live element's interpolation tasks by dt seconds.
func (b *Binder) Update(dt float32) {
	for _, el := range b.elements {
		el.Update(dt)
	}
}

// Teardown releases all elements in reverse instantiation order, restoring
// the scene nodes they touched.
func (b *Binder) Teardown() {
	for i := len(b.elements) - 1; i >= 0; i-- {
		b.elements[i].Teardown()
	}
	b.elements = nil
	b.interactions = make(map[string]InteractionElement)
	b.visualizations = make(map[string]VisualizationElement)
	b.targets = make(map[*Node]InteractionElement)
}

// suffixIndex maps every trailing path-segment run of each node ("Button1",
// "Group/Button1", "Root/Group/Button1") plus every trailing
// underscore-delimited run of its name ("PowerButton" for "Panel_PowerButton")
// to the nodes carrying it, from a single scene walk.
func suffixIndex(scene *Scene) map[string][]*Node {
	idx := make(map[string][]*Node)
	scene.Walk(func(n *Node) {
		if n.Name == "" {
			return
		}
		segs := strings.Split(n.Path(), "/")
		for i := range segs {
			key := strings.Join(segs[i:], "/")
			idx[key] = append(idx[key], n)
		}
		parts := strings.Split(n.Name, "_")
		for i := 1; i < len(parts); i++ {
			key := strings.Join(parts[i:], "_")
			idx[key] = append(idx[key], n)
		}
	})
	return idx
}
