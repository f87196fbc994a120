package rowan

// Prototype ties a loaded bundle together: the scene, the validated spec
// model, the bound live elements, the pointer router, and the state machine.
// All methods must be called from one goroutine; the runtime is cooperative
// and never spawns its own.
type Prototype struct {
	bundle   *Bundle
	manifest *Manifest
	clock    Clock

	scene   *Scene
	model   *SpecModel
	binder  *Binder
	machine *StateMachine
	router  *PointerRouter

	started bool
}

// LoadPrototype opens a bundle URL and assembles the runtime. The system
// clock drives timeouts; use LoadPrototypeBundle to inject a test clock.
func LoadPrototype(url string) (*Prototype, error) {
	b, err := OpenBundle(url)
	if err != nil {
		return nil, err
	}
	p, err := LoadPrototypeBundle(b, SystemClock{})
	if err != nil {
		b.Close()
		return nil, err
	}
	return p, nil
}

// LoadPrototypeBundle assembles the runtime over an already-open bundle.
// The prototype takes ownership of the bundle.
func LoadPrototypeBundle(b *Bundle, clock Clock) (*Prototype, error) {
	if clock == nil {
		clock = SystemClock{}
	}
	p := &Prototype{bundle: b, clock: clock}
	if err := p.build(); err != nil {
		return nil, err
	}
	return p, nil
}

// build loads documents and binds elements. Shared by load and reload.
func (p *Prototype) build() error {
	manifest, err := p.bundle.LoadManifest()
	if err != nil {
		return err
	}
	model, err := p.bundle.LoadSpecModel(manifest)
	if err != nil {
		return err
	}
	scene, err := p.bundle.LoadScene(manifest)
	if err != nil {
		return err
	}
	binder, err := Bind(scene, model, p.bundle.ContentResolver())
	if err != nil {
		return err
	}
	machine := NewStateMachine(model, binder.Interactions(), binder.Visualizations(), p.clock)
	binder.SetEmitter(machine.HandleEvent)

	p.manifest = manifest
	p.model = model
	p.scene = scene
	p.binder = binder
	p.machine = machine
	p.router = NewPointerRouter(scene, binder.Targets())
	return nil
}

// Manifest returns the bundle manifest (defaults when absent).
func (p *Prototype) Manifest() *Manifest { return p.manifest }

// Scene returns the loaded scene graph.
func (p *Prototype) Scene() *Scene { return p.scene }

// Model returns the validated spec model.
func (p *Prototype) Model() *SpecModel { return p.model }

// Machine returns the state machine.
func (p *Prototype) Machine() *StateMachine { return p.machine }

// Binder returns the element binder.
func (p *Prototype) Binder() *Binder { return p.binder }

// AddListener registers a runtime notification sink.
func (p *Prototype) AddListener(l Listener) {
	p.machine.AddListener(l)
}

// Start enters the initial state and begins dispatch.
func (p *Prototype) Start() error {
	if err := p.machine.Start(); err != nil {
		return err
	}
	p.started = true
	return nil
}

// Update advances the runtime by dt seconds: element interpolation tasks
// first, then timers and continuous conditions.
func (p *Prototype) Update(dt float32) {
	if !p.started {
		return
	}
	p.binder.Update(dt)
	p.machine.Update(dt)
}

// Stop halts dispatch without unbinding elements.
func (p *Prototype) Stop() {
	p.machine.Stop()
	p.router.Reset()
	p.started = false
}

// Err returns the error that halted the state machine, if any.
func (p *Prototype) Err() error {
	return p.machine.Err()
}

// Current returns the active state name.
func (p *Prototype) Current() string {
	return p.machine.Current()
}

// InteractionStart routes a new pointer into the scene.
func (p *Prototype) InteractionStart(pointerID int, pose Pose) error {
	return p.router.InteractionStart(pointerID, pose)
}

// InteractionContinue updates a live pointer.
func (p *Prototype) InteractionContinue(pointerID int, pose Pose) error {
	return p.router.InteractionContinue(pointerID, pose)
}

// InteractionEnd releases a live pointer.
func (p *Prototype) InteractionEnd(pointerID int, pose Pose) error {
	return p.router.InteractionEnd(pointerID, pose)
}

// Reload tears the runtime down and rebuilds it from the bundle's current
// contents. A running prototype restarts in the initial state. On rebuild
// failure the prototype is left stopped with the error returned; a later
// Reload may recover once the bundle is fixed.
func (p *Prototype) Reload() error {
	wasStarted := p.started
	p.Stop()
	p.binder.Teardown()
	if err := p.build(); err != nil {
		return err
	}
	if wasStarted {
		return p.Start()
	}
	return nil
}

// Unload stops the runtime, restores the scene, and closes the bundle.
func (p *Prototype) Unload() error {
	p.Stop()
	p.binder.Teardown()
	return p.bundle.Close()
}
