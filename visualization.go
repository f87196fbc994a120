package rowan

import (
	"fmt"
	"strings"
)

// AudioPlayer is the playback capability a host attaches to sound source
// nodes. The audio subpackage provides a beep-backed implementation; tests
// use fakes.
type AudioPlayer interface {
	SetVolume(v float64)
	Play()
	Stop()
	IsPlaying() bool
}

// ContentResolver resolves a screen content file name to a displayable asset
// reference. Implementations probe image, video, and URL forms in sequence
// and return an AssetNotFoundError only when every form fails.
type ContentResolver func(fileName string) (string, error)

// ScreenContent is the structured content form accepted by screens.
type ScreenContent struct {
	FileName string
	Texts    []string
}

// visualizationBase is the common core of visualization elements.
type visualizationBase struct {
	elementBase
}

func (v *visualizationBase) Update(float32) {}

func (v *visualizationBase) Teardown() {
	v.teardownBase()
}

// --- Light ---

// Light blends an emission overlay (alpha = value) over the represented
// node and toggles its attached light source.
type Light struct {
	visualizationBase
	spec *VisualizationSpec
}

func newLight(spec *VisualizationSpec, node *Node) *Light {
	l := &Light{visualizationBase{newElementBase(spec.Name, node)}, spec}
	node.EmissionColor = spec.EmissionColor
	return l
}

func (l *Light) Kind() VisualizationKind { return KindLight }

func (l *Light) Visualize(value any) error {
	v, ok := valueAsFloat(value)
	if !ok {
		return fmt.Errorf("light %q: unsupported value %T", l.name, value)
	}
	l.node.EmissionAlpha = clamp01(v)
	l.node.LightOn = v > 0
	return nil
}

// --- Screen ---

// Screen swaps the displayed image/video/text overlay. Content pushes are
// edge-triggered by the state machine, not per-tick.
type Screen struct {
	visualizationBase
	spec    *VisualizationSpec
	resolve ContentResolver
	surface Surface
}

func newScreen(spec *VisualizationSpec, node *Node, resolve ContentResolver) *Screen {
	s := &Screen{visualizationBase{newElementBase(spec.Name, node)}, spec, resolve, Surface{}}
	world := node.World()
	normal := world.ApplyDirection(spec.Plane.Normalized())
	up := world.ApplyDirection(Vec3{0, 1, 0})
	s.surface = BoundingSurface(node.Mesh, world, normal, up)
	return s
}

func (s *Screen) Kind() VisualizationKind { return KindScreen }

// Surface returns the display rectangle fitted over the represented mesh.
func (s *Screen) Surface() Surface { return s.surface }

func (s *Screen) Visualize(value any) error {
	switch v := value.(type) {
	case bool:
		s.node.Visible = v
		return nil
	case float64:
		s.node.Visible = v > 0
		return nil
	case string:
		return s.show(v, nil)
	case ScreenContent:
		return s.show(v.FileName, v.Texts)
	}
	return fmt.Errorf("screen %q: unsupported value %T", s.name, value)
}

func (s *Screen) show(fileName string, texts []string) error {
	content := fileName
	if s.resolve != nil {
		resolved, err := s.resolve(fileName)
		if err != nil {
			return err
		}
		content = resolved
	}
	s.node.ScreenContent = content
	s.node.ScreenTexts = texts
	s.node.Visible = true
	return nil
}

// --- AppearingObject ---

// AppearingObject toggles the represented node's visibility.
type AppearingObject struct {
	visualizationBase
}

func newAppearingObject(spec *VisualizationSpec, node *Node) *AppearingObject {
	a := &AppearingObject{visualizationBase{newElementBase(spec.Name, node)}}
	if spec.Value != nil {
		node.Visible = *spec.Value > 0
	}
	return a
}

func (a *AppearingObject) Kind() VisualizationKind { return KindAppearingObject }

func (a *AppearingObject) Visualize(value any) error {
	v, ok := valueAsFloat(value)
	if !ok {
		return fmt.Errorf("appearing object %q: unsupported value %T", a.name, value)
	}
	a.node.Visible = v > 0
	return nil
}

// --- SoundSource ---

// SoundSource drives playback volume from the value and starts playback on
// the transition to a positive value while not already playing.
type SoundSource struct {
	visualizationBase
}

func newSoundSource(spec *VisualizationSpec, node *Node) *SoundSource {
	return &SoundSource{visualizationBase{newElementBase(spec.Name, node)}}
}

func (s *SoundSource) Kind() VisualizationKind { return KindSoundSource }

func (s *SoundSource) Visualize(value any) error {
	v, ok := valueAsFloat(value)
	if !ok {
		return fmt.Errorf("sound source %q: unsupported value %T", s.name, value)
	}
	s.node.Volume = clamp01(v)
	player := s.node.Audio
	if player == nil {
		return nil
	}
	player.SetVolume(s.node.Volume)
	if v > 0 && !player.IsPlaying() {
		player.Play()
	} else if v <= 0 && player.IsPlaying() {
		player.Stop()
	}
	return nil
}

func (s *SoundSource) Teardown() {
	if s.node.Audio != nil && s.node.Audio.IsPlaying() {
		s.node.Audio.Stop()
	}
	s.teardownBase()
}

// --- Animation & Particles ---

// AnimationElement starts and stops a playable animation on the node.
type AnimationElement struct {
	visualizationBase
}

func newAnimationElement(spec *VisualizationSpec, node *Node) *AnimationElement {
	return &AnimationElement{visualizationBase{newElementBase(spec.Name, node)}}
}

func (a *AnimationElement) Kind() VisualizationKind { return KindAnimation }

func (a *AnimationElement) Visualize(value any) error {
	return togglePlayable(a.name, "animation", a.node.Animation, value)
}

func (a *AnimationElement) Teardown() {
	stopPlayable(a.node.Animation)
	a.teardownBase()
}

// ParticlesElement starts and stops a particle system on the node.
type ParticlesElement struct {
	visualizationBase
}

func newParticlesElement(spec *VisualizationSpec, node *Node) *ParticlesElement {
	return &ParticlesElement{visualizationBase{newElementBase(spec.Name, node)}}
}

func (p *ParticlesElement) Kind() VisualizationKind { return KindParticles }

func (p *ParticlesElement) Visualize(value any) error {
	return togglePlayable(p.name, "particles", p.node.Particles, value)
}

func (p *ParticlesElement) Teardown() {
	stopPlayable(p.node.Particles)
	p.teardownBase()
}

func togglePlayable(name, kind string, playable Playable, value any) error {
	v, ok := valueAsFloat(value)
	if !ok {
		return fmt.Errorf("%s %q: unsupported value %T", kind, name, value)
	}
	if playable == nil {
		return nil
	}
	if v > 0 && !playable.IsPlaying() {
		playable.Play()
	} else if v <= 0 && playable.IsPlaying() {
		playable.Stop()
	}
	return nil
}

func stopPlayable(p Playable) {
	if p != nil && p.IsPlaying() {
		p.Stop()
	}
}

// --- LightArray ---

// LightArray fans a single float out across its member lights: value v
// lights the first floor(v*n) members fully and the next one fractionally.
type LightArray struct {
	name    string
	members []VisualizationElement
}

func newLightArray(spec *VisualizationSpec, members []VisualizationElement) *LightArray {
	return &LightArray{name: spec.Name, members: members}
}

func (l *LightArray) Name() string { return l.name }

// Node returns nil: arrays aggregate members and bind to no scene node.
func (l *LightArray) Node() *Node { return nil }

func (l *LightArray) Kind() VisualizationKind { return KindLightArray }

func (l *LightArray) Visualize(value any) error {
	v, ok := valueAsFloat(value)
	if !ok {
		return fmt.Errorf("light array %q: unsupported value %T", l.name, value)
	}
	v = clamp01(v)
	n := len(l.members)
	scaled := v * float64(n)
	var errs []string
	for i, member := range l.members {
		portion := clamp01(scaled - float64(i))
		if err := member.Visualize(portion); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("light array %q: %s", l.name, strings.Join(errs, "; "))
	}
	return nil
}

func (l *LightArray) Update(float32) {}

// Teardown is a no-op: members restore their own nodes.
func (l *LightArray) Teardown() {}
