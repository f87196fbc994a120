// toaster runs the classic toaster prototype: pull the lever down to start
// toasting, watch the indicator light, and wait for the pop (or cancel).
// The bundle is embedded so the demo is a single binary.
package main

import (
	"embed"
	"fmt"
	"image/color"
	"io/fs"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/rowan"
)

const (
	screenW = 640
	screenH = 480

	// World-to-screen mapping: the prototype lives in a few world units
	// around the origin, y up.
	pixelsPerUnit = 120
)

//go:embed bundle
var bundleFS embed.FS

type game struct {
	proto   *rowan.Prototype
	pressed bool
	state   string
	lastEv  string
}

func (g *game) StateChanged(name string) {
	g.state = name
}

func (g *game) ElementEvent(ev rowan.ElementEvent) {
	g.lastEv = fmt.Sprintf("%s %s %v", ev.Element, ev.Type, ev.Params)
}

func (g *game) Update() error {
	mx, my := ebiten.CursorPosition()
	pose := poseAt(mx, my)

	down := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	switch {
	case down && !g.pressed:
		if err := g.proto.InteractionStart(1, pose); err != nil {
			return err
		}
	case down && g.pressed:
		if err := g.proto.InteractionContinue(1, pose); err != nil {
			return err
		}
	case !down && g.pressed:
		if err := g.proto.InteractionEnd(1, pose); err != nil {
			return err
		}
	}
	g.pressed = down

	g.proto.Update(1.0 / 60)
	return g.proto.Err()
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{24, 24, 32, 255})
	g.proto.Scene().Walk(func(n *rowan.Node) {
		if n.Mesh == nil || !n.Visible {
			return
		}
		min, max := n.Mesh.Bounds()
		world := n.World()
		x0, y0 := toScreen(world.Apply(rowan.Vec3{X: min.X, Y: max.Y}))
		x1, y1 := toScreen(world.Apply(rowan.Vec3{X: max.X, Y: min.Y}))
		vector.DrawFilledRect(screen, x0, y0, x1-x0, y1-y0, nodeColor(n), false)
	})
	ebitenutil.DebugPrint(screen, fmt.Sprintf("state: %s\nlast event: %s", g.state, g.lastEv))
}

func (g *game) Layout(int, int) (int, int) {
	return screenW, screenH
}

// nodeColor shades a part by its appearance fields: emission blends the
// part toward its emission color.
func nodeColor(n *rowan.Node) color.Color {
	base := rowan.Color{R: 0.45, G: 0.45, B: 0.5, A: 1}
	if n.EmissionAlpha > 0 {
		a := n.EmissionAlpha
		base.R += (n.EmissionColor.R - base.R) * a
		base.G += (n.EmissionColor.G - base.G) * a
		base.B += (n.EmissionColor.B - base.B) * a
	}
	return color.RGBA{
		R: uint8(base.R * 255),
		G: uint8(base.G * 255),
		B: uint8(base.B * 255),
		A: 255,
	}
}

// poseAt maps a cursor position to a pointer pose just in front of the
// scene, aiming along +Z.
func poseAt(mx, my int) rowan.Pose {
	wx := float64(mx-screenW/2) / pixelsPerUnit
	wy := float64(screenH/2-my) / pixelsPerUnit
	return rowan.Pose{
		Position: rowan.Vec3{X: wx, Y: wy, Z: -1},
		Forward:  rowan.Vec3{Z: 1},
		Up:       rowan.Vec3{Y: 1},
	}
}

func toScreen(v rowan.Vec3) (float32, float32) {
	return float32(screenW/2 + v.X*pixelsPerUnit), float32(screenH/2 - v.Y*pixelsPerUnit)
}

func main() {
	sub, err := fs.Sub(bundleFS, "bundle")
	if err != nil {
		log.Fatal(err)
	}
	proto, err := rowan.LoadPrototypeBundle(rowan.NewBundleFS(sub), nil)
	if err != nil {
		log.Fatal(err)
	}
	defer proto.Unload()

	g := &game{proto: proto, state: "-"}
	proto.AddListener(g)
	if err := proto.Start(); err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(screenW, screenH)
	ebiten.SetWindowTitle(proto.Manifest().Name)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
