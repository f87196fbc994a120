package rowan

// TouchArea converts pointer rays hitting its collider into 2D pixel
// coordinates on a cached plane fitted over the represented mesh.
type TouchArea struct {
	elementBase
	spec    *InteractionSpec
	scene   *Scene
	surface Surface
	touchX  float64
	touchY  float64
	touched bool
}

func newTouchArea(spec *InteractionSpec, node *Node, scene *Scene) (*TouchArea, error) {
	t := &TouchArea{
		elementBase: newElementBase(spec.Name, node),
		spec:        spec,
		scene:       scene,
	}
	// The touch plane is sized so it fully occludes the mesh from straight-on
	// view; the spec plane normal is given in the object's local frame.
	world := node.World()
	normal := world.ApplyDirection(spec.Plane.Normalized())
	up := world.ApplyDirection(Vec3{0, 1, 0})
	t.surface = BoundingSurface(node.Mesh, world, normal, up)
	if err := applyInitialAttributes(t, spec); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *TouchArea) Kind() InteractionKind { return KindTouchArea }

// Value returns the last touch coordinate in pixels as a Vec3 (Z unused).
func (t *TouchArea) Value() any {
	return Vec3{t.touchX, t.touchY, 0}
}

func (t *TouchArea) SetAttribute(attr Attribute, raw string) error {
	if handled, err := t.setCommonAttribute(attr, raw); handled {
		return err
	}
	return configErrorf("", "touch area %q has no attribute %q", t.name, attr)
}

func (t *TouchArea) HandleStart(p Pose) {
	t.HandleContinue(p)
}

func (t *TouchArea) HandleContinue(p Pose) {
	if t.fixed {
		return
	}
	ray := p.Ray()
	var point Vec3
	if t.scene != nil {
		hit, ok := t.scene.RaycastNode(t.node, ray)
		if !ok {
			return
		}
		point = hit.Point
	} else {
		// No raycast capability: project onto the cached plane directly.
		normal := t.surface.Normal()
		denom := ray.Direction.Dot(normal)
		if denom == 0 {
			return
		}
		dist := t.surface.Center.Sub(ray.Origin).Dot(normal) / denom
		if dist < 0 {
			return
		}
		point = ray.At(dist)
	}

	u, v := t.surface.UV(point)
	// Viewed from behind (ray travelling along the plane normal), the
	// horizontal axis ratio inverts.
	if ray.Direction.Dot(t.surface.Normal()) > 0 {
		u = 1 - u
	}
	t.touchX = clamp01(u) * float64(t.spec.Resolution.X)
	t.touchY = clamp01(v) * float64(t.spec.Resolution.Y)
	t.touched = true
	t.raise(EventTouch, Params{"x": t.touchX, "y": t.touchY})
}

func (t *TouchArea) HandleEnd(p Pose) {
	if !t.touched {
		return
	}
	t.touched = false
	t.raise(EventTouchEnd, Params{"x": t.touchX, "y": t.touchY})
}

func (t *TouchArea) Update(float32) {}

func (t *TouchArea) Teardown() {
	t.teardownBase()
}
