package rowan

import (
	"encoding/json"
	"fmt"
	"math"
)

// Scene owns a node tree and answers the scene-graph/collision queries the
// binder and interaction elements need: raycasting, child traversal, mesh
// bounds, and transform writes. It is the explicit capability boundary toward
// a host engine; the built-in implementation is fully headless.
type Scene struct {
	root *Node
}

// NewScene creates a scene with a pre-created root node.
func NewScene() *Scene {
	return &Scene{root: NewNode("root")}
}

// Root returns the scene's root node.
func (s *Scene) Root() *Node {
	return s.root
}

// Walk visits every node in the tree depth-first, parents before children.
func (s *Scene) Walk(visit func(*Node)) {
	walkNode(s.root, visit)
}

func walkNode(n *Node, visit func(*Node)) {
	visit(n)
	for _, c := range n.Children() {
		walkNode(c, visit)
	}
}

// RaycastHit describes a ray/collider intersection.
type RaycastHit struct {
	Node     *Node
	Point    Vec3
	Distance float64
}

// Raycast returns the nearest collider hit along the ray, or ok=false when
// nothing is hit. Nodes without colliders are transparent but their children
// are still tested.
func (s *Scene) Raycast(r Ray) (RaycastHit, bool) {
	return raycastNode(s.root, r)
}

// RaycastNode tests the ray against a single subtree.
func (s *Scene) RaycastNode(n *Node, r Ray) (RaycastHit, bool) {
	return raycastNode(n, r)
}

func raycastNode(n *Node, r Ray) (RaycastHit, bool) {
	best := RaycastHit{Distance: math.Inf(1)}
	found := false

	if min, max, ok := n.colliderBounds(); ok {
		world := n.World()
		localRay := Ray{
			Origin:    world.Invert(r.Origin),
			Direction: world.InvertDirection(r.Direction).Normalized(),
		}
		if t, hit := rayBoxIntersect(localRay, min, max); hit {
			point := world.Apply(localRay.At(t))
			dist := point.Sub(r.Origin).Length()
			best = RaycastHit{Node: n, Point: point, Distance: dist}
			found = true
		}
	}

	for _, c := range n.Children() {
		if hit, ok := raycastNode(c, r); ok && hit.Distance < best.Distance {
			best = hit
			found = true
		}
	}
	return best, found
}

// --- Scene export loading ---

// sceneExport mirrors the JSON shape of an engine scene export:
// {"objects":[{name, transform{position, rotation, scale}, mesh{vertices,
// triangles}, children}]}. Vectors are [x,y,z] arrays; rotations may carry a
// fourth (w) component.
type sceneExport struct {
	GroupName string         `json:"groupName"`
	Objects   []objectExport `json:"objects"`
}

type objectExport struct {
	Name      string          `json:"name"`
	Transform transformExport `json:"transform"`
	Mesh      *meshExport     `json:"mesh"`
	Children  []objectExport  `json:"children"`
}

type transformExport struct {
	Position []float64 `json:"position"`
	Rotation []float64 `json:"rotation"`
	Scale    []float64 `json:"scale"`
}

type meshExport struct {
	Vertices  [][]float64 `json:"vertices"`
	Triangles []int       `json:"triangles"`
}

// LoadScene parses a scene export JSON document into a Scene.
func LoadScene(data []byte) (*Scene, error) {
	var export sceneExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, configErrorf("scene", "malformed scene export: %v", err)
	}
	if export.Objects == nil {
		return nil, configErrorf("scene", "missing 'objects' array")
	}
	s := NewScene()
	if export.GroupName != "" {
		s.root.Name = export.GroupName
	}
	for _, obj := range export.Objects {
		child, err := buildNode(obj)
		if err != nil {
			return nil, err
		}
		s.root.AddChild(child)
	}
	return s, nil
}

func buildNode(obj objectExport) (*Node, error) {
	name := obj.Name
	if name == "" {
		name = "UnnamedObject"
	}
	var n *Node
	if obj.Mesh != nil {
		mesh, err := buildMesh(name, obj.Mesh)
		if err != nil {
			return nil, err
		}
		n = NewMeshNode(name, mesh)
	} else {
		n = NewNode(name)
	}
	n.Position = vecFromSlice(obj.Transform.Position)
	n.Rotation = quatFromSlice(obj.Transform.Rotation)
	if len(obj.Transform.Scale) >= 3 {
		n.Scale = vecFromSlice(obj.Transform.Scale)
	}
	for _, c := range obj.Children {
		child, err := buildNode(c)
		if err != nil {
			return nil, err
		}
		n.AddChild(child)
	}
	return n, nil
}

func buildMesh(name string, m *meshExport) (*Mesh, error) {
	mesh := &Mesh{Triangles: m.Triangles}
	for i, v := range m.Vertices {
		if len(v) < 3 {
			return nil, configErrorf("scene", "object %q: vertex %d has %d components", name, i, len(v))
		}
		mesh.Vertices = append(mesh.Vertices, Vec3{v[0], v[1], v[2]})
	}
	for i, idx := range m.Triangles {
		if idx < 0 || idx >= len(mesh.Vertices) {
			return nil, configErrorf("scene", "object %q: triangle index %d out of range at %d", name, idx, i)
		}
	}
	return mesh, nil
}

func vecFromSlice(s []float64) Vec3 {
	var v Vec3
	if len(s) > 0 {
		v.X = s[0]
	}
	if len(s) > 1 {
		v.Y = s[1]
	}
	if len(s) > 2 {
		v.Z = s[2]
	}
	return v
}

// quatFromSlice accepts either euler degrees [x,y,z] or a quaternion
// [x,y,z,w], matching the two rotation encodings seen in scene exports.
func quatFromSlice(s []float64) Quat {
	switch len(s) {
	case 4:
		return Quat{W: s[3], X: s[0], Y: s[1], Z: s[2]}.Normalized()
	case 3:
		return eulerDegrees(s[0], s[1], s[2])
	}
	return QuatIdentity
}

// eulerDegrees builds a rotation from euler angles in degrees, applied
// Z then X then Y (engine export convention).
func eulerDegrees(x, y, z float64) Quat {
	qx := QuatAxisAngle(Vec3{1, 0, 0}, x*math.Pi/180)
	qy := QuatAxisAngle(Vec3{0, 1, 0}, y*math.Pi/180)
	qz := QuatAxisAngle(Vec3{0, 0, 1}, z*math.Pi/180)
	return qy.Mul(qx).Mul(qz)
}

// FindNode returns the first node with the given name in depth-first order,
// or nil when absent. Intended for tests and demos; the binder uses full
// suffix matching instead.
func (s *Scene) FindNode(name string) *Node {
	var found *Node
	s.Walk(func(n *Node) {
		if found == nil && n.Name == name {
			found = n
		}
	})
	return found
}

func (s *Scene) String() string {
	count := 0
	s.Walk(func(*Node) { count++ })
	return fmt.Sprintf("Scene(%d nodes)", count)
}
