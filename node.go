package rowan

// nodeIDCounter is a plain counter (no atomic — rowan is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// PhysicsBody is an optional capability on a node provided by a host physics
// engine. Movable elements prefer MoveTo over direct transform writes when a
// body is present.
type PhysicsBody interface {
	MoveTo(position Vec3, rotation Quat)
}

// Playable is an optional capability for animation and particle playback
// attached to a node by the host engine.
type Playable interface {
	Play()
	Stop()
	IsPlaying() bool
}

// Node is a scene graph element. A single flat struct serves every node kind;
// visualization behaviors mutate the appearance fields and restore them on
// teardown.
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local)
	Position Vec3
	Rotation Quat
	Scale    Vec3

	// Computed world transform (lazily recomputed when dirty)
	world          Transform
	transformDirty bool

	// Geometry
	Mesh *Mesh
	// Collider is the local-space AABB used for raycasts. Zero means
	// "derive from Mesh"; nil mesh and zero collider make the node
	// ray-transparent.
	ColliderMin, ColliderMax Vec3
	ColliderEnabled          bool

	// Appearance (mutated by visualization elements)
	Visible       bool
	EmissionColor Color
	EmissionAlpha float64
	LightOn       bool
	Volume        float64
	ScreenContent string
	ScreenTexts   []string

	// Host capabilities
	Body      PhysicsBody
	Animation Playable
	Particles Playable
	Audio     AudioPlayer

	// Internal
	disposed bool
}

// nodeDefaults sets the common default field values shared by constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.Rotation = QuatIdentity
	n.Scale = Vec3One
	n.Visible = true
	n.transformDirty = true
}

// NewNode creates a bare scene node.
func NewNode(name string) *Node {
	n := &Node{Name: name}
	nodeDefaults(n)
	return n
}

// NewMeshNode creates a node carrying mesh geometry with a collider derived
// from the mesh bounds.
func NewMeshNode(name string, mesh *Mesh) *Node {
	n := &Node{Name: name, Mesh: mesh}
	nodeDefaults(n)
	if mesh != nil {
		n.ColliderMin, n.ColliderMax = mesh.Bounds()
		n.ColliderEnabled = true
	}
	return n
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("rowan: cannot add nil child")
	}
	if isAncestor(child, n) {
		panic("rowan: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	markSubtreeDirty(child)
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("rowan: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	markSubtreeDirty(child)
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// --- Transform access ---

// SetPosition sets the node's local position and marks it dirty.
func (n *Node) SetPosition(p Vec3) {
	n.Position = p
	markSubtreeDirty(n)
}

// SetRotation sets the node's local rotation and marks it dirty.
func (n *Node) SetRotation(q Quat) {
	n.Rotation = q
	markSubtreeDirty(n)
}

// SetScale sets the node's local scale and marks it dirty.
func (n *Node) SetScale(s Vec3) {
	n.Scale = s
	markSubtreeDirty(n)
}

// Local returns the node's local transform.
func (n *Node) Local() Transform {
	return Transform{Position: n.Position, Rotation: n.Rotation, Scale: n.Scale}
}

// World returns the node's world transform, recomputing the ancestor chain
// if any of it is dirty.
func (n *Node) World() Transform {
	if n.anyDirty() {
		n.recomputeWorld()
	}
	return n.world
}

// WorldPosition returns the node's position in world space.
func (n *Node) WorldPosition() Vec3 {
	return n.World().Position
}

func (n *Node) anyDirty() bool {
	for p := n; p != nil; p = p.Parent {
		if p.transformDirty {
			return true
		}
	}
	return false
}

func (n *Node) recomputeWorld() {
	if n.Parent == nil {
		n.world = n.Local()
	} else {
		n.Parent.recomputeWorld()
		n.world = Compose(n.Parent.world, n.Local())
	}
	n.transformDirty = false
}

// Depth returns the number of ancestors above this node.
func (n *Node) Depth() int {
	d := 0
	for p := n.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

// Path returns the slash-joined names from the root to this node.
func (n *Node) Path() string {
	if n.Parent == nil {
		return n.Name
	}
	return n.Parent.Path() + "/" + n.Name
}

// --- Collider ---

// colliderBounds returns the effective local collider box and whether the
// node participates in raycasts at all.
func (n *Node) colliderBounds() (Vec3, Vec3, bool) {
	if !n.ColliderEnabled {
		return Vec3{}, Vec3{}, false
	}
	if n.ColliderMin != n.ColliderMax {
		return n.ColliderMin, n.ColliderMax, true
	}
	if n.Mesh != nil {
		min, max := n.Mesh.Bounds()
		return min, max, true
	}
	return Vec3{}, Vec3{}, false
}

// --- Snapshot & restore ---

// nodeSnapshot records the pre-binding state a live element must restore.
type nodeSnapshot struct {
	position        Vec3
	rotation        Quat
	scale           Vec3
	visible         bool
	emissionColor   Color
	emissionAlpha   float64
	lightOn         bool
	volume          float64
	screenContent   string
	colliderEnabled bool
}

func snapshotNode(n *Node) nodeSnapshot {
	return nodeSnapshot{
		position:        n.Position,
		rotation:        n.Rotation,
		scale:           n.Scale,
		visible:         n.Visible,
		emissionColor:   n.EmissionColor,
		emissionAlpha:   n.EmissionAlpha,
		lightOn:         n.LightOn,
		volume:          n.Volume,
		screenContent:   n.ScreenContent,
		colliderEnabled: n.ColliderEnabled,
	}
}

func (s nodeSnapshot) restore(n *Node) {
	n.Position = s.position
	n.Rotation = s.rotation
	n.Scale = s.scale
	n.Visible = s.visible
	n.EmissionColor = s.emissionColor
	n.EmissionAlpha = s.emissionAlpha
	n.LightOn = s.lightOn
	n.Volume = s.volume
	n.ScreenContent = s.screenContent
	n.ScreenTexts = nil
	n.ColliderEnabled = s.colliderEnabled
	markSubtreeDirty(n)
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.Mesh = nil
	n.Body = nil
	n.Animation = nil
	n.Particles = nil
	n.Audio = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// markSubtreeDirty sets transformDirty on node and all its descendants.
func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}
