package scene

// NodeKind discriminates shader graph nodes.
type NodeKind string

const (
	NodePrincipled     NodeKind = "PRINCIPLED"
	NodeImageTexture   NodeKind = "IMAGE_TEXTURE"
	NodeCheckerTexture NodeKind = "CHECKER_TEXTURE"
	NodeOutput         NodeKind = "OUTPUT"
)

// Input socket names understood by the pipeline.
const (
	InputBaseColor = "BaseColor"
	InputRoughness = "Roughness"
	InputMetallic  = "Metallic"
	InputNormal    = "Normal"
	InputSurface   = "Surface"
	InputColor1    = "Color1"
	InputColor2    = "Color2"
	InputScale     = "Scale"
)

// Input is one node socket: either a constant value or a link to an
// upstream node. Scalars live in Value[0].
type Input struct {
	Value [4]float32
	Link  *Node
}

// Node is one shader graph node.
type Node struct {
	Kind     NodeKind
	Name     string
	Label    string
	Selected bool
	// Image backs image-texture nodes; nil for every other kind.
	Image  *Image
	Inputs map[string]*Input
}

// Input returns the named socket, or nil when the node has no such
// socket.
func (n *Node) Input(name string) *Input {
	if n == nil {
		return nil
	}
	return n.Inputs[name]
}

// SetInput assigns a constant value to the named socket, creating it if
// needed, and drops any link.
func (n *Node) SetInput(name string, v [4]float32) {
	if n.Inputs == nil {
		n.Inputs = make(map[string]*Input)
	}
	n.Inputs[name] = &Input{Value: v}
}

// LinkInput connects the named socket to an upstream node.
func (n *Node) LinkInput(name string, from *Node) {
	if n.Inputs == nil {
		n.Inputs = make(map[string]*Input)
	}
	in := n.Inputs[name]
	if in == nil {
		in = &Input{}
		n.Inputs[name] = in
	}
	in.Link = from
}

// NewPrincipled returns a principled BSDF node with stock defaults.
func NewPrincipled(name string) *Node {
	n := &Node{Kind: NodePrincipled, Name: name}
	n.SetInput(InputBaseColor, [4]float32{0.8, 0.8, 0.8, 1})
	n.SetInput(InputRoughness, [4]float32{0.5, 0, 0, 0})
	n.SetInput(InputMetallic, [4]float32{0, 0, 0, 0})
	n.SetInput(InputNormal, [4]float32{})
	return n
}

// NewImageTexture returns an image-texture node sampling img.
func NewImageTexture(name string, img *Image) *Node {
	return &Node{Kind: NodeImageTexture, Name: name, Image: img}
}

// NewChecker returns a checker-texture node alternating two colors.
func NewChecker(name string, c1, c2 [4]float32, scale float32) *Node {
	n := &Node{Kind: NodeCheckerTexture, Name: name}
	n.SetInput(InputColor1, c1)
	n.SetInput(InputColor2, c2)
	n.SetInput(InputScale, [4]float32{scale, 0, 0, 0})
	return n
}

// NewOutput returns a material output node.
func NewOutput(name string) *Node {
	return &Node{Kind: NodeOutput, Name: name}
}

// NodeTree is a material's shader graph. Node order is insertion order;
// the active node is the one image bakes write into.
type NodeTree struct {
	nodes  []*Node
	active *Node
}

// Nodes returns the graph's nodes in insertion order.
func (t *NodeTree) Nodes() []*Node {
	return t.nodes
}

// Add appends n to the graph.
func (t *NodeTree) Add(n *Node) {
	t.nodes = append(t.nodes, n)
}

// Remove drops n from the graph, clearing the active node if it was n.
// It reports whether n was a member.
func (t *NodeTree) Remove(n *Node) bool {
	for i, m := range t.nodes {
		if m == n {
			t.nodes = append(t.nodes[:i], t.nodes[i+1:]...)
			if t.active == n {
				t.active = nil
			}
			return true
		}
	}
	return false
}

// Node returns the first node with the given name, or nil.
func (t *NodeTree) Node(name string) *Node {
	for _, n := range t.nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// LastOfKind returns the last node of the given kind in graph order, or
// nil. When duplicate shader nodes exist the last one wins.
func (t *NodeTree) LastOfKind(kind NodeKind) *Node {
	var found *Node
	for _, n := range t.nodes {
		if n.Kind == kind {
			found = n
		}
	}
	return found
}

// SetActive marks n as the active node. n must be a member of the tree.
func (t *NodeTree) SetActive(n *Node) {
	if n == nil {
		t.active = nil
		return
	}
	for _, m := range t.nodes {
		if m == n {
			t.active = n
			return
		}
	}
}

// Active returns the active node, or nil.
func (t *NodeTree) Active() *Node {
	return t.active
}

// Material is a named shader. Only node-based materials can be baked.
type Material struct {
	Name     string
	UseNodes bool
	NodeTree *NodeTree
}

// NewMaterial returns an empty node-based material.
func NewMaterial(name string) *Material {
	return &Material{Name: name, UseNodes: true, NodeTree: &NodeTree{}}
}

// NewPrincipledMaterial returns a material with the standard two-node
// graph: a principled BSDF wired into a material output.
func NewPrincipledMaterial(name string) *Material {
	m := NewMaterial(name)
	bsdf := NewPrincipled(name + " BSDF")
	out := NewOutput("Material Output")
	out.LinkInput(InputSurface, bsdf)
	m.NodeTree.Add(bsdf)
	m.NodeTree.Add(out)
	return m
}
