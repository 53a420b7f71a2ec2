package scene

import "github.com/goki/mat32"

// UVLayer is one UV unwrap of a mesh. Coordinates are stored per face
// corner, three entries per triangle.
type UVLayer struct {
	Name string
	// ActiveRender marks the layer renderers and bakers sample from.
	ActiveRender bool
	UV           []mat32.Vec2
}

// Mesh is triangle geometry with per-vertex normals and any number of
// UV unwraps.
type Mesh struct {
	Name     string
	Vertices []mat32.Vec3
	Normals  []mat32.Vec3
	Faces    [][3]int
	UVLayers []*UVLayer
	// ActiveUVIndex is the layer selected for editing, -1 when unset.
	ActiveUVIndex int
}

// NewMesh returns an empty mesh with no active UV layer.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name, ActiveUVIndex: -1}
}

// AddUVLayer appends a layer. The first layer becomes the active edit
// layer and the render layer.
func (m *Mesh) AddUVLayer(l *UVLayer) {
	if len(m.UVLayers) == 0 {
		l.ActiveRender = true
		m.ActiveUVIndex = 0
	}
	m.UVLayers = append(m.UVLayers, l)
}

// ActiveUVLayer returns the edit-active layer, or nil.
func (m *Mesh) ActiveUVLayer() *UVLayer {
	if m.ActiveUVIndex < 0 || m.ActiveUVIndex >= len(m.UVLayers) {
		return nil
	}
	return m.UVLayers[m.ActiveUVIndex]
}

// RenderUVLayer returns the first layer flagged for rendering, or nil.
func (m *Mesh) RenderUVLayer() *UVLayer {
	for _, l := range m.UVLayers {
		if l.ActiveRender {
			return l
		}
	}
	return nil
}
