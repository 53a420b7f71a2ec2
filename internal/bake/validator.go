package bake

import (
	"fmt"

	"github.com/agentic-research/autobake/internal/scene"
)

// Context is the validated slice of the scene a bake run operates on.
type Context struct {
	Model      *scene.Object
	Material   *scene.Material
	Principled *scene.Node
}

// Validate checks that the session is bakeable and resolves the model,
// material and principled node the run will use. Checks run in order
// and stop at the first hard failure. Recoverable problems (extra
// selected objects, no render UV layer) are repaired in place and
// reported as warnings.
func Validate(sc *scene.Scene, rep *Reporter) (*Context, error) {
	model := sc.ActiveObject()
	if model == nil {
		return nil, ErrNoActiveObject
	}
	if model.Type != scene.ObjectMesh || model.Mesh == nil {
		return nil, fmt.Errorf("object %q: %w", model.Name, ErrNotAMesh)
	}

	if len(sc.SelectedObjects()) > 1 {
		rep.Warnf("More than one object selected. Baking only the active object %q.", model.Name)
	}

	mesh := model.Mesh
	if len(mesh.UVLayers) == 0 {
		return nil, fmt.Errorf("model %q: %w", model.Name, ErrNoUVMap)
	}

	renderLayer := mesh.RenderUVLayer()
	if renderLayer == nil {
		renderLayer = mesh.UVLayers[0]
		renderLayer.ActiveRender = true
		rep.Warnf("No UV map was active for render on %q. Automatically set %q as active for render.",
			model.Name, renderLayer.Name)
	}

	// keep an edit-active layer set as well, preferring the render one
	if mesh.ActiveUVLayer() == nil {
		idx := 0
		for i, l := range mesh.UVLayers {
			if l == renderLayer {
				idx = i
				break
			}
		}
		mesh.ActiveUVIndex = idx
	}
	rep.Debugf("using UV map %q for bake", renderLayer.Name)

	material := model.ActiveMaterial()
	if material == nil {
		return nil, fmt.Errorf("model %q: %w", model.Name, ErrNoMaterial)
	}
	if !material.UseNodes || material.NodeTree == nil {
		return nil, fmt.Errorf("material %q: %w", material.Name, ErrNodesDisabled)
	}

	principled := material.NodeTree.LastOfKind(scene.NodePrincipled)
	if principled == nil {
		return nil, fmt.Errorf("material %q: %w", material.Name, ErrNoPrincipledNode)
	}

	rep.Debugf("validated model=%q material=%q principled=%q", model.Name, material.Name, principled.Name)
	return &Context{Model: model, Material: material, Principled: principled}, nil
}
