// Package render bundles a CPU baker good enough to turn material
// graphs into usable preview maps. It rasterizes the model's UV layout,
// evaluates the principled inputs per texel, and dilates island edges
// so seams stay clean. It is not a general renderer; it exists so a
// bake run produces real pixels without a render farm attached.
package render

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/agentic-research/autobake/api"
	"github.com/agentic-research/autobake/internal/bake"
	"github.com/agentic-research/autobake/internal/scene"
)

// Software bakes maps on the CPU. Zero value is usable; Seed pins the
// AO sampler for reproducible output.
type Software struct {
	Seed int64
}

var _ bake.Baker = (*Software)(nil)

func NewSoftware() *Software {
	return &Software{Seed: 1}
}

// Bake renders one map into req.Target. Only the path-tracing engine
// bakes; the orchestrator switches it in before calling.
func (s *Software) Bake(ctx context.Context, req bake.Request) error {
	if eng := req.Scene.Render.Engine; eng != scene.EnginePath {
		return fmt.Errorf("render engine %q cannot bake", eng)
	}
	if req.Target == nil {
		return fmt.Errorf("bake request has no target image")
	}
	if req.Object == nil || req.Object.Mesh == nil {
		return fmt.Errorf("bake request has no mesh object")
	}
	layer := req.Object.Mesh.RenderUVLayer()
	if layer == nil {
		return fmt.Errorf("mesh %q has no render UV layer", req.Object.Mesh.Name)
	}
	if req.Material == nil || req.Material.NodeTree == nil {
		return fmt.Errorf("bake request has no material graph")
	}
	principled := req.Material.NodeTree.LastOfKind(scene.NodePrincipled)
	if principled == nil {
		return fmt.Errorf("material %q has no principled node", req.Material.Name)
	}

	shade, err := s.shader(req, principled)
	if err != nil {
		return err
	}

	img := req.Target
	cov, err := rasterize(ctx, req.Object.Mesh, layer, img.Width, img.Height, func(t texel) {
		img.SetPixel(t.x, t.y, shade(t))
	})
	if err != nil {
		return fmt.Errorf("rasterize %q: %w", req.Object.Mesh.Name, err)
	}

	dilate(img, cov, req.Scene.Render.Bake.Margin)
	return nil
}

// shader builds the per-texel evaluator for the requested map type.
func (s *Software) shader(req bake.Request, principled *scene.Node) (func(texel) [4]float32, error) {
	switch req.Map {
	case api.MapDiffuse:
		return func(t texel) [4]float32 {
			c := evalColor(principled, scene.InputBaseColor, t.uv)
			c[3] = 1
			return c
		}, nil

	case api.MapRoughness:
		return func(t texel) [4]float32 {
			r := evalScalar(principled, scene.InputRoughness, t.uv)
			return [4]float32{r, r, r, 1}
		}, nil

	case api.MapNormal:
		b := req.Scene.Render.Bake
		return func(t texel) [4]float32 {
			n := evalTangentNormal(principled, t.uv)
			return encodeNormal(n, b.NormalR, b.NormalG, b.NormalB)
		}, nil

	case api.MapAO:
		occ := buildOccluders(req.Scene)
		samples := req.Scene.Render.Samples
		if samples < 1 {
			samples = 1
		}
		maxDist := req.Scene.World.AODistance
		if maxDist <= 0 {
			maxDist = 10
		}
		rng := rand.New(rand.NewSource(s.Seed))
		return func(t texel) [4]float32 {
			a := occ.occlusion(t.pos, t.nrm, samples, maxDist, rng)
			return [4]float32{a, a, a, 1}
		}, nil
	}
	return nil, fmt.Errorf("unsupported map type %q", req.Map)
}
