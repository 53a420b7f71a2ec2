package bake

import (
	"context"

	"github.com/agentic-research/autobake/api"
	"github.com/agentic-research/autobake/internal/scene"
)

// Request is one bake invocation, scoped to a single map type. The
// orchestrator has already configured the scene's render and bake
// settings for this map when the request is issued; the baker reads
// them rather than second-guessing.
type Request struct {
	Map      api.MapType
	Scene    *scene.Scene
	Object   *scene.Object
	Material *scene.Material
	// Target is the image buffer the bake writes into. It is the same
	// buffer the material's active bake-target node carries.
	Target *scene.Image
}

// Baker renders one map into the request's target image. Implementations
// must honor ctx cancellation between units of work and must not touch
// scene state beyond the target's pixels.
type Baker interface {
	Bake(ctx context.Context, req Request) error
}

// ImageSaver persists baked images to their FilePath. MkdirAll is split
// out so directory creation fails during setup, not mid-save.
type ImageSaver interface {
	MkdirAll(dir string) error
	Save(img *scene.Image) error
}
