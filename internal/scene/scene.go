// Package scene holds the in-memory session model the bake pipeline runs
// against: objects with meshes and material node graphs, a pool of named
// image buffers, and the render settings a bake mutates and restores.
//
// A Scene is confined to a single goroutine. Nothing in this package
// locks; callers that want concurrency get their own Scene.
package scene

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Engine selects the renderer the session is configured for.
type Engine string

const (
	// EnginePath is the path-tracing engine. It is the only engine
	// that can bake.
	EnginePath Engine = "PATH"
	// EngineRaster is the preview rasterizer, the default for an
	// interactive session. It cannot bake.
	EngineRaster Engine = "RASTER"
)

// NormalSpace selects the coordinate space normals are baked in.
type NormalSpace string

const (
	SpaceTangent NormalSpace = "TANGENT"
	SpaceObject  NormalSpace = "OBJECT"
)

// Swizzle maps one normal component onto an output channel.
type Swizzle string

const (
	SwizzlePosX Swizzle = "POS_X"
	SwizzlePosY Swizzle = "POS_Y"
	SwizzlePosZ Swizzle = "POS_Z"
	SwizzleNegX Swizzle = "NEG_X"
	SwizzleNegY Swizzle = "NEG_Y"
	SwizzleNegZ Swizzle = "NEG_Z"
)

// BakeSettings are the bake-specific render settings. The orchestrator
// rewrites these per map type and restores the ambient ones afterwards.
type BakeSettings struct {
	SelectedToActive bool

	// Pass filters for the diffuse bake.
	UsePassDirect   bool
	UsePassIndirect bool
	UsePassColor    bool

	// Normal bake channel mapping.
	NormalSpace NormalSpace
	NormalR     Swizzle
	NormalG     Swizzle
	NormalB     Swizzle

	// Margin is how many texels baked islands bleed outward, hiding
	// seams at UV boundaries.
	Margin int
}

// RenderSettings is the mutable render state of a session.
type RenderSettings struct {
	Engine  Engine
	Samples int
	Bake    BakeSettings
}

// World carries scene-global lighting parameters.
type World struct {
	// AODistance is the occlusion ray range in scene units.
	AODistance float32
}

// Scene is the session store. Objects and images are owned by the scene;
// identity is pointer identity.
type Scene struct {
	Name string
	// BasePath is the directory the scene was loaded from. Paths
	// starting with "//" resolve against it.
	BasePath string

	Render RenderSettings
	World  World

	objects []*Object
	active  *Object

	images     map[string]*Image
	imageOrder []string
}

// New returns an empty scene with interactive-session defaults.
func New(name string) *Scene {
	return &Scene{
		Name: name,
		Render: RenderSettings{
			Engine:  EngineRaster,
			Samples: 128,
			Bake: BakeSettings{
				UsePassDirect:   true,
				UsePassIndirect: true,
				UsePassColor:    true,
				NormalSpace:     SpaceTangent,
				NormalR:         SwizzlePosX,
				NormalG:         SwizzlePosY,
				NormalB:         SwizzlePosZ,
				Margin:          16,
			},
		},
		World:  World{AODistance: 10},
		images: make(map[string]*Image),
	}
}

// AddObject appends o to the scene. The first object added does not
// become active; callers mark the active object explicitly.
func (s *Scene) AddObject(o *Object) {
	s.objects = append(s.objects, o)
}

// Objects returns the scene's objects in insertion order.
func (s *Scene) Objects() []*Object {
	return s.objects
}

// Object returns the first object with the given name, or nil.
func (s *Scene) Object(name string) *Object {
	for _, o := range s.objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// Contains reports whether o is a member of this scene.
func (s *Scene) Contains(o *Object) bool {
	for _, m := range s.objects {
		if m == o {
			return true
		}
	}
	return false
}

// RemoveObject drops o from the scene, clearing the active object if it
// was o. It reports whether o was a member.
func (s *Scene) RemoveObject(o *Object) bool {
	for i, m := range s.objects {
		if m == o {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			if s.active == o {
				s.active = nil
			}
			return true
		}
	}
	return false
}

// ActiveObject returns the active object, or nil if none is active.
func (s *Scene) ActiveObject() *Object {
	return s.active
}

// SetActiveObject makes o the active object. Passing nil clears it.
// o must already be a member of the scene.
func (s *Scene) SetActiveObject(o *Object) {
	if o != nil && !s.Contains(o) {
		return
	}
	s.active = o
}

// SelectedObjects returns the selected objects in scene order.
func (s *Scene) SelectedObjects() []*Object {
	var out []*Object
	for _, o := range s.objects {
		if o.Selected() {
			out = append(out, o)
		}
	}
	return out
}

// DeselectAll clears the selection flag on every object.
func (s *Scene) DeselectAll() {
	for _, o := range s.objects {
		o.Select(false)
	}
}

// NewImage allocates a named image buffer in the scene pool. The buffer
// starts zero-filled with straight alpha. Name collisions are an error;
// the caller decides whether the old buffer should be removed first.
func (s *Scene) NewImage(name string, width, height int) (*Image, error) {
	if name == "" {
		return nil, fmt.Errorf("image name is empty")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}
	if _, ok := s.images[name]; ok {
		return nil, fmt.Errorf("image %q already exists", name)
	}
	img := newImage(name, width, height)
	s.images[name] = img
	s.imageOrder = append(s.imageOrder, name)
	return img, nil
}

// Image returns the named image buffer, or nil.
func (s *Scene) Image(name string) *Image {
	return s.images[name]
}

// RemoveImage drops the named buffer from the pool. It reports whether
// anything was removed.
func (s *Scene) RemoveImage(name string) bool {
	if _, ok := s.images[name]; !ok {
		return false
	}
	delete(s.images, name)
	for i, n := range s.imageOrder {
		if n == name {
			s.imageOrder = append(s.imageOrder[:i], s.imageOrder[i+1:]...)
			break
		}
	}
	return true
}

// ImageNames returns the pooled image names in allocation order.
func (s *Scene) ImageNames() []string {
	out := make([]string, len(s.imageOrder))
	copy(out, s.imageOrder)
	return out
}

// AbsPath resolves a scene-relative path. A leading "//" means relative
// to the scene's BasePath; anything else resolves against the process
// working directory.
func (s *Scene) AbsPath(p string) string {
	if rel, ok := strings.CutPrefix(p, "//"); ok {
		return filepath.Join(s.BasePath, filepath.FromSlash(rel))
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
