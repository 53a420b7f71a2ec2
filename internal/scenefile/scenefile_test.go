package scenefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/autobake/api"
	"github.com/agentic-research/autobake/internal/scene"
)

func load(t *testing.T, src string) (*scene.Scene, api.Config) {
	t.Helper()
	sc, cfg, err := loadErr(t, src)
	require.NoError(t, err)
	return sc, cfg
}

func loadErr(t *testing.T, src string) (*scene.Scene, api.Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.hcl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return Load(path)
}

func TestLoadFullDocument(t *testing.T) {
	sc, cfg := load(t, `
scene {
  engine      = "path"
  samples     = 64
  ao_distance = 4
  margin      = 3
}

bake {
  texture_size       = 256
  output_folder      = "//maps/"
  subfolder_for_size = false
  normal             = false
}

object "Crate" {
  active = true
  mesh {
    shape = "box"
    size  = [1, 2, 3]
  }
  material "Plain" {}
  material "CrateMat" {
    active = true
    principled {
      base_color = [0.8, 0.2, 0.2]
      roughness  = 0.35
      texture "roughness" {
        checker {
          color1 = [1, 1, 1]
          color2 = [0, 0, 0]
          scale  = 4
        }
      }
    }
  }
}

object "Cam" {
  type = "camera"
}
`)

	assert.Equal(t, "scene", sc.Name)
	assert.Equal(t, scene.EnginePath, sc.Render.Engine)
	assert.Equal(t, 64, sc.Render.Samples)
	assert.Equal(t, float32(4), sc.World.AODistance)
	assert.Equal(t, 3, sc.Render.Bake.Margin)

	assert.Equal(t, 256, cfg.TextureSize)
	assert.Equal(t, "//maps/", cfg.OutputFolder)
	assert.False(t, cfg.SubfolderForSize)
	assert.False(t, cfg.BakeNormal)
	assert.True(t, cfg.BakeDiffuse)

	require.Len(t, sc.Objects(), 2)
	crate := sc.ActiveObject()
	require.NotNil(t, crate)
	assert.Equal(t, "Crate", crate.Name)
	assert.True(t, crate.Selected())
	assert.Len(t, crate.Mesh.Faces, 12)

	require.Len(t, crate.MaterialSlots(), 2)
	assert.Equal(t, 1, crate.ActiveMaterialIndex())
	mat := crate.ActiveMaterial()
	require.NotNil(t, mat)
	assert.Equal(t, "CrateMat", mat.Name)

	bsdf := mat.NodeTree.LastOfKind(scene.NodePrincipled)
	require.NotNil(t, bsdf)
	assert.Equal(t, [4]float32{0.8, 0.2, 0.2, 1}, bsdf.Input(scene.InputBaseColor).Value)
	assert.Equal(t, float32(0.35), bsdf.Input(scene.InputRoughness).Value[0])

	checker := mat.NodeTree.Node("Roughness Checker")
	require.NotNil(t, checker)
	assert.Same(t, checker, bsdf.Input(scene.InputRoughness).Link)
	assert.Equal(t, float32(4), checker.Input(scene.InputScale).Value[0])

	cam := sc.Objects()[1]
	assert.Equal(t, scene.ObjectCamera, cam.Type)
	assert.Nil(t, cam.Mesh)
}

func TestLoadDefaults(t *testing.T) {
	sc, cfg := load(t, `
object "Plane" {
  active = true
  mesh {
    shape = "plane"
  }
  material "M" {
    principled {}
  }
}
`)

	assert.Equal(t, scene.EngineRaster, sc.Render.Engine)
	assert.Equal(t, 128, sc.Render.Samples)
	assert.Equal(t, 16, sc.Render.Bake.Margin)
	assert.Equal(t, float32(10), sc.World.AODistance)
	assert.Equal(t, api.DefaultConfig(), cfg)

	obj := sc.ActiveObject()
	require.NotNil(t, obj)
	assert.Len(t, obj.Mesh.Faces, 2)
	layer := obj.Mesh.RenderUVLayer()
	require.NotNil(t, layer)
	assert.Equal(t, "UVMap", layer.Name)

	mat := obj.ActiveMaterial()
	require.NotNil(t, mat)
	assert.True(t, mat.UseNodes)
	assert.NotNil(t, mat.NodeTree.LastOfKind(scene.NodePrincipled))
}

func TestLoadBasePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crate.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
object "O" {
  mesh { shape = "plane" }
}
`), 0o644))

	sc, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "crate", sc.Name)
	assert.Equal(t, dir, sc.BasePath)
	assert.Equal(t, filepath.Join(dir, "baked_maps"), sc.AbsPath("//baked_maps/"))
}

func TestLoadNoActiveObject(t *testing.T) {
	sc, _ := load(t, `
object "A" {
  selected = true
  mesh { shape = "plane" }
}
object "B" {
  mesh { shape = "plane" }
}
`)

	assert.Nil(t, sc.ActiveObject())
	require.Len(t, sc.SelectedObjects(), 1)
	assert.Equal(t, "A", sc.SelectedObjects()[0].Name)
}

func TestUVLayerControls(t *testing.T) {
	t.Run("no render layer", func(t *testing.T) {
		sc, _ := load(t, `
object "Plane" {
  active = true
  mesh {
    shape = "plane"
    uv_layer "UVMap" { active_render = false }
    uv_layer "Detail" { active = true }
  }
}
`)
		mesh := sc.ActiveObject().Mesh
		require.Len(t, mesh.UVLayers, 2)
		assert.Nil(t, mesh.RenderUVLayer())
		require.NotNil(t, mesh.ActiveUVLayer())
		assert.Equal(t, "Detail", mesh.ActiveUVLayer().Name)
		// cloned layers reuse the generated unwrap
		assert.Equal(t, mesh.UVLayers[0].UV, mesh.UVLayers[1].UV)
	})

	t.Run("render flag moves", func(t *testing.T) {
		sc, _ := load(t, `
object "Plane" {
  active = true
  mesh {
    shape = "plane"
    uv_layer "Detail" { active_render = true }
  }
}
`)
		mesh := sc.ActiveObject().Mesh
		require.Len(t, mesh.UVLayers, 2)
		assert.False(t, mesh.UVLayers[0].ActiveRender)
		require.NotNil(t, mesh.RenderUVLayer())
		assert.Equal(t, "Detail", mesh.RenderUVLayer().Name)
	})
}

func TestUVsDisabled(t *testing.T) {
	sc, _ := load(t, `
object "Raw" {
  active = true
  mesh {
    shape = "plane"
    uvs   = false
  }
}
`)
	mesh := sc.ActiveObject().Mesh
	assert.Empty(t, mesh.UVLayers)
	assert.Nil(t, mesh.ActiveUVLayer())
}

func TestSphereMesh(t *testing.T) {
	sc, _ := load(t, `
object "Ball" {
  active = true
  mesh {
    shape   = "sphere"
    size    = [0.5]
    sectors = 8
    rings   = 4
  }
}
`)
	mesh := sc.ActiveObject().Mesh
	// 8 pole triangles per cap plus two per cell in the middle rings
	assert.Len(t, mesh.Faces, 48)
}

func TestMaterialWithoutPrincipled(t *testing.T) {
	sc, _ := load(t, `
object "O" {
  active = true
  mesh { shape = "plane" }
  material "Empty" { use_nodes = false }
}
`)
	mat := sc.ActiveObject().ActiveMaterial()
	require.NotNil(t, mat)
	assert.False(t, mat.UseNodes)
	assert.Nil(t, mat.NodeTree.LastOfKind(scene.NodePrincipled))
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "unknown shape",
			src: `
object "O" {
  mesh { shape = "torus" }
}
`,
			want: `unknown shape "torus"`,
		},
		{
			name: "missing mesh block",
			src:  `object "O" {}`,
			want: "mesh block is required",
		},
		{
			name: "duplicate object name",
			src: `
object "A" {
  mesh { shape = "plane" }
}
object "A" {
  mesh { shape = "plane" }
}
`,
			want: "duplicate name",
		},
		{
			name: "two active objects",
			src: `
object "A" {
  active = true
  mesh { shape = "plane" }
}
object "B" {
  active = true
  mesh { shape = "plane" }
}
`,
			want: "already active",
		},
		{
			name: "unknown engine",
			src:  `scene { engine = "vulkan" }`,
			want: `unknown engine "vulkan"`,
		},
		{
			name: "invalid samples",
			src:  `scene { samples = 0 }`,
			want: "invalid samples",
		},
		{
			name: "bad color arity",
			src: `
object "O" {
  mesh { shape = "plane" }
  material "M" {
    principled { base_color = [1, 0] }
  }
}
`,
			want: "want 3 or 4 components",
		},
		{
			name: "unlinkable socket",
			src: `
object "O" {
  mesh { shape = "plane" }
  material "M" {
    principled {
      texture "specular" {
        checker {}
      }
    }
  }
}
`,
			want: "socket is not linkable",
		},
		{
			name: "camera with mesh",
			src: `
object "Cam" {
  type = "camera"
  mesh { shape = "plane" }
}
`,
			want: "cannot carry a mesh",
		},
		{
			name: "uvs conflict",
			src: `
object "O" {
  mesh {
    shape = "plane"
    uvs   = false
    uv_layer "Extra" {}
  }
}
`,
			want: "conflicts with uv_layer",
		},
		{
			name: "box size arity",
			src: `
object "O" {
  mesh {
    shape = "box"
    size  = [1, 2]
  }
}
`,
			want: "want one or three components",
		},
		{
			name: "syntax error",
			src:  `object "O" {`,
			want: "parse scene document",
		},
		{
			name: "unknown attribute",
			src: `
object "O" {
  frobnicate = 1
  mesh { shape = "plane" }
}
`,
			want: "decode scene document",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := loadErr(t, tc.src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.Error(t, err)
}
