// Package scenefile loads HCL scene documents into an in-memory session.
//
// A document declares the state a bake runs against: render settings,
// the bake configuration, and objects with their meshes and materials.
// A minimal bakeable document:
//
//	object "Crate" {
//	  active = true
//	  mesh {
//	    shape = "box"
//	  }
//	  material "CrateMat" {
//	    principled {
//	      base_color = [0.8, 0.2, 0.2]
//	    }
//	  }
//	}
//
// Attributes are literal values only; documents carry no expressions.
package scenefile

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goki/mat32"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/agentic-research/autobake/api"
	"github.com/agentic-research/autobake/internal/scene"
)

type rootDoc struct {
	Scene   *sceneBlock   `hcl:"scene,block"`
	Bake    *bakeBlock    `hcl:"bake,block"`
	Objects []objectBlock `hcl:"object,block"`
}

type sceneBlock struct {
	Engine     *string  `hcl:"engine,optional"`
	Samples    *int     `hcl:"samples,optional"`
	AODistance *float64 `hcl:"ao_distance,optional"`
	Margin     *int     `hcl:"margin,optional"`
}

type bakeBlock struct {
	TextureSize      *int    `hcl:"texture_size,optional"`
	OutputFolder     *string `hcl:"output_folder,optional"`
	SubfolderForSize *bool   `hcl:"subfolder_for_size,optional"`
	Diffuse          *bool   `hcl:"diffuse,optional"`
	Roughness        *bool   `hcl:"roughness,optional"`
	Normal           *bool   `hcl:"normal,optional"`
	AO               *bool   `hcl:"ao,optional"`
}

type objectBlock struct {
	Name      string          `hcl:"name,label"`
	Type      *string         `hcl:"type,optional"`
	Selected  *bool           `hcl:"selected,optional"`
	Active    *bool           `hcl:"active,optional"`
	Mesh      *meshBlock      `hcl:"mesh,block"`
	Materials []materialBlock `hcl:"material,block"`
}

type meshBlock struct {
	Shape    string         `hcl:"shape"`
	Size     []float64      `hcl:"size,optional"`
	Sectors  *int           `hcl:"sectors,optional"`
	Rings    *int           `hcl:"rings,optional"`
	UVs      *bool          `hcl:"uvs,optional"`
	UVLayers []uvLayerBlock `hcl:"uv_layer,block"`
}

type uvLayerBlock struct {
	Name         string `hcl:"name,label"`
	ActiveRender *bool  `hcl:"active_render,optional"`
	Active       *bool  `hcl:"active,optional"`
}

type materialBlock struct {
	Name       string           `hcl:"name,label"`
	UseNodes   *bool            `hcl:"use_nodes,optional"`
	Active     *bool            `hcl:"active,optional"`
	Principled *principledBlock `hcl:"principled,block"`
}

type principledBlock struct {
	BaseColor []float64      `hcl:"base_color,optional"`
	Roughness *float64       `hcl:"roughness,optional"`
	Metallic  *float64       `hcl:"metallic,optional"`
	Textures  []textureBlock `hcl:"texture,block"`
}

type textureBlock struct {
	Input   string        `hcl:"input,label"`
	Checker *checkerBlock `hcl:"checker,block"`
}

type checkerBlock struct {
	Color1 []float64 `hcl:"color1,optional"`
	Color2 []float64 `hcl:"color2,optional"`
	Scale  *float64  `hcl:"scale,optional"`
}

// Load parses the document at path and builds the scene it describes.
// The scene is named after the file and its BasePath is the file's
// directory, so "//" output folders land next to the document. The
// returned config is api.DefaultConfig with the document's bake block
// applied on top; callers layer flag overrides after.
func Load(path string) (*scene.Scene, api.Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, api.Config{}, fmt.Errorf("resolve scene path: %w", err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(abs)
	if diags.HasErrors() {
		return nil, api.Config{}, fmt.Errorf("parse scene document: %w", diags)
	}

	var root rootDoc
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, api.Config{}, fmt.Errorf("decode scene document: %w", diags)
	}

	name := strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	sc := scene.New(name)
	sc.BasePath = filepath.Dir(abs)

	if err := applySceneBlock(sc, root.Scene); err != nil {
		return nil, api.Config{}, err
	}
	if err := buildObjects(sc, root.Objects); err != nil {
		return nil, api.Config{}, err
	}

	cfg := api.DefaultConfig()
	applyBakeBlock(&cfg, root.Bake)
	return sc, cfg, nil
}

func applySceneBlock(sc *scene.Scene, b *sceneBlock) error {
	if b == nil {
		return nil
	}
	if b.Engine != nil {
		switch e := scene.Engine(strings.ToUpper(*b.Engine)); e {
		case scene.EnginePath, scene.EngineRaster:
			sc.Render.Engine = e
		default:
			return fmt.Errorf("scene: unknown engine %q", *b.Engine)
		}
	}
	if b.Samples != nil {
		if *b.Samples < 1 {
			return fmt.Errorf("scene: invalid samples %d", *b.Samples)
		}
		sc.Render.Samples = *b.Samples
	}
	if b.AODistance != nil {
		if *b.AODistance <= 0 {
			return fmt.Errorf("scene: invalid ao_distance %v", *b.AODistance)
		}
		sc.World.AODistance = float32(*b.AODistance)
	}
	if b.Margin != nil {
		if *b.Margin < 0 {
			return fmt.Errorf("scene: invalid margin %d", *b.Margin)
		}
		sc.Render.Bake.Margin = *b.Margin
	}
	return nil
}

func applyBakeBlock(cfg *api.Config, b *bakeBlock) {
	if b == nil {
		return
	}
	if b.TextureSize != nil {
		cfg.TextureSize = *b.TextureSize
	}
	if b.OutputFolder != nil {
		cfg.OutputFolder = *b.OutputFolder
	}
	if b.SubfolderForSize != nil {
		cfg.SubfolderForSize = *b.SubfolderForSize
	}
	if b.Diffuse != nil {
		cfg.BakeDiffuse = *b.Diffuse
	}
	if b.Roughness != nil {
		cfg.BakeRoughness = *b.Roughness
	}
	if b.Normal != nil {
		cfg.BakeNormal = *b.Normal
	}
	if b.AO != nil {
		cfg.BakeAO = *b.AO
	}
}

func buildObjects(sc *scene.Scene, blocks []objectBlock) error {
	seen := make(map[string]bool)
	var active *scene.Object
	for _, b := range blocks {
		if seen[b.Name] {
			return fmt.Errorf("object %q: duplicate name", b.Name)
		}
		seen[b.Name] = true

		obj, err := buildObject(b)
		if err != nil {
			return err
		}
		sc.AddObject(obj)
		if b.Selected != nil && *b.Selected {
			obj.Select(true)
		}
		if b.Active != nil && *b.Active {
			if active != nil {
				return fmt.Errorf("object %q: %q is already active", b.Name, active.Name)
			}
			active = obj
			// the active object is always part of the selection
			obj.Select(true)
		}
	}
	if active != nil {
		sc.SetActiveObject(active)
	}
	return nil
}

func buildObject(b objectBlock) (*scene.Object, error) {
	typ := scene.ObjectMesh
	if b.Type != nil {
		switch t := scene.ObjectType(strings.ToUpper(*b.Type)); t {
		case scene.ObjectMesh, scene.ObjectLight, scene.ObjectCamera, scene.ObjectEmpty:
			typ = t
		default:
			return nil, fmt.Errorf("object %q: unknown type %q", b.Name, *b.Type)
		}
	}

	if typ != scene.ObjectMesh {
		if b.Mesh != nil {
			return nil, fmt.Errorf("object %q: %s objects cannot carry a mesh", b.Name, typ)
		}
		if len(b.Materials) > 0 {
			return nil, fmt.Errorf("object %q: %s objects cannot carry materials", b.Name, typ)
		}
		return &scene.Object{Name: b.Name, Type: typ}, nil
	}

	if b.Mesh == nil {
		return nil, fmt.Errorf("object %q: mesh block is required", b.Name)
	}
	mesh, err := buildMesh(b.Name, b.Mesh)
	if err != nil {
		return nil, err
	}
	obj := scene.NewMeshObject(b.Name, mesh)

	activeSlot := -1
	for i, mb := range b.Materials {
		mat, err := buildMaterial(mb)
		if err != nil {
			return nil, fmt.Errorf("object %q: %w", b.Name, err)
		}
		obj.AddMaterial(mat)
		if mb.Active != nil && *mb.Active {
			activeSlot = i
		}
	}
	if activeSlot >= 0 {
		if err := obj.SetActiveMaterialIndex(activeSlot); err != nil {
			return nil, fmt.Errorf("object %q: %w", b.Name, err)
		}
	}
	return obj, nil
}

func buildMesh(objName string, b *meshBlock) (*scene.Mesh, error) {
	var mesh *scene.Mesh
	switch strings.ToLower(b.Shape) {
	case "plane":
		s, err := scalarSize(b.Size, 2)
		if err != nil {
			return nil, fmt.Errorf("object %q: plane size: %w", objName, err)
		}
		mesh = scene.NewPlane(objName, s)
	case "box":
		v, err := vec3Size(b.Size, mat32.Vec3{2, 2, 2})
		if err != nil {
			return nil, fmt.Errorf("object %q: box size: %w", objName, err)
		}
		mesh = scene.NewBox(objName, v)
	case "sphere":
		r, err := scalarSize(b.Size, 1)
		if err != nil {
			return nil, fmt.Errorf("object %q: sphere size: %w", objName, err)
		}
		sectors, rings := 32, 16
		if b.Sectors != nil {
			sectors = *b.Sectors
		}
		if b.Rings != nil {
			rings = *b.Rings
		}
		mesh = scene.NewSphere(objName, r, sectors, rings)
	default:
		return nil, fmt.Errorf("object %q: unknown shape %q", objName, b.Shape)
	}

	if b.UVs != nil && !*b.UVs {
		if len(b.UVLayers) > 0 {
			return nil, fmt.Errorf("object %q: uvs = false conflicts with uv_layer blocks", objName)
		}
		mesh.UVLayers = nil
		mesh.ActiveUVIndex = -1
		return mesh, nil
	}

	for _, lb := range b.UVLayers {
		if err := applyUVLayer(mesh, lb); err != nil {
			return nil, fmt.Errorf("object %q: %w", objName, err)
		}
	}
	return mesh, nil
}

// applyUVLayer adjusts the flags of an existing layer by name, or clones
// the generated unwrap under a new name. Flagging a layer for render
// clears the flag everywhere else, so a document never produces two
// render layers.
func applyUVLayer(mesh *scene.Mesh, b uvLayerBlock) error {
	idx := -1
	for i, l := range mesh.UVLayers {
		if l.Name == b.Name {
			idx = i
			break
		}
	}
	if idx < 0 {
		src := mesh.UVLayers[0]
		layer := &scene.UVLayer{Name: b.Name, UV: append([]mat32.Vec2(nil), src.UV...)}
		mesh.UVLayers = append(mesh.UVLayers, layer)
		idx = len(mesh.UVLayers) - 1
	}

	if b.ActiveRender != nil {
		if *b.ActiveRender {
			for _, l := range mesh.UVLayers {
				l.ActiveRender = false
			}
		}
		mesh.UVLayers[idx].ActiveRender = *b.ActiveRender
	}
	if b.Active != nil && *b.Active {
		mesh.ActiveUVIndex = idx
	}
	return nil
}

func buildMaterial(b materialBlock) (*scene.Material, error) {
	if b.Principled == nil {
		mat := scene.NewMaterial(b.Name)
		if b.UseNodes != nil {
			mat.UseNodes = *b.UseNodes
		}
		return mat, nil
	}

	mat := scene.NewPrincipledMaterial(b.Name)
	if b.UseNodes != nil {
		mat.UseNodes = *b.UseNodes
	}
	bsdf := mat.NodeTree.LastOfKind(scene.NodePrincipled)

	p := b.Principled
	if p.BaseColor != nil {
		c, err := rgba(p.BaseColor)
		if err != nil {
			return nil, fmt.Errorf("material %q: base_color: %w", b.Name, err)
		}
		bsdf.SetInput(scene.InputBaseColor, c)
	}
	if p.Roughness != nil {
		bsdf.SetInput(scene.InputRoughness, scalar(float32(*p.Roughness)))
	}
	if p.Metallic != nil {
		bsdf.SetInput(scene.InputMetallic, scalar(float32(*p.Metallic)))
	}

	for _, tb := range p.Textures {
		if err := linkTexture(mat.NodeTree, bsdf, tb); err != nil {
			return nil, fmt.Errorf("material %q: %w", b.Name, err)
		}
	}
	return mat, nil
}

func linkTexture(tree *scene.NodeTree, bsdf *scene.Node, b textureBlock) error {
	socket, err := socketFor(b.Input)
	if err != nil {
		return err
	}
	if b.Checker == nil {
		return fmt.Errorf("texture %q: checker block is required", b.Input)
	}

	// stock checker: light and dark grey squares
	c1 := [4]float32{0.8, 0.8, 0.8, 1}
	c2 := [4]float32{0.2, 0.2, 0.2, 1}
	scale := float32(5)
	cb := b.Checker
	if cb.Color1 != nil {
		if c1, err = rgba(cb.Color1); err != nil {
			return fmt.Errorf("texture %q: color1: %w", b.Input, err)
		}
	}
	if cb.Color2 != nil {
		if c2, err = rgba(cb.Color2); err != nil {
			return fmt.Errorf("texture %q: color2: %w", b.Input, err)
		}
	}
	if cb.Scale != nil {
		scale = float32(*cb.Scale)
	}

	node := scene.NewChecker(socket+" Checker", c1, c2, scale)
	tree.Add(node)
	bsdf.LinkInput(socket, node)
	return nil
}

func socketFor(input string) (string, error) {
	switch strings.ToLower(input) {
	case "base_color":
		return scene.InputBaseColor, nil
	case "roughness":
		return scene.InputRoughness, nil
	case "metallic":
		return scene.InputMetallic, nil
	case "normal":
		return scene.InputNormal, nil
	}
	return "", fmt.Errorf("texture %q: socket is not linkable", input)
}

func rgba(v []float64) ([4]float32, error) {
	switch len(v) {
	case 3:
		return [4]float32{float32(v[0]), float32(v[1]), float32(v[2]), 1}, nil
	case 4:
		return [4]float32{float32(v[0]), float32(v[1]), float32(v[2]), float32(v[3])}, nil
	}
	return [4]float32{}, fmt.Errorf("want 3 or 4 components, got %d", len(v))
}

func scalar(v float32) [4]float32 {
	return [4]float32{v, 0, 0, 0}
}

func scalarSize(size []float64, def float32) (float32, error) {
	switch len(size) {
	case 0:
		return def, nil
	case 1:
		if size[0] <= 0 {
			return 0, fmt.Errorf("want a positive size, got %v", size[0])
		}
		return float32(size[0]), nil
	}
	return 0, fmt.Errorf("want one component, got %d", len(size))
}

func vec3Size(size []float64, def mat32.Vec3) (mat32.Vec3, error) {
	for _, s := range size {
		if s <= 0 {
			return mat32.Vec3{}, fmt.Errorf("want positive sizes, got %v", s)
		}
	}
	switch len(size) {
	case 0:
		return def, nil
	case 1:
		s := float32(size[0])
		return mat32.Vec3{s, s, s}, nil
	case 3:
		return mat32.Vec3{float32(size[0]), float32(size[1]), float32(size[2])}, nil
	}
	return mat32.Vec3{}, fmt.Errorf("want one or three components, got %d", len(size))
}
