package bake

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/agentic-research/autobake/api"
	"github.com/agentic-research/autobake/internal/scene"
)

const (
	// bakeTargetNodeName is the reserved name of the transient image
	// node a bake writes through. Anything already using the name is
	// assumed to be a leftover and gets replaced.
	bakeTargetNodeName = "BakeTargetNode"

	// bakeSamples is the fixed sample count for bakes. Material data
	// converges fast; ambient render quality settings stay untouched.
	bakeSamples = 32
)

// Orchestrator drives a full bake run: it validates the session,
// rewrites the render state it needs, bakes and saves each enabled map,
// and puts every ambient setting back the way it found it, success or
// not. A single Orchestrator can run any number of times; each run is
// self-contained.
type Orchestrator struct {
	Baker  Baker
	Saver  ImageSaver
	Report *Reporter
}

func NewOrchestrator(b Baker, s ImageSaver, rep *Reporter) *Orchestrator {
	if rep == nil {
		rep = NewReporter(nil)
	}
	return &Orchestrator{Baker: b, Saver: s, Report: rep}
}

// Result summarizes one run for reporting and history.
type Result struct {
	Context   *Context
	OutputDir string
	Baked     []api.MapType
	Saved     []string
}

// snapshot is the ambient scene state a run mutates and must restore.
// Per-map bake parameters (pass filters, normal swizzles) are working
// state, not ambient state, and are deliberately not captured.
type snapshot struct {
	engine           scene.Engine
	samples          int
	selectedToActive bool
	active           *scene.Object
	selected         []*scene.Object
}

func takeSnapshot(sc *scene.Scene) *snapshot {
	sel := sc.SelectedObjects()
	cp := make([]*scene.Object, len(sel))
	copy(cp, sel)
	return &snapshot{
		engine:           sc.Render.Engine,
		samples:          sc.Render.Samples,
		selectedToActive: sc.Render.Bake.SelectedToActive,
		active:           sc.ActiveObject(),
		selected:         cp,
	}
}

// restore puts the captured state back, skipping objects that no longer
// exist in the scene.
func (sn *snapshot) restore(sc *scene.Scene) {
	sc.Render.Engine = sn.engine
	sc.Render.Samples = sn.samples
	sc.Render.Bake.SelectedToActive = sn.selectedToActive

	sc.DeselectAll()
	for _, o := range sn.selected {
		if sc.Contains(o) {
			o.Select(true)
		}
	}
	if sn.active != nil && sc.Contains(sn.active) {
		sc.SetActiveObject(sn.active)
	}
}

// artifact is one successfully baked map awaiting save and cleanup.
type artifact struct {
	mapType api.MapType
	image   *scene.Image
}

// Run executes a complete bake of every map enabled in cfg. It returns
// the run summary and the first error that failed the run. The returned
// Result is non-nil whenever validation passed, even on failure.
//
// Run never leaks session state: images allocated for baking are
// removed and the snapshot restored before it returns, on every path.
func (o *Orchestrator) Run(ctx context.Context, sc *scene.Scene, cfg api.Config) (res *Result, err error) {
	rep := o.Report
	rep.Debugf("starting bake run")

	bctx, verr := Validate(sc, rep)
	if verr != nil {
		rep.Errorf("%v", verr)
		return nil, verr
	}
	rep.Debugf("requirements validated")
	res = &Result{Context: bctx}

	snap := takeSnapshot(sc)
	var baked []artifact

	defer func() {
		o.cleanup(sc, snap, baked)
		if err == nil {
			rep.Infof("Baking process finished. Maps saved to: %s", res.OutputDir)
		} else {
			rep.Errorf("Baking process failed or was interrupted. Check the log for details.")
		}
	}()

	if serr := o.setup(sc, bctx); serr != nil {
		rep.Errorf("Error during bake setup: %v", serr)
		return res, fmt.Errorf("setup: %w", serr)
	}

	outDir, derr := o.resolveOutputDir(sc, cfg)
	if derr != nil {
		rep.Errorf("Error during bake setup: %v", derr)
		return res, fmt.Errorf("setup: %w", derr)
	}
	res.OutputDir = outDir

	for _, mt := range cfg.Maps() {
		if cerr := ctx.Err(); cerr != nil {
			rep.Errorf("Bake interrupted before %s: %v", mt, cerr)
			return res, cerr
		}

		img, berr := o.bakeMap(ctx, sc, bctx, cfg, mt)
		if berr != nil {
			rep.Errorf("Failed during %s bake: %v", mt, berr)
			return res, &MapError{Map: mt, Op: "bake", Err: berr}
		}
		baked = append(baked, artifact{mapType: mt, image: img})
		res.Baked = append(res.Baked, mt)

		if mt == api.MapNormal && isSolidColor(img) {
			rep.Warnf("Normal map %q may be solid color. Check geometry, normals, or the material's Normal input.", img.Name)
		}
	}

	err = o.saveAll(sc, outDir, baked, res)
	return res, err
}

// setup rewrites the render state for baking: path-tracing engine,
// fixed sample count, own-material bake, and a selection holding only
// the model.
func (o *Orchestrator) setup(sc *scene.Scene, bctx *Context) error {
	sc.Render.Engine = scene.EnginePath
	sc.Render.Samples = bakeSamples
	o.Report.Debugf("set render samples to %d for baking", bakeSamples)

	sc.Render.Bake.SelectedToActive = false

	sc.DeselectAll()
	sc.SetActiveObject(bctx.Model)
	bctx.Model.Select(true)

	// the validated material must be the active slot before any bake
	if bctx.Model.ActiveMaterial() != bctx.Material {
		found := false
		for i, m := range bctx.Model.MaterialSlots() {
			if m == bctx.Material {
				if err := bctx.Model.SetActiveMaterialIndex(i); err != nil {
					return err
				}
				found = true
				o.Report.Debugf("set active material slot %d for %q", i, bctx.Material.Name)
				break
			}
		}
		if !found {
			return fmt.Errorf("material %q: %w", bctx.Material.Name, ErrMaterialSlotMismatch)
		}
	}
	if bctx.Model.ActiveMaterial() != bctx.Material {
		return fmt.Errorf("could not make material %q active on %q", bctx.Material.Name, bctx.Model.Name)
	}
	return nil
}

// resolveOutputDir expands the configured folder against the scene and
// creates it, including the per-size subfolder when enabled.
func (o *Orchestrator) resolveOutputDir(sc *scene.Scene, cfg api.Config) (string, error) {
	dir := sc.AbsPath(cfg.OutputFolder)
	if cfg.SubfolderForSize {
		dir = filepath.Join(dir, strconv.Itoa(cfg.TextureSize))
	}
	if err := o.Saver.MkdirAll(dir); err != nil {
		return "", fmt.Errorf("create output directory %s: %w", dir, err)
	}
	o.Report.Debugf("output directory: %s", dir)
	return dir, nil
}

// bakeMap allocates the buffer for one map, wires the transient bake
// target node into the material, and invokes the baker. The node is
// always removed again; the buffer is removed too if the bake fails.
func (o *Orchestrator) bakeMap(ctx context.Context, sc *scene.Scene, bctx *Context, cfg api.Config, mt api.MapType) (img *scene.Image, err error) {
	name := fmt.Sprintf("%s_%s", bctx.Model.Name, mt)
	if sc.Image(name) != nil {
		o.Report.Debugf("removing stale image %q", name)
		sc.RemoveImage(name)
	}

	img, err = sc.NewImage(name, cfg.TextureSize, cfg.TextureSize)
	if err != nil {
		return nil, fmt.Errorf("create image %q: %w", name, err)
	}
	applySpec(img, specFor(mt))

	defer func() {
		if err != nil && sc.Image(name) == img {
			sc.RemoveImage(name)
		}
	}()

	node := addBakeTargetNode(bctx.Material.NodeTree, img)
	defer removeBakeTargetNode(bctx.Material.NodeTree)

	applyMapSettings(sc, mt)

	o.Report.Debugf("baking %s", mt)
	req := Request{
		Map:      mt,
		Scene:    sc,
		Object:   bctx.Model,
		Material: bctx.Material,
		Target:   node.Image,
	}
	if err = o.Baker.Bake(ctx, req); err != nil {
		return nil, err
	}
	return img, nil
}

// applyMapSettings rewrites the per-map bake parameters. Diffuse bakes
// flatten lighting out of the pass; normal bakes pin the standard
// tangent-space channel mapping. Roughness and AO take the settings as
// they are.
func applyMapSettings(sc *scene.Scene, mt api.MapType) {
	switch mt {
	case api.MapDiffuse:
		sc.Render.Bake.UsePassDirect = false
		sc.Render.Bake.UsePassIndirect = false
		sc.Render.Bake.UsePassColor = true
	case api.MapNormal:
		sc.Render.Bake.NormalSpace = scene.SpaceTangent
		sc.Render.Bake.NormalR = scene.SwizzlePosX
		sc.Render.Bake.NormalG = scene.SwizzlePosY
		sc.Render.Bake.NormalB = scene.SwizzlePosZ
	}
}

// addBakeTargetNode inserts the transient image node the bake writes
// through, replacing any leftover with the reserved name, and makes it
// the selected, active node.
func addBakeTargetNode(tree *scene.NodeTree, img *scene.Image) *scene.Node {
	for _, n := range tree.Nodes() {
		if n.Kind == scene.NodeImageTexture && n.Name == bakeTargetNodeName {
			tree.Remove(n)
		}
	}
	node := scene.NewImageTexture(bakeTargetNodeName, img)
	node.Label = fmt.Sprintf("Bake Target (%s)", img.Name)
	node.Selected = true
	tree.Add(node)
	tree.SetActive(node)
	return node
}

// removeBakeTargetNode drops the reserved node if present.
func removeBakeTargetNode(tree *scene.NodeTree) {
	if n := tree.Node(bakeTargetNodeName); n != nil {
		tree.Remove(n)
	}
}

// saveAll writes every baked artifact to the output directory. A save
// failure fails the run but does not stop the remaining saves.
func (o *Orchestrator) saveAll(sc *scene.Scene, outDir string, baked []artifact, res *Result) error {
	if len(baked) == 0 {
		return nil
	}
	o.Report.Debugf("saving %d baked images", len(baked))

	var firstErr error
	for _, a := range baked {
		img := a.image
		if sc.Image(img.Name) != img {
			o.Report.Warnf("Image %q not found for saving (already removed?).", img.Name)
			continue
		}
		img.FilePath = filepath.Join(outDir, img.Name+".png")
		img.FileFormat = "PNG"
		if a.mapType == api.MapNormal && img.ColorSpace != scene.ColorSpaceNonColor {
			o.Report.Warnf("Correcting colorspace to Non-Color for %q before saving.", img.Name)
			img.ColorSpace = scene.ColorSpaceNonColor
		}

		if err := o.Saver.Save(img); err != nil {
			o.Report.Errorf("Failed to save image %q to %s: %v", img.Name, img.FilePath, err)
			if firstErr == nil {
				firstErr = &MapError{Map: a.mapType, Op: "save", Err: err}
			}
			continue
		}
		res.Saved = append(res.Saved, img.FilePath)
		o.Report.Debugf("saved %s", img.FilePath)
	}
	return firstErr
}

// cleanup removes every buffer the run allocated and restores the
// snapshot. It runs on every exit path.
func (o *Orchestrator) cleanup(sc *scene.Scene, snap *snapshot, baked []artifact) {
	o.Report.Debugf("cleaning up baked images")
	for _, a := range baked {
		if sc.Image(a.image.Name) == a.image {
			sc.RemoveImage(a.image.Name)
		}
	}
	snap.restore(sc)
	o.Report.Debugf("restored render settings and selection")
}
