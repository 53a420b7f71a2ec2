package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/agentic-research/autobake/api"
	"github.com/agentic-research/autobake/internal/bake"
	"github.com/agentic-research/autobake/internal/export"
	"github.com/agentic-research/autobake/internal/render"
	"github.com/agentic-research/autobake/internal/scene"
	"github.com/agentic-research/autobake/internal/scenefile"
)

var (
	bakeSize      int
	bakeOut       string
	bakeSubfolder bool
	bakeDiffuse   bool
	bakeRoughness bool
	bakeNormal    bool
	bakeAO        bool
	bakeObject    string
)

var bakeCmd = &cobra.Command{
	Use:   "bake [scene.hcl]",
	Short: "Bake the enabled maps for the scene's active object",
	Args:  cobra.ExactArgs(1),
	RunE:  runBake,
}

func init() {
	f := bakeCmd.Flags()
	f.IntVar(&bakeSize, "size", 0, "Texture resolution in pixels (overrides the document)")
	f.StringVar(&bakeOut, "out", "", "Output folder (overrides the document)")
	f.BoolVar(&bakeSubfolder, "subfolder", true, "Put maps in a per-resolution subfolder")
	f.BoolVar(&bakeDiffuse, "diffuse", true, "Bake the diffuse map")
	f.BoolVar(&bakeRoughness, "roughness", true, "Bake the roughness map")
	f.BoolVar(&bakeNormal, "normal", true, "Bake the normal map")
	f.BoolVar(&bakeAO, "ao", true, "Bake the ambient occlusion map")
	f.StringVar(&bakeObject, "object", "", "Bake this object instead of the document's active one")
	rootCmd.AddCommand(bakeCmd)
}

func runBake(cmd *cobra.Command, args []string) error {
	sc, cfg, err := scenefile.Load(args[0])
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("size") {
		cfg.TextureSize = bakeSize
	}
	if flags.Changed("out") {
		cfg.OutputFolder = bakeOut
	}
	if flags.Changed("subfolder") {
		cfg.SubfolderForSize = bakeSubfolder
	}
	if flags.Changed("diffuse") {
		cfg.BakeDiffuse = bakeDiffuse
	}
	if flags.Changed("roughness") {
		cfg.BakeRoughness = bakeRoughness
	}
	if flags.Changed("normal") {
		cfg.BakeNormal = bakeNormal
	}
	if flags.Changed("ao") {
		cfg.BakeAO = bakeAO
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if bakeObject != "" {
		if err := selectObject(sc, bakeObject); err != nil {
			return err
		}
	}

	fs := osfs.New("/")
	rep := bake.NewReporter(slog.Default())
	orch := bake.NewOrchestrator(render.NewSoftware(), export.NewPNG(fs), rep)

	start := time.Now()
	res, err := orch.Run(cmd.Context(), sc, cfg)
	if res != nil {
		status := api.StatusFinished
		if err != nil {
			status = api.StatusCancelled
		}
		rec := api.RunRecord{
			Scene:       sc.Name,
			Object:      res.Context.Model.Name,
			Material:    res.Context.Material.Name,
			TextureSize: cfg.TextureSize,
			Maps:        res.Baked,
			OutputDir:   res.OutputDir,
			Status:      status,
			Warnings:    rep.Warnings(),
			StartedAt:   start.UTC(),
			DurationMS:  time.Since(start).Milliseconds(),
		}
		if res.OutputDir != "" {
			if werr := export.WriteReport(fs, res.OutputDir, rec); werr != nil {
				slog.Warn("could not write bake report", "error", werr)
			}
		}
		recordRun(rec)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Baked %d maps in %v.\n", len(res.Saved), time.Since(start).Round(time.Millisecond))
	for _, p := range res.Saved {
		fmt.Printf("  %s\n", p)
	}
	return nil
}

// selectObject makes the named object the sole selected, active object.
func selectObject(sc *scene.Scene, name string) error {
	obj := sc.Object(name)
	if obj == nil {
		return fmt.Errorf("object %q not found in scene", name)
	}
	sc.DeselectAll()
	obj.Select(true)
	sc.SetActiveObject(obj)
	return nil
}
