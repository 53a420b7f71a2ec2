package api

import (
	"fmt"
	"strings"
	"time"
)

// MapType identifies one bakeable texture map.
type MapType string

const (
	MapDiffuse   MapType = "Diffuse"
	MapRoughness MapType = "Roughness"
	MapNormal    MapType = "Normal"
	MapAO        MapType = "AO"
)

// MapTypes returns every map type in bake order. The order is fixed:
// color-like maps first, geometry-derived maps last.
func MapTypes() []MapType {
	return []MapType{MapDiffuse, MapRoughness, MapNormal, MapAO}
}

// ParseMapType resolves a user-supplied name (case-insensitive) to a MapType.
func ParseMapType(s string) (MapType, error) {
	for _, mt := range MapTypes() {
		if strings.EqualFold(s, string(mt)) {
			return mt, nil
		}
	}
	return "", fmt.Errorf("unknown map type %q", s)
}

// Texture size limits. Sizes outside this range either produce useless
// maps or allocate buffers no downstream tool wants.
const (
	MinTextureSize = 64
	MaxTextureSize = 8192
)

// Config holds the user-facing knobs for one bake run. It is read-only
// input to the orchestrator; nothing in the pipeline mutates it.
type Config struct {
	// TextureSize is the square pixel resolution of every baked map.
	TextureSize int `json:"texture_size"`
	// OutputFolder is where maps land. A leading "//" means relative to
	// the scene file's directory.
	OutputFolder string `json:"output_folder"`
	// SubfolderForSize appends the resolution as a subfolder, so repeated
	// bakes at different sizes do not overwrite each other.
	SubfolderForSize bool `json:"subfolder_for_size"`

	BakeDiffuse   bool `json:"bake_diffuse"`
	BakeRoughness bool `json:"bake_roughness"`
	BakeNormal    bool `json:"bake_normal"`
	BakeAO        bool `json:"bake_ao"`
}

// DefaultConfig returns the stock configuration: 1024px, all four maps,
// output under baked_maps/ next to the scene file.
func DefaultConfig() Config {
	return Config{
		TextureSize:      1024,
		OutputFolder:     "//baked_maps/",
		SubfolderForSize: true,
		BakeDiffuse:      true,
		BakeRoughness:    true,
		BakeNormal:       true,
		BakeAO:           true,
	}
}

// Validate rejects configurations the pipeline cannot honor.
func (c Config) Validate() error {
	if c.TextureSize < MinTextureSize || c.TextureSize > MaxTextureSize {
		return fmt.Errorf("texture size %d out of range [%d, %d]", c.TextureSize, MinTextureSize, MaxTextureSize)
	}
	if c.OutputFolder == "" {
		return fmt.Errorf("output folder is empty")
	}
	if len(c.Maps()) == 0 {
		return fmt.Errorf("no map types enabled")
	}
	return nil
}

// Maps returns the enabled map types in bake order.
func (c Config) Maps() []MapType {
	var out []MapType
	for _, mt := range MapTypes() {
		if c.enabled(mt) {
			out = append(out, mt)
		}
	}
	return out
}

func (c Config) enabled(mt MapType) bool {
	switch mt {
	case MapDiffuse:
		return c.BakeDiffuse
	case MapRoughness:
		return c.BakeRoughness
	case MapNormal:
		return c.BakeNormal
	case MapAO:
		return c.BakeAO
	}
	return false
}

// Run status values recorded in reports and history.
const (
	StatusFinished  = "finished"
	StatusCancelled = "cancelled"
)

// RunRecord is the durable summary of one bake run. It is what the
// report manifest serializes and what the history ledger stores.
type RunRecord struct {
	Scene       string    `json:"scene"`
	Object      string    `json:"object"`
	Material    string    `json:"material"`
	TextureSize int       `json:"texture_size"`
	Maps        []MapType `json:"maps"`
	OutputDir   string    `json:"output_dir"`
	Status      string    `json:"status"`
	Warnings    int       `json:"warnings"`
	StartedAt   time.Time `json:"started_at"`
	DurationMS  int64     `json:"duration_ms"`
}
