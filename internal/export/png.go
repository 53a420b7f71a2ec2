// Package export writes baked images and the run manifest through a
// billy filesystem, so tests run against memfs and the CLI against the
// host disk.
package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"path/filepath"

	billy "github.com/go-git/go-billy/v5"

	"github.com/agentic-research/autobake/internal/bake"
	"github.com/agentic-research/autobake/internal/scene"
)

// PNG encodes image buffers as PNG files.
type PNG struct {
	fs billy.Filesystem
}

var _ bake.ImageSaver = (*PNG)(nil)

// NewPNG returns a saver writing through fs.
func NewPNG(fs billy.Filesystem) *PNG {
	return &PNG{fs: fs}
}

// MkdirAll creates the output directory tree.
func (p *PNG) MkdirAll(dir string) error {
	return p.fs.MkdirAll(dir, 0o755)
}

// Save encodes img to its FilePath. Float buffers keep 16 bits per
// channel, byte buffers encode as standard 8-bit RGBA. The write is
// atomic: a temp file in the target directory, then a rename, so a
// failed save never leaves a truncated map behind.
func (p *PNG) Save(img *scene.Image) error {
	if img.FilePath == "" {
		return fmt.Errorf("image %q has no file path", img.Name)
	}
	if img.FileFormat != "PNG" {
		return fmt.Errorf("image %q: unsupported format %q", img.Name, img.FileFormat)
	}
	if !img.HasData() {
		return fmt.Errorf("image %q has no pixel data", img.Name)
	}

	dir := filepath.Dir(img.FilePath)
	tmp, err := p.fs.TempFile(dir, ".autobake-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := png.Encode(tmp, encode(img)); err != nil {
		_ = tmp.Close()
		_ = p.fs.Remove(tmpName) // best-effort cleanup
		return fmt.Errorf("encode %s: %w", img.Name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = p.fs.Remove(tmpName) // best-effort cleanup
		return fmt.Errorf("close temp: %w", err)
	}
	if err := p.fs.Rename(tmpName, img.FilePath); err != nil {
		_ = p.fs.Remove(tmpName) // best-effort cleanup
		return fmt.Errorf("rename temp to %s: %w", img.FilePath, err)
	}
	return nil
}

func encode(img *scene.Image) image.Image {
	bounds := image.Rect(0, 0, img.Width, img.Height)
	if img.UseFloat {
		out := image.NewRGBA64(bounds)
		for y := 0; y < img.Height; y++ {
			for x := 0; x < img.Width; x++ {
				c := img.PixelAt(x, y)
				out.SetRGBA64(x, y, color.RGBA64{
					R: quant16(c[0]),
					G: quant16(c[1]),
					B: quant16(c[2]),
					A: quant16(c[3]),
				})
			}
		}
		return out
	}

	out := image.NewRGBA(bounds)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			c := img.PixelAt(x, y)
			out.SetRGBA(x, y, color.RGBA{
				R: quant8(c[0]),
				G: quant8(c[1]),
				B: quant8(c[2]),
				A: quant8(c[3]),
			})
		}
	}
	return out
}

func quant8(v float32) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}

func quant16(v float32) uint16 {
	return uint16(clamp01(v)*65535 + 0.5)
}

func clamp01(v float32) float32 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
