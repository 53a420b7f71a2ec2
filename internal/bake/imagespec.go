package bake

import (
	"github.com/agentic-research/autobake/api"
	"github.com/agentic-research/autobake/internal/scene"
)

// imageSpec is the required buffer configuration for one map type.
// Getting these wrong corrupts downstream material setups: a normal
// map read as sRGB shifts every surface angle, a roughness map in
// sRGB washes out.
type imageSpec struct {
	fill       [4]float32
	colorSpace scene.ColorSpace
	useFloat   bool
}

func specFor(mt api.MapType) imageSpec {
	switch mt {
	case api.MapDiffuse:
		// color data, black base
		return imageSpec{
			fill:       [4]float32{0, 0, 0, 1},
			colorSpace: scene.ColorSpaceSRGB,
		}
	case api.MapNormal:
		// neutral tangent normal; float, never color managed
		return imageSpec{
			fill:       [4]float32{0.5, 0.5, 1, 1},
			colorSpace: scene.ColorSpaceNonColor,
			useFloat:   true,
		}
	default:
		// Roughness, AO: mid-grey linear data
		return imageSpec{
			fill:       [4]float32{0.5, 0.5, 0.5, 1},
			colorSpace: scene.ColorSpaceNonColor,
		}
	}
}

// applySpec configures a freshly allocated buffer for its map type.
func applySpec(img *scene.Image, spec imageSpec) {
	img.ColorSpace = spec.colorSpace
	img.UseFloat = spec.useFloat
	img.Fill(spec.fill)
}
