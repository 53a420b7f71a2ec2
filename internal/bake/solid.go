package bake

import "github.com/agentic-research/autobake/internal/scene"

// solidTolerance is the per-channel wiggle room when deciding whether
// an image is a single flat color. Bake noise sits well under it.
const solidTolerance = 0.01

// isSolidColor reports whether every pixel matches the first pixel
// within solidTolerance on every channel. A baked normal map that comes
// out solid almost always means the bake sampled nothing useful.
// Images without pixel data are never flagged.
func isSolidColor(img *scene.Image) bool {
	if img == nil || !img.HasData() {
		return false
	}
	px := img.Pixels()
	first := [4]float32{px[0], px[1], px[2], px[3]}
	for i := 4; i < len(px); i += 4 {
		for c := 0; c < 4; c++ {
			d := px[i+c] - first[c]
			if d < 0 {
				d = -d
			}
			if d > solidTolerance {
				return false
			}
		}
	}
	return true
}
