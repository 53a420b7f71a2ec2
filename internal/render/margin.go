package render

import (
	"github.com/RoaringBitmap/roaring"

	"github.com/agentic-research/autobake/internal/scene"
)

// dilate grows covered UV islands outward by margin texels, averaging
// the covered neighbors into each newly filled pixel. Without a margin,
// texture filtering at island borders bleeds the background fill into
// the surface.
func dilate(img *scene.Image, cov *roaring.Bitmap, margin int) {
	if margin <= 0 || cov.IsEmpty() {
		return
	}
	w, h := img.Width, img.Height

	for pass := 0; pass < margin; pass++ {
		grown := roaring.New()

		it := cov.Iterator()
		for it.HasNext() {
			idx := it.Next()
			x := int(idx) % w
			y := int(idx) / w

			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					nidx := uint32(ny*w + nx)
					if cov.Contains(nidx) || grown.Contains(nidx) {
						continue
					}
					img.SetPixel(nx, ny, averageCovered(img, cov, nx, ny))
					grown.Add(nidx)
				}
			}
		}

		if grown.IsEmpty() {
			return // fully dilated already
		}
		cov.Or(grown)
	}
}

// averageCovered averages the covered 8-neighborhood of (x, y).
func averageCovered(img *scene.Image, cov *roaring.Bitmap, x, y int) [4]float32 {
	var sum [4]float32
	n := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			sx, sy := x+dx, y+dy
			if sx < 0 || sy < 0 || sx >= img.Width || sy >= img.Height {
				continue
			}
			if !cov.Contains(uint32(sy*img.Width + sx)) {
				continue
			}
			px := img.PixelAt(sx, sy)
			for c := 0; c < 4; c++ {
				sum[c] += px[c]
			}
			n++
		}
	}
	if n == 0 {
		return img.PixelAt(x, y)
	}
	for c := 0; c < 4; c++ {
		sum[c] /= float32(n)
	}
	return sum
}
