package render

import (
	"context"
	"fmt"

	"github.com/RoaringBitmap/roaring"
	"github.com/goki/mat32"

	"github.com/agentic-research/autobake/internal/scene"
)

// texel is one covered output pixel with its interpolated surface data.
type texel struct {
	x, y int
	pos  mat32.Vec3
	nrm  mat32.Vec3
	uv   mat32.Vec2
}

// rasterize walks every triangle of the mesh in UV space and emits one
// texel per covered pixel center, interpolating position and normal
// with barycentric weights. It returns the coverage bitmap, one bit per
// pixel in row-major order. Image rows run top-down, V runs bottom-up.
func rasterize(ctx context.Context, m *scene.Mesh, layer *scene.UVLayer, w, h int, emit func(texel)) (*roaring.Bitmap, error) {
	if len(layer.UV) != 3*len(m.Faces) {
		return nil, fmt.Errorf("uv layer %q has %d coords for %d faces", layer.Name, len(layer.UV), len(m.Faces))
	}
	if len(m.Normals) != len(m.Vertices) {
		return nil, fmt.Errorf("mesh %q has %d normals for %d vertices", m.Name, len(m.Normals), len(m.Vertices))
	}

	cov := roaring.New()
	fw, fh := float32(w), float32(h)

	for fi, face := range m.Faces {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, vi := range face {
			if vi < 0 || vi >= len(m.Vertices) {
				return nil, fmt.Errorf("mesh %q face %d references vertex %d of %d", m.Name, fi, vi, len(m.Vertices))
			}
		}

		uv0 := layer.UV[3*fi]
		uv1 := layer.UV[3*fi+1]
		uv2 := layer.UV[3*fi+2]

		// signed double area of the UV triangle
		area := (uv1.X-uv0.X)*(uv2.Y-uv0.Y) - (uv2.X-uv0.X)*(uv1.Y-uv0.Y)
		if mat32.Abs(area) < 1e-12 {
			continue // degenerate island, nothing to cover
		}

		// pixel-space bounding box of the triangle
		minU := mat32.Min(uv0.X, mat32.Min(uv1.X, uv2.X))
		maxU := mat32.Max(uv0.X, mat32.Max(uv1.X, uv2.X))
		minV := mat32.Min(uv0.Y, mat32.Min(uv1.Y, uv2.Y))
		maxV := mat32.Max(uv0.Y, mat32.Max(uv1.Y, uv2.Y))

		x0 := clampInt(int(mat32.Floor(minU*fw-0.5)), 0, w-1)
		x1 := clampInt(int(mat32.Ceil(maxU*fw-0.5)), 0, w-1)
		y0 := clampInt(int(mat32.Floor((1-maxV)*fh-0.5)), 0, h-1)
		y1 := clampInt(int(mat32.Ceil((1-minV)*fh-0.5)), 0, h-1)

		p0 := m.Vertices[face[0]]
		p1 := m.Vertices[face[1]]
		p2 := m.Vertices[face[2]]
		n0 := m.Normals[face[0]]
		n1 := m.Normals[face[1]]
		n2 := m.Normals[face[2]]

		for y := y0; y <= y1; y++ {
			v := 1 - (float32(y)+0.5)/fh
			for x := x0; x <= x1; x++ {
				u := (float32(x) + 0.5) / fw

				// barycentric weights of the sample point
				b1 := ((u-uv0.X)*(uv2.Y-uv0.Y) - (uv2.X-uv0.X)*(v-uv0.Y)) / area
				b2 := ((uv1.X-uv0.X)*(v-uv0.Y) - (u-uv0.X)*(uv1.Y-uv0.Y)) / area
				b0 := 1 - b1 - b2
				if b0 < 0 || b1 < 0 || b2 < 0 {
					continue
				}

				pos := p0.MulScalar(b0).Add(p1.MulScalar(b1)).Add(p2.MulScalar(b2))
				nrm := n0.MulScalar(b0).Add(n1.MulScalar(b1)).Add(n2.MulScalar(b2))
				if nrm.Length() > 1e-12 {
					nrm = nrm.Normal()
				}

				emit(texel{x: x, y: y, pos: pos, nrm: nrm, uv: mat32.Vec2{u, v}})
				cov.Add(uint32(y*w + x))
			}
		}
	}
	return cov, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
