package render

import (
	"math/rand"

	"github.com/goki/mat32"

	"github.com/agentic-research/autobake/internal/scene"
)

// rayBias lifts occlusion ray origins off the surface so rays do not
// immediately hit the triangle they start on.
const rayBias = 1e-3

type tri struct {
	a, b, c mat32.Vec3
}

// occluderSet is the flattened triangle soup of every mesh object in
// the scene. Ambient occlusion considers all geometry, not just the
// model being baked.
type occluderSet struct {
	tris []tri
}

func buildOccluders(sc *scene.Scene) *occluderSet {
	set := &occluderSet{}
	for _, o := range sc.Objects() {
		if o.Type != scene.ObjectMesh || o.Mesh == nil {
			continue
		}
		m := o.Mesh
		for _, f := range m.Faces {
			if f[0] >= len(m.Vertices) || f[1] >= len(m.Vertices) || f[2] >= len(m.Vertices) {
				continue
			}
			set.tris = append(set.tris, tri{
				a: m.Vertices[f[0]],
				b: m.Vertices[f[1]],
				c: m.Vertices[f[2]],
			})
		}
	}
	return set
}

// occlusion returns the ambient term at a surface point: 1 for fully
// open, 0 for fully blocked. It casts cosine-weighted hemisphere rays
// and counts hits within maxDist.
func (s *occluderSet) occlusion(pos, nrm mat32.Vec3, samples int, maxDist float32, rng *rand.Rand) float32 {
	if len(s.tris) == 0 {
		return 1
	}
	origin := pos.Add(nrm.MulScalar(rayBias))
	tangent, bitangent := orthoBasis(nrm)

	hits := 0
	for i := 0; i < samples; i++ {
		r1 := rng.Float32()
		r2 := rng.Float32()
		sinT := mat32.Sqrt(r1)
		phi := 2 * mat32.Pi * r2

		dir := tangent.MulScalar(sinT * mat32.Cos(phi)).
			Add(bitangent.MulScalar(sinT * mat32.Sin(phi))).
			Add(nrm.MulScalar(mat32.Sqrt(1 - r1)))

		if s.hit(origin, dir, maxDist) {
			hits++
		}
	}
	return 1 - float32(hits)/float32(samples)
}

// hit reports whether the ray strikes any triangle within maxDist.
func (s *occluderSet) hit(origin, dir mat32.Vec3, maxDist float32) bool {
	for _, t := range s.tris {
		if d, ok := intersect(origin, dir, t); ok && d > rayBias && d < maxDist {
			return true
		}
	}
	return false
}

// intersect is the Moeller-Trumbore ray/triangle test. It returns the
// hit distance along dir.
func intersect(origin, dir mat32.Vec3, t tri) (float32, bool) {
	e1 := t.b.Sub(t.a)
	e2 := t.c.Sub(t.a)
	p := dir.Cross(e2)
	det := e1.Dot(p)
	if mat32.Abs(det) < 1e-9 {
		return 0, false
	}
	inv := 1 / det
	tv := origin.Sub(t.a)
	u := tv.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := tv.Cross(e1)
	v := dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	d := e2.Dot(q) * inv
	if d <= 0 {
		return 0, false
	}
	return d, true
}

// orthoBasis returns two unit vectors spanning the plane orthogonal to
// n.
func orthoBasis(n mat32.Vec3) (mat32.Vec3, mat32.Vec3) {
	helper := mat32.Vec3{1, 0, 0}
	if mat32.Abs(n.X) > 0.9 {
		helper = mat32.Vec3{0, 1, 0}
	}
	tangent := n.Cross(helper)
	if tangent.Length() < 1e-9 {
		tangent = mat32.Vec3{0, 0, 1}
	} else {
		tangent = tangent.Normal()
	}
	return tangent, n.Cross(tangent)
}
