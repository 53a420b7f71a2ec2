package scene

import "github.com/goki/mat32"

// Primitive mesh generators. Every generator produces unwrapped
// geometry: one UV layer named "UVMap", flagged for render, with
// islands that do not overlap.

// NewPlane returns a size x size plane in the XY plane facing +Z, with
// the full 0..1 UV square.
func NewPlane(name string, size float32) *Mesh {
	h := size / 2
	m := NewMesh(name)
	m.Vertices = []mat32.Vec3{
		{-h, -h, 0},
		{h, -h, 0},
		{h, h, 0},
		{-h, h, 0},
	}
	n := mat32.Vec3{0, 0, 1}
	m.Normals = []mat32.Vec3{n, n, n, n}
	m.Faces = [][3]int{{0, 1, 2}, {0, 2, 3}}
	m.AddUVLayer(&UVLayer{
		Name: "UVMap",
		UV: []mat32.Vec2{
			{0, 0}, {1, 0}, {1, 1},
			{0, 0}, {1, 1}, {0, 1},
		},
	})
	return m
}

// NewBox returns an axis-aligned box centered at the origin. Each face
// is its own UV island in a 3x2 atlas with a small gutter between
// islands.
func NewBox(name string, size mat32.Vec3) *Mesh {
	hSz := size.DivScalar(2)
	m := NewMesh(name)

	// quad corners and outward normal per face
	faces := []struct {
		v [4]mat32.Vec3
		n mat32.Vec3
	}{
		{[4]mat32.Vec3{{-hSz.X, -hSz.Y, hSz.Z}, {hSz.X, -hSz.Y, hSz.Z}, {hSz.X, hSz.Y, hSz.Z}, {-hSz.X, hSz.Y, hSz.Z}}, mat32.Vec3{0, 0, 1}},
		{[4]mat32.Vec3{{hSz.X, -hSz.Y, -hSz.Z}, {-hSz.X, -hSz.Y, -hSz.Z}, {-hSz.X, hSz.Y, -hSz.Z}, {hSz.X, hSz.Y, -hSz.Z}}, mat32.Vec3{0, 0, -1}},
		{[4]mat32.Vec3{{hSz.X, -hSz.Y, hSz.Z}, {hSz.X, -hSz.Y, -hSz.Z}, {hSz.X, hSz.Y, -hSz.Z}, {hSz.X, hSz.Y, hSz.Z}}, mat32.Vec3{1, 0, 0}},
		{[4]mat32.Vec3{{-hSz.X, -hSz.Y, -hSz.Z}, {-hSz.X, -hSz.Y, hSz.Z}, {-hSz.X, hSz.Y, hSz.Z}, {-hSz.X, hSz.Y, -hSz.Z}}, mat32.Vec3{-1, 0, 0}},
		{[4]mat32.Vec3{{-hSz.X, hSz.Y, hSz.Z}, {hSz.X, hSz.Y, hSz.Z}, {hSz.X, hSz.Y, -hSz.Z}, {-hSz.X, hSz.Y, -hSz.Z}}, mat32.Vec3{0, 1, 0}},
		{[4]mat32.Vec3{{-hSz.X, -hSz.Y, -hSz.Z}, {hSz.X, -hSz.Y, -hSz.Z}, {hSz.X, -hSz.Y, hSz.Z}, {-hSz.X, -hSz.Y, hSz.Z}}, mat32.Vec3{0, -1, 0}},
	}

	const gutter = 0.01
	layer := &UVLayer{Name: "UVMap"}
	for fi, f := range faces {
		base := len(m.Vertices)
		m.Vertices = append(m.Vertices, f.v[0], f.v[1], f.v[2], f.v[3])
		m.Normals = append(m.Normals, f.n, f.n, f.n, f.n)
		m.Faces = append(m.Faces,
			[3]int{base, base + 1, base + 2},
			[3]int{base, base + 2, base + 3},
		)

		// island rect for face fi in the 3x2 atlas
		col := float32(fi % 3)
		row := float32(fi / 3)
		u0 := col/3 + gutter
		u1 := (col+1)/3 - gutter
		v0 := row/2 + gutter
		v1 := (row+1)/2 - gutter
		layer.UV = append(layer.UV,
			mat32.Vec2{u0, v0}, mat32.Vec2{u1, v0}, mat32.Vec2{u1, v1},
			mat32.Vec2{u0, v0}, mat32.Vec2{u1, v1}, mat32.Vec2{u0, v1},
		)
	}
	m.AddUVLayer(layer)
	return m
}

// NewSphere returns a UV sphere with the given number of longitude
// sectors and latitude rings. The seam column is duplicated so the UV
// map stays continuous.
func NewSphere(name string, radius float32, sectors, rings int) *Mesh {
	if sectors < 3 {
		sectors = 3
	}
	if rings < 2 {
		rings = 2
	}
	m := NewMesh(name)

	type vtx struct {
		pos mat32.Vec3
		uv  mat32.Vec2
	}
	grid := make([]vtx, 0, (rings+1)*(sectors+1))
	for r := 0; r <= rings; r++ {
		v := float32(r) / float32(rings)
		theta := v * mat32.Pi
		y := radius * mat32.Cos(theta)
		ringRad := radius * mat32.Sin(theta)
		for s := 0; s <= sectors; s++ {
			u := float32(s) / float32(sectors)
			phi := u * 2 * mat32.Pi
			p := mat32.Vec3{
				ringRad * mat32.Cos(phi),
				y,
				ringRad * mat32.Sin(phi),
			}
			grid = append(grid, vtx{pos: p, uv: mat32.Vec2{u, v}})
		}
	}

	for _, g := range grid {
		m.Vertices = append(m.Vertices, g.pos)
		if radius > 0 {
			m.Normals = append(m.Normals, g.pos.DivScalar(radius))
		} else {
			m.Normals = append(m.Normals, mat32.Vec3{0, 1, 0})
		}
	}

	layer := &UVLayer{Name: "UVMap"}
	emit := func(a, b, c int) {
		m.Faces = append(m.Faces, [3]int{a, b, c})
		layer.UV = append(layer.UV, grid[a].uv, grid[b].uv, grid[c].uv)
	}
	stride := sectors + 1
	for r := 0; r < rings; r++ {
		for s := 0; s < sectors; s++ {
			i0 := r*stride + s
			i1 := i0 + 1
			i2 := i0 + stride
			i3 := i2 + 1
			if r > 0 {
				emit(i0, i1, i3)
			}
			if r < rings-1 {
				emit(i0, i3, i2)
			}
		}
	}
	m.AddUVLayer(layer)
	return m
}
