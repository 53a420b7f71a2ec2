package render

import (
	"github.com/goki/mat32"

	"github.com/agentic-research/autobake/internal/scene"
)

// missingTexture is the classic debug magenta for image nodes with no
// image attached.
var missingTexture = [4]float32{1, 0, 1, 1}

// evalColor resolves a node socket to a color at uv: the upstream
// texture when linked, the socket constant otherwise.
func evalColor(n *scene.Node, socket string, uv mat32.Vec2) [4]float32 {
	in := n.Input(socket)
	if in == nil {
		return [4]float32{}
	}
	if in.Link != nil {
		return evalNode(in.Link, uv)
	}
	return in.Value
}

// evalScalar resolves a node socket to a scalar at uv. Linked textures
// contribute their first channel.
func evalScalar(n *scene.Node, socket string, uv mat32.Vec2) float32 {
	return evalColor(n, socket, uv)[0]
}

func evalNode(n *scene.Node, uv mat32.Vec2) [4]float32 {
	switch n.Kind {
	case scene.NodeImageTexture:
		if n.Image == nil {
			return missingTexture
		}
		return sampleImage(n.Image, uv)
	case scene.NodeCheckerTexture:
		return evalChecker(n, uv)
	}
	return [4]float32{}
}

// sampleImage reads the nearest texel with repeat wrapping. Image rows
// run top-down, V runs bottom-up, matching the rasterizer.
func sampleImage(img *scene.Image, uv mat32.Vec2) [4]float32 {
	u := uv.X - mat32.Floor(uv.X)
	v := uv.Y - mat32.Floor(uv.Y)
	x := clampInt(int(u*float32(img.Width)), 0, img.Width-1)
	y := clampInt(int((1-v)*float32(img.Height)), 0, img.Height-1)
	return img.PixelAt(x, y)
}

func evalChecker(n *scene.Node, uv mat32.Vec2) [4]float32 {
	scale := float32(1)
	if in := n.Input(scene.InputScale); in != nil && in.Value[0] != 0 {
		scale = in.Value[0]
	}
	c1 := [4]float32{0.8, 0.8, 0.8, 1}
	c2 := [4]float32{0.2, 0.2, 0.2, 1}
	if in := n.Input(scene.InputColor1); in != nil {
		c1 = in.Value
	}
	if in := n.Input(scene.InputColor2); in != nil {
		c2 = in.Value
	}
	cx := int(mat32.Floor(uv.X * scale))
	cy := int(mat32.Floor(uv.Y * scale))
	if (cx+cy)%2 == 0 {
		return c1
	}
	return c2
}

// evalTangentNormal resolves the principled Normal input to a
// tangent-space vector. An unlinked socket means the surface relies on
// its geometry alone, which in tangent space is the flat +Z normal.
func evalTangentNormal(principled *scene.Node, uv mat32.Vec2) mat32.Vec3 {
	in := principled.Input(scene.InputNormal)
	if in == nil || in.Link == nil {
		return mat32.Vec3{0, 0, 1}
	}
	c := evalNode(in.Link, uv)
	n := mat32.Vec3{c[0]*2 - 1, c[1]*2 - 1, c[2]*2 - 1}
	if n.Length() < 1e-6 {
		return mat32.Vec3{0, 0, 1}
	}
	return n.Normal()
}

// encodeNormal packs a tangent-space normal into RGB with the session's
// channel swizzle.
func encodeNormal(n mat32.Vec3, r, g, b scene.Swizzle) [4]float32 {
	return [4]float32{
		0.5 + 0.5*swizzleComponent(n, r),
		0.5 + 0.5*swizzleComponent(n, g),
		0.5 + 0.5*swizzleComponent(n, b),
		1,
	}
}

func swizzleComponent(n mat32.Vec3, s scene.Swizzle) float32 {
	switch s {
	case scene.SwizzlePosX:
		return n.X
	case scene.SwizzleNegX:
		return -n.X
	case scene.SwizzlePosY:
		return n.Y
	case scene.SwizzleNegY:
		return -n.Y
	case scene.SwizzlePosZ:
		return n.Z
	case scene.SwizzleNegZ:
		return -n.Z
	}
	return 0
}
