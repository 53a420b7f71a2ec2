package bake

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/autobake/internal/scene"
)

func testReporter() *Reporter {
	return NewReporter(slog.New(slog.DiscardHandler))
}

// bakeableScene returns a scene holding one selected, active plane with
// a principled material. The minimum that validates cleanly.
func bakeableScene(t *testing.T) (*scene.Scene, *scene.Object) {
	t.Helper()
	sc := scene.New("test")
	sc.BasePath = t.TempDir()

	obj := scene.NewMeshObject("Crate", scene.NewPlane("Crate", 2))
	obj.AddMaterial(scene.NewPrincipledMaterial("CrateMat"))
	sc.AddObject(obj)
	obj.Select(true)
	sc.SetActiveObject(obj)
	return sc, obj
}

func TestValidateHappyPath(t *testing.T) {
	sc, obj := bakeableScene(t)
	rep := testReporter()

	bctx, err := Validate(sc, rep)
	require.NoError(t, err)
	assert.Equal(t, obj, bctx.Model)
	assert.Equal(t, obj.ActiveMaterial(), bctx.Material)
	require.NotNil(t, bctx.Principled)
	assert.Equal(t, scene.NodePrincipled, bctx.Principled.Kind)
	assert.Empty(t, rep.Messages())
}

func TestValidateNoActiveObject(t *testing.T) {
	sc := scene.New("test")
	_, err := Validate(sc, testReporter())
	assert.ErrorIs(t, err, ErrNoActiveObject)
}

func TestValidateNotAMesh(t *testing.T) {
	sc := scene.New("test")
	lamp := &scene.Object{Name: "Lamp", Type: scene.ObjectLight}
	sc.AddObject(lamp)
	sc.SetActiveObject(lamp)

	_, err := Validate(sc, testReporter())
	assert.ErrorIs(t, err, ErrNotAMesh)
}

func TestValidateNoUVMap(t *testing.T) {
	sc := scene.New("test")
	obj := scene.NewMeshObject("Raw", scene.NewMesh("Raw"))
	obj.AddMaterial(scene.NewPrincipledMaterial("Mat"))
	sc.AddObject(obj)
	sc.SetActiveObject(obj)

	_, err := Validate(sc, testReporter())
	assert.ErrorIs(t, err, ErrNoUVMap)
}

func TestValidateNoMaterial(t *testing.T) {
	sc := scene.New("test")
	obj := scene.NewMeshObject("Bare", scene.NewPlane("Bare", 1))
	sc.AddObject(obj)
	sc.SetActiveObject(obj)

	_, err := Validate(sc, testReporter())
	assert.ErrorIs(t, err, ErrNoMaterial)
}

func TestValidateNodesDisabled(t *testing.T) {
	sc := scene.New("test")
	obj := scene.NewMeshObject("Flat", scene.NewPlane("Flat", 1))
	mat := scene.NewPrincipledMaterial("FlatMat")
	mat.UseNodes = false
	obj.AddMaterial(mat)
	sc.AddObject(obj)
	sc.SetActiveObject(obj)

	_, err := Validate(sc, testReporter())
	assert.ErrorIs(t, err, ErrNodesDisabled)
}

func TestValidateNoPrincipledNode(t *testing.T) {
	sc := scene.New("test")
	obj := scene.NewMeshObject("Odd", scene.NewPlane("Odd", 1))
	mat := scene.NewMaterial("OddMat")
	mat.NodeTree.Add(scene.NewOutput("out"))
	obj.AddMaterial(mat)
	sc.AddObject(obj)
	sc.SetActiveObject(obj)

	_, err := Validate(sc, testReporter())
	assert.ErrorIs(t, err, ErrNoPrincipledNode)
}

func TestValidateLastPrincipledWins(t *testing.T) {
	sc, obj := bakeableScene(t)
	mat := obj.ActiveMaterial()
	second := scene.NewPrincipled("Second BSDF")
	mat.NodeTree.Add(second)

	bctx, err := Validate(sc, testReporter())
	require.NoError(t, err)
	assert.Equal(t, second, bctx.Principled)
}

func TestValidateMultiSelectWarns(t *testing.T) {
	sc, obj := bakeableScene(t)
	other := scene.NewMeshObject("Other", scene.NewPlane("Other", 1))
	sc.AddObject(other)
	other.Select(true)

	rep := testReporter()
	bctx, err := Validate(sc, rep)
	require.NoError(t, err)
	assert.Equal(t, obj, bctx.Model)

	require.Len(t, rep.Messages(), 1)
	assert.Equal(t, SeverityWarning, rep.Messages()[0].Severity)
	assert.Contains(t, rep.Messages()[0].Text, "More than one object selected")
}

func TestValidatePromotesRenderLayer(t *testing.T) {
	sc, obj := bakeableScene(t)

	// strip the render flag from every layer
	mesh := obj.Mesh
	for _, l := range mesh.UVLayers {
		l.ActiveRender = false
	}

	rep := testReporter()
	_, err := Validate(sc, rep)
	require.NoError(t, err)

	assert.True(t, mesh.UVLayers[0].ActiveRender, "first layer should be promoted")
	require.Len(t, rep.Messages(), 1)
	assert.Equal(t, SeverityWarning, rep.Messages()[0].Severity)
	assert.Contains(t, rep.Messages()[0].Text, "active for render")
}

func TestValidateRepairsActiveUVLayer(t *testing.T) {
	sc, obj := bakeableScene(t)
	mesh := obj.Mesh
	mesh.ActiveUVIndex = -1

	_, err := Validate(sc, testReporter())
	require.NoError(t, err)
	assert.NotNil(t, mesh.ActiveUVLayer())
	assert.Equal(t, mesh.RenderUVLayer(), mesh.ActiveUVLayer())
}
