package export

import (
	"encoding/json"
	"image/png"
	"io"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/autobake/api"
	"github.com/agentic-research/autobake/internal/scene"
)

func newTarget(t *testing.T, w, h int) *scene.Image {
	t.Helper()
	sc := scene.New("t")
	img, err := sc.NewImage("map", w, h)
	require.NoError(t, err)
	img.FilePath = "/out/map.png"
	return img
}

func TestSaveEightBit(t *testing.T) {
	fs := memfs.New()
	saver := NewPNG(fs)
	require.NoError(t, saver.MkdirAll("/out"))

	img := newTarget(t, 2, 1)
	img.SetPixel(0, 0, [4]float32{1, 0, 0, 1})
	img.SetPixel(1, 0, [4]float32{0, 0.5, 1, 1})
	require.NoError(t, saver.Save(img))

	f, err := fs.Open("/out/map.png")
	require.NoError(t, err)
	defer f.Close()
	decoded, err := png.Decode(f)
	require.NoError(t, err)

	require.Equal(t, 2, decoded.Bounds().Dx())
	require.Equal(t, 1, decoded.Bounds().Dy())

	r, g, b, a := decoded.At(0, 0).RGBA()
	assert.Equal(t, []uint32{0xffff, 0, 0, 0xffff}, []uint32{r, g, b, a})

	_, g, b, _ = decoded.At(1, 0).RGBA()
	assert.Equal(t, uint32(128*257), g)
	assert.Equal(t, uint32(0xffff), b)

	// the temp file is renamed away, only the map remains
	entries, err := fs.ReadDir("/out")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSaveSixteenBit(t *testing.T) {
	fs := memfs.New()
	saver := NewPNG(fs)
	require.NoError(t, saver.MkdirAll("/out"))

	img := newTarget(t, 1, 1)
	img.UseFloat = true
	img.SetPixel(0, 0, [4]float32{0.3, 0.3, 0.3, 1})
	require.NoError(t, saver.Save(img))

	f, err := fs.Open("/out/map.png")
	require.NoError(t, err)
	defer f.Close()
	decoded, err := png.Decode(f)
	require.NoError(t, err)

	// 0.3 is not representable at 8 bits within this tolerance
	r, _, _, _ := decoded.At(0, 0).RGBA()
	assert.InDelta(t, 0.3, float64(r)/65535, 0.001)
}

func TestSaveClampsOutOfRange(t *testing.T) {
	fs := memfs.New()
	saver := NewPNG(fs)
	require.NoError(t, saver.MkdirAll("/out"))

	img := newTarget(t, 1, 1)
	img.SetPixel(0, 0, [4]float32{2, -3, 0.5, 1})
	require.NoError(t, saver.Save(img))

	f, err := fs.Open("/out/map.png")
	require.NoError(t, err)
	defer f.Close()
	decoded, err := png.Decode(f)
	require.NoError(t, err)

	r, g, b, _ := decoded.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0), g)
	assert.Equal(t, uint32(128*257), b)
}

func TestSaveErrors(t *testing.T) {
	fs := memfs.New()
	saver := NewPNG(fs)

	t.Run("no file path", func(t *testing.T) {
		img := newTarget(t, 1, 1)
		img.FilePath = ""
		assert.ErrorContains(t, saver.Save(img), "no file path")
	})

	t.Run("unsupported format", func(t *testing.T) {
		img := newTarget(t, 1, 1)
		img.FileFormat = "EXR"
		assert.ErrorContains(t, saver.Save(img), "unsupported format")
	})

	t.Run("no pixel data", func(t *testing.T) {
		img := &scene.Image{Name: "x", FilePath: "/out/x.png", FileFormat: "PNG"}
		assert.ErrorContains(t, saver.Save(img), "no pixel data")
	})
}

func TestWriteReport(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, fs.MkdirAll("/out", 0o755))

	rec := api.RunRecord{
		Scene:       "crate",
		Object:      "Crate",
		Material:    "CrateMat",
		TextureSize: 256,
		Maps:        api.MapTypes(),
		OutputDir:   "/out",
		Status:      api.StatusFinished,
		Warnings:    1,
		StartedAt:   time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC),
		DurationMS:  42,
	}
	require.NoError(t, WriteReport(fs, "/out", rec))

	f, err := fs.Open("/out/" + ReportName)
	require.NoError(t, err)
	defer f.Close()
	buf, err := io.ReadAll(f)
	require.NoError(t, err)

	var got api.RunRecord
	require.NoError(t, json.Unmarshal(buf, &got))
	assert.Equal(t, rec, got)
}

func TestWriteReportOverwrites(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, fs.MkdirAll("/out", 0o755))

	rec := api.RunRecord{Scene: "a", Status: api.StatusCancelled, StartedAt: time.Now().UTC()}
	require.NoError(t, WriteReport(fs, "/out", rec))
	rec.Status = api.StatusFinished
	require.NoError(t, WriteReport(fs, "/out", rec))

	f, err := fs.Open("/out/" + ReportName)
	require.NoError(t, err)
	defer f.Close()
	buf, err := io.ReadAll(f)
	require.NoError(t, err)

	var got api.RunRecord
	require.NoError(t, json.Unmarshal(buf, &got))
	assert.Equal(t, api.StatusFinished, got.Status)
}
