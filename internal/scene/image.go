package scene

// ColorSpace tags how an image's pixel values are interpreted.
type ColorSpace string

const (
	ColorSpaceSRGB     ColorSpace = "sRGB"
	ColorSpaceNonColor ColorSpace = "Non-Color"
)

// Image is a pooled RGBA pixel buffer. Pixels are float32 in [0, 1],
// four channels per texel, row-major from the top-left corner. UseFloat
// marks buffers that must keep full float precision through save.
type Image struct {
	Name   string
	Width  int
	Height int

	ColorSpace ColorSpace
	UseFloat   bool
	// GeneratedColor is the fill the buffer was initialized with.
	GeneratedColor [4]float32

	FilePath   string
	FileFormat string

	pixels []float32
}

func newImage(name string, width, height int) *Image {
	return &Image{
		Name:       name,
		Width:      width,
		Height:     height,
		ColorSpace: ColorSpaceSRGB,
		FileFormat: "PNG",
		pixels:     make([]float32, width*height*4),
	}
}

// HasData reports whether the image carries a pixel buffer.
func (im *Image) HasData() bool {
	return len(im.pixels) > 0
}

// Pixels returns the live pixel slice, RGBA interleaved.
func (im *Image) Pixels() []float32 {
	return im.pixels
}

// Fill overwrites every texel with c and records it as the generated
// color.
func (im *Image) Fill(c [4]float32) {
	im.GeneratedColor = c
	for i := 0; i < len(im.pixels); i += 4 {
		im.pixels[i] = c[0]
		im.pixels[i+1] = c[1]
		im.pixels[i+2] = c[2]
		im.pixels[i+3] = c[3]
	}
}

// SetPixel writes one texel. Out-of-bounds writes are dropped.
func (im *Image) SetPixel(x, y int, c [4]float32) {
	if x < 0 || y < 0 || x >= im.Width || y >= im.Height {
		return
	}
	i := (y*im.Width + x) * 4
	im.pixels[i] = c[0]
	im.pixels[i+1] = c[1]
	im.pixels[i+2] = c[2]
	im.pixels[i+3] = c[3]
}

// PixelAt reads one texel. Out-of-bounds reads return zero.
func (im *Image) PixelAt(x, y int) [4]float32 {
	if x < 0 || y < 0 || x >= im.Width || y >= im.Height {
		return [4]float32{}
	}
	i := (y*im.Width + x) * 4
	return [4]float32{im.pixels[i], im.pixels[i+1], im.pixels[i+2], im.pixels[i+3]}
}
