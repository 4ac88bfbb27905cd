package heightmap

import (
	"image"
	"image/draw"
	"os"

	// Register decoders for the formats the CLI accepts.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/brickforge/brickmap/pkg/errors"
)

// PNGHeightmap reads elevations from one or more equally-sized images.
//
// In standard mode only the red channel contributes, summed across all
// images, which allows stacking several 8-bit maps for taller terrain.
// In high-detail mode all four RGBA channels of each pixel are read as a
// big-endian 32-bit integer, again summed across images.
type PNGHeightmap struct {
	maps []*image.NRGBA
	hd   bool
}

// NewPNGHeightmap decodes the given image files into a heightmap.
// All images must share the same dimensions.
func NewPNGHeightmap(paths []string, highDetail bool) (*PNGHeightmap, error) {
	if len(paths) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "heightmap requires at least one image")
	}

	maps := make([]*image.NRGBA, 0, len(paths))
	for _, path := range paths {
		img, err := decodeNRGBA(path)
		if err != nil {
			return nil, err
		}
		maps = append(maps, img)
	}

	bounds := maps[0].Bounds()
	for _, m := range maps[1:] {
		if m.Bounds().Dx() != bounds.Dx() || m.Bounds().Dy() != bounds.Dy() {
			return nil, errors.New(errors.ErrCodeDimensionMismatch, "mismatched heightmap sizes")
		}
	}

	return &PNGHeightmap{maps: maps, hd: highDetail}, nil
}

// At returns the summed elevation at the given coordinates.
func (m *PNGHeightmap) At(x, y uint32) uint32 {
	var sum uint32
	for _, img := range m.maps {
		px := img.NRGBAAt(int(x), int(y))
		if m.hd {
			sum += uint32(px.R)<<24 | uint32(px.G)<<16 | uint32(px.B)<<8 | uint32(px.A)
		} else {
			sum += uint32(px.R)
		}
	}
	return sum
}

// Size returns the shared dimensions of the source images.
func (m *PNGHeightmap) Size() (uint32, uint32) {
	b := m.maps[0].Bounds()
	return uint32(b.Dx()), uint32(b.Dy())
}

// PNGColormap reads colors from a single image, optionally converting
// sRGB-encoded bytes to linear-light bytes per channel.
type PNGColormap struct {
	source *image.NRGBA
	linear bool
}

// NewPNGColormap decodes the given image file into a colormap.
// When linearInput is true the image is assumed to already be in
// linear-light space and no conversion is applied.
func NewPNGColormap(path string, linearInput bool) (*PNGColormap, error) {
	img, err := decodeNRGBA(path)
	if err != nil {
		return nil, err
	}
	return &PNGColormap{source: img, linear: linearInput}, nil
}

// At returns the color at the given coordinates.
func (m *PNGColormap) At(x, y uint32) [4]byte {
	px := m.source.NRGBAAt(int(x), int(y))
	rgba := [4]byte{px.R, px.G, px.B, px.A}
	if m.linear {
		return rgba
	}
	return ToLinearRGB(rgba)
}

// Size returns the dimensions of the source image.
func (m *PNGColormap) Size() (uint32, uint32) {
	b := m.source.Bounds()
	return uint32(b.Dx()), uint32(b.Dy())
}

// decodeNRGBA opens and decodes an image file into NRGBA pixel layout
// so raw channel bytes can be read without premultiplication.
func decodeNRGBA(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "could not open image %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "could not open image %s", path)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "could not decode image %s", path)
	}

	if nrgba, ok := src.(*image.NRGBA); ok {
		return nrgba, nil
	}
	bounds := src.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), src, bounds.Min, draw.Src)
	return nrgba, nil
}

var (
	_ Heightmap = (*PNGHeightmap)(nil)
	_ Colormap  = (*PNGColormap)(nil)
)
