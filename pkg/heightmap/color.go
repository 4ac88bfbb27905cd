package heightmap

import "math"

// ToLinearGamma converts a single color channel from sRGB gamma to
// linear gamma. Channel values are 0-255 in both spaces.
func ToLinearGamma(c uint8) uint8 {
	cf := float64(c) / 255.0
	if cf > 0.04045 {
		return uint8(math.Pow(cf/1.055+0.0521327, 2.4) * 255.0)
	}
	return uint8(cf / 12.192 * 255.0)
}

// ToLinearRGB converts an RGBA color from sRGB to linear-light space.
// The alpha channel passes through unchanged.
func ToLinearRGB(rgba [4]byte) [4]byte {
	return [4]byte{
		ToLinearGamma(rgba[0]),
		ToLinearGamma(rgba[1]),
		ToLinearGamma(rgba[2]),
		rgba[3],
	}
}
