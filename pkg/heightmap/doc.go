// Package heightmap provides the elevation and color sample sources
// consumed by the grid-compression engine.
//
// Two small interfaces, [Heightmap] and [Colormap], abstract over the
// concrete sources so the engine never touches files or pixels directly:
//
//   - [PNGHeightmap]: one or more equally-sized images, summed per pixel.
//     Standard mode reads the red channel; high-detail mode interprets
//     all four channels as a big-endian 32-bit integer.
//   - [PNGColormap]: a single image, with optional sRGB to linear-light
//     conversion.
//   - [Flat]: a constant elevation over a fixed domain, for rendering
//     flat images.
//   - [Perlin]: procedural terrain from layered Perlin noise, for
//     generating test landscapes without input files.
//   - [RawHeightmap]/[RawColormap]: in-memory sample buffers, used for
//     derived elevation layers and in tests.
//
// Despite the PNG naming, the file-backed sources accept any format the
// registered image decoders understand (PNG, JPEG, BMP, TIFF).
package heightmap
