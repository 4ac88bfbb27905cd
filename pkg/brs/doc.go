// Package brs builds and writes Brickadia save files (.brs, version 10).
//
// The format is three independently zlib-compressed sections behind a
// small magic header:
//
//  1. Header1: map name, author, description, brick count
//  2. Header2: mods, brick assets, materials, brick owners
//  3. Bricks: a bit-packed stream of brick records
//
// Only writing is implemented; the converter never reads saves back.
// Construct a [SaveData] with [NewSaveData] and serialize it with
// [Write].
package brs
