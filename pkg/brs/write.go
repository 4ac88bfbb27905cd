package brs

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/brickforge/brickmap/pkg/errors"
)

// Write serializes data to w as a version 10 save file.
func Write(w io.Writer, data *SaveData) error {
	if len(data.Assets) == 0 {
		return errors.New(errors.ErrCodeEncode, "save data has no brick assets")
	}

	var head [5]byte
	copy(head[:], magic)
	binary.LittleEndian.PutUint16(head[3:], saveVersion)
	if _, err := w.Write(head[:]); err != nil {
		return errors.Wrap(errors.ErrCodeEncode, err, "failed to write save header")
	}
	if err := binary.Write(w, binary.LittleEndian, gameVersion); err != nil {
		return errors.Wrap(errors.ErrCodeEncode, err, "failed to write save header")
	}

	for _, section := range [][]byte{
		encodeHeader1(data),
		encodeHeader2(data),
		encodeBricks(data),
	} {
		if err := writeSection(w, section); err != nil {
			return err
		}
	}
	return nil
}

// writeSection frames a section as uncompressed size, compressed size,
// payload. Sections that do not shrink under zlib are stored raw with a
// compressed size of zero.
func writeSection(w io.Writer, raw []byte) error {
	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write(raw); err != nil {
		zw.Close()
		return errors.Wrap(errors.ErrCodeEncode, err, "failed to compress save section")
	}
	if err := zw.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeEncode, err, "failed to compress save section")
	}

	payload := compressed.Bytes()
	compressedLen := int32(len(payload))
	if compressedLen >= int32(len(raw)) {
		payload = raw
		compressedLen = 0
	}

	var sizes [8]byte
	binary.LittleEndian.PutUint32(sizes[0:], uint32(len(raw)))
	binary.LittleEndian.PutUint32(sizes[4:], uint32(compressedLen))
	if _, err := w.Write(sizes[:]); err != nil {
		return errors.Wrap(errors.ErrCodeEncode, err, "failed to write save section")
	}
	if _, err := w.Write(payload); err != nil {
		return errors.Wrap(errors.ErrCodeEncode, err, "failed to write save section")
	}
	return nil
}

func encodeHeader1(data *SaveData) []byte {
	var buf bytes.Buffer
	putString(&buf, data.Map)
	putString(&buf, data.Author.Name)
	putString(&buf, data.Description)
	putUUID(&buf, data.Author.ID)
	// Save timestamp, unused by the game when loading generated saves.
	buf.Write(make([]byte, 8))
	binary.Write(&buf, binary.LittleEndian, int32(len(data.Bricks)))
	return buf.Bytes()
}

func encodeHeader2(data *SaveData) []byte {
	var buf bytes.Buffer
	putStrings(&buf, data.Mods)
	putStrings(&buf, data.Assets)
	// Color palette; bricks carry their colors inline instead.
	binary.Write(&buf, binary.LittleEndian, int32(0))
	putStrings(&buf, data.Materials)
	binary.Write(&buf, binary.LittleEndian, int32(len(data.Owners)))
	for _, o := range data.Owners {
		putUUID(&buf, o.ID)
		putString(&buf, o.Name)
		binary.Write(&buf, binary.LittleEndian, o.BrickCount)
	}
	return buf.Bytes()
}

// encodeBricks packs the brick records into a continuous bit stream.
// Field widths depend on the header tables, so the stream is only
// decodable alongside its Header2.
func encodeBricks(data *SaveData) []byte {
	bw := &bitWriter{}
	assetCount := uint32(len(data.Assets))
	materialCount := uint32(len(data.Materials))

	for _, b := range data.Bricks {
		bw.align()
		if assetCount > 1 {
			bw.writeUint(b.AssetNameIndex, assetCount)
		}
		// Procedural bricks carry explicit half-extents.
		bw.writeBit(true)
		for _, s := range b.Size {
			bw.writeUintPacked(s)
		}
		for _, p := range b.Position {
			bw.writeIntPacked(p)
		}
		bw.writeUint(uint32(b.Direction)<<2|uint32(b.Rotation), 24)
		bw.writeBit(b.Collision.Player)
		bw.writeBit(b.Collision.Weapon)
		bw.writeBit(b.Collision.Interaction)
		bw.writeBit(b.Collision.Tool)
		bw.writeBit(b.Visibility)
		if materialCount > 1 {
			bw.writeUint(b.MaterialIndex, materialCount)
		}
		bw.writeUint(b.MaterialIntensity, 11)
		// Inline color, not a palette reference.
		bw.writeBit(true)
		bw.writeBits(uint32(b.Color.B), 8)
		bw.writeBits(uint32(b.Color.G), 8)
		bw.writeBits(uint32(b.Color.R), 8)
		bw.writeBits(uint32(b.Color.A), 8)
		bw.writeUintPacked(b.OwnerIndex)
	}
	return bw.bytes()
}

// putString writes a UE4-style string: length including the trailing
// NUL, then the bytes.
func putString(buf *bytes.Buffer, s string) {
	binary.Write(buf, binary.LittleEndian, int32(len(s)+1))
	buf.WriteString(s)
	buf.WriteByte(0)
}

func putStrings(buf *bytes.Buffer, ss []string) {
	binary.Write(buf, binary.LittleEndian, int32(len(ss)))
	for _, s := range ss {
		putString(buf, s)
	}
}

// putUUID writes a UUID as four little-endian 32-bit words, matching
// the engine's FGuid layout.
func putUUID(buf *bytes.Buffer, id [16]byte) {
	for i := 0; i < 16; i += 4 {
		word := binary.BigEndian.Uint32(id[i : i+4])
		binary.Write(buf, binary.LittleEndian, word)
	}
}
