package brs

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zlib"
)

func testBricks() []Brick {
	return []Brick{
		{
			AssetNameIndex:    AssetMicroBrick,
			Size:              [3]uint32{10, 10, 6},
			Position:          [3]int32{0, 0, 6},
			Collision:         Collision{Player: true, Weapon: true, Interaction: true, Tool: true},
			Visibility:        true,
			MaterialIndex:     MaterialPlastic,
			MaterialIntensity: 5,
			Color:             Color{R: 120, G: 30, B: 200, A: 255},
			OwnerIndex:        1,
		},
		{
			AssetNameIndex:    AssetMicroBrick,
			Size:              [3]uint32{20, 10, 6},
			Position:          [3]int32{30, 0, 6},
			Visibility:        true,
			MaterialIndex:     MaterialGlow,
			MaterialIntensity: 7,
			Color:             Color{R: 0, G: 255, B: 0, A: 255},
			OwnerIndex:        1,
		},
	}
}

func TestWriteMagicAndVersion(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, NewSaveData(testBricks(), uuid.Nil, "")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	out := buf.Bytes()
	if len(out) < 9 {
		t.Fatalf("output too short: %d bytes", len(out))
	}
	if string(out[:3]) != "BRS" {
		t.Errorf("magic = %q, want \"BRS\"", out[:3])
	}
	if v := binary.LittleEndian.Uint16(out[3:5]); v != 10 {
		t.Errorf("version = %d, want 10", v)
	}
}

// readSection consumes one section frame from r and returns the
// decompressed payload.
func readSection(t *testing.T, r io.Reader) []byte {
	t.Helper()
	var rawLen, compLen int32
	if err := binary.Read(r, binary.LittleEndian, &rawLen); err != nil {
		t.Fatalf("read section size: %v", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &compLen); err != nil {
		t.Fatalf("read section size: %v", err)
	}
	if compLen == 0 {
		raw := make([]byte, rawLen)
		if _, err := io.ReadFull(r, raw); err != nil {
			t.Fatalf("read raw section: %v", err)
		}
		return raw
	}
	comp := make([]byte, compLen)
	if _, err := io.ReadFull(r, comp); err != nil {
		t.Fatalf("read compressed section: %v", err)
	}
	zr, err := zlib.NewReader(bytes.NewReader(comp))
	if err != nil {
		t.Fatalf("zlib: %v", err)
	}
	defer zr.Close()
	raw, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if int32(len(raw)) != rawLen {
		t.Fatalf("decompressed %d bytes, header says %d", len(raw), rawLen)
	}
	return raw
}

func readString(t *testing.T, r *bytes.Reader) string {
	t.Helper()
	var n int32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		t.Fatalf("read string length: %v", err)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		t.Fatalf("read string: %v", err)
	}
	if n == 0 || b[n-1] != 0 {
		t.Fatalf("string %q not NUL-terminated", b)
	}
	return string(b[:n-1])
}

func TestWriteHeader1RoundTrip(t *testing.T) {
	bricks := testBricks()
	var buf bytes.Buffer
	if err := Write(&buf, NewSaveData(bricks, uuid.Nil, "builder")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	stream := bytes.NewReader(buf.Bytes())
	if _, err := stream.Seek(9, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	h1 := bytes.NewReader(readSection(t, stream))

	if got := readString(t, h1); got != "Plate" {
		t.Errorf("map = %q, want \"Plate\"", got)
	}
	if got := readString(t, h1); got != "builder" {
		t.Errorf("author = %q, want \"builder\"", got)
	}
	readString(t, h1) // description

	// UUID then 8 reserved bytes precede the brick count.
	if _, err := h1.Seek(16+8, io.SeekCurrent); err != nil {
		t.Fatal(err)
	}
	var count int32
	if err := binary.Read(h1, binary.LittleEndian, &count); err != nil {
		t.Fatalf("read brick count: %v", err)
	}
	if count != int32(len(bricks)) {
		t.Errorf("brick count = %d, want %d", count, len(bricks))
	}
}

func TestWriteHeader2Tables(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, NewSaveData(testBricks(), uuid.Nil, "")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	stream := bytes.NewReader(buf.Bytes())
	if _, err := stream.Seek(9, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	readSection(t, stream)
	h2 := bytes.NewReader(readSection(t, stream))

	var mods int32
	if err := binary.Read(h2, binary.LittleEndian, &mods); err != nil {
		t.Fatal(err)
	}
	if mods != 0 {
		t.Errorf("mod count = %d, want 0", mods)
	}

	var assets int32
	if err := binary.Read(h2, binary.LittleEndian, &assets); err != nil {
		t.Fatal(err)
	}
	if int(assets) != len(DefaultAssets) {
		t.Fatalf("asset count = %d, want %d", assets, len(DefaultAssets))
	}
	for i := range DefaultAssets {
		if got := readString(t, h2); got != DefaultAssets[i] {
			t.Errorf("asset[%d] = %q, want %q", i, got, DefaultAssets[i])
		}
	}
}

func TestNewSaveDataDefaults(t *testing.T) {
	data := NewSaveData(testBricks(), uuid.Nil, "")

	if data.Author.ID != DefaultOwnerID {
		t.Errorf("author ID = %v, want default owner", data.Author.ID)
	}
	if data.Author.Name != "Generator" {
		t.Errorf("author name = %q, want \"Generator\"", data.Author.Name)
	}
	if len(data.Owners) != 1 {
		t.Fatalf("owner count = %d, want 1", len(data.Owners))
	}
	if data.Owners[0].BrickCount != 2 {
		t.Errorf("owner brick count = %d, want 2", data.Owners[0].BrickCount)
	}
}

func TestNewSaveDataCustomOwner(t *testing.T) {
	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	data := NewSaveData(nil, id, "mapper")

	if data.Author.ID != id {
		t.Errorf("author ID = %v, want %v", data.Author.ID, id)
	}
	if data.Owners[0].Name != "mapper" {
		t.Errorf("owner name = %q, want \"mapper\"", data.Owners[0].Name)
	}
}

func TestWriteRejectsEmptyAssets(t *testing.T) {
	data := NewSaveData(testBricks(), uuid.Nil, "")
	data.Assets = nil

	if err := Write(io.Discard, data); err == nil {
		t.Error("Write accepted save data without assets")
	}
}
