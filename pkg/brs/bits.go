package brs

import "math/bits"

// bitWriter packs values LSB-first into a byte stream, matching the
// bit layout of the brick section.
type bitWriter struct {
	buf []byte
	// cur accumulates bits until a full byte is flushed.
	cur  byte
	nCur uint
}

// writeBit appends a single bit.
func (w *bitWriter) writeBit(b bool) {
	if b {
		w.cur |= 1 << w.nCur
	}
	w.nCur++
	if w.nCur == 8 {
		w.buf = append(w.buf, w.cur)
		w.cur = 0
		w.nCur = 0
	}
}

// writeBits appends the n low bits of v, least significant first.
func (w *bitWriter) writeBits(v uint32, n uint) {
	for i := uint(0); i < n; i++ {
		w.writeBit(v&(1<<i) != 0)
	}
}

// writeUint writes v in the minimum number of bits needed to represent
// values below max. max must be at least 2.
func (w *bitWriter) writeUint(v, max uint32) {
	w.writeBits(v, uint(bits.Len32(max-1)))
}

// writeUintPacked writes v as a sequence of 7-bit groups, each followed
// by a continuation bit.
func (w *bitWriter) writeUintPacked(v uint32) {
	for {
		group := v & 0x7f
		v >>= 7
		w.writeBits(group, 7)
		w.writeBit(v != 0)
		if v == 0 {
			return
		}
	}
}

// writeIntPacked zigzag-encodes v and writes it packed.
func (w *bitWriter) writeIntPacked(v int32) {
	w.writeUintPacked(uint32((v << 1) ^ (v >> 31)))
}

// writeBytesAligned pads to a byte boundary and appends raw bytes.
func (w *bitWriter) writeBytesAligned(b []byte) {
	w.align()
	w.buf = append(w.buf, b...)
}

// align flushes any partial byte, padding with zero bits.
func (w *bitWriter) align() {
	if w.nCur > 0 {
		w.buf = append(w.buf, w.cur)
		w.cur = 0
		w.nCur = 0
	}
}

// bytes returns the finished stream, flushing any partial byte.
func (w *bitWriter) bytes() []byte {
	w.align()
	return w.buf
}
