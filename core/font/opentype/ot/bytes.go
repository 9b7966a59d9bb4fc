package ot

import (
	"encoding/binary"
	"errors"
)

// Reading bytes from a font's binary representation

var errBufferBounds = errors.New("internal inconsistency: buffer bounds error")

func u16(b []byte) uint16 {
	_ = b[1] // Bounds check hint to compiler
	return uint16(b[0])<<8 | uint16(b[1])<<0
}

func u32(b []byte) uint32 {
	_ = b[3] // Bounds check hint to compiler
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])<<0
}

// --- Byte segments ---------------------------------------------------------

// binarySegm is a segment of byte data.
// We use it throughout this module to navigate the font's binary data.
type binarySegm []byte

func (b binarySegm) Size() int {
	return len(b)
}

func (b binarySegm) Bytes() []byte {
	return b
}

// Slice returns a sub-segment of this segment, clamped to its bounds.
func (b binarySegm) Slice(from int, to int) binarySegm {
	if from < 0 {
		from = 0
	}
	if to > len(b) {
		to = len(b)
	}
	if from > to {
		return binarySegm{}
	}
	return b[from:to]
}

// U16 returns the uint16 at byte index i, or 0 if i is out of bounds.
func (b binarySegm) U16(i int) uint16 {
	n, err := b.u16(i)
	if err != nil {
		return 0
	}
	return n
}

// U32 returns the uint32 at byte index i, or 0 if i is out of bounds.
func (b binarySegm) U32(i int) uint32 {
	n, err := b.u32(i)
	if err != nil {
		return 0
	}
	return n
}

// view returns n bytes at the given offset.
// The byte segment returned is a sub-slice of b.
func (b binarySegm) view(offset, n int) (binarySegm, error) {
	if offset < 0 || n <= 0 || offset+n > len(b) {
		return nil, errBufferBounds
	}
	return b[offset : offset+n], nil
}

// u16 returns the uint16 in b at the relative offset i.
func (b binarySegm) u16(i int) (uint16, error) {
	buf, err := b.view(i, 2)
	if err != nil {
		return 0, err
	}
	return u16(buf), nil
}

// u32 returns the uint32 in b at the relative offset i.
func (b binarySegm) u32(i int) (uint32, error) {
	buf, err := b.view(i, 4)
	if err != nil {
		return 0, err
	}
	return u32(buf), nil
}

// i16 returns the int16 in b at the relative offset i.
func (b binarySegm) i16(i int) (int16, error) {
	n, err := b.u16(i)
	return int16(n), err
}

// --- Arrays ----------------------------------------------------------------

// array is a list of fixed size records.
type array struct {
	recordSize int
	length     int
	loc        binarySegm
}

func viewArray(b binarySegm, recordSize int) array {
	return array{
		recordSize: recordSize,
		length:     len(b) / recordSize,
		loc:        b,
	}
}

func viewArray16(b binarySegm) array {
	return viewArray(b, 2)
}

// Size of array a in bytes.
func (a array) Size() int {
	return a.length * a.recordSize
}

// Len returns the number of entries in the list.
func (a array) Len() int {
	return a.length
}

// Get returns item #i as a byte segment. Out of range indices yield an
// empty segment.
func (a array) Get(i int) binarySegm {
	if i < 0 || i >= a.length {
		return binarySegm{}
	}
	b, _ := a.loc.view(i*a.recordSize, a.recordSize)
	return b
}

// --- Writing bytes ---------------------------------------------------------

// appender is a growing byte buffer for writing big-endian font data.
type appender []byte

func (w *appender) u16(n uint16) {
	*w = binary.BigEndian.AppendUint16(*w, n)
}

func (w *appender) i16(n int16) {
	w.u16(uint16(n))
}

func (w *appender) u32(n uint32) {
	*w = binary.BigEndian.AppendUint32(*w, n)
}

func (w *appender) bytes(b []byte) {
	*w = append(*w, b...)
}

// pad appends zero bytes until the length is a multiple of n.
func (w *appender) pad(n int) {
	for len(*w)%n != 0 {
		*w = append(*w, 0)
	}
}

// putU16 overwrites 2 bytes at offset i.
func putU16(b []byte, i int, n uint16) {
	binary.BigEndian.PutUint16(b[i:], n)
}

// putU32 overwrites 4 bytes at offset i.
func putU32(b []byte, i int, n uint32) {
	binary.BigEndian.PutUint32(b[i:], n)
}
