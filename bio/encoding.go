package bio

import (
	"encoding/binary"
	"fmt"
	"io"
)

type GuardWriter struct {
	w   io.Writer
	N   int64
	Err error
}

func NewGuardWriter(w io.Writer) *GuardWriter {
	return &GuardWriter{
		w: w,
	}
}

func (g *GuardWriter) Write(b []byte) (int, error) {
	if g.Err != nil {
		return 0, g.Err
	}

	n, err := g.w.Write(b)
	g.N += int64(n)
	if err != nil {
		g.Err = err
	}
	return n, err
}

func WriteByte(w io.Writer, b byte) (int, error) {
	return w.Write([]byte{b})
}

func WriteBool(w io.Writer, v bool) (int, error) {
	if v {
		return WriteByte(w, 0x01)
	}
	return WriteByte(w, 0x00)
}

func WriteRawBytes(w io.Writer, b []byte) (int, error) {
	return w.Write(b)
}

func WriteFixedBytes(w io.Writer, b []byte, bLen int) (int, error) {
	if len(b) != bLen {
		panic(fmt.Sprintf("buffer len is %d but should be %d", len(b), bLen))
	}
	return WriteRawBytes(w, b)
}

func WriteZeroBytes(w io.Writer, bLen int) (int, error) {
	return WriteRawBytes(w, make([]byte, bLen))
}

func WriteLenBytes(w io.Writer, b []byte) (int, error) {
	var total int
	n, err := WriteUint32LE(w, uint32(len(b)))
	total += n
	if err != nil {
		return total, err
	}
	n, err = WriteRawBytes(w, b)
	total += n
	return total, err
}

func WriteUint16LE(w io.Writer, n uint16) (int, error) {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, n)
	return WriteRawBytes(w, b)
}

func WriteUint32LE(w io.Writer, n uint32) (int, error) {
	return WriteRawBytes(w, Uint32LE(n))
}

func WriteUint64LE(w io.Writer, n uint64) (int, error) {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, n)
	return WriteRawBytes(w, b)
}

func Uint32LE(n uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, n)
	return b
}

func Uint64LE(n uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, n)
	return b
}
