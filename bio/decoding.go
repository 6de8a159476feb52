package bio

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

type GuardReader struct {
	r   io.Reader
	N   int64
	Err error
}

func NewGuardReader(r io.Reader) *GuardReader {
	return &GuardReader{
		r: r,
	}
}

func (g *GuardReader) Read(b []byte) (int, error) {
	if g.Err != nil {
		return 0, g.Err
	}

	n, err := g.r.Read(b)
	g.N += int64(n)
	if err != nil {
		g.Err = err
	}
	return n, err
}

func ReadByte(r io.Reader) (byte, error) {
	b, err := ReadFixedBytes(r, 1)
	if err != nil {
		return 0, err
	}
	return b[0], err
}

func ReadBool(r io.Reader) (bool, error) {
	b, err := ReadByte(r)
	if err != nil {
		return false, err
	}
	switch b {
	case 0x00:
		return false, nil
	case 0x01:
		return true, nil
	default:
		return false, errors.Errorf("invalid bool byte 0x%02x", b)
	}
}

func ReadFixedBytes(r io.Reader, byteLen int) ([]byte, error) {
	b := make([]byte, byteLen)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

func ReadLenBytes(r io.Reader, maxLen uint32) ([]byte, error) {
	l, err := ReadUint32LE(r)
	if err != nil {
		return nil, err
	}
	if l > maxLen {
		return nil, errors.Errorf("length prefix %d exceeds maximum %d", l, maxLen)
	}
	return ReadFixedBytes(r, int(l))
}

func ReadUint16LE(r io.Reader) (uint16, error) {
	b, err := ReadFixedBytes(r, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func ReadUint32LE(r io.Reader) (uint32, error) {
	b, err := ReadFixedBytes(r, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func ReadUint64LE(r io.Reader) (uint64, error) {
	b, err := ReadFixedBytes(r, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}
