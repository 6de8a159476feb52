package bio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seradyn/gavel/testutil"
)

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	g := NewGuardWriter(&buf)
	WriteByte(g, 0xab)
	WriteBool(g, true)
	WriteUint16LE(g, 0x0102)
	WriteUint32LE(g, 0x03040506)
	WriteUint64LE(g, 0x0708090a0b0c0d0e)
	WriteLenBytes(g, []byte("gavel"))
	require.NoError(t, g.Err)
	testutil.RequireEqualHexBytes(
		t,
		"ab010201060504030e0d0c0b0a09080705000000676176656c",
		buf.Bytes(),
	)

	r := NewGuardReader(&buf)
	b, _ := ReadByte(r)
	require.Equal(t, byte(0xab), b)
	v, _ := ReadBool(r)
	require.True(t, v)
	u16, _ := ReadUint16LE(r)
	require.Equal(t, uint16(0x0102), u16)
	u32, _ := ReadUint32LE(r)
	require.Equal(t, uint32(0x03040506), u32)
	u64, _ := ReadUint64LE(r)
	require.Equal(t, uint64(0x0708090a0b0c0d0e), u64)
	s, _ := ReadLenBytes(r, 32)
	require.Equal(t, []byte("gavel"), s)
	require.NoError(t, r.Err)
}

func TestReadBool_RejectsNonCanonicalBytes(t *testing.T) {
	_, err := ReadBool(bytes.NewReader([]byte{0x02}))
	require.Error(t, err)
}

func TestReadLenBytes_EnforcesMax(t *testing.T) {
	var buf bytes.Buffer
	WriteLenBytes(&buf, make([]byte, 64))
	_, err := ReadLenBytes(&buf, 32)
	require.Error(t, err)
}

func TestGuardReader_StopsAfterError(t *testing.T) {
	r := NewGuardReader(bytes.NewReader([]byte{0x01}))
	_, err := ReadUint32LE(r)
	require.Error(t, err)
	require.Error(t, r.Err)
	_, err = ReadByte(r)
	require.Error(t, err)
}
