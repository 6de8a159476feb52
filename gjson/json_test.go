package gjson

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUint64String(t *testing.T) {
	in := Uint64String(18446744073709551615)
	j, err := json.Marshal(in)
	require.NoError(t, err)
	require.Equal(t, `"18446744073709551615"`, string(j))

	var out Uint64String
	require.NoError(t, json.Unmarshal(j, &out))
	require.Equal(t, in, out)

	// Bare numbers are accepted too.
	require.NoError(t, json.Unmarshal([]byte("42"), &out))
	require.EqualValues(t, 42, out)

	require.Error(t, json.Unmarshal([]byte(`"abc"`), &out))
}

func TestByteString(t *testing.T) {
	in := ByteString{0xde, 0xad, 0xbe, 0xef}
	j, err := json.Marshal(in)
	require.NoError(t, err)
	require.Equal(t, `"deadbeef"`, string(j))

	var out ByteString
	require.NoError(t, json.Unmarshal(j, &out))
	require.EqualValues(t, in, out)
}
