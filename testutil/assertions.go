package testutil

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func RequireEqualHexBytes(t *testing.T, exp string, act []byte) {
	require.Equal(t, exp, hex.EncodeToString(act))
}
