package safe_random

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomBytes(t *testing.T) {
	b, err := GenerateRandomBytes(32)
	require.NoError(t, err)
	assert.Len(t, b, 32)

	b2, err := GenerateRandomBytes(32)
	require.NoError(t, err)
	assert.NotEqual(t, b, b2, "two draws should differ")
}

func TestGenerateRandomHexString(t *testing.T) {
	s, err := GenerateRandomHexString(8)
	require.NoError(t, err)
	assert.Len(t, s, 16, "hex doubles the byte length")
}

func TestGenerateRandomInt(t *testing.T) {
	max := big.NewInt(100)
	for i := 0; i < 10; i++ {
		n, err := GenerateRandomInt(max)
		require.NoError(t, err)
		assert.True(t, n.Sign() >= 0 && n.Cmp(max) < 0)
	}

	_, err := GenerateRandomInt(big.NewInt(0))
	assert.Error(t, err)
}
