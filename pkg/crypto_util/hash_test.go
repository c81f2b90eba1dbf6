package crypto_util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateSHA256(t *testing.T) {
	// Known vector: SHA256 of the empty input
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		CalculateSHA256(nil))
}

func TestCalculateKeccak256(t *testing.T) {
	// Known vector: Keccak256 of the empty input (Ethereum hash)
	assert.Equal(t,
		"c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		CalculateKeccak256(nil))
}

func TestCalculateBlake3(t *testing.T) {
	a := CalculateBlake3([]byte("tx1"))
	b := CalculateBlake3([]byte("tx1"))
	c := CalculateBlake3([]byte("tx2"))

	assert.Len(t, a, 64)
	assert.Equal(t, a, b, "digest must be deterministic")
	assert.NotEqual(t, a, c)
}
