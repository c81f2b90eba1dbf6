package confirm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetryGuard_BelowCeiling(t *testing.T) {
	g := NewRetryGuard(3)

	assert.False(t, g.OnWrongPassword())
	assert.Equal(t, 1, g.Count())

	assert.False(t, g.OnWrongPassword())
	assert.Equal(t, 2, g.Count())
}

func TestRetryGuard_CeilingResets(t *testing.T) {
	g := NewRetryGuard(3)

	assert.False(t, g.OnWrongPassword())
	assert.False(t, g.OnWrongPassword())

	// Third consecutive failure hits the ceiling and resets inline.
	assert.True(t, g.OnWrongPassword())
	assert.Equal(t, 0, g.Count())

	// The guard is usable again immediately; no durable lockout.
	assert.False(t, g.OnWrongPassword())
	assert.Equal(t, 1, g.Count())
}

func TestRetryGuard_Reset(t *testing.T) {
	g := NewRetryGuard(3)
	g.OnWrongPassword()
	g.OnWrongPassword()

	g.Reset()
	assert.Equal(t, 0, g.Count())
}

func TestRetryGuard_DefaultCeiling(t *testing.T) {
	tests := []struct {
		name    string
		ceiling int
		want    int
	}{
		{"zero falls back", 0, DefaultRetryCeiling},
		{"negative falls back", -1, DefaultRetryCeiling},
		{"explicit kept", 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewRetryGuard(tt.ceiling).Ceiling())
		})
	}
}
