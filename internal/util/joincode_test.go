package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateJoinCode_Shape(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateJoinCode(6)
		require.NoError(t, err)
		assert.True(t, IsJoinCode(code, 6), "unexpected code %q", code)
	}
}

func TestGenerateJoinCode_Varies(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateJoinCode(6)
		require.NoError(t, err)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestIsJoinCode(t *testing.T) {
	tests := []struct {
		code     string
		expected bool
	}{
		{"abc123", true},
		{"ABC123", false},
		{"abc12", false},
		{"abc1234", false},
		{"abc-12", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsJoinCode(tt.code, 6))
		})
	}
}

func TestMatchJoinCode(t *testing.T) {
	assert.True(t, MatchJoinCode("abc123", "abc123"))
	assert.True(t, MatchJoinCode("abc123", "ABC123"))
	assert.True(t, MatchJoinCode("abc123", " AbC123 "))
	assert.False(t, MatchJoinCode("abc123", "abc124"))
	assert.False(t, MatchJoinCode("abc123", "abc12"))
	assert.False(t, MatchJoinCode("abc123", "abc 123"))
}
