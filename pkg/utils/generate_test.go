package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTPLength(t *testing.T) {
	for _, length := range []int{4, 6, 8} {
		code, err := GenerateOTP(length)
		require.NoError(t, err)
		assert.Len(t, code, length)
		for _, c := range code {
			assert.True(t, c >= '0' && c <= '9', "code must be numeric: %q", code)
		}
	}
}

func TestGenerateOTPKeepsLeadingZeros(t *testing.T) {
	// With 6 digits roughly 1 in 10 codes starts with zero; enough samples
	// make a padding bug certain to surface.
	seen := false
	for i := 0; i < 200; i++ {
		code, err := GenerateOTP(6)
		require.NoError(t, err)
		require.Len(t, code, 6)
		if code[0] == '0' {
			seen = true
			break
		}
	}
	assert.True(t, seen, "expected at least one code with a leading zero")
}

func TestGenerateOTPVaries(t *testing.T) {
	a, err := GenerateOTP(6)
	require.NoError(t, err)
	distinct := false
	for i := 0; i < 10; i++ {
		b, err := GenerateOTP(6)
		require.NoError(t, err)
		if a != b {
			distinct = true
			break
		}
	}
	assert.True(t, distinct)
}
