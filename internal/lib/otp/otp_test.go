package otp

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := Generate()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestGenerate_NotConstant(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := Generate()
		require.NoError(t, err)
		seen[code] = true
	}
	// 50 подряд одинаковых кодов означали бы сломанный генератор
	assert.Greater(t, len(seen), 1)
}
