package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSessionID(t *testing.T) {
	// When: two ids are generated
	first, err := GenerateSessionID()
	require.NoError(t, err)
	second, err := GenerateSessionID()
	require.NoError(t, err)

	// Then: they are URL-safe and distinct
	assert.Len(t, first, 22)
	assert.NotContains(t, first, "/")
	assert.NotContains(t, first, "+")
	assert.NotEqual(t, first, second)
}
