package pkg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultQuotation(t *testing.T) {
	q, err := DefaultQuotation()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(q, "The mother dead these fourteen years"))
	assert.Len(t, strings.Split(strings.TrimSpace(q), "\n\n"), 4)
}
