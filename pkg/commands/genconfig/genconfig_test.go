package genconfig_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/conman/pkg/commands/genconfig"
)

func TestGenConfigDefaults(t *testing.T) {
	var out bytes.Buffer
	result, err := genconfig.GenConfig(genconfig.Options{Out: &out})
	require.NoError(t, err)

	assert.Equal(t, result.Content, out.String())
	assert.Contains(t, out.String(), "[engine]")
	assert.Contains(t, out.String(), "binary")
	assert.Empty(t, result.Path)
}

func TestGenConfigResolved(t *testing.T) {
	t.Setenv("CONMAN_ENGINE_BINARY", "gm4")

	var out bytes.Buffer
	_, err := genconfig.GenConfig(genconfig.Options{
		Root:     t.TempDir(),
		Resolved: true,
		Out:      &out,
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "gm4")
}
