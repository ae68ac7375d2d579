package conman

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestVersionCommand(t *testing.T) {
	out := execute(t, "version")
	assert.Contains(t, out, "conman version")
}

func TestGenConfigCommand(t *testing.T) {
	out := execute(t, "gen-config")
	assert.Contains(t, out, "[engine]")
	assert.Contains(t, out, "binary")
}

func TestHelpListsEmbeddedTopics(t *testing.T) {
	out := execute(t, "help", "topics")
	assert.Contains(t, out, "templates")
	assert.Contains(t, out, "conflicts")
	assert.Contains(t, out, "plugins")
}

func TestCommandsAreRegistered(t *testing.T) {
	root := NewRootCmd()
	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"apply", "edit", "status", "gen-config", "version", "completion"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}
