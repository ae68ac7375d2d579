package script

import (
	"testing"

	"github.com/arthur-debert/conman/pkg/errors"
	"github.com/arthur-debert/conman/pkg/filesystem"
	"github.com/arthur-debert/conman/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTruncates(t *testing.T) {
	fs := filesystem.NewMemory()
	require.NoError(t, fs.WriteFile("/tmp/actions", []byte("stale()\n"), 0644))

	s, err := New(fs, "/tmp/actions")
	require.NoError(t, err)

	actions, err := s.Actions()
	require.NoError(t, err)
	assert.Empty(t, actions)
}

func TestAppendAndActions(t *testing.T) {
	fs := filesystem.NewMemory()
	s, err := New(fs, "/tmp/actions")
	require.NoError(t, err)

	require.NoError(t, s.Append(types.ConfigFileVerb, []string{"main", "app config", "/etc/a.conf", "/cfg/a.cm"}))
	require.NoError(t, s.Append("ensure_dir", []string{"/etc/app.d"}))
	require.NoError(t, s.Append(types.ConfigFileVerb, []string{"extra", "app extras", "/etc/b.conf", "/cfg/a.cm"}))

	actions, err := s.Actions()
	require.NoError(t, err)
	require.Len(t, actions, 3)

	first, ok := actions[0].(types.ConfigFileAction)
	require.True(t, ok)
	assert.Equal(t, "main", first.OutputID)
	assert.Equal(t, "app config", first.DisplayName)
	assert.Equal(t, "/etc/a.conf", first.Destination)
	assert.Equal(t, "/cfg/a.cm", first.TemplatePath)

	second, ok := actions[1].(types.PluginAction)
	require.True(t, ok)
	assert.Equal(t, "ensure_dir", second.Handler)
	assert.Equal(t, []string{"/etc/app.d"}, second.Arguments)

	third, ok := actions[2].(types.ConfigFileAction)
	require.True(t, ok)
	assert.Equal(t, "/etc/b.conf", third.Destination)
}

func TestActionsPreserveOrder(t *testing.T) {
	fs := filesystem.NewMemory()
	s, err := New(fs, "/tmp/actions")
	require.NoError(t, err)

	names := []string{"alpha", "beta", "gamma", "delta"}
	for _, n := range names {
		require.NoError(t, s.Append("probe", []string{n}))
	}

	actions, err := s.Actions()
	require.NoError(t, err)
	require.Len(t, actions, len(names))
	for i, a := range actions {
		assert.Equal(t, names[i], a.Args()[0])
	}
}

func TestParseRejectsShortConfigFile(t *testing.T) {
	_, err := Parse(`config_file("main", "name", "/etc/a.conf")` + "\n")
	assert.True(t, errors.IsErrorCode(err, errors.ErrScriptParse))
}

func TestParseSkipsBlankLines(t *testing.T) {
	actions, err := Parse("\n\nprobe(\"x\")\n\n")
	require.NoError(t, err)
	assert.Len(t, actions, 1)
}

func TestOpenMissingFileYieldsNoActions(t *testing.T) {
	fs := filesystem.NewMemory()
	s := Open(fs, "/tmp/never-created")

	actions, err := s.Actions()
	require.NoError(t, err)
	assert.Empty(t, actions)
}
