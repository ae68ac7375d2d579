package executor

import (
	"bytes"
	"context"
	"testing"

	"github.com/arthur-debert/conman/pkg/errors"
	"github.com/arthur-debert/conman/pkg/filesystem"
	"github.com/arthur-debert/conman/pkg/installer"
	"github.com/arthur-debert/conman/pkg/paths"
	"github.com/arthur-debert/conman/pkg/plugins"
	"github.com/arthur-debert/conman/pkg/plugins/builtin"
	"github.com/arthur-debert/conman/pkg/testutil"
	"github.com/arthur-debert/conman/pkg/types"
	"github.com/arthur-debert/conman/pkg/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStrategy struct {
	verbs []string
	fail  string
}

func (r *recordingStrategy) ConfigFile(ctx context.Context, a types.ConfigFileAction) error {
	r.verbs = append(r.verbs, a.Verb())
	if r.fail == a.Verb() {
		return errors.New(errors.ErrInternal, "boom")
	}
	return nil
}

func (r *recordingStrategy) Plugin(ctx context.Context, a types.PluginAction) error {
	r.verbs = append(r.verbs, a.Verb())
	if r.fail == a.Verb() {
		return errors.New(errors.ErrInternal, "boom")
	}
	return nil
}

func TestExecuteOrder(t *testing.T) {
	actions := []types.Action{
		types.ConfigFileAction{OutputID: "main", Destination: "/etc/a.conf", TemplatePath: "/cfg/a.cm"},
		types.PluginAction{Handler: "ensure_dir", Arguments: []string{"/etc/app.d"}},
		types.ConfigFileAction{OutputID: "main", Destination: "/etc/b.conf", TemplatePath: "/cfg/b.cm"},
	}

	s := &recordingStrategy{}
	require.NoError(t, Execute(context.Background(), actions, s))

	assert.Equal(t, []string{"config_file", "ensure_dir", "config_file"}, s.verbs)
}

func TestExecuteStopsOnError(t *testing.T) {
	actions := []types.Action{
		types.PluginAction{Handler: "first"},
		types.PluginAction{Handler: "explode"},
		types.PluginAction{Handler: "never"},
	}

	s := &recordingStrategy{fail: "explode"}
	err := Execute(context.Background(), actions, s)

	require.Error(t, err)
	assert.Equal(t, []string{"first", "explode"}, s.verbs)
}

func newInstallStrategy(t *testing.T) (*InstallStrategy, *testutil.FakeEngine, types.FS, paths.Paths, *ui.StaticConfirmer) {
	t.Helper()

	fs := filesystem.NewMemory()
	p, err := paths.New(t.TempDir(), "/backups")
	require.NoError(t, err)

	eng := testutil.NewFakeEngine()
	confirmer := &ui.StaticConfirmer{}
	ins := installer.New(installer.Options{
		FS:        fs,
		Paths:     p,
		Confirmer: confirmer,
		Out:       &bytes.Buffer{},
	})

	set, err := plugins.NewSet(builtin.New())
	require.NoError(t, err)

	return &InstallStrategy{
		Engine:       eng,
		FS:           fs,
		Installer:    ins,
		Plugins:      set,
		ScratchDir:   "/scratch",
		ScriptPath:   "/scratch/actions",
		SearchPath:   "/cfg",
		PreludeFiles: []string{"/scratch/prelude.m4"},
	}, eng, fs, p, confirmer
}

func TestInstallStrategyConfigFile(t *testing.T) {
	s, eng, fs, p, _ := newInstallStrategy(t)
	eng.Outputs[testutil.OutputKey("/cfg/a.cm", "main")] = "X=1\n"

	action := types.ConfigFileAction{
		OutputID:     "main",
		DisplayName:  "app config",
		Destination:  "/etc/a.conf",
		TemplatePath: "/cfg/a.cm",
	}
	require.NoError(t, s.ConfigFile(context.Background(), action))

	data, err := fs.ReadFile("/etc/a.conf")
	require.NoError(t, err)
	assert.Equal(t, "X=1\n", string(data))

	backup, err := fs.ReadFile(p.BackupPath("/etc/a.conf"))
	require.NoError(t, err)
	assert.Equal(t, "X=1\n", string(backup))

	assert.Equal(t, 1, s.Installed)
	assert.Equal(t, 0, s.Declined)

	// Generation re-expanded the template with the requested output id.
	require.NotEmpty(t, eng.Calls)
	last := eng.Calls[len(eng.Calls)-1]
	assert.Equal(t, "main", last.OutputID)
	assert.Equal(t, "/cfg/a.cm", last.TemplatePath)
}

func TestInstallStrategyDeclineIsNotAnError(t *testing.T) {
	s, eng, fs, _, confirmer := newInstallStrategy(t)
	eng.Outputs[testutil.OutputKey("/cfg/a.cm", "main")] = "X=1\n"

	// Destination exists and is unmanaged, so installing prompts.
	require.NoError(t, fs.WriteFile("/etc/a.conf", []byte("manual\n"), 0644))
	confirmer.Answer = false

	action := types.ConfigFileAction{
		OutputID:     "main",
		DisplayName:  "app config",
		Destination:  "/etc/a.conf",
		TemplatePath: "/cfg/a.cm",
	}
	require.NoError(t, s.ConfigFile(context.Background(), action))

	assert.Equal(t, 0, s.Installed)
	assert.Equal(t, 1, s.Declined)

	data, err := fs.ReadFile("/etc/a.conf")
	require.NoError(t, err)
	assert.Equal(t, "manual\n", string(data))
}

func TestInstallStrategyExpansionFailure(t *testing.T) {
	s, eng, _, _, _ := newInstallStrategy(t)
	eng.FailOn["/cfg/a.cm"] = true

	action := types.ConfigFileAction{
		OutputID:     "main",
		Destination:  "/etc/a.conf",
		TemplatePath: "/cfg/a.cm",
	}
	err := s.ConfigFile(context.Background(), action)
	assert.True(t, errors.IsErrorCode(err, errors.ErrExpansionFailed))
}

func TestInstallStrategyPluginDispatch(t *testing.T) {
	s, _, fs, _, _ := newInstallStrategy(t)

	action := types.PluginAction{Handler: "ensure_dir", Arguments: []string{"/etc/app.d"}}
	require.NoError(t, s.Plugin(context.Background(), action))

	info, err := fs.Stat("/etc/app.d")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestInstallStrategyUnknownPluginVerb(t *testing.T) {
	s, _, _, _, _ := newInstallStrategy(t)

	action := types.PluginAction{Handler: "ghost"}
	err := s.Plugin(context.Background(), action)
	assert.True(t, errors.IsErrorCode(err, errors.ErrVerbUnknown))
}
