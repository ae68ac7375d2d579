package engine

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/conman/pkg/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestM4Argv(t *testing.T) {
	t.Run("full ordering", func(t *testing.T) {
		m := NewM4("gm4", []string{"--synclines"})
		argv := m.argv(Request{
			TemplatePath: "/cfg/profile.cm",
			ScriptPath:   "/scratch/actions.sh",
			OutputID:     "login",
			SearchPath:   "/cfg",
			PreludeFiles: []string{"/scratch/prelude.m4", "/scratch/plugins.m4"},
			ExtraArgs:    []string{"-DX=1"},
		})

		assert.Equal(t, []string{
			"--synclines", "-DX=1",
			"-I", "/cfg",
			"-D", "CONMAN_SOURCE=/cfg/profile.cm",
			"-D", "CONMAN_SCRIPT=/scratch/actions.sh",
			"-D", "CONMAN_OUTPUT=login",
			"/scratch/prelude.m4", "/scratch/plugins.m4",
			"/cfg/profile.cm",
		}, argv)
	})

	t.Run("no search path means no -I", func(t *testing.T) {
		m := NewM4("", nil)
		argv := m.argv(Request{TemplatePath: "/cfg/t.cm"})

		assert.NotContains(t, argv, "-I")
		assert.Equal(t, "/cfg/t.cm", argv[len(argv)-1])
	})
}

// expandFixture writes the base prelude, an extra prelude defining a
// note test verb, and a template into a temp dir, then runs a real
// expansion against them.
func expandFixture(t *testing.T, template, outputID string) Result {
	t.Helper()

	if _, err := exec.LookPath("m4"); err != nil {
		t.Skip("m4 binary not available")
	}

	dir := t.TempDir()
	fs := filesystem.NewOS()

	prelude, err := WriteBasePrelude(fs, dir)
	require.NoError(t, err)

	extra := filepath.Join(dir, "extra.m4")
	require.NoError(t, os.WriteFile(extra,
		[]byte("define(`note', `_cm_defer(`note', $@)')\n"), 0644))

	templatePath := filepath.Join(dir, "profile.cm")
	require.NoError(t, os.WriteFile(templatePath, []byte(template), 0644))

	m := NewM4("m4", nil)
	res, err := m.Expand(context.Background(), Request{
		TemplatePath: templatePath,
		ScriptPath:   filepath.Join(dir, "actions.sh"),
		OutputID:     outputID,
		SearchPath:   dir,
		PreludeFiles: []string{prelude, extra},
	})
	require.NoError(t, err)
	return res
}

func TestM4ExpandRecordsDeferredActions(t *testing.T) {
	template := "begin_output(`main')dnl\n" +
		"X=1\n" +
		"end_output`'dnl\n" +
		"config_file(`main', `a \"name\" with, commas (and parens) and 50%', `/tmp/a.conf')dnl\n" +
		"note(`first\nsecond', `', `tail')dnl\n" +
		"note()dnl\n"

	planning := expandFixture(t, template, "")
	assert.Empty(t, planning.Text)
	require.Len(t, planning.Deferred, 3)

	assert.Equal(t, "config_file", planning.Deferred[0].Verb)
	require.Len(t, planning.Deferred[0].Args, 4)
	assert.Equal(t, "main", planning.Deferred[0].Args[0])
	assert.Equal(t, `a "name" with, commas (and parens) and 50%`, planning.Deferred[0].Args[1])
	assert.Equal(t, "/tmp/a.conf", planning.Deferred[0].Args[2])
	assert.True(t, filepath.IsAbs(planning.Deferred[0].Args[3]),
		"fourth field should be the bound template path")

	assert.Equal(t, Deferred{
		Verb: "note",
		Args: []string{"first\nsecond", "", "tail"},
	}, planning.Deferred[1])
}

func TestM4ExpandEmitsRequestedBlock(t *testing.T) {
	template := "begin_output(`main')dnl\n" +
		"X=1\n" +
		"end_output`'dnl\n" +
		"begin_output(`other')dnl\n" +
		"Y=2\n" +
		"end_output`'dnl\n" +
		"config_file(`main', `main conf', `/tmp/a.conf')dnl\n"

	res := expandFixture(t, template, "main")
	assert.Equal(t, "X=1\n", res.Text)
	require.Len(t, res.Deferred, 1)
	assert.Equal(t, "config_file", res.Deferred[0].Verb)
}

func TestM4ExpandZeroArgumentVerb(t *testing.T) {
	res := expandFixture(t, "note()dnl\n", "")

	require.Len(t, res.Deferred, 1)
	assert.Equal(t, "note", res.Deferred[0].Verb)
	assert.Empty(t, res.Deferred[0].Args,
		"an argument-less invocation must not record a phantom empty field")
}
