package installer

import (
	"bytes"
	"testing"

	"github.com/arthur-debert/conman/pkg/filesystem"
	"github.com/arthur-debert/conman/pkg/paths"
	"github.com/arthur-debert/conman/pkg/types"
	"github.com/arthur-debert/conman/pkg/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	fs        types.FS
	paths     paths.Paths
	confirmer *ui.StaticConfirmer
	out       *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	p, err := paths.New(t.TempDir(), "/backups")
	require.NoError(t, err)

	return &fixture{
		fs:        filesystem.NewMemory(),
		paths:     p,
		confirmer: &ui.StaticConfirmer{},
		out:       &bytes.Buffer{},
	}
}

func (f *fixture) installer(force bool) *Installer {
	return New(Options{
		FS:        f.fs,
		Paths:     f.paths,
		Confirmer: f.confirmer,
		Out:       f.out,
		Force:     force,
	})
}

func (f *fixture) writeGenerated(t *testing.T, content string) string {
	t.Helper()
	require.NoError(t, f.fs.WriteFile("/scratch/generated", []byte(content), 0644))
	return "/scratch/generated"
}

func (f *fixture) read(t *testing.T, path string) string {
	t.Helper()
	data, err := f.fs.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestFirstInstall(t *testing.T) {
	f := newFixture(t)
	gen := f.writeGenerated(t, "X=1\n")

	res, err := f.installer(false).Install(gen, "/etc/a.conf")
	require.NoError(t, err)

	assert.Equal(t, types.Installed, res)
	assert.Equal(t, "X=1\n", f.read(t, "/etc/a.conf"))
	assert.Equal(t, "X=1\n", f.read(t, f.paths.BackupPath("/etc/a.conf")))
	// First install never prompts.
	assert.Empty(t, f.confirmer.Prompts)
}

func TestUnmodifiedDestinationNeverPrompts(t *testing.T) {
	f := newFixture(t)
	gen := f.writeGenerated(t, "X=1\n")

	_, err := f.installer(false).Install(gen, "/etc/a.conf")
	require.NoError(t, err)

	// Second run, new content, destination untouched since last run.
	gen = f.writeGenerated(t, "X=9\n")
	res, err := f.installer(false).Install(gen, "/etc/a.conf")
	require.NoError(t, err)

	assert.Equal(t, types.Installed, res)
	assert.Equal(t, "X=9\n", f.read(t, "/etc/a.conf"))
	assert.Equal(t, "X=9\n", f.read(t, f.paths.BackupPath("/etc/a.conf")))
	assert.Empty(t, f.confirmer.Prompts)
}

func TestIdempotentRerun(t *testing.T) {
	f := newFixture(t)
	gen := f.writeGenerated(t, "X=1\n")

	for i := 0; i < 2; i++ {
		res, err := f.installer(false).Install(gen, "/etc/a.conf")
		require.NoError(t, err, "run %d", i)
		assert.Equal(t, types.Installed, res, "run %d", i)
	}

	assert.Empty(t, f.confirmer.Prompts)
	assert.Equal(t, "X=1\n", f.read(t, "/etc/a.conf"))
	assert.Equal(t, "X=1\n", f.read(t, f.paths.BackupPath("/etc/a.conf")))
}

func TestHandEditedPromptsAndAcceptRestores(t *testing.T) {
	f := newFixture(t)
	gen := f.writeGenerated(t, "X=1\n")
	_, err := f.installer(false).Install(gen, "/etc/a.conf")
	require.NoError(t, err)

	// Human edits the destination out-of-band.
	require.NoError(t, f.fs.WriteFile("/etc/a.conf", []byte("X=2\n"), 0644))

	f.confirmer.Answer = true
	res, err := f.installer(false).Install(gen, "/etc/a.conf")
	require.NoError(t, err)

	assert.Equal(t, types.Installed, res)
	assert.Len(t, f.confirmer.Prompts, 1)
	assert.Contains(t, f.out.String(), "-X=1")
	assert.Contains(t, f.out.String(), "+X=2")
	assert.Equal(t, "X=1\n", f.read(t, "/etc/a.conf"))
	assert.Equal(t, "X=1\n", f.read(t, f.paths.BackupPath("/etc/a.conf")))
}

func TestHandEditedDeclineLeavesEverything(t *testing.T) {
	f := newFixture(t)
	gen := f.writeGenerated(t, "X=1\n")
	_, err := f.installer(false).Install(gen, "/etc/a.conf")
	require.NoError(t, err)

	require.NoError(t, f.fs.WriteFile("/etc/a.conf", []byte("X=2\n"), 0644))

	f.confirmer.Answer = false
	res, err := f.installer(false).Install(gen, "/etc/a.conf")
	require.NoError(t, err)

	assert.Equal(t, types.Declined, res)
	assert.Equal(t, "X=2\n", f.read(t, "/etc/a.conf"))
	// The backup still records what conman last wrote.
	assert.Equal(t, "X=1\n", f.read(t, f.paths.BackupPath("/etc/a.conf")))
}

func TestUnmanagedDestinationPrompts(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.fs.WriteFile("/etc/a.conf", []byte("manual content\n"), 0644))
	gen := f.writeGenerated(t, "X=1\n")

	f.confirmer.Answer = false
	res, err := f.installer(false).Install(gen, "/etc/a.conf")
	require.NoError(t, err)

	assert.Equal(t, types.Declined, res)
	assert.Len(t, f.confirmer.Prompts, 1)
	assert.Contains(t, f.out.String(), "not created by conman")
	assert.Equal(t, "manual content\n", f.read(t, "/etc/a.conf"))

	f.confirmer.Answer = true
	res, err = f.installer(false).Install(gen, "/etc/a.conf")
	require.NoError(t, err)
	assert.Equal(t, types.Installed, res)
	assert.Equal(t, "X=1\n", f.read(t, "/etc/a.conf"))
}

func TestForceSkipsAllChecks(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.fs.WriteFile("/etc/a.conf", []byte("hand edited\n"), 0644))
	gen := f.writeGenerated(t, "X=1\n")

	res, err := f.installer(true).Install(gen, "/etc/a.conf")
	require.NoError(t, err)

	assert.Equal(t, types.Installed, res)
	assert.Empty(t, f.confirmer.Prompts)
	assert.Equal(t, "X=1\n", f.read(t, "/etc/a.conf"))
}

func TestTildeDestination(t *testing.T) {
	t.Setenv("HOME", "/home/user")
	f := newFixture(t)
	gen := f.writeGenerated(t, "X=1\n")

	res, err := f.installer(false).Install(gen, "~/.profile")
	require.NoError(t, err)
	assert.Equal(t, types.Installed, res)

	// The file lands in the home directory, never at a literal "~" path,
	// and the backup mirrors the same expanded path.
	assert.Equal(t, "X=1\n", f.read(t, "/home/user/.profile"))
	assert.Equal(t, "/backups/home/user/.profile", f.paths.BackupPath("~/.profile"))
	assert.Equal(t, "X=1\n", f.read(t, "/backups/home/user/.profile"))
	_, err = f.fs.Stat("~/.profile")
	assert.Error(t, err)

	// A rerun addressed by the expanded path sees the same record.
	res, err = f.installer(false).Install(gen, "/home/user/.profile")
	require.NoError(t, err)
	assert.Equal(t, types.Installed, res)
	assert.Empty(t, f.confirmer.Prompts)
}

func TestMissingGeneratedFile(t *testing.T) {
	f := newFixture(t)

	_, err := f.installer(false).Install("/scratch/never-written", "/etc/a.conf")
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	f := newFixture(t)
	bak := f.paths.BackupPath("/etc/a.conf")

	t.Run("ok", func(t *testing.T) {
		require.NoError(t, f.fs.WriteFile("/etc/a.conf", []byte("X=1\n"), 0644))
		require.NoError(t, f.fs.WriteFile(bak, []byte("X=1\n"), 0644))
		assert.Equal(t, types.StateOK, Classify(f.fs, "/etc/a.conf", bak))
	})

	t.Run("modified", func(t *testing.T) {
		require.NoError(t, f.fs.WriteFile("/etc/a.conf", []byte("X=2\n"), 0644))
		assert.Equal(t, types.StateModified, Classify(f.fs, "/etc/a.conf", bak))
	})

	t.Run("missing destination", func(t *testing.T) {
		require.NoError(t, f.fs.Remove("/etc/a.conf"))
		assert.Equal(t, types.StateMissing, Classify(f.fs, "/etc/a.conf", bak))
	})
}
