package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/arthur-debert/conman/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	text, err := Diff("backup", "destination", "X=1\nY=2\n", "X=2\nY=2\n")
	require.NoError(t, err)

	assert.Contains(t, text, "--- backup")
	assert.Contains(t, text, "+++ destination")
	assert.Contains(t, text, "-X=1")
	assert.Contains(t, text, "+X=2")
}

func TestDiffIdenticalContent(t *testing.T) {
	text, err := Diff("a", "b", "same\n", "same\n")
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(text))
}

func TestWriteDiff(t *testing.T) {
	var buf bytes.Buffer
	err := WriteDiff(&buf, "conflict in /etc/a.conf", "backup", "current", "X=1\n", "X=2\n")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "conflict in /etc/a.conf")
	assert.Contains(t, out, "X=1")
	assert.Contains(t, out, "X=2")
}

func TestStaticConfirmer(t *testing.T) {
	c := &StaticConfirmer{Answer: true}

	ok, err := c.Confirm("overwrite /etc/a.conf?")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"overwrite /etc/a.conf?"}, c.Prompts)
}

func TestWriteManagedFiles(t *testing.T) {
	var buf bytes.Buffer
	WriteManagedFiles(&buf, []types.ManagedFile{
		{Destination: "/etc/a.conf", State: types.StateOK},
		{Destination: "/etc/b.conf", State: types.StateModified},
	})

	out := buf.String()
	assert.Contains(t, out, "/etc/a.conf")
	assert.Contains(t, out, "/etc/b.conf")
	assert.Contains(t, out, "modified")
}

func TestWriteManagedFilesEmpty(t *testing.T) {
	var buf bytes.Buffer
	WriteManagedFiles(&buf, nil)
	assert.Contains(t, buf.String(), "no managed files")
}
