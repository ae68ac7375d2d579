package core

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/conman/pkg/errors"
	"github.com/arthur-debert/conman/pkg/types"
)

// Discover enumerates template files under root, recursively. Files are
// templates when their name carries the configured extension; templates
// whose basename starts with includePrefix are include-only and excluded
// from top-level processing. Results are sorted so runs are deterministic.
func Discover(fs types.FS, root, extension, includePrefix string) ([]string, error) {
	var templates []string

	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := fs.ReadDir(dir)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", dir)
		}

		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			if entry.IsDir() {
				if err := walk(path); err != nil {
					return err
				}
				continue
			}
			if !strings.HasSuffix(entry.Name(), extension) {
				continue
			}
			if includePrefix != "" && strings.HasPrefix(entry.Name(), includePrefix) {
				continue
			}
			templates = append(templates, path)
		}
		return nil
	}

	if err := walk(root); err != nil {
		return nil, err
	}

	sort.Strings(templates)
	return templates, nil
}
