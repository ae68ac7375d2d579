package types

import (
	"io/fs"
)

// FS is the filesystem interface required for conman operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error
}

// Confirmer asks the human whether a destructive operation may proceed.
// Implementations block until an answer is available; anything other than an
// explicit affirmative is a decline.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}
