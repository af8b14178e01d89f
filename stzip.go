// Package stzip reads and writes ZIP archives whose members are stored
// without compression.
//
// The package operates entirely on in-memory buffers: a Writer accumulates
// members and produces the finished archive as a single byte slice, and a
// Reader is opened from a byte slice and hands out member contents on
// demand. The filesystem is reached only through the fs.FS given to
// [Writer.AddFS] and the DirWriter given to [Reader.ExtractAll], so callers
// decide where bytes come from and where they go, including whether either
// side honors a context.
package stzip

import (
	"io/fs"
	"os"
	"path/filepath"
)

// DirWriter is the destination of an extraction.
//
// Names are slash-separated paths relative to the destination root, already
// validated by the caller. WriteFile must create missing parent directories;
// extraction does not guarantee that a directory member precedes the files
// beneath it.
type DirWriter interface {
	CreateDir(name string, perm fs.FileMode) error
	WriteFile(name string, data []byte, perm fs.FileMode) error
}

// OSDirWriter is a DirWriter that writes below the directory Root on the
// local filesystem.
type OSDirWriter struct {
	Root string
}

var _ DirWriter = OSDirWriter{}

// CreateDir creates the directory name under Root along with any missing
// parents.
func (w OSDirWriter) CreateDir(name string, perm fs.FileMode) error {
	return os.MkdirAll(filepath.Join(w.Root, filepath.FromSlash(name)), perm)
}

// WriteFile writes data to the file name under Root, creating missing
// parent directories with permission 0755.
func (w OSDirWriter) WriteFile(name string, data []byte, perm fs.FileMode) error {
	path := filepath.Join(w.Root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, perm)
}
