package internal

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// OpenExclFile creates a new file named stem+ext with the condition that
// the file did not exist prior to this call. On collision the name is
// bumped to stem-1+ext, stem-2+ext, and so on until creation succeeds, so
// an existing file is never truncated.
//
// The file is opened with flag os.O_RDWR|os.O_CREATE|os.O_EXCL and
// permission 0666. Caller is responsible for closing the file upon a
// successful return. See MkExclDir for a directory equivalent.
func OpenExclFile(stem, ext string) (file *os.File, err error) {
	name := stem + ext
	for i := 0; ; {
		switch file, err = os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0666); {
		case err == nil:
			return
		case errors.Is(err, os.ErrExist):
			i++
			name = stem + "-" + strconv.Itoa(i) + ext
		default:
			return nil, fmt.Errorf("create file error: %w", err)
		}
	}
}

// MkExclDir creates a new directory that did not exist prior to this
// invocation. Stem is the desired name; the directory actually created
// may carry a numeric suffix such as stem-1, stem-2, etc. The return
// value is the name actually created.
//
// The directory is created with perm 0755.
func MkExclDir(stem string) (name string, err error) {
	name = stem
	for i := 0; ; {
		switch err = os.Mkdir(name, 0755); {
		case err == nil:
			return
		case errors.Is(err, os.ErrExist):
			i++
			name = stem + "-" + strconv.Itoa(i)
		default:
			return "", fmt.Errorf("create directory error: %w", err)
		}
	}
}
