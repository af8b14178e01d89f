package stzip

import (
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/stzip/stzip/crc"
)

// epoch1980 is the timestamp recorded for members added with AddFile and
// AddDir: the earliest MS-DOS can represent, fixed so that the same inputs
// always produce the same archive. AddFS records real modification times.
var epoch1980 = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// A Writer assembles an archive from named byte payloads. All members are
// stored without compression, in the order they were added.
//
// Finalize seals the Writer; every Add and any further Finalize afterwards
// fails with ErrSealed. A Writer must not be used from multiple goroutines.
type Writer struct {
	cur    cursor
	dir    []*FileHeader
	names  map[string]struct{}
	sealed bool
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{names: make(map[string]struct{})}
}

// AddFile adds a member with the given content and mode 0644. The name
// must be a slash-separated path relative to the archive root; backslashes
// are accepted as separators and normalized.
func (w *Writer) AddFile(name string, data []byte) error {
	return w.add(name, data, 0644, epoch1980, false)
}

// AddDir adds a directory member with mode 0755. A single trailing slash
// is appended to name if not already present.
func (w *Writer) AddDir(name string) error {
	return w.add(name, nil, fs.ModeDir|0755, epoch1980, true)
}

// AddFS adds every directory and regular file in fsys, mirroring its tree
// relative to the archive root with the modes and modification times the
// filesystem reports. Irregular files (symlinks, sockets, devices) are
// skipped.
//
// fs.WalkDir visits entries in lexicographic order, so walking the same
// snapshot twice produces byte-identical archives. Cancellation is the
// filesystem's concern: wrap fsys if the walk must be interruptible.
func (w *Writer) AddFS(fsys fs.FS) error {
	if w.sealed {
		return ErrSealed
	}

	return fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == "." {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		switch {
		case d.IsDir():
			return w.add(path, nil, info.Mode(), info.ModTime(), true)
		case !info.Mode().IsRegular():
			return nil
		default:
			data, err := fs.ReadFile(fsys, path)
			if err != nil {
				return err
			}
			return w.add(path, data, info.Mode(), info.ModTime(), false)
		}
	})
}

func (w *Writer) add(name string, data []byte, mode fs.FileMode, modified time.Time, dir bool) error {
	if w.sealed {
		return ErrSealed
	}

	name, err := normalizeName(name, dir)
	if err != nil {
		return err
	}

	// A file "sub" and a directory "sub/" cannot coexist on any
	// filesystem the archive would be extracted to, so duplicate
	// detection keys on the name without its trailing slash.
	key := strings.TrimSuffix(name, "/")
	if _, ok := w.names[key]; ok {
		return fmt.Errorf(`%w: "%s"`, ErrDuplicateEntry, name)
	}

	switch {
	case len(w.dir) >= maxUint16:
		return fmt.Errorf("%w: more than %d members", ErrTooLarge, maxUint16)
	case uint64(len(data)) > maxUint32:
		return fmt.Errorf(`%w: member "%s" exceeds 4 GiB`, ErrTooLarge, name)
	case int64(w.cur.len()) > maxUint32:
		return fmt.Errorf("%w: archive exceeds 4 GiB", ErrTooLarge)
	}

	h := &FileHeader{
		Name:             name,
		Modified:         modified,
		Flags:            flagUTF8, // normalized names are always valid UTF-8
		Method:           methodStored,
		CRC32:            crc.Checksum(data),
		CompressedSize:   uint32(len(data)),
		UncompressedSize: uint32(len(data)),
		Offset:           uint32(w.cur.len()),
	}
	h.SetMode(mode)

	marshalLocalFileHeader(&w.cur, h)
	w.cur.put(data)

	w.dir = append(w.dir, h)
	w.names[key] = struct{}{}
	return nil
}

// Finalize appends the central directory and the end of central directory
// record, seals the Writer, and returns the complete archive.
func (w *Writer) Finalize() ([]byte, error) {
	if w.sealed {
		return nil, ErrSealed
	}

	cdOffset := w.cur.len()
	if int64(cdOffset) > maxUint32 {
		return nil, fmt.Errorf("%w: central directory offset exceeds 4 GiB", ErrTooLarge)
	}

	for _, h := range w.dir {
		marshalCDFileHeader(&w.cur, h)
	}

	cdSize := w.cur.len() - cdOffset
	if int64(cdSize) > maxUint32 {
		return nil, fmt.Errorf("%w: central directory exceeds 4 GiB", ErrTooLarge)
	}

	marshalEOCDRecord(&w.cur, uint16(len(w.dir)), uint32(cdSize), uint32(cdOffset))

	w.sealed = true
	return w.cur.buf, nil
}

// normalizeName validates name as a member path: backslashes become
// slashes, the result must be a valid fs path relative to the archive
// root, and directory names carry exactly one trailing slash.
func normalizeName(name string, dir bool) (string, error) {
	name = strings.ReplaceAll(name, `\`, "/")

	trimmed := strings.TrimRight(name, "/")
	if trimmed != name && !dir {
		return "", fmt.Errorf(`%w: "%s" has a trailing slash but is not a directory`, ErrInvalidPath, name)
	}
	if trimmed == "." || !fs.ValidPath(trimmed) {
		return "", fmt.Errorf(`%w: "%s"`, ErrInvalidPath, name)
	}

	if dir {
		trimmed += "/"
	}
	if len(trimmed) > maxUint16 {
		return "", fmt.Errorf(`%w: name of "%.40s..." is longer than %d bytes`, ErrInvalidPath, name, maxUint16)
	}
	return trimmed, nil
}
