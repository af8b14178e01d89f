package stzip

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/stzip/stzip/crc"
)

// maxEOCDScan bounds the backward search for the end of central directory
// record: the fixed record plus the largest comment the format allows.
const maxEOCDScan = endOfCentralDirLen + maxUint16

var eocdSigBytes = []byte{'P', 'K', 0x05, 0x06}

// A Reader provides access to the members of an archive held in memory.
//
// OpenReader decodes and validates the whole central directory up front;
// member content is materialized lazily by ReadEntry and ExtractAll.
type Reader struct {
	// Comment is the archive comment from the end of central directory
	// record.
	Comment string

	buf     []byte
	entries []FileHeader
	byName  map[string]int
}

// OpenReader parses the archive in b. Opening is all-or-nothing: any
// structural error returns before a Reader exposing partial content exists.
//
// b is retained by the Reader and must not be modified while the Reader is
// in use.
func OpenReader(b []byte) (*Reader, error) {
	pos, err := findEOCD(b)
	if err != nil {
		return nil, err
	}

	c := newCursor(b)
	c.seek(pos)
	rec, err := unmarshalEOCDRecord(c)
	if err != nil {
		return nil, err
	}

	if rec.diskNumber != 0 || rec.cdDisk != 0 || rec.cdCountDisk != rec.cdCount {
		return nil, fmt.Errorf("%w: spans multiple disks", ErrMalformedArchive)
	}
	if int64(rec.cdOffset)+int64(rec.cdSize) > int64(pos) {
		return nil, fmt.Errorf("%w: central directory overruns its end record", ErrMalformedArchive)
	}

	r := &Reader{
		Comment: rec.comment,
		buf:     b,
		byName:  make(map[string]int, rec.cdCount),
	}

	cd := newCursor(b[rec.cdOffset : int64(rec.cdOffset)+int64(rec.cdSize)])
	for i := 0; i < int(rec.cdCount); i++ {
		h, err := unmarshalCDFileHeader(cd)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d of %d: %v", ErrMalformedArchive, i, rec.cdCount, err)
		}

		r.entries = append(r.entries, h)
		if _, ok := r.byName[h.Name]; !ok {
			r.byName[h.Name] = i
		}
	}

	if cd.off != int(rec.cdSize) {
		return nil, fmt.Errorf("%w: central directory holds %d bytes past its %d records", ErrMalformedArchive, int(rec.cdSize)-cd.off, rec.cdCount)
	}

	return r, nil
}

// findEOCD locates the end of central directory record by scanning
// backward from the end of the buffer for its signature.
func findEOCD(b []byte) (int, error) {
	window := b
	base := 0
	if len(b) > maxEOCDScan {
		base = len(b) - maxEOCDScan
		window = b[base:]
	}

	for end := len(window); ; {
		i := bytes.LastIndex(window[:end], eocdSigBytes)
		if i < 0 {
			return 0, ErrNotAnArchive
		}

		// The fixed record must fit between the signature and the end of
		// the buffer; a signature closer to the end is a stray byte
		// pattern, not a record.
		if len(window)-i >= endOfCentralDirLen {
			return base + i, nil
		}

		end = min(i+3, len(window))
	}
}

// Entries returns the archive's members in central directory order.
// Content is not materialized; the returned slice is shared with the
// Reader and must not be modified.
func (r *Reader) Entries() []FileHeader {
	return r.entries
}

// Entry returns the header of the named member. A directory member is
// found with or without its trailing slash.
func (r *Reader) Entry(name string) (FileHeader, bool) {
	i, ok := r.lookup(name)
	if !ok {
		return FileHeader{}, false
	}
	return r.entries[i], true
}

func (r *Reader) lookup(name string) (int, bool) {
	if i, ok := r.byName[name]; ok {
		return i, true
	}
	if !strings.HasSuffix(name, "/") {
		if i, ok := r.byName[name+"/"]; ok {
			return i, true
		}
	}
	return 0, false
}

// ReadEntry returns the content of the named member after verifying its
// CRC-32. The member must be stored without compression; any other method
// fails with ErrUnsupportedMethod even though listing still works.
//
// An unknown name fails with an error satisfying
// errors.Is(err, fs.ErrNotExist). The returned slice shares the archive
// buffer and must not be modified.
func (r *Reader) ReadEntry(name string) ([]byte, error) {
	i, ok := r.lookup(name)
	if !ok {
		return nil, fmt.Errorf(`member "%s": %w`, name, fs.ErrNotExist)
	}

	data, err := r.readEntry(&r.entries[i])
	if err != nil {
		return nil, fmt.Errorf(`member "%s": %w`, name, err)
	}
	return data, nil
}

// readEntry decodes the member's local file header, cross-checks it
// against the central directory record h, and returns the verified
// content.
func (r *Reader) readEntry(h *FileHeader) ([]byte, error) {
	c := newCursor(r.buf)
	c.seek(int(h.Offset))
	lfh, err := unmarshalLocalFileHeader(c)
	if err != nil {
		return nil, err
	}

	if lfh.Name != h.Name {
		return nil, fmt.Errorf(`%w: local header names "%s"`, ErrMalformedEntry, lfh.Name)
	}
	// With a data descriptor the local header's CRC-32 and sizes are
	// written as zero; only the central directory values count.
	if lfh.Flags&flagDataDescriptor == 0 &&
		(lfh.CRC32 != h.CRC32 || lfh.CompressedSize != h.CompressedSize || lfh.UncompressedSize != h.UncompressedSize) {
		return nil, fmt.Errorf("%w: local and central directory headers disagree", ErrMalformedEntry)
	}
	if h.Method != methodStored {
		return nil, fmt.Errorf("%w: method %d", ErrUnsupportedMethod, h.Method)
	}
	if h.CompressedSize != h.UncompressedSize {
		return nil, fmt.Errorf("%w: stored member declares different compressed and uncompressed sizes", ErrMalformedEntry)
	}

	data := c.bytes(int(h.CompressedSize))
	if c.err != nil {
		return nil, c.err
	}
	if got := crc.Checksum(data); got != h.CRC32 {
		return nil, fmt.Errorf("%w: content hashes to 0x%08x, recorded 0x%08x", ErrChecksum, got, h.CRC32)
	}

	return data, nil
}

// ExtractOptions customizes Reader.ExtractAll.
type ExtractOptions struct {
	// ContinueOnError attempts every member even after some fail and
	// returns the failures joined into one error. The default aborts the
	// extraction at the first failure.
	ContinueOnError bool
}

// ExtractAll writes every member to dw in listing order: directories via
// CreateDir, files via WriteFile, both with the member's recorded mode.
//
// Member names are validated against the same rules the Writer enforces
// before dw sees them, so a crafted archive cannot reach outside the
// destination. Each failure is reported as an *EntryError naming the
// member. Cancellation is the DirWriter's concern: wrap dw if extraction
// must be interruptible.
func (r *Reader) ExtractAll(dw DirWriter, optFns ...func(*ExtractOptions)) error {
	var opts ExtractOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	var errs []error
	for i := range r.entries {
		if err := r.extractEntry(&r.entries[i], dw); err != nil {
			if !opts.ContinueOnError {
				return err
			}
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (r *Reader) extractEntry(h *FileHeader, dw DirWriter) error {
	name := strings.TrimSuffix(h.Name, "/")
	// Foreign archives can carry names this package would never write;
	// nothing invalid may reach the DirWriter.
	if name == "." || !fs.ValidPath(name) || strings.ContainsRune(name, '\\') {
		return &EntryError{Name: h.Name, Err: ErrInvalidPath}
	}

	if h.IsDir() {
		if err := dw.CreateDir(name, h.Mode().Perm()); err != nil {
			return &EntryError{Name: h.Name, Err: err}
		}
		return nil
	}

	data, err := r.readEntry(h)
	if err != nil {
		return &EntryError{Name: h.Name, Err: err}
	}
	if err = dw.WriteFile(name, data, h.Mode().Perm()); err != nil {
		return &EntryError{Name: h.Name, Err: err}
	}
	return nil
}
