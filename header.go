package stzip

import (
	"io/fs"
	"strings"
	"time"
)

const (
	localFileHeaderSig  = 0x04034b50
	centralDirHeaderSig = 0x02014b50
	endOfCentralDirSig  = 0x06054b50

	localFileHeaderLen  = 30
	centralDirHeaderLen = 46
	endOfCentralDirLen  = 22

	// methodStored is the only compression method written or read:
	// member content is copied verbatim.
	methodStored = 0

	// versionMadeBy declares Unix external attributes and format 2.0;
	// versionNeeded is the minimum feature version to extract.
	versionMadeBy = 0x0314
	versionNeeded = 20

	// flagUTF8 marks the member name as UTF-8. flagDataDescriptor means
	// the local header's CRC-32 and sizes are zero and the authoritative
	// values live in the central directory.
	flagUTF8           = 0x0800
	flagDataDescriptor = 0x0008

	// msdosDir is the MS-DOS directory attribute in external attributes.
	msdosDir = 0x10

	// Unix file type bits carried in the high 16 bits of external
	// attributes.
	unixIFDir = 040000
	unixIFReg = 0100000

	maxUint16 = 1<<16 - 1
	maxUint32 = 1<<32 - 1
)

// FileHeader describes one member of an archive.
//
// A name ending in a slash denotes a directory; directories have no content
// and zero sizes.
type FileHeader struct {
	// Name is the member's slash-separated path relative to the archive
	// root. Directory names end in exactly one slash.
	Name string

	// Modified is the member's last-modified time at MS-DOS resolution
	// (2-second granularity, no zone recorded).
	Modified time.Time

	// Flags is the general-purpose bit flag field.
	Flags uint16

	// Method is the compression method. The Writer only ever produces
	// methodStored; the Reader records whatever a foreign archive
	// declares and refuses to read anything but stored content.
	Method uint16

	// CRC32 is the checksum of the member's content.
	CRC32 uint32

	// CompressedSize and UncompressedSize are equal for stored members.
	CompressedSize   uint32
	UncompressedSize uint32

	// ExternalAttrs holds host-dependent attributes: the Unix mode in the
	// high 16 bits, MS-DOS attributes in the low byte.
	ExternalAttrs uint32

	// Offset is the position of the member's local file header from the
	// start of the archive.
	Offset uint32
}

// IsDir reports whether the header describes a directory.
func (h *FileHeader) IsDir() bool {
	return strings.HasSuffix(h.Name, "/")
}

// Mode returns the member's file mode from its external attributes.
//
// Archives written by tools that record no Unix mode yield 0644 for files
// and 0755 for directories so that extraction still produces usable trees.
func (h *FileHeader) Mode() fs.FileMode {
	mode := fs.FileMode(h.ExternalAttrs >> 16 & 0777)
	if h.IsDir() || h.ExternalAttrs&msdosDir != 0 {
		if mode == 0 {
			mode = 0755
		}
		return mode | fs.ModeDir
	}
	if mode == 0 {
		mode = 0644
	}
	return mode
}

// SetMode records mode in the header's external attributes.
func (h *FileHeader) SetMode(mode fs.FileMode) {
	unix := uint32(mode.Perm())
	if h.IsDir() || mode.IsDir() {
		h.ExternalAttrs = (unix|unixIFDir)<<16 | msdosDir
		return
	}
	h.ExternalAttrs = (unix | unixIFReg) << 16
}

// timeToMSDos encodes t as MS-DOS date and time, the native timestamp
// format of ZIP. Times before 1980 collapse to the format's epoch.
func timeToMSDos(t time.Time) (dosDate, dosTime uint16) {
	if t.Year() < 1980 {
		return 1<<5 | 1, 0
	}
	dosDate = uint16((t.Year()-1980)<<9 | int(t.Month())<<5 | t.Day())
	dosTime = uint16(t.Hour()<<11 | t.Minute()<<5 | t.Second()/2)
	return
}

// msDosTimeToTime converts an MS-DOS date and time into a time.Time.
// The resolution is 2s.
//
// See: https://learn.microsoft.com/en-us/windows/win32/api/winbase/nf-winbase-dosdatetimetofiletime
func msDosTimeToTime(dosDate, dosTime uint16) time.Time {
	return time.Date(
		// date bits 0-4: day of month; 5-8: month; 9-15: years since 1980
		int(dosDate>>9+1980),
		time.Month(dosDate>>5&0xf),
		int(dosDate&0x1f),

		// time bits 0-4: second/2; 5-10: minute; 11-15: hour
		int(dosTime>>11),
		int(dosTime>>5&0x3f),
		int(dosTime&0x1f*2),

		0,
		time.UTC,
	)
}
