package stzip

import "fmt"

// marshalLocalFileHeader appends h's local file header to c. The member
// content follows immediately; the caller appends it.
func marshalLocalFileHeader(c *cursor, h *FileHeader) {
	dosDate, dosTime := timeToMSDos(h.Modified)

	c.putUint32(localFileHeaderSig)
	c.putUint16(versionNeeded)
	c.putUint16(h.Flags)
	c.putUint16(h.Method)
	c.putUint16(dosTime)
	c.putUint16(dosDate)
	c.putUint32(h.CRC32)
	c.putUint32(h.CompressedSize)
	c.putUint32(h.UncompressedSize)
	c.putUint16(uint16(len(h.Name)))
	c.putUint16(0) // extra field length
	c.putString(h.Name)
}

// unmarshalLocalFileHeader decodes the local file header at c's position,
// leaving c at the first byte of the member content.
func unmarshalLocalFileHeader(c *cursor) (FileHeader, error) {
	if sig := c.uint32(); c.err == nil && sig != localFileHeaderSig {
		return FileHeader{}, fmt.Errorf("%w: not a local file header (signature 0x%08x)", ErrMalformedEntry, sig)
	}
	c.skip(2) // version needed to extract

	var h FileHeader
	h.Flags = c.uint16()
	h.Method = c.uint16()
	dosTime := c.uint16()
	dosDate := c.uint16()
	h.CRC32 = c.uint32()
	h.CompressedSize = c.uint32()
	h.UncompressedSize = c.uint32()
	nameLen := int(c.uint16())
	extraLen := int(c.uint16())
	h.Name = string(c.bytes(nameLen))
	c.skip(extraLen)

	if c.err != nil {
		return FileHeader{}, c.err
	}

	h.Modified = msDosTimeToTime(dosDate, dosTime)
	return h, nil
}

// marshalCDFileHeader appends h's central directory record to c.
func marshalCDFileHeader(c *cursor, h *FileHeader) {
	dosDate, dosTime := timeToMSDos(h.Modified)

	c.putUint32(centralDirHeaderSig)
	c.putUint16(versionMadeBy)
	c.putUint16(versionNeeded)
	c.putUint16(h.Flags)
	c.putUint16(h.Method)
	c.putUint16(dosTime)
	c.putUint16(dosDate)
	c.putUint32(h.CRC32)
	c.putUint32(h.CompressedSize)
	c.putUint32(h.UncompressedSize)
	c.putUint16(uint16(len(h.Name)))
	c.putUint16(0) // extra field length
	c.putUint16(0) // file comment length
	c.putUint16(0) // disk number start
	c.putUint16(0) // internal attributes
	c.putUint32(h.ExternalAttrs)
	c.putUint32(h.Offset)
	c.putString(h.Name)
}

// unmarshalCDFileHeader decodes the central directory record at c's
// position, leaving c at the start of the next record.
func unmarshalCDFileHeader(c *cursor) (FileHeader, error) {
	if sig := c.uint32(); c.err == nil && sig != centralDirHeaderSig {
		return FileHeader{}, fmt.Errorf("%w: not a central directory record (signature 0x%08x)", ErrMalformedEntry, sig)
	}
	c.skip(4) // version made by, version needed to extract

	var h FileHeader
	h.Flags = c.uint16()
	h.Method = c.uint16()
	dosTime := c.uint16()
	dosDate := c.uint16()
	h.CRC32 = c.uint32()
	h.CompressedSize = c.uint32()
	h.UncompressedSize = c.uint32()
	nameLen := int(c.uint16())
	extraLen := int(c.uint16())
	commentLen := int(c.uint16())
	c.skip(4) // disk number start, internal attributes
	h.ExternalAttrs = c.uint32()
	h.Offset = c.uint32()
	h.Name = string(c.bytes(nameLen))
	c.skip(extraLen + commentLen)

	if c.err != nil {
		return FileHeader{}, c.err
	}

	h.Modified = msDosTimeToTime(dosDate, dosTime)
	return h, nil
}

// eocdRecord is the end of central directory record, the entry point for
// parsing an archive.
type eocdRecord struct {
	diskNumber  uint16
	cdDisk      uint16
	cdCountDisk uint16
	cdCount     uint16
	cdSize      uint32
	cdOffset    uint32
	comment     string
}

// marshalEOCDRecord appends an end of central directory record with an
// empty comment.
func marshalEOCDRecord(c *cursor, count uint16, size, offset uint32) {
	c.putUint32(endOfCentralDirSig)
	c.putUint16(0) // disk number
	c.putUint16(0) // disk where central directory starts
	c.putUint16(count)
	c.putUint16(count)
	c.putUint32(size)
	c.putUint32(offset)
	c.putUint16(0) // comment length
}

// unmarshalEOCDRecord decodes the end of central directory record at c's
// position. A comment cut short by the end of the buffer is kept at
// whatever length is actually present rather than failing the decode.
func unmarshalEOCDRecord(c *cursor) (eocdRecord, error) {
	if sig := c.uint32(); c.err == nil && sig != endOfCentralDirSig {
		return eocdRecord{}, fmt.Errorf("%w: not an end of central directory record (signature 0x%08x)", ErrMalformedEntry, sig)
	}

	var r eocdRecord
	r.diskNumber = c.uint16()
	r.cdDisk = c.uint16()
	r.cdCountDisk = c.uint16()
	r.cdCount = c.uint16()
	r.cdSize = c.uint32()
	r.cdOffset = c.uint32()
	commentLen := int(c.uint16())
	if c.err != nil {
		return eocdRecord{}, c.err
	}

	if rest := len(c.buf) - c.off; commentLen > rest {
		commentLen = rest
	}
	r.comment = string(c.bytes(commentLen))
	return r, c.err
}
