package stzip

import (
	"encoding/binary"
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_StickyError(t *testing.T) {
	c := newCursor([]byte{0x01, 0x02, 0x03})

	assert.EqualValues(t, 0x0201, c.uint16())
	require.NoError(t, c.err)

	// One byte left: the next read overruns and latches the error.
	assert.Zero(t, c.uint32())
	assert.ErrorIs(t, c.err, ErrTruncated)

	// Every later operation fails without advancing, seek included.
	assert.Zero(t, c.uint16())
	assert.Nil(t, c.bytes(1))
	c.seek(0)
	assert.Zero(t, c.uint16())
	assert.ErrorIs(t, c.err, ErrTruncated)
	assert.Equal(t, 2, c.off)
}

func TestCursor_Bounds(t *testing.T) {
	t.Run("seek to end is valid", func(t *testing.T) {
		c := newCursor(make([]byte, 8))
		c.seek(8)
		assert.NoError(t, c.err)
	})

	t.Run("seek past end", func(t *testing.T) {
		c := newCursor(make([]byte, 8))
		c.seek(9)
		assert.ErrorIs(t, c.err, ErrTruncated)
	})

	t.Run("seek negative", func(t *testing.T) {
		c := newCursor(make([]byte, 8))
		c.seek(-1)
		assert.ErrorIs(t, c.err, ErrTruncated)
	})

	t.Run("negative count", func(t *testing.T) {
		c := newCursor(make([]byte, 8))
		assert.Nil(t, c.bytes(-1))
		assert.ErrorIs(t, c.err, ErrTruncated)
	})
}

func TestCursor_AppendReadRoundTrip(t *testing.T) {
	var w cursor
	w.putUint16(0xBEEF)
	w.putUint32(0xDEADBEEF)
	w.put([]byte{1, 2, 3})
	w.putString("name")
	require.Equal(t, 13, w.len())

	r := newCursor(w.buf)
	assert.EqualValues(t, 0xBEEF, r.uint16())
	assert.EqualValues(t, 0xDEADBEEF, r.uint32())
	assert.Equal(t, []byte{1, 2, 3}, r.bytes(3))
	assert.Equal(t, "name", string(r.bytes(4)))
	assert.NoError(t, r.err)
}

func TestMSDosTime_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
	}{
		{name: "even second", in: time.Date(2024, time.March, 14, 15, 9, 26, 0, time.UTC)},
		{name: "start of range", in: time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{name: "end of century", in: time.Date(1999, time.December, 31, 23, 59, 58, 0, time.UTC)},
		{name: "end of range", in: time.Date(2107, time.December, 31, 23, 59, 58, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dosDate, dosTime := timeToMSDos(tt.in)
			got := msDosTimeToTime(dosDate, dosTime)
			assert.Truef(t, got.Equal(tt.in), "got %v", got)
		})
	}
}

func TestMSDosTime_OddSecondRoundsDown(t *testing.T) {
	dosDate, dosTime := timeToMSDos(time.Date(2024, time.March, 14, 15, 9, 27, 999, time.UTC))
	got := msDosTimeToTime(dosDate, dosTime)
	assert.Truef(t, got.Equal(time.Date(2024, time.March, 14, 15, 9, 26, 0, time.UTC)), "got %v", got)
}

func TestMSDosTime_Pre1980(t *testing.T) {
	dosDate, dosTime := timeToMSDos(time.Date(1969, time.July, 20, 20, 17, 0, 0, time.UTC))
	got := msDosTimeToTime(dosDate, dosTime)
	assert.Truef(t, got.Equal(epoch1980), "got %v", got)
}

func TestFileHeader_Mode(t *testing.T) {
	t.Run("file round trip", func(t *testing.T) {
		h := FileHeader{Name: "a.txt"}
		h.SetMode(0640)
		assert.Equal(t, fs.FileMode(0640), h.Mode())
	})

	t.Run("dir round trip", func(t *testing.T) {
		h := FileHeader{Name: "sub/"}
		h.SetMode(fs.ModeDir | 0750)
		assert.Equal(t, fs.ModeDir|0750, h.Mode())
		assert.NotZero(t, h.ExternalAttrs&msdosDir)
	})

	t.Run("no recorded mode defaults", func(t *testing.T) {
		h := FileHeader{Name: "a.txt"}
		assert.Equal(t, fs.FileMode(0644), h.Mode())

		h = FileHeader{Name: "sub/"}
		assert.Equal(t, fs.ModeDir|0755, h.Mode())
	})

	t.Run("msdos dir attribute alone marks a directory", func(t *testing.T) {
		h := FileHeader{Name: "legacy", ExternalAttrs: msdosDir}
		assert.True(t, h.Mode().IsDir())
	})
}

func TestLocalFileHeaderCodec(t *testing.T) {
	in := &FileHeader{
		Name:             "dir/file.bin",
		Modified:         time.Date(2021, time.June, 5, 4, 3, 2, 0, time.UTC),
		Flags:            flagUTF8,
		Method:           methodStored,
		CRC32:            0xCBF43926,
		CompressedSize:   9,
		UncompressedSize: 9,
	}

	var c cursor
	marshalLocalFileHeader(&c, in)
	require.Equal(t, localFileHeaderLen+len(in.Name), c.len())

	out, err := unmarshalLocalFileHeader(newCursor(c.buf))
	require.NoError(t, err)
	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.Flags, out.Flags)
	assert.Equal(t, in.Method, out.Method)
	assert.Equal(t, in.CRC32, out.CRC32)
	assert.Equal(t, in.CompressedSize, out.CompressedSize)
	assert.Equal(t, in.UncompressedSize, out.UncompressedSize)
	assert.Truef(t, out.Modified.Equal(in.Modified), "got %v", out.Modified)
}

func TestCDFileHeaderCodec(t *testing.T) {
	in := &FileHeader{
		Name:             "dir/",
		Modified:         time.Date(2021, time.June, 5, 4, 3, 2, 0, time.UTC),
		Flags:            flagUTF8,
		Method:           methodStored,
		Offset:           0x01020304,
	}
	in.SetMode(fs.ModeDir | 0750)

	var c cursor
	marshalCDFileHeader(&c, in)
	require.Equal(t, centralDirHeaderLen+len(in.Name), c.len())

	out, err := unmarshalCDFileHeader(newCursor(c.buf))
	require.NoError(t, err)
	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.Flags, out.Flags)
	assert.Equal(t, in.ExternalAttrs, out.ExternalAttrs)
	assert.Equal(t, in.Offset, out.Offset)
	assert.Truef(t, out.Modified.Equal(in.Modified), "got %v", out.Modified)
	assert.Equal(t, fs.ModeDir|0750, out.Mode())
}

func TestCodec_Truncated(t *testing.T) {
	in := &FileHeader{Name: "a.txt", Modified: epoch1980}

	var lfh cursor
	marshalLocalFileHeader(&lfh, in)
	var cdfh cursor
	marshalCDFileHeader(&cdfh, in)

	for n := 0; n < lfh.len(); n++ {
		_, err := unmarshalLocalFileHeader(newCursor(lfh.buf[:n]))
		assert.ErrorIsf(t, err, ErrTruncated, "local file header cut to %d bytes", n)
	}
	for n := 0; n < cdfh.len(); n++ {
		_, err := unmarshalCDFileHeader(newCursor(cdfh.buf[:n]))
		assert.ErrorIsf(t, err, ErrTruncated, "central directory record cut to %d bytes", n)
	}
}

func TestEOCDRecordCodec(t *testing.T) {
	var c cursor
	marshalEOCDRecord(&c, 3, 138, 245)
	require.Equal(t, endOfCentralDirLen, c.len())

	rec, err := unmarshalEOCDRecord(newCursor(c.buf))
	require.NoError(t, err)
	assert.EqualValues(t, 0, rec.diskNumber)
	assert.EqualValues(t, 3, rec.cdCountDisk)
	assert.EqualValues(t, 3, rec.cdCount)
	assert.EqualValues(t, 138, rec.cdSize)
	assert.EqualValues(t, 245, rec.cdOffset)
	assert.Empty(t, rec.comment)
}

func TestEOCDRecordCodec_Comment(t *testing.T) {
	var c cursor
	marshalEOCDRecord(&c, 1, 46, 30)
	binary.LittleEndian.PutUint16(c.buf[20:], 9)
	c.putString("cut short")

	t.Run("declared length present", func(t *testing.T) {
		rec, err := unmarshalEOCDRecord(newCursor(c.buf))
		require.NoError(t, err)
		assert.Equal(t, "cut short", rec.comment)
	})

	t.Run("declared length past end of buffer", func(t *testing.T) {
		binary.LittleEndian.PutUint16(c.buf[20:], maxUint16)

		rec, err := unmarshalEOCDRecord(newCursor(c.buf))
		require.NoError(t, err)
		assert.Equal(t, "cut short", rec.comment)
	})
}
