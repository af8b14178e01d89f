package internal

import (
	"strings"
	"testing"

	"github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/assert"
)

func TestPrefix(t *testing.T) {
	assert.Equal(t, `[1/3] "file.zip" - `, Prefix(0, 3, "/path/to/file.zip"))
}

func TestPrefix_TruncatesLongNames(t *testing.T) {
	got := Prefix(1, 2, flags.Filename(strings.Repeat("na", 40)+".zip"))
	assert.Equal(t, `[2/2] "`+strings.Repeat("na", 15)+`..." - `, got)
}

func TestPrefix_TruncatesRunesNotBytes(t *testing.T) {
	got := Prefix(0, 1, flags.Filename(strings.Repeat("é", 40)))
	assert.Equal(t, `[1/1] "`+strings.Repeat("é", 30)+`..." - `, got)
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger(2, 5, "x.zip")
	assert.Equal(t, `[3/5] "x.zip" - `, logger.Prefix())
}
