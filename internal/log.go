package internal

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"
)

// NewLogger creates the logger for the i-th of n input files; every line
// it writes carries the Prefix of that file.
func NewLogger(i, n int, name flags.Filename) *log.Logger {
	return log.New(os.Stderr, Prefix(i, n, name), 0)
}

// Prefix creates a consistent prefix for all file-based commands to use.
//
// i is the zero-based ordinal; the rendered prefix is one-based. Long base
// names are truncated to 30 runes to keep the prefix readable.
func Prefix(i, n int, name flags.Filename) string {
	return fmt.Sprintf(`[%d/%d] "%s" - `, i+1, n, truncateRight(filepath.Base(string(name)), 30, "..."))
}

// truncateRight keeps the first n runes of text, appending suffix only
// when truncation happened.
func truncateRight(text string, n int, suffix string) string {
	rs := []rune(text)
	if len(rs) <= n {
		return text
	}
	return string(rs[:n]) + suffix
}
