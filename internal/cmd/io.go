package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/stzip/stzip/internal"
)

// loadFile reads the named file into memory, honoring ctx and rendering a
// progress bar described by description unless quiet.
func loadFile(ctx context.Context, name, description string, quiet bool) ([]byte, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf(`open "%s" error: %w`, name, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf(`stat "%s" error: %w`, name, err)
	}

	var buf bytes.Buffer
	if size := fi.Size(); size > 0 {
		buf.Grow(int(size))
	}

	dst := io.Writer(&buf)
	if !quiet {
		bar := internal.DefaultBytes(fi.Size(), description)
		defer func() { _ = bar.Close() }()
		dst = io.MultiWriter(dst, bar)
	}

	if err = internal.CopyBufferWithContext(ctx, dst, f, nil); err != nil {
		return nil, fmt.Errorf(`read "%s" error: %w`, name, err)
	}

	return buf.Bytes(), nil
}
