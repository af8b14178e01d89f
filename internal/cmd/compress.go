package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jessevdk/go-flags"
	"github.com/stzip/stzip"
	"github.com/stzip/stzip/internal"
)

// Compress archives each input into a stored-method ZIP in the working
// directory: a directory input becomes an archive of its tree, a file
// input an archive with that single member.
type Compress struct {
	Files  []flags.Filename
	Output flags.Filename
	Quiet  bool

	logger *log.Logger
}

var _ flags.Commander = (*Compress)(nil)

func (c *Compress) Execute(args []string) (err error) {
	if len(args) != 0 {
		return fmt.Errorf("unknown positional arguments: %s", strings.Join(args, " "))
	}
	if c.Output != "" && len(c.Files) != 1 {
		return errors.New("-o/--output requires exactly one input")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	success := 0
	n := len(c.Files)
	for i, file := range c.Files {
		c.logger = internal.NewLogger(i, n, file)
		c.logger.Printf("start compressing")

		if err = c.compress(ctx, string(file)); err == nil {
			c.logger.Printf("done compressing")
			success++
			continue
		}

		if errors.Is(err, context.Canceled) {
			break
		}

		c.logger.Printf(`compress "%s" error: %v`, file, err)
	}

	log.Printf("successfully compressed %d/%d files", success, n)
	if success != n {
		return fmt.Errorf("%d/%d files failed", n-success, n)
	}
	return nil
}

func (c *Compress) compress(ctx context.Context, name string) error {
	w := stzip.NewWriter()

	switch fi, err := os.Stat(name); {
	case err != nil:
		return fmt.Errorf(`stat "%s" error: %w`, name, err)

	case fi.IsDir():
		fsys, size, err := newTrackedFS(ctx, os.DirFS(name))
		if err != nil {
			return fmt.Errorf(`scan directory "%s" error: %w`, name, err)
		}
		if !c.Quiet {
			fsys.bar = internal.DefaultBytes(size, "compressing")
			defer func() { _ = fsys.bar.Close() }()
		}

		if err = w.AddFS(fsys); err != nil {
			return fmt.Errorf(`compress directory "%s" error: %w`, name, err)
		}

	default:
		data, err := loadFile(ctx, name, "compressing", c.Quiet)
		if err != nil {
			return err
		}

		if err = w.AddFile(filepath.Base(name), data); err != nil {
			return fmt.Errorf(`compress file "%s" error: %w`, name, err)
		}
	}

	b, err := w.Finalize()
	if err != nil {
		return fmt.Errorf("finalize archive error: %w", err)
	}

	return c.write(ctx, name, b)
}

// write stores the finished archive, naming it <base(input)>.zip with a
// numeric suffix on collision unless -o overrode the destination.
func (c *Compress) write(ctx context.Context, input string, b []byte) error {
	var dst *os.File
	var err error
	if c.Output != "" {
		dst, err = os.OpenFile(string(c.Output), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0666)
	} else {
		dst, err = internal.OpenExclFile(filepath.Base(input), ".zip")
	}
	if err != nil {
		return fmt.Errorf("create archive error: %w", err)
	}

	if err = internal.CopyBufferWithContext(ctx, dst, bytes.NewReader(b), nil); err != nil {
		_, _ = dst.Close(), os.Remove(dst.Name())
		return fmt.Errorf(`write archive "%s" error: %w`, dst.Name(), err)
	}
	if err = dst.Close(); err != nil {
		_ = os.Remove(dst.Name())
		return fmt.Errorf(`close archive "%s" error: %w`, dst.Name(), err)
	}

	c.logger.Printf(`wrote "%s" (%s)`, dst.Name(), humanize.Bytes(uint64(len(b))))
	return nil
}
