package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/stzip/stzip"
	"github.com/stzip/stzip/internal"
)

// Extract restores each input archive into a fresh directory named after
// the archive in the working directory.
type Extract struct {
	Files     []flags.Filename
	Output    flags.Filename
	KeepGoing bool
	Quiet     bool

	logger *log.Logger
}

var _ flags.Commander = (*Extract)(nil)

func (c *Extract) Execute(args []string) (err error) {
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
		c.logger.Printf("start extracting")

		if err = c.extract(ctx, string(file)); err == nil {
			c.logger.Printf("done extracting")
			success++
			continue
		}

		if errors.Is(err, context.Canceled) {
			break
		}

		c.logger.Printf(`extract "%s" error: %v`, file, err)
	}

	log.Printf("successfully extracted %d/%d files", success, n)
	if success != n {
		return fmt.Errorf("%d/%d files failed", n-success, n)
	}
	return nil
}

func (c *Extract) extract(ctx context.Context, name string) error {
	b, err := loadFile(ctx, name, "reading", c.Quiet)
	if err != nil {
		return err
	}

	r, err := stzip.OpenReader(b)
	if err != nil {
		return fmt.Errorf(`open archive "%s" error: %w`, name, err)
	}

	output, fresh, err := c.outputDir(name)
	if err != nil {
		return fmt.Errorf("create output directory error: %w", err)
	}

	dw := &trackedDirWriter{dw: stzip.OSDirWriter{Root: output}, ctx: ctx}
	if !c.Quiet {
		var total int64
		for _, h := range r.Entries() {
			total += int64(h.UncompressedSize)
		}
		dw.bar = internal.DefaultBytes(total, "extracting")
		defer func() { _ = dw.bar.Close() }()
	}

	if err = r.ExtractAll(dw, func(opts *stzip.ExtractOptions) {
		opts.ContinueOnError = c.KeepGoing
	}); err != nil {
		// A fresh directory holding a failed fail-fast extraction is
		// partial output; keep it only in best-effort mode.
		if fresh && !c.KeepGoing {
			_ = os.RemoveAll(output)
		}
		return err
	}

	c.logger.Printf(`extracted %d members to "%s"`, len(r.Entries()), output)
	return nil
}

// outputDir decides where the archive's tree lands: -o verbatim (created
// if missing), otherwise a directory named after the archive's stem,
// bumped with a numeric suffix rather than reusing an existing directory.
func (c *Extract) outputDir(name string) (output string, fresh bool, err error) {
	if c.Output != "" {
		return string(c.Output), false, os.MkdirAll(string(c.Output), 0755)
	}

	base := filepath.Base(name)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = base
	}

	output, err = internal.MkExclDir(stem)
	return output, true, err
}
