package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jessevdk/go-flags"
	"github.com/stzip/stzip"
	"github.com/stzip/stzip/internal"
	"golang.org/x/time/rate"
)

// Verify decodes every member of each input archive and checks it against
// its recorded CRC-32, without writing anything to disk.
type Verify struct {
	Files []flags.Filename
	Quiet bool

	logger *log.Logger
}

var _ flags.Commander = (*Verify)(nil)

func (c *Verify) Execute(args []string) (err error) {
	if len(args) != 0 {
		return fmt.Errorf("unknown positional arguments: %s", strings.Join(args, " "))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	success := 0
	n := len(c.Files)
	for i, file := range c.Files {
		c.logger = internal.NewLogger(i, n, file)
		c.logger.Printf("start verifying")

		if err = c.verify(ctx, string(file)); err == nil {
			success++
			continue
		}

		if errors.Is(err, context.Canceled) {
			break
		}

		c.logger.Printf(`verify "%s" error: %v`, file, err)
	}

	log.Printf("successfully verified %d/%d files", success, n)
	if success != n {
		return fmt.Errorf("%d/%d files failed", n-success, n)
	}
	return nil
}

func (c *Verify) verify(ctx context.Context, name string) error {
	b, err := loadFile(ctx, name, "reading", c.Quiet)
	if err != nil {
		return err
	}

	r, err := stzip.OpenReader(b)
	if err != nil {
		return fmt.Errorf(`open archive "%s" error: %w`, name, err)
	}

	sometimes := rate.Sometimes{Interval: 5 * time.Second}
	entries := r.Entries()
	n := len(entries)
	files, bad := 0, 0
	var done uint64
	for i, h := range entries {
		if err = ctx.Err(); err != nil {
			return err
		}

		if h.IsDir() {
			continue
		}
		files++

		if _, err = r.ReadEntry(h.Name); err != nil {
			bad++
			c.logger.Printf("%v", err)
			continue
		}

		done += uint64(h.UncompressedSize)
		if !c.Quiet {
			sometimes.Do(func() {
				c.logger.Printf("verified %d/%d members (%s)", i+1, n, humanize.Bytes(done))
			})
		}
	}

	if bad != 0 {
		return fmt.Errorf("%d/%d members failed verification", bad, files)
	}

	c.logger.Printf("all %d members OK (%s)", files, humanize.Bytes(done))
	return nil
}
