package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/jessevdk/go-flags"
	"github.com/stzip/stzip"
	"github.com/stzip/stzip/internal"
)

// List prints each input archive's members to stdout without extracting
// any content.
type List struct {
	Files []flags.Filename
	Quiet bool

	logger *log.Logger
}

var _ flags.Commander = (*List)(nil)

func (c *List) Execute(args []string) (err error) {
	if len(args) != 0 {
		return fmt.Errorf("unknown positional arguments: %s", strings.Join(args, " "))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	success := 0
	n := len(c.Files)
	for i, file := range c.Files {
		c.logger = internal.NewLogger(i, n, file)

		if err = c.list(ctx, string(file)); err == nil {
			success++
			continue
		}

		if errors.Is(err, context.Canceled) {
			break
		}

		c.logger.Printf(`list "%s" error: %v`, file, err)
	}

	log.Printf("successfully listed %d/%d files", success, n)
	if success != n {
		return fmt.Errorf("%d/%d files failed", n-success, n)
	}
	return nil
}

func (c *List) list(ctx context.Context, name string) error {
	// The bar would interleave with the table, so loading is always quiet.
	b, err := loadFile(ctx, name, "reading", true)
	if err != nil {
		return err
	}

	r, err := stzip.OpenReader(b)
	if err != nil {
		return fmt.Errorf(`open archive "%s" error: %w`, name, err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Archive: %s\n", name)
	if r.Comment != "" {
		_, _ = fmt.Fprintf(os.Stdout, "Comment: %s\n", r.Comment)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "SIZE\tMODIFIED\tCRC-32\tNAME")

	var total uint64
	for _, h := range r.Entries() {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%08x\t%s\n",
			humanize.Bytes(uint64(h.UncompressedSize)),
			h.Modified.Format("2006-01-02 15:04"),
			h.CRC32,
			h.Name)
		total += uint64(h.UncompressedSize)
	}
	if err = tw.Flush(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "%s members, %s\n", humanize.Comma(int64(len(r.Entries()))), humanize.Bytes(total))
	return nil
}
