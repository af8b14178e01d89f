package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/stzip/stzip/internal/cmd"
)

var opts struct {
	Compress []flags.Filename `short:"c" long:"compress" value-name:"PATH" description:"compress the file or directory into a stored ZIP archive named after it"`
	Extract  []flags.Filename `short:"d" long:"decompress" value-name:"ZIP" description:"extract the archive into a directory named after it"`
	List     []flags.Filename `short:"l" long:"list" value-name:"ZIP" description:"list the archive's members without extracting anything"`
	Verify   []flags.Filename `short:"t" long:"test" value-name:"ZIP" description:"decode every member and verify its checksum"`

	Output    flags.Filename `short:"o" long:"output" value-name:"PATH" description:"override the output archive or directory; requires exactly one input"`
	KeepGoing bool           `long:"keep-going" description:"keep extracting past members that fail instead of stopping at the first error"`
	Quiet     bool           `short:"q" long:"quiet" description:"suppress progress bars and throttled progress logs"`
}

func main() {
	p := flags.NewParser(&opts, flags.Default)
	args, err := p.Parse()
	if err != nil {
		exit(err)
		return
	}

	var commands []flags.Commander
	if len(opts.Compress) > 0 {
		commands = append(commands, &cmd.Compress{Files: opts.Compress, Output: opts.Output, Quiet: opts.Quiet})
	}
	if len(opts.Extract) > 0 {
		commands = append(commands, &cmd.Extract{Files: opts.Extract, Output: opts.Output, KeepGoing: opts.KeepGoing, Quiet: opts.Quiet})
	}
	if len(opts.List) > 0 {
		commands = append(commands, &cmd.List{Files: opts.List, Quiet: opts.Quiet})
	}
	if len(opts.Verify) > 0 {
		commands = append(commands, &cmd.Verify{Files: opts.Verify, Quiet: opts.Quiet})
	}

	switch len(commands) {
	case 0:
		p.WriteHelp(os.Stderr)
		os.Exit(1)
	case 1:
		if opts.Output != "" {
			switch commands[0].(type) {
			case *cmd.List, *cmd.Verify:
				_, _ = fmt.Fprintln(os.Stderr, "-o/--output does not apply to -l or -t")
				os.Exit(1)
			}
		}
		exit(commands[0].Execute(args))
	default:
		_, _ = fmt.Fprintln(os.Stderr, "exactly one of -c, -d, -l, -t must be given")
		os.Exit(1)
	}
}
