package cmd

import (
	"context"
	"io/fs"

	"github.com/schollz/progressbar/v3"
	"github.com/stzip/stzip"
)

// trackedFS decorates the fs.FS handed to the archive writer with context
// cancellation and progress accounting. The codec itself stays free of
// both concerns; they ride on the filesystem capability.
type trackedFS struct {
	fsys fs.FS
	ctx  context.Context
	bar  *progressbar.ProgressBar
}

var _ fs.ReadFileFS = (*trackedFS)(nil)

// newTrackedFS walks fsys once up front to tally the bytes about to be
// archived so the progress bar can be sized before compression starts.
func newTrackedFS(ctx context.Context, fsys fs.FS) (*trackedFS, int64, error) {
	var size int64
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err = ctx.Err(); err != nil {
			return err
		}
		if d.Type().IsRegular() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			size += info.Size()
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return &trackedFS{fsys: fsys, ctx: ctx}, size, nil
}

func (f *trackedFS) Open(name string) (fs.File, error) {
	if err := f.ctx.Err(); err != nil {
		return nil, err
	}
	return f.fsys.Open(name)
}

func (f *trackedFS) ReadFile(name string) ([]byte, error) {
	if err := f.ctx.Err(); err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(f.fsys, name)
	if err == nil && f.bar != nil {
		_ = f.bar.Add(len(data))
	}
	return data, err
}

// trackedDirWriter decorates the extraction destination the same way
// trackedFS decorates the compression source.
type trackedDirWriter struct {
	dw  stzip.DirWriter
	ctx context.Context
	bar *progressbar.ProgressBar
}

var _ stzip.DirWriter = (*trackedDirWriter)(nil)

func (w *trackedDirWriter) CreateDir(name string, perm fs.FileMode) error {
	if err := w.ctx.Err(); err != nil {
		return err
	}
	return w.dw.CreateDir(name, perm)
}

func (w *trackedDirWriter) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if err := w.ctx.Err(); err != nil {
		return err
	}
	if err := w.dw.WriteFile(name, data, perm); err != nil {
		return err
	}

	if w.bar != nil {
		_ = w.bar.Add(len(data))
	}
	return nil
}
