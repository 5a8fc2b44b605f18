package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"

	"github.com/stewi1014/glmandel/programs"
	"github.com/stewi1014/glmandel/snapshot"
	"github.com/stewi1014/glmandel/viewport"
)

const (
	saveSupersample = 2
	previewWidth    = 600
	previewHeight   = 400
)

// snapshotOptions copies the current view so the render can run off the
// thread that owns state.
func snapshotOptions(program programs.Program, state *viewport.State) snapshot.Options {
	return snapshot.Options{
		Program:       program,
		Window:        state.Window,
		Width:         state.Width,
		Height:        state.Height,
		MaxIterations: state.MaxIterations,
		Supersample:   saveSupersample,
	}
}

func snapshotName(now time.Time) string {
	return fmt.Sprintf("glmandel-%s.png", now.Format("20060102-150405"))
}

// saveSnapshot renders opts to a timestamped PNG in the working directory
// behind a progress dialog, then offers a preview of the result.
func saveSnapshot(app *Application, parent *gtk.ApplicationWindow, opts snapshot.Options) {
	ctx, cancel := context.WithCancelCause(app.ctx)
	name := snapshotName(time.Now())

	progress := &snapshot.Progress{}
	opts.Progress = progress

	dialog, err := NewProgressDialog(
		ctx, parent, "Save Image",
		fmt.Sprintf("Saving %v", name),
		func() { cancel(context.Canceled) },
	)
	if err != nil {
		cancel(err)
		NewErrorDialog(parent, err)
		return
	}
	dialog.AddProgressSupplier(progress.Fraction)

	go func() {
		defer CatchPanicToContext(cancel)

		err := snapshot.Save(ctx, name, opts)
		cancel(err)
		if errors.Is(err, context.Canceled) {
			slog.Info("snapshot cancelled", "path", name)
			return
		}

		glib.IdleAdd(func() {
			if err != nil {
				slog.Error("snapshot failed", "path", name, "err", err)
				NewErrorDialog(parent, err)
				return
			}
			showPreview(app, parent, name)
		})
	}()
}

func showPreview(app *Application, parent *gtk.ApplicationWindow, name string) {
	pixbuf, err := gdk.PixbufNewFromFileAtScale(name, previewWidth, previewHeight, true)
	if err != nil {
		NewErrorDialog(parent, err)
		return
	}

	abs, err := filepath.Abs(name)
	if err != nil {
		abs = name
	}

	preview, err := NewImageDialog(app.Application, pixbuf,
		func() { slog.Info("kept snapshot", "path", abs) },
		func() {
			if err := os.Remove(name); err != nil {
				slog.Error("delete snapshot", "path", name, "err", err)
			}
		},
	)
	if err != nil {
		NewErrorDialog(parent, err)
		return
	}

	preview.SetTitle(filepath.Base(name))
	preview.ShowAll()
}
