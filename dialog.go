package main

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
)

func CatchPanicToContext(ctxCancel context.CancelCauseFunc) {
	if v := recover(); v != nil {
		err, ok := v.(error)
		if !ok {
			err = fmt.Errorf("panic: %v", v)
		}
		err = fmt.Errorf("%w\n%v", err, string(debug.Stack()))
		if ctxCancel != nil {
			ctxCancel(err)
		}
	}
}

// NewErrorDialog shows err and blocks until it is dismissed. It must be
// called on the GTK main thread.
func NewErrorDialog(
	parent *gtk.ApplicationWindow,
	err error,
) {
	dialog := gtk.MessageDialogNew(
		parent,
		gtk.DIALOG_DESTROY_WITH_PARENT,
		gtk.MESSAGE_ERROR,
		gtk.BUTTONS_CLOSE,
		"%s",
		err.Error(),
	)

	dialog.Connect("response", dialog.Destroy)

	messageArea, err := dialog.GetMessageArea()
	if err != nil {
		slog.Warn("error dialog has no message area", "err", err)

	} else {
		messageArea.GetChildren().Foreach(func(item interface{}) {
			if widget, ok := item.(*gtk.Widget); ok {
				l, err := gtk.WidgetToLabel(widget)
				if err != nil {
					return
				}

				l.SetSelectable(true)
			}
		})
	}

	dialog.SetKeepAbove(true)
	dialog.Run()
}

func NewProgressDialog(
	parentCtx context.Context,
	parentWindow gtk.IWindow,
	title string,
	description string,
	onCancel func(),
) (*ProgressDialog, error) {
	var err error
	dialog := &ProgressDialog{}
	dialog.Dialog, err = gtk.DialogNewWithButtons(
		title,
		parentWindow,
		gtk.DIALOG_DESTROY_WITH_PARENT,
		[]interface{}{"Cancel", gtk.RESPONSE_CANCEL},
	)
	if err != nil {
		return nil, fmt.Errorf("gtk.DialogNewWithButtons: %w", err)
	}
	dialog.SetKeepAbove(true)
	dialog.Connect("response", func(dialog *gtk.Dialog, response gtk.ResponseType) {
		if response == gtk.RESPONSE_CANCEL || response == gtk.RESPONSE_DELETE_EVENT {
			onCancel()
		}
	})

	ca, err := dialog.GetContentArea()
	if err != nil {
		return nil, fmt.Errorf("dialog.GetContentArea: %w", err)
	}
	dialog.label, _ = gtk.LabelNew(description)
	ca.Add(dialog.label)

	dialog.progressBar, _ = gtk.ProgressBarNew()
	dialog.progressBar.SetShowText(true)
	dialog.progressBar.SetSizeRequest(400, 40)
	ca.Add(dialog.progressBar)

	dialog.ShowAll()
	go dialog.periodicUpdate(parentCtx)
	return dialog, nil
}

type ProgressDialog struct {
	*gtk.Dialog
	progressBar *gtk.ProgressBar
	label       *gtk.Label

	progressFuncs []func() float64
}

// AddProgressSupplier adds a supplier for progress information to the ProgressDialog.
// If more than one supplier is added, their values are averaged.
func (dialog *ProgressDialog) AddProgressSupplier(supplier func() float64) {
	glib.IdleAdd(func() {
		dialog.progressFuncs = append(dialog.progressFuncs, supplier)
	})
}

// periodicUpdate refreshes the bar until ctx is done, then destroys the
// dialog.
func (dialog *ProgressDialog) periodicUpdate(ctx context.Context) {
	ticker := time.NewTicker(time.Second / 10)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			glib.IdleAdd(func() {
				if len(dialog.progressFuncs) == 0 {
					dialog.progressBar.Pulse()
					return
				}
				progress := float64(0)
				for _, progressFunc := range dialog.progressFuncs {
					progress += progressFunc()
				}
				progress = progress / float64(len(dialog.progressFuncs))
				dialog.progressBar.SetFraction(progress)
			})
		case <-ctx.Done():
			glib.IdleAdd(func() {
				dialog.Destroy()
			})
			return
		}
	}
}

// NewImageDialog previews a saved snapshot with buttons to keep or delete it.
func NewImageDialog(
	app *gtk.Application,
	pixbuf *gdk.Pixbuf,
	responseKeep func(),
	responseDelete func(),
) (*ImagePreview, error) {
	w := &ImagePreview{}
	var err error

	w.ApplicationWindow, err = gtk.ApplicationWindowNew(app)
	if err != nil {
		return nil, err
	}

	previewImage, err := gtk.ImageNewFromPixbuf(pixbuf)
	if err != nil {
		return nil, err
	}

	previewImage.SetHExpand(true)
	previewImage.SetVExpand(true)

	deleteButton, _ := gtk.ButtonNewWithLabel("Delete")
	deleteButton.Connect("clicked", func(button *gtk.Button) {
		if responseDelete != nil {
			responseDelete()
		}
		w.Destroy()
	})

	keepButton, _ := gtk.ButtonNewWithLabel("Keep")
	keepButton.Connect("clicked", func(button *gtk.Button) {
		if responseKeep != nil {
			responseKeep()
		}
		w.Destroy()
	})

	grid, _ := gtk.GridNew()
	grid.Attach(previewImage, 0, 0, 5, 1)
	grid.Attach(keepButton, 0, 1, 1, 1)
	grid.Attach(deleteButton, 4, 1, 1, 1)

	w.Add(grid)

	return w, nil
}

type ImagePreview struct {
	*gtk.ApplicationWindow
}
