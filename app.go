package main

import (
	"context"
	"fmt"

	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"

	"github.com/stewi1014/glmandel/config"
	"github.com/stewi1014/glmandel/programs"
	"github.com/stewi1014/glmandel/viewport"
)

func NewApplication(ctx context.Context) (*Application, error) {
	app, err := gtk.ApplicationNew(appID, glib.APPLICATION_FLAGS_NONE)
	if err != nil {
		return nil, fmt.Errorf("gtk.ApplicationNew failed: %w", err)
	}

	a := &Application{
		Application: app,
	}
	a.ctx, a.quit = context.WithCancelCause(ctx)

	return a, nil
}

// Application ties the GTK application lifetime to a context. Cancelling the
// context, or calling quit from any window, stops the main loop.
type Application struct {
	*gtk.Application
	ctx  context.Context
	quit context.CancelCauseFunc
}

// Run blocks in the GTK main loop and returns the cause the application
// stopped with.
func (a *Application) Run() error {
	go func() {
		<-a.ctx.Done()
		glib.IdleAdd(a.Quit)
	}()

	a.Application.Run(nil)
	a.quit(nil)
	return context.Cause(a.ctx)
}

func gtkMain(ctx context.Context, cfg config.Config, program programs.Program, state *viewport.State) error {
	gtk.Init(nil)

	app, err := NewApplication(ctx)
	if err != nil {
		return err
	}

	app.Connect("activate", func() {
		defer CatchPanicToContext(app.quit)

		configWindow, err := NewConfigWindow(app, cfg, state)
		if err != nil {
			app.quit(err)
			return
		}
		configWindow.Connect("destroy", func() {
			app.quit(nil)
		})
		configWindow.SetTitle("glmandel")

		renderWindow, err := NewRenderWindow(app, cfg, program, state)
		if err != nil {
			app.quit(err)
			return
		}
		renderWindow.Connect("destroy", func() {
			app.quit(nil)
		})
		renderWindow.SetTitle(fmt.Sprintf("glmandel | %s", program.Name))
		renderWindow.OnFPS = configWindow.SetFPS

		configWindow.OnSave = func() {
			saveSnapshot(app, renderWindow.ApplicationWindow, snapshotOptions(program, state))
		}
	})

	return app.Run()
}
