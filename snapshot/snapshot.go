// Package snapshot renders a view of a fractal program on the CPU.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/stewi1014/glmandel/programs"
	"github.com/stewi1014/glmandel/viewport"
)

const bandHeight = 32

var ErrEmptyImage = errors.New("snapshot size must be positive")

type Options struct {
	Program       programs.Program
	Window        viewport.Window
	Width, Height int
	MaxIterations int

	// Supersample renders Supersample^2 samples per output pixel. Values
	// below 2 disable it.
	Supersample int
	// Workers bounds the number of bands rendered at once. Zero means
	// GOMAXPROCS.
	Workers int
	// Progress, if set, is advanced as rows complete.
	Progress *Progress
}

// Progress counts rendered rows. It is safe to read from another goroutine
// while a render is running.
type Progress struct {
	done  atomic.Int64
	total atomic.Int64
}

// Fraction returns the completed share of the render in [0, 1].
func (p *Progress) Fraction() float64 {
	total := p.total.Load()
	if total == 0 {
		return 0
	}
	return float64(p.done.Load()) / float64(total)
}

// Render evaluates opts.Program over opts.Window.
func Render(ctx context.Context, opts Options) (*image.NRGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyImage, opts.Width, opts.Height)
	}
	if !opts.Window.Valid() {
		return nil, fmt.Errorf("%w: %+v", viewport.ErrInvalidWindow, opts.Window)
	}
	if opts.Program.GetPixel == nil {
		return nil, fmt.Errorf("%s: %w", opts.Program.Name, programs.ErrNoCPUImplementation)
	}

	scale := max(opts.Supersample, 1)
	width, height := opts.Width*scale, opts.Height*scale
	img := image.NewNRGBA(image.Rect(0, 0, width, height))

	uniforms := programs.Uniforms{
		MaxIterationCount: int32(opts.MaxIterations),
		ViewportSize:      mgl32.Vec2{float32(width), float32(height)},
		MinReal:           float32(opts.Window.MinReal),
		MaxReal:           float32(opts.Window.MaxReal),
		MinImg:            float32(opts.Window.MinImg),
		MaxImg:            float32(opts.Window.MaxImg),
	}

	progress := opts.Progress
	if progress == nil {
		progress = &Progress{}
	}
	progress.done.Store(0)
	progress.total.Store(int64(height))

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for bandMin := 0; bandMin < height; bandMin += bandHeight {
		bandMax := min(bandMin+bandHeight, height)
		g.Go(func() error {
			for y := bandMin; y < bandMax; y++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				for x := 0; x < width; x++ {
					c := opts.Program.GetPixel(uniforms, opts.Window.At(x, y, width, height))
					img.SetNRGBA(x, y, toNRGBA(c))
				}
				progress.done.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if scale == 1 {
		return img, nil
	}

	dst := image.NewNRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst, nil
}

func toNRGBA(c mgl32.Vec3) color.NRGBA {
	return color.NRGBA{
		R: uint8(mgl32.Clamp(c[0], 0, 1) * 255),
		G: uint8(mgl32.Clamp(c[1], 0, 1) * 255),
		B: uint8(mgl32.Clamp(c[2], 0, 1) * 255),
		A: 0xff,
	}
}

// Save renders opts and writes a PNG to path. The image goes to a temporary
// file in the same directory which replaces path only once it is complete, so
// a failed or cancelled save leaves any existing file at path untouched.
func Save(ctx context.Context, path string, opts Options) (err error) {
	start := time.Now()

	img, err := Render(ctx, opts)
	if err != nil {
		return err
	}

	file, err := os.CreateTemp(filepath.Dir(path), ".glmandel-*.png")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			file.Close()
			os.Remove(file.Name())
		}
	}()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	// CreateTemp uses 0600
	if err := file.Chmod(0o644); err != nil {
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	if err := os.Rename(file.Name(), path); err != nil {
		return err
	}

	slog.Info("saved snapshot",
		"path", path,
		"width", opts.Width,
		"height", opts.Height,
		"iterations", opts.MaxIterations,
		"took", time.Since(start),
	)
	return nil
}
