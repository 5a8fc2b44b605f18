package snapshot

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stewi1014/glmandel/programs"
	"github.com/stewi1014/glmandel/viewport"
)

func mandelbrot(t *testing.T) programs.Program {
	t.Helper()
	p, err := programs.GetProgram("mandelbrot")
	require.NoError(t, err)
	return p
}

func TestRenderInsideSet(t *testing.T) {
	img, err := Render(context.Background(), Options{
		Program:       mandelbrot(t),
		Window:        viewport.Window{MinReal: -0.6, MaxReal: -0.4, MinImg: -0.1, MaxImg: 0.1},
		Width:         40,
		Height:        70,
		MaxIterations: 100,
		Workers:       3,
	})
	require.NoError(t, err)
	require.Equal(t, 40, img.Bounds().Dx())
	require.Equal(t, 70, img.Bounds().Dy())

	want := toNRGBA(programs.NullColour)
	for y := 0; y < 70; y++ {
		for x := 0; x < 40; x++ {
			require.Equal(t, want, img.NRGBAAt(x, y), "pixel %d,%d", x, y)
		}
	}
}

func TestRenderProgress(t *testing.T) {
	var progress Progress
	assert.Zero(t, progress.Fraction())

	_, err := Render(context.Background(), Options{
		Program:       mandelbrot(t),
		Window:        viewport.New(16, 100, -2, 2),
		Width:         16,
		Height:        100,
		MaxIterations: 20,
		Progress:      &progress,
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, progress.Fraction())
}

func TestRenderSupersampled(t *testing.T) {
	p := mandelbrot(t)
	uniforms := programs.Uniforms{MaxIterationCount: 50}
	escaped := toNRGBA(p.GetPixel(uniforms, complex(3.5, 3.5)))

	img, err := Render(context.Background(), Options{
		Program:       p,
		Window:        viewport.Window{MinReal: 3, MaxReal: 4, MinImg: 3, MaxImg: 4},
		Width:         5,
		Height:        5,
		MaxIterations: 50,
		Supersample:   3,
	})
	require.NoError(t, err)
	require.Equal(t, 5, img.Bounds().Dx())

	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			got := img.NRGBAAt(x, y)
			assert.InDelta(t, escaped.R, got.R, 1)
			assert.InDelta(t, escaped.G, got.G, 1)
			assert.InDelta(t, escaped.B, got.B, 1)
		}
	}
}

func TestRenderErrors(t *testing.T) {
	_, err := Render(context.Background(), Options{Program: mandelbrot(t), Width: 0, Height: 10})
	require.ErrorIs(t, err, ErrEmptyImage)

	_, err = Render(context.Background(), Options{Program: mandelbrot(t), Width: 4, Height: 4})
	require.ErrorIs(t, err, viewport.ErrInvalidWindow)

	_, err = Render(context.Background(), Options{
		Program: programs.Program{Name: "gpu-only"},
		Window:  viewport.New(1, 1, -2, 2),
		Width:   1,
		Height:  1,
	})
	require.ErrorIs(t, err, programs.ErrNoCPUImplementation)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Render(ctx, Options{
		Program:       mandelbrot(t),
		Window:        viewport.New(64, 64, -2, 2),
		Width:         64,
		Height:        64,
		MaxIterations: 10,
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "view.png")
	err := Save(context.Background(), path, Options{
		Program:       mandelbrot(t),
		Window:        viewport.New(32, 24, -2, 2),
		Width:         32,
		Height:        24,
		MaxIterations: 64,
	})
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 24, img.Bounds().Dy())
}

func TestSaveFailureKeepsExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mandelbrot.png")
	require.NoError(t, os.WriteFile(path, []byte("previous render"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Save(ctx, path, Options{
		Program:       mandelbrot(t),
		Window:        viewport.New(32, 24, -2, 2),
		Width:         32,
		Height:        24,
		MaxIterations: 64,
	})
	require.ErrorIs(t, err, context.Canceled)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous render", string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files left behind")
}

func TestSaveReplacesExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mandelbrot.png")
	require.NoError(t, os.WriteFile(path, []byte("previous render"), 0o644))

	require.NoError(t, Save(context.Background(), path, Options{
		Program:       mandelbrot(t),
		Window:        viewport.New(16, 16, -2, 2),
		Width:         16,
		Height:        16,
		MaxIterations: 32,
	}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	_, err = png.Decode(f)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSaveFailureCreatesNothing(t *testing.T) {
	dir := t.TempDir()
	err := Save(context.Background(), filepath.Join(dir, "view.png"), Options{
		Program: programs.Program{Name: "gpu-only"},
		Window:  viewport.New(8, 8, -2, 2),
		Width:   8,
		Height:  8,
	})
	require.ErrorIs(t, err, programs.ErrNoCPUImplementation)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
