package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/stewi1014/glmandel/config"
	"github.com/stewi1014/glmandel/programs"
	"github.com/stewi1014/glmandel/snapshot"
	"github.com/stewi1014/glmandel/viewport"
)

const appID = "com.github.stewi1014.glmandel"

func init() {
	// GTK and GLFW both require the main thread.
	runtime.LockOSThread()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("glmandel failed", "err", err)
		stop()
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cfg := config.Default()
	var configPath string

	cmd := &cobra.Command{
		Use:   "glmandel",
		Short: "Interactive GPU Mandelbrot viewer",
		Long: `glmandel renders the Mandelbrot set with an OpenGL fragment shader.
Drag with the primary button to pan and scroll to zoom.`,
		Example: `  # Open the viewer
  glmandel

  # Use GLFW instead of GTK and start with more iterations
  glmandel --backend glfw --iterations 800

  # Render the default view to a PNG on the CPU
  glmandel snapshot --out mandelbrot.png --supersample 2`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				if err := applyConfigFile(cmd.Flags(), configPath, &cfg); err != nil {
					return err
				}
			}
			setupLogging(cfg.Debug)
			return cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runViewer(cmd.Context(), cfg)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "TOML config file; flags override its values")
	flags.StringVar(&cfg.Program, "program", cfg.Program,
		fmt.Sprintf("fractal program to render (one of: %s)", strings.Join(programs.Names(), ", ")))
	flags.StringVar(&cfg.ShaderDir, "shader-dir", cfg.ShaderDir, "directory holding <program>.vert and <program>.frag (default: built in)")
	flags.IntVar(&cfg.Width, "width", cfg.Width, "surface width in pixels")
	flags.IntVar(&cfg.Height, "height", cfg.Height, "surface height in pixels")
	flags.Float64Var(&cfg.MinReal, "min-real", cfg.MinReal, "left edge of the initial view")
	flags.Float64Var(&cfg.MaxReal, "max-real", cfg.MaxReal, "right edge of the initial view")
	flags.IntVarP(&cfg.Iterations, "iterations", "i", cfg.Iterations, "maximum iteration count")
	flags.BoolVarP(&cfg.Debug, "debug", "d", cfg.Debug, "enable debug logging and GL debug output")

	cmd.Flags().StringVar(&cfg.Backend, "backend", cfg.Backend, "window backend: gtk or glfw")
	cmd.Flags().IntVar(&cfg.IterationsMin, "iterations-min", cfg.IterationsMin, "lower bound of the iterations control")
	cmd.Flags().IntVar(&cfg.IterationsMax, "iterations-max", cfg.IterationsMax, "upper bound of the iterations control")
	cmd.Flags().IntVar(&cfg.IterationsStep, "iterations-step", cfg.IterationsStep, "iterations change per step")
	cmd.Flags().DurationVar(&cfg.FPSInterval.Duration, "fps-interval", cfg.FPSInterval.Duration, "frame rate averaging window")

	cmd.AddCommand(snapshotCmd(&cfg))
	return cmd
}

func snapshotCmd(cfg *config.Config) *cobra.Command {
	var (
		out         string
		centerReal  float64
		centerImg   float64
		span        float64
		supersample int
		workers     int
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render a view on the CPU and write it as PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			program, err := programs.GetProgram(cfg.Program)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("center-real") {
				centerReal = 0.5 * (cfg.MinReal + cfg.MaxReal)
			}
			if !cmd.Flags().Changed("span") {
				span = cfg.MaxReal - cfg.MinReal
			}
			if span <= 0 {
				return fmt.Errorf("span %v must be positive", span)
			}

			window := viewport.New(cfg.Width, cfg.Height, centerReal-span/2, centerReal+span/2)
			window.MinImg += centerImg
			window.MaxImg += centerImg

			return snapshot.Save(cmd.Context(), out, snapshot.Options{
				Program:       program,
				Window:        window,
				Width:         cfg.Width,
				Height:        cfg.Height,
				MaxIterations: cfg.Iterations,
				Supersample:   supersample,
				Workers:       workers,
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "mandelbrot.png", "output file")
	cmd.Flags().Float64Var(&centerReal, "center-real", 0, "real part of the view centre (default: middle of min-real and max-real)")
	cmd.Flags().Float64Var(&centerImg, "center-img", 0, "imaginary part of the view centre")
	cmd.Flags().Float64Var(&span, "span", 0, "width of the view on the real axis (default: max-real - min-real)")
	cmd.Flags().IntVar(&supersample, "supersample", 1, "samples per pixel along each axis")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel render bands (default: GOMAXPROCS)")
	return cmd
}

// applyConfigFile loads path into cfg and then reapplies every flag given on
// the command line so flags win over the file.
func applyConfigFile(flags *pflag.FlagSet, path string, cfg *config.Config) error {
	loaded, err := config.Load(path)
	if err != nil {
		return err
	}

	changed := map[string]string{}
	flags.Visit(func(f *pflag.Flag) {
		changed[f.Name] = f.Value.String()
	})

	*cfg = loaded
	for name, value := range changed {
		if err := flags.Set(name, value); err != nil {
			return fmt.Errorf("flag --%s: %w", name, err)
		}
	}
	return nil
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	})))
}

func loadProgram(ctx context.Context, cfg config.Config) (programs.Program, error) {
	program, err := programs.GetProgram(cfg.Program)
	if err != nil {
		return program, err
	}

	fsys := programs.Shaders()
	if cfg.ShaderDir != "" {
		fsys = os.DirFS(cfg.ShaderDir)
	}

	program, err = program.Load(ctx, fsys)
	if err != nil {
		return program, fmt.Errorf("%s: %w", program.Name, err)
	}
	return program, nil
}

func runViewer(ctx context.Context, cfg config.Config) error {
	program, err := loadProgram(ctx, cfg)
	if err != nil {
		return err
	}

	state := viewport.NewState(cfg.Width, cfg.Height, cfg.MinReal, cfg.MaxReal, cfg.Iterations)

	switch cfg.Backend {
	case config.BackendGLFW:
		err = glfwMain(ctx, cfg, program, state)
	default:
		err = gtkMain(ctx, cfg, program, state)
	}

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
