package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/svgraster/pkg/errors"
	"github.com/matzehuels/svgraster/pkg/pipeline"
	"github.com/matzehuels/svgraster/pkg/sink"
)

// stdio is the file argument for standard input and output.
const stdio = "-"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string        // output file path, "-" for stdout
	config      string        // config file path
	width       float64       // label width in inches
	height      float64       // label height in inches
	dpi         int           // print resolution
	format      string        // output format: png or jpeg
	quality     int           // jpeg quality 1-100
	compression int           // png compression level 0-9
	tool        string        // rasterizer executable
	timeout     time.Duration // per-run limit for the rasterizer
	fallback    string        // fallback policy: none or library
	noCache     bool          // bypass the raster cache
	formatSet   bool          // --format given on the command line
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file.svg]",
		Short: "Rasterize an SVG label to PNG or JPEG",
		Long: `Rasterize an SVG label to a fixed-size PNG or JPEG.

The pixel size is the label size in inches times the DPI, 4x6 inches at
300 dpi (1200x1800) by default. Use "-" to read the SVG from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, &opts)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], cfg, &opts)
		},
	}

	def := DefaultConfig()
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input name with the format's extension, - for stdout)")
	cmd.Flags().StringVar(&opts.config, "config", "", "config file (default ~/.config/svgraster/config.toml)")
	cmd.Flags().Float64Var(&opts.width, "width", def.Label.WidthInches, "label width in inches")
	cmd.Flags().Float64Var(&opts.height, "height", def.Label.HeightInches, "label height in inches")
	cmd.Flags().IntVar(&opts.dpi, "dpi", def.Label.DPI, "print resolution in dots per inch")
	cmd.Flags().StringVarP(&opts.format, "format", "f", def.Format, "output format: png, jpeg")
	cmd.Flags().IntVar(&opts.quality, "quality", def.Quality, "jpeg quality (1-100)")
	cmd.Flags().IntVar(&opts.compression, "compression", def.CompressionLevel, "png compression level (0-9)")
	cmd.Flags().StringVar(&opts.tool, "tool", "", "rasterizer executable (default rsvg-convert)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "limit for one rasterizer run (0 waits indefinitely)")
	cmd.Flags().StringVar(&opts.fallback, "fallback", def.Fallback, "on rasterizer failure: none, library")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the raster cache")

	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions([]string{"png", "jpeg"}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("fallback", cobra.FixedCompletions(fallbackNames(), cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// resolveConfig loads the config file and applies the flags that were set.
func resolveConfig(cmd *cobra.Command, opts *renderOpts) (Config, error) {
	path, explicit := opts.config, opts.config != ""
	if !explicit {
		var err error
		if path, err = configPath(); err != nil {
			return DefaultConfig(), nil
		}
	}
	cfg, err := loadConfig(path, explicit)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Label.WidthInches = opts.width
	}
	if flags.Changed("height") {
		cfg.Label.HeightInches = opts.height
	}
	if flags.Changed("dpi") {
		cfg.Label.DPI = opts.dpi
	}
	if flags.Changed("format") {
		cfg.Format = opts.format
		opts.formatSet = true
	}
	if flags.Changed("quality") {
		cfg.Quality = opts.quality
	}
	if flags.Changed("compression") {
		cfg.CompressionLevel = opts.compression
	}
	if flags.Changed("tool") {
		cfg.Tool = opts.tool
	}
	if flags.Changed("timeout") {
		cfg.Timeout = Duration{opts.timeout}
	}
	if flags.Changed("fallback") {
		cfg.Fallback = opts.fallback
	}
	return cfg, cfg.validate()
}

// runRender reads the SVG, renders it and writes the encoded bitmap.
func (c *CLI) runRender(ctx context.Context, input string, cfg Config, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	svg, err := readInput(input)
	if err != nil {
		return err
	}
	format, err := outputFormat(cfg, opts)
	if err != nil {
		return err
	}
	output := opts.output
	if output == "" {
		output = outputPath(input, format)
	}

	runner, err := c.newRunner(cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	w, h := cfg.Label.Pixels()
	logger.Debug("render settings", "size", cfg.Label, "pixels", [2]int{w, h}, "format", format, "output", output)

	name := displayName(input)
	spin := startSpinner(ctx, os.Stderr, "Rendering "+name+"...")
	res, err := runner.Execute(ctx, cfg.Label.Request(svg))
	if err != nil {
		spin.fail("Failed to render %s", name)
		return err
	}
	defer res.Bitmap.Release()

	if err := writeOutput(res, output, format, cfg); err != nil {
		spin.fail("Failed to write %s", displayName(output))
		return err
	}
	spin.succeed("Rendered %s with the %s backend%s", name, res.Backend, cacheNote(res.CacheHit))

	if output != stdio {
		printFile(output)
		printRenderStats(res)
	}
	return nil
}

// writeOutput encodes the bitmap to output, or stdout for "-".
func writeOutput(res *pipeline.Result, output string, format sink.Format, cfg Config) error {
	encOpts := []sink.Option{sink.WithQuality(cfg.Quality), sink.WithCompressionLevel(cfg.CompressionLevel)}
	switch {
	case output == stdio:
		return sink.Encode(os.Stdout, res.Bitmap, format, encOpts...)
	case format == sink.JPEG:
		return sink.WriteJPEG(res.Bitmap, output, encOpts...)
	default:
		return sink.WritePNG(res.Bitmap, output, encOpts...)
	}
}

// outputFormat picks the encoder. An explicit --format wins; otherwise a
// recognized -o extension decides, then the configured format.
func outputFormat(cfg Config, opts *renderOpts) (sink.Format, error) {
	if !opts.formatSet && opts.output != "" && opts.output != stdio {
		if f, err := sink.ParseFormat(filepath.Ext(opts.output)); err == nil {
			return f, nil
		}
	}
	return sink.ParseFormat(cfg.Format)
}

func cacheNote(hit bool) string {
	if hit {
		return " (cached)"
	}
	return ""
}

// readInput reads the SVG from path, or stdin for "-".
func readInput(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == stdio {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, err, "read %s", displayName(path))
	}
	return string(data), nil
}

// outputPath derives the output file from the input: label.svg -> label.png.
// Stdin input writes to stdout.
func outputPath(input string, format sink.Format) string {
	if input == stdio {
		return stdio
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + sink.Extension(format)
}

func displayName(path string) string {
	if path == stdio {
		return "stdin"
	}
	return filepath.Base(path)
}

func fallbackNames() []string {
	return []string{pipeline.NoFallback.String(), pipeline.FallbackToLibrary.String()}
}
