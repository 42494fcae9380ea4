package backend

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/svgraster/pkg/errors"
	"github.com/matzehuels/svgraster/pkg/observability"
	"github.com/matzehuels/svgraster/pkg/raster"
)

// Temp file naming.
const (
	svgTempPrefix = "svgraster_svg_"
	pngTempPrefix = "svgraster_png_"
)

// ExternalOption configures an External backend.
type ExternalOption func(*External)

// WithTool sets the rasterizer executable (default rsvg-convert).
func WithTool(tool string) ExternalOption {
	return func(e *External) {
		if tool != "" {
			e.tool = tool
		}
	}
}

// WithTempDir sets the directory for the input and output files
// (default os.TempDir()).
func WithTempDir(dir string) ExternalOption {
	return func(e *External) { e.tempDir = dir }
}

// WithTimeout bounds each rasterizer run. Zero, the default, means the call
// blocks until the process exits or ctx is done.
func WithTimeout(d time.Duration) ExternalOption {
	return func(e *External) { e.timeout = d }
}

// External renders by running rsvg-convert on temporary files.
// Callers should only use it when a Prober reports the tool available.
type External struct {
	tool    string
	tempDir string
	timeout time.Duration
	logger  *log.Logger
}

// NewExternal creates an external-process backend.
func NewExternal(logger *log.Logger, opts ...ExternalOption) *External {
	if logger == nil {
		logger = log.Default()
	}
	e := &External{tool: DefaultTool, logger: logger}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Kind returns KindExternal.
func (e *External) Kind() Kind { return KindExternal }

// Args returns the rasterizer arguments for req.
func Args(req Request, in, out string) []string {
	return []string{
		fmt.Sprintf("--width=%d", req.Width),
		fmt.Sprintf("--height=%d", req.Height),
		fmt.Sprintf("--dpi-x=%d", req.DPI),
		fmt.Sprintf("--dpi-y=%d", req.DPI),
		"--format=png",
		"--output=" + out,
		in,
	}
}

// Render writes the SVG to a temp file, runs the rasterizer and decodes its
// PNG output. A non-zero exit or a missing output file fails the call with
// EXTERNAL_TOOL_FAILURE; nothing is retried. Both temp files are removed on
// every path. A removal failure is logged and joined onto a render failure,
// but never turns a successful render into an error.
func (e *External) Render(ctx context.Context, req Request) (native *raster.Native, err error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	scope := newTempScope(e.tempDir)
	defer func() {
		cerr := scope.release(func(path string, rerr error) {
			e.logger.Warn("failed to remove temp file", "path", path, "err", rerr)
			observability.Render().OnCleanupError(ctx, path, rerr)
		})
		if cerr != nil && err != nil {
			err = stderrors.Join(err, errors.Wrap(errors.ErrCodeTempResource, cerr, "remove temp files"))
		}
	}()

	in, err := scope.write(svgTempPrefix, ".svg", []byte(req.SVG))
	if err != nil {
		return nil, err
	}
	out := scope.reserve(pngTempPrefix, ".png")

	output, err := e.run(ctx, Args(req, in, out))
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExternalTool,
			&errors.ExternalToolError{Tool: e.tool, ExitCode: 0, Output: output},
			"no output file written")
	}

	data, err := os.ReadFile(out)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeTempResource, err, "read output %s", out)
	}
	native, err = raster.DecodeLossless(data)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("external rasterizer finished", "tool", e.tool, "bytes", len(data), "bounds", native.Bounds())
	return native, nil
}

// run executes the tool and returns its combined output.
func (e *External) run(ctx context.Context, args []string) (string, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	e.logger.Debug("running external rasterizer", "tool", e.tool, "args", strings.Join(args, " "))
	out, err := exec.CommandContext(ctx, e.tool, args...).CombinedOutput()
	output := strings.TrimSpace(string(out))
	if err == nil {
		return output, nil
	}

	toolErr := &errors.ExternalToolError{Tool: e.tool, ExitCode: -1, Output: output}
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		toolErr.ExitCode = exitErr.ExitCode()
	} else if toolErr.Output == "" {
		toolErr.Output = err.Error()
	}

	switch {
	case stderrors.Is(ctx.Err(), context.DeadlineExceeded):
		return "", errors.Wrap(errors.ErrCodeTimeout, toolErr, "rasterizer deadline exceeded")
	case ctx.Err() != nil:
		return "", ctx.Err()
	}
	return "", errors.Wrap(errors.ErrCodeExternalTool, toolErr, "rasterize")
}

var _ Backend = (*External)(nil)
