package backend

import (
	"context"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/matzehuels/svgraster/pkg/errors"
	"github.com/matzehuels/svgraster/pkg/raster"
)

// Library renders in-process with oksvg. It needs nothing outside the binary
// and is always available.
type Library struct {
	logger *log.Logger
}

// NewLibrary creates an in-process backend.
func NewLibrary(logger *log.Logger) *Library {
	if logger == nil {
		logger = log.Default()
	}
	return &Library{logger: logger}
}

// Kind returns KindLibrary.
func (l *Library) Kind() Kind { return KindLibrary }

// Render rasterizes req.SVG at req.DPI, resamples the result to exactly
// req.Width x req.Height with a Lanczos filter and flattens it onto opaque
// white, so the returned raster has alpha 255 everywhere.
//
// Elements oksvg does not support (text among them) are skipped.
func (l *Library) Render(ctx context.Context, req Request) (*raster.Native, error) {
	if req.Width < 1 || req.Height < 1 {
		return nil, errors.New(errors.ErrCodeResize, "cannot resample to %dx%d", req.Width, req.Height)
	}
	if req.DPI < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid dpi %d (must be positive)", req.DPI)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	svg := expandEntities(req.SVG)
	root, err := parseRoot(svg)
	if err != nil {
		return nil, err
	}
	canvas, err := draw(svg, root, req)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("library engine rendered", "canvas", canvas.Bounds().Size(), "dpi", req.DPI)

	resized := imaging.Resize(canvas, req.Width, req.Height, imaging.Lanczos)
	if b := resized.Bounds(); b.Dx() != req.Width || b.Dy() != req.Height {
		return nil, errors.New(errors.ErrCodeResize, "resampled to %dx%d, want %dx%d", b.Dx(), b.Dy(), req.Width, req.Height)
	}

	flat := imaging.Overlay(imaging.New(req.Width, req.Height, color.White), resized, image.Point{}, 1.0)
	return raster.NewNative(flat), nil
}

// draw runs the vector engine on a canvas sized for req.DPI.
func draw(svg string, root rootInfo, req Request) (img *image.RGBA, err error) {
	// oksvg panics on some malformed path data.
	defer func() {
		if r := recover(); r != nil {
			img, err = nil, errors.New(errors.ErrCodeDecode, "svg engine: %v", r)
		}
	}()

	icon, err := oksvg.ReadIconStream(strings.NewReader(root.withoutSize(svg)), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "parse svg")
	}

	w, h := root.canvasSize(req.DPI, req.Width, req.Height)
	if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
		uw, uh := root.userSize(w, h)
		icon.ViewBox.X, icon.ViewBox.Y = 0, 0
		icon.ViewBox.W, icon.ViewBox.H = uw, uh
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	img = image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)
	return img, nil
}

var _ Backend = (*Library)(nil)

