package pipeline

import (
	"context"
	"math"

	"github.com/matzehuels/svgraster/pkg/backend"
	"github.com/matzehuels/svgraster/pkg/errors"
	"github.com/matzehuels/svgraster/pkg/raster"
)

// Default label geometry: a 4x6 inch shipping label at 300 dpi.
const (
	DefaultWidthInches  = 4.0
	DefaultHeightInches = 6.0
	DefaultDPI          = 300
)

// LabelSize is the physical size of a label and the print resolution.
type LabelSize struct {
	WidthInches  float64 `toml:"width_inches" json:"width_inches"`
	HeightInches float64 `toml:"height_inches" json:"height_inches"`
	DPI          int     `toml:"dpi" json:"dpi"`
}

// DefaultLabelSize returns the 4x6 inch, 300 dpi default.
func DefaultLabelSize() LabelSize {
	return LabelSize{WidthInches: DefaultWidthInches, HeightInches: DefaultHeightInches, DPI: DefaultDPI}
}

// Pixels returns the pixel size, rounding each side to the nearest pixel.
func (s LabelSize) Pixels() (int, int) {
	return int(math.Round(s.WidthInches * float64(s.DPI))), int(math.Round(s.HeightInches * float64(s.DPI)))
}

// Request builds a render request for svg at this size.
func (s LabelSize) Request(svg string) backend.Request {
	w, h := s.Pixels()
	return backend.Request{SVG: svg, Width: w, Height: h, DPI: s.DPI}
}

// Validate checks the label has positive dimensions and resolution.
func (s LabelSize) Validate() error {
	if s.WidthInches <= 0 || s.HeightInches <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "invalid label size %gx%g in", s.WidthInches, s.HeightInches)
	}
	if s.DPI < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "invalid dpi %d (must be positive)", s.DPI)
	}
	return nil
}

// Composer turns a label description into SVG for a given label size.
type Composer interface {
	Compose(ctx context.Context, label string, size LabelSize) (string, error)
}

// ComposerFunc adapts a function to a Composer.
type ComposerFunc func(ctx context.Context, label string, size LabelSize) (string, error)

// Compose calls f.
func (f ComposerFunc) Compose(ctx context.Context, label string, size LabelSize) (string, error) {
	return f(ctx, label, size)
}

// Convert composes label into SVG and renders it at size.
func (r *Runner) Convert(ctx context.Context, c Composer, label string, size LabelSize) (*raster.Bitmap, error) {
	if err := size.Validate(); err != nil {
		return nil, err
	}
	svg, err := c.Compose(ctx, label, size)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "compose label")
	}
	return r.Render(ctx, size.Request(svg))
}
