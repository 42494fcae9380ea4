package sink

import (
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/svgraster/pkg/errors"
	"github.com/matzehuels/svgraster/pkg/raster"
)

// Format is an output image format.
type Format = imaging.Format

// Supported output formats.
const (
	PNG  = imaging.PNG
	JPEG = imaging.JPEG
)

// Defaults used when no option overrides them.
const (
	DefaultCompressionLevel = 9
	DefaultQuality          = 90
)

// Option configures an encoder.
type Option func(*encoder)

type encoder struct {
	level   int
	quality int
}

// WithCompressionLevel sets the PNG compression level, 0 (none) to 9 (best).
func WithCompressionLevel(level int) Option {
	return func(e *encoder) { e.level = level }
}

// WithQuality sets the JPEG quality, 1 to 100.
func WithQuality(q int) Option {
	return func(e *encoder) { e.quality = q }
}

func newEncoder(opts []Option) (*encoder, error) {
	e := &encoder{level: DefaultCompressionLevel, quality: DefaultQuality}
	for _, opt := range opts {
		opt(e)
	}
	if e.level < 0 || e.level > 9 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid png compression level %d (must be 0-9)", e.level)
	}
	if e.quality < 1 || e.quality > 100 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid jpeg quality %d (must be 1-100)", e.quality)
	}
	return e, nil
}

// options maps the settings onto imaging's encoder options.
func (e *encoder) options() []imaging.EncodeOption {
	return []imaging.EncodeOption{
		imaging.PNGCompressionLevel(pngLevel(e.level)),
		imaging.JPEGQuality(e.quality),
	}
}

// pngLevel buckets a zlib-style 0-9 level into the levels image/png offers.
func pngLevel(level int) png.CompressionLevel {
	switch {
	case level == 0:
		return png.NoCompression
	case level <= 3:
		return png.BestSpeed
	case level <= 6:
		return png.DefaultCompression
	default:
		return png.BestCompression
	}
}

// ParseFormat resolves a format name or file extension ("png", ".jpg", "jpeg").
func ParseFormat(s string) (Format, error) {
	f, err := imaging.FormatFromExtension(strings.TrimPrefix(strings.ToLower(s), "."))
	if err != nil || (f != PNG && f != JPEG) {
		return 0, errors.New(errors.ErrCodeInvalidFormat, "unsupported output format %q (want png or jpeg)", s)
	}
	return f, nil
}

// Extension returns the canonical file extension for f, with the dot.
func Extension(f Format) string {
	if f == JPEG {
		return ".jpg"
	}
	return ".png"
}

// Write encodes bmp to path, choosing the format from the file extension.
func Write(bmp *raster.Bitmap, path string, opts ...Option) error {
	f, err := imaging.FormatFromFilename(path)
	if err != nil || (f != PNG && f != JPEG) {
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported output file %q (want .png, .jpg or .jpeg)", path)
	}
	return save(bmp, path, opts)
}

// WritePNG encodes bmp as PNG to path regardless of its extension.
func WritePNG(bmp *raster.Bitmap, path string, opts ...Option) error {
	return writeAs(bmp, path, PNG, opts)
}

// WriteJPEG encodes bmp as JPEG to path regardless of its extension.
func WriteJPEG(bmp *raster.Bitmap, path string, opts ...Option) error {
	return writeAs(bmp, path, JPEG, opts)
}

// Encode writes bmp to w in format f.
func Encode(w io.Writer, bmp *raster.Bitmap, f Format, opts ...Option) error {
	if err := check(bmp); err != nil {
		return err
	}
	e, err := newEncoder(opts)
	if err != nil {
		return err
	}
	if err := imaging.Encode(w, bmp.Image(), f, e.options()...); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "encode %s", f)
	}
	return nil
}

func save(bmp *raster.Bitmap, path string, opts []Option) error {
	if err := check(bmp); err != nil {
		return err
	}
	e, err := newEncoder(opts)
	if err != nil {
		return err
	}
	if err := imaging.Save(bmp.Image(), path, e.options()...); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}

// writeAs is save for a forced format. imaging.Save infers the format from
// the name, so the file is opened here and encoded explicitly.
func writeAs(bmp *raster.Bitmap, path string, f Format, opts []Option) error {
	if err := check(bmp); err != nil {
		return err
	}
	e, err := newEncoder(opts)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", path)
	}
	if err := imaging.Encode(file, bmp.Image(), f, e.options()...); err != nil {
		file.Close()
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	if err := file.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "close %s", path)
	}
	return nil
}

func check(bmp *raster.Bitmap) error {
	if bmp == nil || bmp.Released() {
		return errors.New(errors.ErrCodeInvalidInput, "bitmap has been released")
	}
	return nil
}
