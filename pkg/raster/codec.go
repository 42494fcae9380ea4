package raster

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"

	"github.com/matzehuels/svgraster/pkg/errors"
)

// EncodeLossless encodes n as PNG. The native raster is left untouched.
func EncodeLossless(n *Native) ([]byte, error) {
	if n == nil || n.Released() {
		return nil, errors.New(errors.ErrCodeInternal, "encode of released raster")
	}
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, n.img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

// DecodeLossless parses a PNG stream into a new native raster.
func DecodeLossless(data []byte) (*Native, error) {
	img, err := decodePNG(data)
	if err != nil {
		return nil, err
	}
	return &Native{img: img}, nil
}

// decodePNG decodes data into non-premultiplied pixels. Opaque PNGs decode
// as RGBA, whose values equal their NRGBA form, so the copy is exact.
func decodePNG(data []byte) (*image.NRGBA, error) {
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeDecode, "empty raster stream")
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "decode png")
	}
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n, nil
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst, nil
}
