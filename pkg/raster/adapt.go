package raster

import (
	"github.com/matzehuels/svgraster/pkg/errors"
)

// Adapt converts a native raster into a destination bitmap through the PNG
// interchange. n is released right after encoding, on success and failure
// alike; the caller owns the returned bitmap.
func Adapt(n *Native) (*Bitmap, error) {
	if n == nil || n.Released() {
		return nil, errors.New(errors.ErrCodeInternal, "adapt of released raster")
	}
	data, err := EncodeLossless(n)
	n.Release()
	if err != nil {
		return nil, err
	}

	img, err := decodePNG(data)
	if err != nil {
		return nil, err
	}
	return &Bitmap{img: img}, nil
}
