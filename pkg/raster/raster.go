package raster

import (
	"image"

	"github.com/disintegration/imaging"
)

// Native is a backend-owned raster. Its pixels are non-premultiplied so that
// alpha values survive the lossless interchange unchanged.
type Native struct {
	img *image.NRGBA
}

// NewNative takes ownership of img. Images that are not already NRGBA are
// converted.
func NewNative(img image.Image) *Native {
	if n, ok := img.(*image.NRGBA); ok {
		return &Native{img: n}
	}
	return &Native{img: imaging.Clone(img)}
}

// Image returns the underlying pixels, or nil once released.
func (n *Native) Image() *image.NRGBA { return n.img }

// Bounds returns the pixel bounds; empty once released.
func (n *Native) Bounds() image.Rectangle {
	if n.img == nil {
		return image.Rectangle{}
	}
	return n.img.Bounds()
}

// Release drops the pixel buffer. It is safe to call more than once.
func (n *Native) Release() { n.img = nil }

// Released reports whether Release has been called.
func (n *Native) Released() bool { return n.img == nil }

// Bitmap is the destination raster handed to callers and output encoders.
type Bitmap struct {
	img *image.NRGBA
}

// Image returns the bitmap pixels, or nil once released.
func (b *Bitmap) Image() *image.NRGBA { return b.img }

// Width returns the bitmap width in pixels.
func (b *Bitmap) Width() int { return b.Bounds().Dx() }

// Height returns the bitmap height in pixels.
func (b *Bitmap) Height() int { return b.Bounds().Dy() }

// Bounds returns the pixel bounds; empty once released.
func (b *Bitmap) Bounds() image.Rectangle {
	if b.img == nil {
		return image.Rectangle{}
	}
	return b.img.Bounds()
}

// Opaque reports whether every pixel has alpha 255.
func (b *Bitmap) Opaque() bool {
	return b.img != nil && b.img.Opaque()
}

// Release drops the pixel buffer. It is safe to call more than once.
func (b *Bitmap) Release() { b.img = nil }

// Released reports whether Release has been called.
func (b *Bitmap) Released() bool { return b.img == nil }
