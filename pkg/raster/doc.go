// Package raster holds the pixel types that flow through the svgraster
// pipeline and the adapter that moves pixels between them.
//
// # Ownership
//
// A [Native] raster is produced by a backend and is owned by the render call
// that created it until it is handed to [Adapt], which consumes it: the
// native pixels are released as soon as they have been encoded. The [Bitmap]
// returned by Adapt belongs to the caller, who releases it once an output
// encoder has consumed it.
//
//	native, err := backend.Render(ctx, req)
//	bmp, err := raster.Adapt(native) // native is released here
//	defer bmp.Release()
//
// # Interchange
//
// Backends and consumers never share pixel buffers. The only interchange is
// a PNG byte stream ([EncodeLossless] / [DecodeLossless]), which preserves
// every channel value including alpha.
package raster
