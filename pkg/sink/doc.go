// Package sink writes rendered label bitmaps to PNG and JPEG files.
//
// A sink is the last consumer of a [raster.Bitmap]. It reads the pixels and
// leaves the bitmap alone; releasing it is up to the caller:
//
//	bmp, err := runner.Render(ctx, req)
//	if err != nil {
//	    return err
//	}
//	defer bmp.Release()
//	err = sink.Write(bmp, "label.jpg", sink.WithQuality(90))
//
// # Formats
//
// [Write] picks the encoder from the file extension (.png, .jpg, .jpeg).
// [WritePNG] and [WriteJPEG] force one. PNG output is lossless at any
// compression level; JPEG quality trades size for fidelity.
//
// [raster.Bitmap]: github.com/matzehuels/svgraster/pkg/raster.Bitmap
package sink
