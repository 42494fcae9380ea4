// Package pkg provides the core libraries for svgraster label rasterization.
//
// # Overview
//
// svgraster turns SVG label documents into fixed-size print rasters. The pkg
// directory is organized into three main areas:
//
//  1. [backend] - Rasterization strategies and the capability probe
//  2. [pipeline] - Backend selection and the render entry point
//  3. [raster] and [sink] - Pixel types, interchange and file output
//
// # Architecture
//
// The typical data flow through svgraster:
//
//	SVG document + label size
//	         ↓
//	    [pipeline] package (probe once, pick one backend)
//	         ↓
//	    [backend] package (rsvg-convert or oksvg + Lanczos + white flatten)
//	         ↓
//	    [raster] package (lossless PNG interchange into a Bitmap)
//	         ↓
//	    [sink] package (PNG/JPEG file)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/svgraster/pkg/backend"
//	    "github.com/matzehuels/svgraster/pkg/pipeline"
//	    "github.com/matzehuels/svgraster/pkg/sink"
//	)
//
//	runner := pipeline.NewRunner(backend.NewCapability("", logger), logger)
//	size := pipeline.DefaultLabelSize() // 4x6 in at 300 dpi
//	bmp, err := runner.Render(ctx, size.Request(svg))
//	if err != nil {
//	    return err
//	}
//	defer bmp.Release()
//	err = sink.Write(bmp, "label.png")
//
// # Main Packages
//
// [backend] - The External backend runs rsvg-convert against temporary files;
// the Library backend renders in-process. [backend.Capability] decides once
// whether the external tool can run.
//
// [pipeline] - [pipeline.Runner] validates requests, selects exactly one
// backend by availability, enforces the requested size and adapts the result.
// Optional raster caching and an opt-in fallback policy live here.
//
// [raster] - Native and Bitmap pixel types and the PNG interchange between
// them.
//
// [sink] - PNG and JPEG file encoders.
//
// ## Supporting Packages
//
// [cache] - File-backed raster cache keyed by request and backend.
//
// [errors] - Structured errors with machine-readable codes.
//
// [observability] - Hooks for probe, render and cache events.
//
// [buildinfo] - Version information injected at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...               # All tests
//	go test ./pkg/backend/...       # Specific package
//
// Tests for the external backend use shell scripts named rsvg-convert and
// skip on Windows.
//
// [backend]: https://pkg.go.dev/github.com/matzehuels/svgraster/pkg/backend
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/svgraster/pkg/pipeline
// [raster]: https://pkg.go.dev/github.com/matzehuels/svgraster/pkg/raster
// [sink]: https://pkg.go.dev/github.com/matzehuels/svgraster/pkg/sink
// [cache]: https://pkg.go.dev/github.com/matzehuels/svgraster/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/svgraster/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/svgraster/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/svgraster/pkg/buildinfo
// [backend.Capability]: https://pkg.go.dev/github.com/matzehuels/svgraster/pkg/backend#Capability
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/svgraster/pkg/pipeline#Runner
package pkg
