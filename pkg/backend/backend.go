// Package backend implements the interchangeable SVG rasterization
// strategies and the capability probe that decides between them.
//
// # Backends
//
//   - [External] runs rsvg-convert against a pair of temporary files.
//   - [Library] renders in-process with oksvg/rasterx, resamples with a
//     Lanczos filter and flattens onto white.
//
// Both return a [raster.Native] whose dimensions equal the request exactly.
//
// # Capability
//
// A [Capability] resolves the external tool once per value and caches the
// answer. Construct one at startup and pass it to whatever selects backends;
// [Static] gives a fixed answer for tests.
package backend

import (
	"context"

	"github.com/matzehuels/svgraster/pkg/errors"
	"github.com/matzehuels/svgraster/pkg/raster"
)

// Kind names a rasterization backend.
type Kind string

// Backend kinds.
const (
	KindExternal Kind = "external"
	KindLibrary  Kind = "library"
)

// DefaultTool is the external rasterizer executable.
const DefaultTool = "rsvg-convert"

// Backend renders SVG documents to native rasters.
type Backend interface {
	Kind() Kind
	Render(ctx context.Context, req Request) (*raster.Native, error)
}

// Request is a single render. Width and Height are in pixels and are derived
// by the caller from physical size and DPI.
type Request struct {
	SVG    string
	Width  int
	Height int
	DPI    int
}

// Validate checks that the request can be rendered.
func (r Request) Validate() error {
	if r.SVG == "" {
		return errors.New(errors.ErrCodeInvalidInput, "svg content is empty")
	}
	if r.Width < 1 || r.Height < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "invalid size %dx%d (must be at least 1x1)", r.Width, r.Height)
	}
	if r.DPI < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "invalid dpi %d (must be positive)", r.DPI)
	}
	return nil
}

// Descriptor reports whether a backend can run in this process.
type Descriptor struct {
	Kind      Kind `json:"name"`
	Available bool `json:"available"`
}

// Describe lists both backends with their availability.
// The library backend has no external dependency and is always available.
func Describe(ctx context.Context, p Prober) []Descriptor {
	return []Descriptor{
		{Kind: KindExternal, Available: p.Available(ctx)},
		{Kind: KindLibrary, Available: true},
	}
}
