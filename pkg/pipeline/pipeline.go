// Package pipeline is the render entry point of svgraster.
//
// A [Runner] takes a [backend.Request], picks exactly one backend from the
// capability probe, renders, checks the raster has the requested size and
// adapts it into a caller-owned [raster.Bitmap]:
//
//	runner := pipeline.NewRunner(backend.NewCapability("", logger), logger)
//	bmp, err := runner.Render(ctx, backend.Request{SVG: svg, Width: 1200, Height: 1800, DPI: 300})
//	if err != nil {
//	    return err
//	}
//	defer bmp.Release()
//
// # Selection
//
// Selection is by availability, evaluated once per call. When the external
// tool is available it runs and its outcome is final; the library backend
// only runs when the tool is unavailable. [FallbackToLibrary] changes that
// and must be asked for explicitly.
package pipeline

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/svgraster/pkg/backend"
	"github.com/matzehuels/svgraster/pkg/cache"
)

// FallbackPolicy decides what happens when the chosen external backend fails.
type FallbackPolicy int

const (
	// NoFallback returns the external backend's failure as is.
	NoFallback FallbackPolicy = iota

	// FallbackToLibrary retries a failed external render once with the
	// library backend. This departs from availability-only selection.
	FallbackToLibrary
)

// DefaultFallbackPolicy is the policy a Runner starts with.
const DefaultFallbackPolicy = NoFallback

// String returns the policy name used in config files and flags.
func (p FallbackPolicy) String() string {
	switch p {
	case NoFallback:
		return "none"
	case FallbackToLibrary:
		return "library"
	}
	return "unknown"
}

// ParseFallbackPolicy parses a policy name ("none" or "library").
func ParseFallbackPolicy(s string) (FallbackPolicy, bool) {
	switch s {
	case "", "none":
		return NoFallback, true
	case "library":
		return FallbackToLibrary, true
	}
	return NoFallback, false
}

// Runner renders requests. It holds no per-call state, so one Runner can
// serve concurrent calls; the only shared state is the Prober's cached result.
type Runner struct {
	Prober   backend.Prober
	External backend.Backend
	Library  backend.Backend
	Cache    cache.Cache
	Policy   FallbackPolicy
	Logger   *log.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithExternal replaces the external backend.
func WithExternal(b backend.Backend) Option {
	return func(r *Runner) { r.External = b }
}

// WithLibrary replaces the library backend.
func WithLibrary(b backend.Backend) Option {
	return func(r *Runner) { r.Library = b }
}

// WithCache enables caching of rendered rasters.
func WithCache(c cache.Cache) Option {
	return func(r *Runner) { r.Cache = c }
}

// WithFallbackPolicy sets the policy for failed external renders.
func WithFallbackPolicy(p FallbackPolicy) Option {
	return func(r *Runner) { r.Policy = p }
}

// NewRunner creates a runner that consults prober once per call.
// Unset backends default to rsvg-convert and the in-process library; the
// cache defaults to a NullCache.
func NewRunner(prober backend.Prober, logger *log.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	r := &Runner{
		Prober: prober,
		Policy: DefaultFallbackPolicy,
		Logger: logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Prober == nil {
		r.Prober = backend.NewCapability("", logger)
	}
	if r.External == nil {
		r.External = backend.NewExternal(logger)
	}
	if r.Library == nil {
		r.Library = backend.NewLibrary(logger)
	}
	if r.Cache == nil {
		r.Cache = cache.NewNullCache()
	}
	return r
}
