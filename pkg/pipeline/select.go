package pipeline

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/matzehuels/svgraster/pkg/backend"
	"github.com/matzehuels/svgraster/pkg/observability"
	"github.com/matzehuels/svgraster/pkg/raster"
)

// Choose returns the backend kind for one call.
func (r *Runner) Choose(ctx context.Context) backend.Kind {
	if r.Prober.Available(ctx) {
		return backend.KindExternal
	}
	return backend.KindLibrary
}

// Select chooses a backend and renders req with it. It returns the kind that
// produced the raster.
func (r *Runner) Select(ctx context.Context, req backend.Request) (*raster.Native, backend.Kind, error) {
	return r.renderKind(ctx, r.Choose(ctx), req)
}

func (r *Runner) renderKind(ctx context.Context, kind backend.Kind, req backend.Request) (*raster.Native, backend.Kind, error) {
	native, err := r.renderWith(ctx, r.backend(kind), req)
	if err == nil || kind != backend.KindExternal || r.Policy != FallbackToLibrary {
		return native, kind, err
	}
	if stderrors.Is(err, context.Canceled) {
		return nil, kind, err
	}

	r.Logger.Warn("external rasterizer failed, falling back to library backend", "err", err)
	native, err = r.renderWith(ctx, r.Library, req)
	return native, backend.KindLibrary, err
}

func (r *Runner) backend(kind backend.Kind) backend.Backend {
	if kind == backend.KindExternal {
		return r.External
	}
	return r.Library
}

func (r *Runner) renderWith(ctx context.Context, b backend.Backend, req backend.Request) (*raster.Native, error) {
	name := string(b.Kind())
	r.Logger.Debug("rendering", "backend", name, "width", req.Width, "height", req.Height, "dpi", req.DPI)
	observability.Render().OnRenderStart(ctx, name, req.Width, req.Height)

	start := time.Now()
	native, err := b.Render(ctx, req)
	observability.Render().OnRenderComplete(ctx, name, time.Since(start), err)
	return native, err
}
