package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/svgraster/pkg/backend"
	"github.com/matzehuels/svgraster/pkg/cache"
	"github.com/matzehuels/svgraster/pkg/errors"
	"github.com/matzehuels/svgraster/pkg/raster"
)

// Result describes how a bitmap was produced.
type Result struct {
	Bitmap   *raster.Bitmap
	Backend  backend.Kind
	CacheHit bool
	Duration time.Duration
}

// Render rasterizes req into a bitmap of exactly req.Width x req.Height.
// The caller owns the bitmap and must Release it.
func (r *Runner) Render(ctx context.Context, req backend.Request) (*raster.Bitmap, error) {
	res, err := r.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	return res.Bitmap, nil
}

// Execute is Render with details about the backend and cache.
func (r *Runner) Execute(ctx context.Context, req backend.Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	kind := r.Choose(ctx)
	key := cache.RasterKey(cache.RasterKeyOpts{
		SVG:     req.SVG,
		Width:   req.Width,
		Height:  req.Height,
		DPI:     req.DPI,
		Backend: string(kind),
	})

	native, hit := r.cached(ctx, key, req)
	if !hit {
		var err error
		var produced backend.Kind
		native, produced, err = r.renderKind(ctx, kind, req)
		if err != nil {
			return nil, err
		}
		if err := checkSize(native, req); err != nil {
			native.Release()
			return nil, err
		}
		if produced == kind {
			r.store(ctx, key, native)
		}
		kind = produced
	}

	bmp, err := raster.Adapt(native)
	if err != nil {
		return nil, err
	}

	res := &Result{Bitmap: bmp, Backend: kind, CacheHit: hit, Duration: time.Since(start)}
	r.Logger.Info("rendered label",
		"backend", res.Backend,
		"size", bmp.Bounds().Size(),
		"cached", res.CacheHit,
		"duration", res.Duration.Round(time.Millisecond))
	return res, nil
}

// checkSize enforces that a raster matches the request exactly; nothing is
// cropped or letterboxed to make it fit.
func checkSize(n *raster.Native, req backend.Request) error {
	b := n.Bounds()
	if b.Dx() != req.Width || b.Dy() != req.Height {
		return errors.New(errors.ErrCodeResize, "backend produced %dx%d, want %dx%d", b.Dx(), b.Dy(), req.Width, req.Height)
	}
	return nil
}

// cached returns a previously stored raster for key, if it still decodes
// to the requested size.
func (r *Runner) cached(ctx context.Context, key string, req backend.Request) (*raster.Native, bool) {
	if !cache.Enabled(r.Cache) {
		return nil, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		return nil, false
	}
	native, err := raster.DecodeLossless(data)
	if err != nil || checkSize(native, req) != nil {
		r.Logger.Debug("discarding unusable cache entry", "key", key)
		_ = r.Cache.Delete(ctx, key)
		return nil, false
	}
	return native, true
}

func (r *Runner) store(ctx context.Context, key string, n *raster.Native) {
	if !cache.Enabled(r.Cache) {
		return
	}
	data, err := raster.EncodeLossless(n)
	if err != nil {
		r.Logger.Debug("not caching raster", "err", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLRaster); err != nil {
		r.Logger.Warn("failed to cache raster", "err", err)
	}
}
