package imgfx

import (
	"context"
	"runtime"
)

// ContextOption configures a Context during creation.
// Use functional options to customize evaluation behavior.
//
// Example:
//
//	// Default: CPU shading on all available cores
//	ctx := imgfx.NewContext(mapping, desired, source)
//
//	// Single-threaded evaluation
//	ctx := imgfx.NewContext(mapping, desired, source, imgfx.WithWorkers(1))
type ContextOption func(*contextOptions)

// contextOptions holds optional configuration for Context creation.
type contextOptions struct {
	workers int
	cancel  context.Context
}

// defaultContextOptions returns the default context options.
func defaultContextOptions() contextOptions {
	return contextOptions{
		workers: runtime.GOMAXPROCS(0),
		cancel:  context.Background(),
	}
}

// WithWorkers sets how many goroutines the CPU raster backend may use for
// shader evaluation. Values below 1 select GOMAXPROCS.
func WithWorkers(n int) ContextOption {
	return func(o *contextOptions) {
		if n < 1 {
			n = runtime.GOMAXPROCS(0)
		}
		o.workers = n
	}
}

// WithCancellation stops CPU shader evaluation once ctx is done. The
// interrupted filter produces an empty result.
func WithCancellation(ctx context.Context) ContextOption {
	return func(o *contextOptions) {
		if ctx != nil {
			o.cancel = ctx
		}
	}
}
