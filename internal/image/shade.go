package image

import (
	"context"
	stdimage "image"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minBandRows keeps bands large enough that goroutine overhead stays small
// next to the per-pixel work.
const minBandRows = 16

// CoordFunc maps a destination pixel center in layer space to the point
// where the source is sampled.
type CoordFunc func(x, y float32) (sx, sy float32)

// Shade fills dst by sampling src at coord(center) for every destination
// pixel. Rows are split into horizontal bands evaluated on up to workers
// goroutines; workers <= 0 uses GOMAXPROCS. Bands stop between rows once
// ctx is done and Shade returns ctx's error; dst is then partially written.
func Shade(ctx context.Context, dst, src *stdimage.RGBA, k Kernel, coord CoordFunc, workers int) error {
	if dst == nil || dst.Rect.Empty() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	h := dst.Rect.Dy()
	bandRows := max(minBandRows, (h+workers-1)/workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for y0 := dst.Rect.Min.Y; y0 < dst.Rect.Max.Y; y0 += bandRows {
		y1 := min(y0+bandRows, dst.Rect.Max.Y)
		g.Go(func() error {
			return shadeRows(gctx, dst, src, k, coord, y0, y1)
		})
	}
	return g.Wait()
}

// shadeRows evaluates rows [y0, y1) of dst.
func shadeRows(ctx context.Context, dst, src *stdimage.RGBA, k Kernel, coord CoordFunc, y0, y1 int) error {
	for y := y0; y < y1; y++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		cy := float32(y) + 0.5
		for x := dst.Rect.Min.X; x < dst.Rect.Max.X; x++ {
			sx, sy := coord(float32(x)+0.5, cy)
			c := Sample(src, float64(sx), float64(sy), k)
			i := dst.PixOffset(x, y)
			d := dst.Pix[i : i+4 : i+4]
			d[0], d[1], d[2], d[3] = c.R, c.G, c.B, c.A
		}
	}
	return nil
}
