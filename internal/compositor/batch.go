package compositor

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/atlas/internal/tile"
)

// Job is one independent viewport render.
type Job struct {
	Tiles   tile.Map
	Origin  tile.CellID // empty means AA00
	Width   int
	Height  int
	Quality Quality
}

// RenderBatch renders jobs in parallel on at most workers goroutines
// (GOMAXPROCS when workers <= 0). Frames are returned in job order.
// Cancelling ctx stops scheduling further jobs.
func (c *Compositor) RenderBatch(ctx context.Context, jobs []Job, workers int) ([]Frame, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	frames := make([]Frame, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range jobs {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			j := jobs[i]
			if j.Origin == "" {
				frames[i] = c.Render(j.Tiles, j.Width, j.Height, j.Quality)
			} else {
				frames[i] = c.RenderAt(j.Tiles, j.Origin, j.Width, j.Height, j.Quality)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("render batch: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("render batch: %w", err)
	}
	return frames, nil
}

// RenderBatch renders jobs with the process-wide compositor.
func RenderBatch(ctx context.Context, jobs []Job, workers int) ([]Frame, error) {
	return std.RenderBatch(ctx, jobs, workers)
}
