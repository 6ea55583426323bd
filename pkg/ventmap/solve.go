package ventmap

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ArminGh02/ventmap/pkg/ventmap/coverage"
	"github.com/ArminGh02/ventmap/pkg/ventmap/segment"
)

// Solve records every segment variant accepts into a fresh map. A sloped
// segment accepted by the variant aborts the run with a *segment.ShapeError.
func Solve(segments []segment.Segment, variant Variant) (*Map, error) {
	kept, skipped := variant.Filter(segments)

	m := New(variant)
	m.skipped = skipped
	for _, s := range kept {
		if err := m.Record(s); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// SolveAll solves each variant on its own map so counts never leak between
// them.
func SolveAll(segments []segment.Segment) ([]*Map, error) {
	res := make([]*Map, 0, len(Variants))
	for _, v := range Variants {
		m, err := Solve(segments, v)
		if err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, nil
}

// SolveParallel is Solve spread over workers. Every worker fills its own
// accumulator; they are merged once all workers are done.
func SolveParallel(ctx context.Context, segments []segment.Segment, variant Variant, workers int) (*Map, error) {
	kept, skipped := variant.Filter(segments)

	if workers > len(kept) {
		workers = len(kept)
	}
	if workers < 1 {
		workers = 1
	}

	partial := make([]*coverage.Accumulator, workers)
	g, gCtx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		acc := coverage.New()
		partial[w] = acc

		g.Go(func() error {
			for i := w; i < len(kept); i += workers {
				if err := gCtx.Err(); err != nil {
					return err
				}
				points, err := kept[i].Trace()
				if err != nil {
					return err
				}
				acc.Record(points)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m := New(variant)
	m.skipped = skipped
	m.history = kept
	for _, acc := range partial {
		m.acc.Merge(acc)
	}
	return m, nil
}
