// sim/batch.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"context"
	"fmt"

	"github.com/tjbonner/FlightDynamics/log"

	"golang.org/x/sync/errgroup"
)

// BatchResult pairs a run's summary with its recorder (nil unless
// opts.Record was set). Started is false for runs that were never
// flown, either because their Runner could not be built or because the
// batch was canceled first; their Summary is the zero value.
type BatchResult struct {
	Started  bool
	Summary  Summary
	Recorder *Recorder
}

// RunBatch flies one aircraft per seed, each for steps steps, in
// parallel; at most limit run at once (no limit if limit <= 0). Each run
// differs from opts only in its seed. The first failing run cancels the
// rest and its error is returned; results are in seed order. Runs still
// queued when the batch is canceled are not started.
func RunBatch(ctx context.Context, opts Options, seeds []int64, steps, limit int, metrics *Metrics,
	lg *log.Logger) ([]BatchResult, error) {
	if len(seeds) == 0 {
		return nil, ErrNoSeeds
	}

	results := make([]BatchResult, len(seeds))
	eg, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		eg.SetLimit(limit)
	}

	for i, seed := range seeds {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			o := opts
			o.Seed = seed
			r, err := NewRunner(o, metrics, lg)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}

			sum, err := r.Run(ctx, steps)
			results[i] = BatchResult{Started: true, Summary: sum, Recorder: r.Recorder()}
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
