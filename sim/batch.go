package sim

import (
	"context"
	"fmt"
	"runtime"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"holdem-hu/holdem"
	"holdem-hu/logging"
)

// Batch describes a set of independent sessions. Session i is Template with
// ID "<Name>-<i>", Seed+i as its seed and a fresh source from NewSource.
type Batch struct {
	Name     string
	Sessions int
	Workers  int // 0 => GOMAXPROCS
	Seed     int64
	Template SessionConfig
	// NewSource builds the action source of one session. Sources are never
	// shared between sessions.
	NewSource func(seed int64) holdem.ActionSource
	Logger    *zerolog.Logger
}

// RunBatch plays every session of b and returns the results in session
// order. The first failing session cancels the rest.
func RunBatch(ctx context.Context, b Batch) ([]SessionResult, error) {
	if b.Sessions <= 0 {
		return nil, nil
	}
	if b.NewSource == nil {
		return nil, errors.Wrap(holdem.ErrInvalidConfig, "batch needs a source factory")
	}
	workers := b.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, b.Sessions)
	logger := b.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	results := make([]SessionResult, b.Sessions)
	jobs := make(chan int)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < b.Sessions; i++ {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		log := logger.With().Int(logging.WorkerKey, w).Logger()
		g.Go(func() error {
			for i := range jobs {
				res, err := RunSession(ctx, b.session(i, &log))
				if err != nil {
					return err
				}
				results[i] = res
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	logger.Info().Str("batch", b.Name).Int("sessions", b.Sessions).Int("workers", workers).Msg("batch finished")
	return results, nil
}

func (b Batch) session(i int, log *zerolog.Logger) SessionConfig {
	cfg := b.Template
	cfg.ID = fmt.Sprintf("%s-%d", b.Name, i)
	cfg.Seed = b.Seed + int64(i)
	cfg.Source = b.NewSource(cfg.Seed)
	cfg.Logger = log
	return cfg
}
