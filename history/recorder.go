package history

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid"

	"github.com/baldhumanity/dino-evo/evolution"
)

// Recorder is an evolution.Reporter that persists every transition to a Store
// under a single run ID.
//
// Transitions carry no context, so each write runs on its own context bounded
// by Timeout (no deadline when zero).
type Recorder struct {
	Timeout time.Duration

	store Store
	run   Run
}

var _ evolution.Reporter = (*Recorder)(nil)

// NewRecorder registers a new run in store. The store must be initialized.
func NewRecorder(ctx context.Context, store Store, popSize int) (*Recorder, error) {
	run := Run{
		ID:        uuid.Must(uuid.NewV4()).String(),
		StartedAt: time.Now(),
		PopSize:   popSize,
	}
	if err := store.SaveRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}
	return &Recorder{store: store, run: run}, nil
}

// RunID returns the ID the records are stored under.
func (r *Recorder) RunID() string { return r.run.ID }

// GenerationComplete appends the outgoing generation's statistics and updates the run summary.
func (r *Recorder) GenerationComplete(event evolution.TransitionEvent) error {
	ctx, cancel := r.writeContext()
	defer cancel()

	if err := r.store.AppendGeneration(ctx, r.run.ID, event.Stats); err != nil {
		return fmt.Errorf("failed to save generation %d: %w", event.Stats.Generation, err)
	}
	r.run.Generations++
	r.run.BestEverScore = event.BestEverScore
	r.run.BestEverID = event.BestEverID
	if err := r.store.SaveRun(ctx, r.run); err != nil {
		return fmt.Errorf("failed to update run %s: %w", r.run.ID, err)
	}
	return nil
}

func (r *Recorder) writeContext() (context.Context, context.CancelFunc) {
	if r.Timeout > 0 {
		return context.WithTimeout(context.Background(), r.Timeout)
	}
	return context.WithCancel(context.Background())
}
