// Package history records per-generation statistics of evolution runs and
// renders them as console tables and PNG charts. Only aggregate records are
// kept; genomes are never persisted.
package history

import (
	"context"
	"time"

	"github.com/baldhumanity/dino-evo/evolution"
)

// Run describes one simulation run.
type Run struct {
	ID            string
	StartedAt     time.Time
	PopSize       int
	Generations   int // Completed transitions.
	BestEverScore int
	BestEverID    string
}

// Store defines persistence operations for run summaries and generation records.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	AppendGeneration(ctx context.Context, runID string, stats evolution.GenerationStats) error
	GetGenerations(ctx context.Context, runID string) ([]evolution.GenerationStats, bool, error)
}
