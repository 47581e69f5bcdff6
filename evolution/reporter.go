package evolution

import "time"

// TransitionEvent is emitted once per generational transition, after the new
// generation has been installed. Drivers use it to reset per-generation game
// state (score clock, obstacles) and to record statistics.
type TransitionEvent struct {
	Stats         GenerationStats // Statistics of the outgoing generation.
	Generation    int             // Index of the generation that starts now.
	Size          int             // Number of individuals in the new generation.
	BestEverScore int
	BestEverID    string
	NewBestEver   bool // The outgoing generation produced a new best-ever individual.
	Elapsed       time.Duration
}

// Reporter receives transition events.
type Reporter interface {
	GenerationComplete(event TransitionEvent) error
}

// ReporterFunc adapts a plain function to the Reporter interface.
type ReporterFunc func(event TransitionEvent) error

// GenerationComplete calls f(event).
func (f ReporterFunc) GenerationComplete(event TransitionEvent) error {
	return f(event)
}
