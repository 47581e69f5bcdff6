package evolution

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/baldhumanity/dino-evo/brain"
)

// State is the phase of the generational loop.
type State int

const (
	// Running means individuals are evaluated tick by tick.
	Running State = iota
	// Transitioning means the next generation is being built.
	Transitioning
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Transitioning:
		return "transitioning"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// SenseFunc returns the sensor vector for an alive individual.
type SenseFunc func(ind *Individual) ([]float64, error)

// ActFunc applies a decoded action to the entity controlled by ind.
type ActFunc func(ind *Individual, action brain.Action) error

// Option configures a Population.
type Option func(*Population)

// WithLogger sets the logger used for progress and warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Population) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithReporter registers a reporter notified after every transition.
func WithReporter(r Reporter) Option {
	return func(p *Population) {
		if r != nil {
			p.reporters = append(p.reporters, r)
		}
	}
}

// Population holds the state of one simulation run: the active generation,
// the best individual seen so far and the per-generation history.
type Population struct {
	Config       *Config
	Reproduction *Reproduction
	Generation   int           // Index of the active generation, starting at 1.
	Individuals  []*Individual // Active generation, in insertion order.

	bestEver      *Individual // Frozen snapshot, never mutated after promotion.
	bestEverScore int
	history       []GenerationStats
	state         State
	rng           *rand.Rand
	logger        *slog.Logger
	reporters     []Reporter
}

// NewPopulation validates config and creates the first generation of
// Evolution.PopSize random individuals. All randomness is drawn from rng.
func NewPopulation(config *Config, rng *rand.Rand, opts ...Option) (*Population, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is required", ErrConfiguration)
	}
	if rng == nil {
		return nil, errors.New("random source is required")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	p := &Population{
		Config:     config,
		Generation: 1,
		state:      Running,
		rng:        rng,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	reproduction, err := NewReproduction(config, p.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create reproduction manager: %w", err)
	}
	p.Reproduction = reproduction

	initial, err := reproduction.CreateNewPopulation(rng, config.Evolution.PopSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create initial population: %w", err)
	}
	p.Individuals = initial
	return p, nil
}

// State returns the current phase of the loop.
func (p *Population) State() State { return p.state }

// Tick evaluates every alive individual once, in insertion order: sense
// provides its sensor vector and act receives the decoded action.
func (p *Population) Tick(sense SenseFunc, act ActFunc) error {
	if p.state == Transitioning {
		return ErrTransitioning
	}
	for _, ind := range p.Individuals {
		if !ind.Alive() {
			continue
		}
		sensors, err := sense(ind)
		if err != nil {
			return fmt.Errorf("failed to sense for individual %s: %w", ind.ID, err)
		}
		action, err := ind.Think(sensors)
		if err != nil {
			return err
		}
		if err := act(ind, action); err != nil {
			return fmt.Errorf("failed to act for individual %s: %w", ind.ID, err)
		}
	}
	return nil
}

// AliveCount returns the number of individuals still alive.
func (p *Population) AliveCount() int {
	n := 0
	for _, ind := range p.Individuals {
		if ind.Alive() {
			n++
		}
	}
	return n
}

// AllDead reports whether the active generation is finished.
func (p *Population) AllDead() bool {
	return p.AliveCount() == 0
}

// AdvanceGeneration replaces the finished generation with the next one.
// It records statistics for the outgoing generation, promotes a new best-ever
// individual on strict improvement and builds the next generation with
// Reproduction. Nothing is committed unless every step succeeds. Reporters are
// notified afterwards; their errors are logged, not returned.
func (p *Population) AdvanceGeneration() error {
	if p.state == Transitioning {
		return ErrTransitioning
	}
	if alive := p.AliveCount(); alive > 0 {
		return fmt.Errorf("%w: %d of %d alive", ErrGenerationAlive, alive, len(p.Individuals))
	}

	p.state = Transitioning
	defer func() { p.state = Running }()
	start := time.Now()

	ranked := make([]*Individual, len(p.Individuals))
	copy(ranked, p.Individuals)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score() > ranked[j].Score()
	})

	scores := make([]int, len(ranked))
	for i, ind := range ranked {
		scores[i] = ind.Score()
	}
	stats := ComputeStats(p.Generation, scores)

	bestEver, bestEverScore, newBest := p.bestEver, p.bestEverScore, false
	if len(ranked) > 0 && ranked[0].Score() > p.bestEverScore {
		snapshot, err := ranked[0].Snapshot()
		if err != nil {
			return fmt.Errorf("generation %d: %w", p.Generation, err)
		}
		bestEver, bestEverScore, newBest = snapshot, snapshot.Score(), true
	}

	next, err := p.Reproduction.Reproduce(p.rng, ranked, bestEver)
	if err != nil {
		return fmt.Errorf("reproduction failed in generation %d: %w", p.Generation, err)
	}

	p.history = append(p.history, stats)
	p.bestEver, p.bestEverScore = bestEver, bestEverScore
	p.Generation++
	p.Individuals = next

	if newBest {
		p.logger.Info("new best individual", "id", bestEver.ID, "score", bestEverScore, "generation", stats.Generation)
	}
	p.logger.Info("generation complete",
		"generation", stats.Generation,
		"max", stats.Max,
		"avg", stats.Avg,
		"min", stats.Min,
		"stddev", stats.StdDev,
		"next_size", len(next),
		"elapsed", time.Since(start))

	event := TransitionEvent{
		Stats:         stats,
		Generation:    p.Generation,
		Size:          len(next),
		BestEverScore: bestEverScore,
		NewBestEver:   newBest,
		Elapsed:       time.Since(start),
	}
	if bestEver != nil {
		event.BestEverID = bestEver.ID
	}
	for _, r := range p.reporters {
		if err := r.GenerationComplete(event); err != nil {
			p.logger.Error("reporter failed", "generation", stats.Generation, "err", err)
		}
	}
	return nil
}

// History returns a copy of the per-generation statistics, oldest first.
func (p *Population) History() []GenerationStats {
	out := make([]GenerationStats, len(p.history))
	copy(out, p.history)
	return out
}

// BestEver returns the frozen best-ever individual, or nil before any
// generation scored above zero.
func (p *Population) BestEver() *Individual { return p.bestEver }

// BestEverScore returns the highest terminal score seen so far.
func (p *Population) BestEverScore() int { return p.bestEverScore }
