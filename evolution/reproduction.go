package evolution

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/baldhumanity/dino-evo/brain"
	"github.com/baldhumanity/dino-evo/genome"
)

// quotaEpsilon absorbs binary representation error in PopSize*fraction so that
// e.g. 100*0.29 floors to 29, not 28.
const quotaEpsilon = 1e-9

// Quotas holds how many individuals each reproduction strategy contributes.
type Quotas struct {
	Elite            int // Top individuals of the outgoing generation, reset.
	Fresh            int // Brand-new random genomes.
	MutateBest       int // Mutations of the outgoing generation's best individual.
	MutateTournament int // Mutations of tournament winners.
	Crossover        int // Crossovers of two tournament winners.
}

// Total returns the sum of all quotas (the best-ever carry is not included).
func (q Quotas) Total() int {
	return q.Elite + q.Fresh + q.MutateBest + q.MutateTournament + q.Crossover
}

// ComputeQuotas returns floor(popSize * fraction) for every strategy.
func ComputeQuotas(popSize int, config *ReproductionConfig) Quotas {
	quota := func(fraction float64) int {
		return int(math.Floor(float64(popSize)*fraction + quotaEpsilon))
	}
	return Quotas{
		Elite:            quota(config.EliteFraction),
		Fresh:            quota(config.FreshFraction),
		MutateBest:       quota(config.MutateBestFraction),
		MutateTournament: quota(config.MutateTournamentFraction),
		Crossover:        quota(config.CrossoverFraction),
	}
}

// Reproduction creates new individuals, either from scratch or from the
// ranked outgoing generation.
type Reproduction struct {
	Config     *Config
	Selector   TournamentSelector
	activation brain.ActivationType
	logger     *slog.Logger
}

// NewReproduction creates a new reproduction manager.
func NewReproduction(config *Config, logger *slog.Logger) (*Reproduction, error) {
	activation, err := brain.GetActivation(config.Network.Activation)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return &Reproduction{
		Config:     config,
		Selector:   TournamentSelector{Size: config.Evolution.TournamentSize, Logger: logger},
		activation: activation,
		logger:     logger,
	}, nil
}

// CreateNewPopulation creates size individuals with random genomes.
func (r *Reproduction) CreateNewPopulation(rng *rand.Rand, size int) ([]*Individual, error) {
	individuals := make([]*Individual, 0, size)
	for i := 0; i < size; i++ {
		ind, err := r.newIndividual(genome.New(rng, &r.Config.Genome))
		if err != nil {
			return nil, err
		}
		individuals = append(individuals, ind)
	}
	return individuals, nil
}

// Quotas returns the quotas for the configured population size, with the
// crossover quota adjusted when NormalizeSize is set. carry is the number of
// individuals placed before the quotas (the best-ever individual).
func (r *Reproduction) Quotas(carry int) Quotas {
	popSize := r.Config.Evolution.PopSize
	q := ComputeQuotas(popSize, &r.Config.Reproduction)
	if r.Config.Evolution.NormalizeSize {
		q.Crossover = popSize - carry - (q.Total() - q.Crossover)
		if q.Crossover < 0 {
			q.Crossover = 0
		}
	}
	return q
}

// Reproduce builds the next generation from ranked, the outgoing generation
// sorted by descending score. The result is, in order: a fresh copy of
// bestEver (if any), the reset elites, fresh random individuals, mutations of
// ranked[0], mutations of tournament winners and crossovers of tournament
// winners. Elites are reset only once every child has been built. An empty
// ranked slice yields the best-ever copy followed by PopSize random individuals.
func (r *Reproduction) Reproduce(rng *rand.Rand, ranked []*Individual, bestEver *Individual) ([]*Individual, error) {
	carry := 0
	if bestEver != nil {
		carry = 1
	}
	q := r.Quotas(carry)
	next := make([]*Individual, 0, carry+q.Total())

	if bestEver != nil {
		clone, err := bestEver.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to carry best-ever individual: %w", err)
		}
		next = append(next, clone)
	}

	if len(ranked) == 0 {
		r.logger.Warn("outgoing generation is empty, creating new population")
		fresh, err := r.CreateNewPopulation(rng, r.Config.Evolution.PopSize)
		if err != nil {
			return nil, err
		}
		return r.normalize(append(next, fresh...)), nil
	}

	elites := ranked[:min(q.Elite, len(ranked))]
	next = append(next, elites...)

	for i := 0; i < q.Fresh; i++ {
		ind, err := r.newIndividual(genome.New(rng, &r.Config.Genome))
		if err != nil {
			return nil, err
		}
		next = append(next, ind)
	}

	// The outgoing generation's best is mutated directly, without a tournament.
	best := ranked[0]
	for i := 0; i < q.MutateBest; i++ {
		ind, err := r.newIndividual(best.Genome.Mutate(rng))
		if err != nil {
			return nil, err
		}
		next = append(next, ind)
	}

	for i := 0; i < q.MutateTournament; i++ {
		parent, err := r.Selector.PickParent(rng, ranked)
		if err != nil {
			return nil, fmt.Errorf("failed to select parent: %w", err)
		}
		ind, err := r.newIndividual(parent.Genome.Mutate(rng))
		if err != nil {
			return nil, err
		}
		next = append(next, ind)
	}

	// Crossover absorbs any shortfall, e.g. fewer elites than the quota.
	if r.Config.Evolution.NormalizeSize {
		q.Crossover = max(r.Config.Evolution.PopSize-len(next), 0)
	}
	for i := 0; i < q.Crossover; i++ {
		father, err := r.Selector.PickParent(rng, ranked)
		if err != nil {
			return nil, fmt.Errorf("failed to select father: %w", err)
		}
		mother, err := r.Selector.PickParent(rng, ranked)
		if err != nil {
			return nil, fmt.Errorf("failed to select mother: %w", err)
		}
		childGenome, err := father.Genome.Crossover(rng, mother.Genome)
		if err != nil {
			return nil, err
		}
		ind, err := r.newIndividual(childGenome)
		if err != nil {
			return nil, err
		}
		next = append(next, ind)
	}

	next = r.normalize(next)

	for _, elite := range elites {
		elite.Reset()
	}
	return next, nil
}

// normalize trims next to PopSize when NormalizeSize is set.
func (r *Reproduction) normalize(next []*Individual) []*Individual {
	if r.Config.Evolution.NormalizeSize && len(next) > r.Config.Evolution.PopSize {
		return next[:r.Config.Evolution.PopSize]
	}
	return next
}

func (r *Reproduction) newIndividual(g *genome.Genome) (*Individual, error) {
	return NewIndividual(g, r.activation)
}
