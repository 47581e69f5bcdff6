package evolution

import (
	"bytes"
	"errors"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baldhumanity/dino-evo/brain"
	"github.com/baldhumanity/dino-evo/genome"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func newTestPopulation(t *testing.T, popSize int, opts ...Option) *Population {
	t.Helper()
	config := DefaultConfig()
	config.Evolution.PopSize = popSize
	opts = append([]Option{WithLogger(discardLogger())}, opts...)
	p, err := NewPopulation(config, rand.New(rand.NewSource(42)), opts...)
	require.NoError(t, err)
	return p
}

func newTestIndividual(t *testing.T, rng *rand.Rand, score int) *Individual {
	t.Helper()
	config := genome.DefaultConfig()
	ind, err := NewIndividual(genome.New(rng, &config), brain.ReLU)
	require.NoError(t, err)
	if score >= 0 {
		ind.Die(score)
	}
	return ind
}

func TestComputeQuotasDefault(t *testing.T) {
	q := ComputeQuotas(500, &DefaultConfig().Reproduction)
	assert.Equal(t, Quotas{Elite: 25, Fresh: 25, MutateBest: 150, MutateTournament: 200, Crossover: 100}, q)
	assert.Equal(t, 500, q.Total())
}

func TestComputeQuotasExactArithmetic(t *testing.T) {
	r := DefaultConfig().Reproduction
	for n := 1; n <= 2000; n++ {
		q := ComputeQuotas(n, &r)
		require.Equal(t, n*5/100, q.Elite, "n=%d", n)
		require.Equal(t, n*5/100, q.Fresh, "n=%d", n)
		require.Equal(t, n*30/100, q.MutateBest, "n=%d", n)
		require.Equal(t, n*40/100, q.MutateTournament, "n=%d", n)
		require.Equal(t, n*20/100, q.Crossover, "n=%d", n)
	}
}

func TestReproductionQuotasNormalize(t *testing.T) {
	config := DefaultConfig()
	config.Evolution.NormalizeSize = true
	r, err := NewReproduction(config, discardLogger())
	require.NoError(t, err)

	q := r.Quotas(1)
	assert.Equal(t, 99, q.Crossover)
	assert.Equal(t, 499, q.Total())

	config.Evolution.PopSize = 10
	q = r.Quotas(1)
	assert.Equal(t, Quotas{MutateBest: 3, MutateTournament: 4, Crossover: 2}, q)
}

func TestComputeStats(t *testing.T) {
	scores := make([]int, 500)
	for i := range scores {
		scores[i] = i
	}
	s := ComputeStats(1, scores)
	assert.Equal(t, 1, s.Generation)
	assert.Equal(t, 499, s.Max)
	assert.Equal(t, 0, s.Min)
	assert.Equal(t, 249, s.Avg)
	assert.InDelta(t, 20833.25, s.Variance, 1e-6)

	s = ComputeStats(3, []int{10, 20})
	assert.Equal(t, GenerationStats{Generation: 3, Max: 20, Avg: 15, Min: 10, Variance: 25, StdDev: 5}, s)
}

func TestComputeStatsDegenerate(t *testing.T) {
	assert.Equal(t, GenerationStats{Generation: 2}, ComputeStats(2, nil))
	assert.Equal(t, GenerationStats{Generation: 2}, ComputeStats(2, []int{0, 0, 0}))
}

func TestTournamentDominantAlwaysWins(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	pool := make([]*Individual, 5)
	for i := range pool {
		pool[i] = newTestIndividual(t, rng, i)
	}
	pool[2].score = 1000

	selector := TournamentSelector{Size: 5}
	for i := 0; i < 200; i++ {
		winner, err := selector.PickParent(rng, pool)
		require.NoError(t, err)
		assert.Same(t, pool[2], winner)
	}
}

func TestTournamentWinnerIsFromPool(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	pool := make([]*Individual, 50)
	for i := range pool {
		pool[i] = newTestIndividual(t, rng, i)
	}
	selector := TournamentSelector{Size: 5}
	for i := 0; i < 200; i++ {
		winner, err := selector.PickParent(rng, pool)
		require.NoError(t, err)
		// The winner beats at least four other distinct individuals.
		assert.GreaterOrEqual(t, winner.Score(), 4)
	}
}

func TestTournamentReducesSizeOnSmallPool(t *testing.T) {
	var buf bytes.Buffer
	selector := TournamentSelector{Size: 5, Logger: slog.New(slog.NewTextHandler(&buf, nil))}
	rng := rand.New(rand.NewSource(5))
	pool := []*Individual{newTestIndividual(t, rng, 1), newTestIndividual(t, rng, 9), newTestIndividual(t, rng, 4)}

	winner, err := selector.PickParent(rng, pool)
	require.NoError(t, err)
	assert.Same(t, pool[1], winner)
	assert.Contains(t, buf.String(), "tournament size reduced")
	assert.Contains(t, buf.String(), ErrSampling.Error())
}

func TestTournamentEmptyPool(t *testing.T) {
	_, err := TournamentSelector{Size: 5}.PickParent(rand.New(rand.NewSource(1)), nil)
	assert.ErrorIs(t, err, ErrSampling)
}

func TestIndividualLifecycle(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	ind := newTestIndividual(t, rng, -1)
	require.True(t, ind.Alive())

	ind.Die(12)
	ind.Die(40)
	assert.False(t, ind.Alive())
	assert.Equal(t, 12, ind.Score())

	action, err := ind.Think(make([]float64, 7))
	require.NoError(t, err)
	assert.Equal(t, brain.Action{}, action)

	ind.Reset()
	assert.True(t, ind.Alive())
	assert.Equal(t, 0, ind.Score())

	_, err = ind.Think(make([]float64, 3))
	assert.Error(t, err)
}

func TestSnapshotIsNotAliased(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	ind := newTestIndividual(t, rng, 33)
	snap, err := ind.Snapshot()
	require.NoError(t, err)

	assert.Equal(t, ind.ID, snap.ID)
	assert.Equal(t, 33, snap.Score())
	assert.False(t, snap.Alive())

	before := snap.Genome.Genes[0]
	ind.Genome.Genes[0].Weight = 5
	ind.Genome.HiddenBias[0] = 5
	ind.Reset()

	assert.Equal(t, before, snap.Genome.Genes[0])
	assert.NotEqual(t, 5.0, snap.Genome.HiddenBias[0])
	assert.Equal(t, 33, snap.Score())
}

func TestNewPopulation(t *testing.T) {
	p := newTestPopulation(t, 20)
	assert.Equal(t, 1, p.Generation)
	assert.Len(t, p.Individuals, 20)
	assert.Equal(t, 20, p.AliveCount())
	assert.False(t, p.AllDead())
	assert.Nil(t, p.BestEver())
	assert.Empty(t, p.History())

	_, err := NewPopulation(DefaultConfig(), nil)
	assert.Error(t, err)

	config := DefaultConfig()
	config.Evolution.PopSize = 2
	_, err = NewPopulation(config, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestTickDrivesAliveIndividuals(t *testing.T) {
	p := newTestPopulation(t, 20)
	p.Individuals[0].Die(3)

	sensed := 0
	acted := map[string]bool{}
	err := p.Tick(func(ind *Individual) ([]float64, error) {
		sensed++
		return []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7}, nil
	}, func(ind *Individual, _ brain.Action) error {
		acted[ind.ID] = true
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 19, sensed)
	assert.Len(t, acted, 19)
	assert.False(t, acted[p.Individuals[0].ID])

	boom := errors.New("boom")
	err = p.Tick(func(*Individual) ([]float64, error) { return nil, boom }, nil)
	assert.ErrorIs(t, err, boom)
}

func TestAdvanceGenerationRequiresAllDead(t *testing.T) {
	p := newTestPopulation(t, 20)
	p.Individuals[0].Die(5)
	err := p.AdvanceGeneration()
	assert.ErrorIs(t, err, ErrGenerationAlive)
	assert.Equal(t, 1, p.Generation)
	assert.Empty(t, p.History())
}

func TestAdvanceGenerationTwoIndividuals(t *testing.T) {
	p := newTestPopulation(t, 20)
	rng := rand.New(rand.NewSource(9))
	low, high := newTestIndividual(t, rng, 10), newTestIndividual(t, rng, 20)
	p.Individuals = []*Individual{low, high}

	require.NoError(t, p.AdvanceGeneration())

	assert.Equal(t, 20, p.BestEverScore())
	require.NotNil(t, p.BestEver())
	assert.Equal(t, high.ID, p.BestEver().ID)
	history := p.History()
	require.Len(t, history, 1)
	assert.Equal(t, GenerationStats{Generation: 1, Max: 20, Avg: 15, Min: 10, Variance: 25, StdDev: 5}, history[0])
	assert.Equal(t, 2, p.Generation)
}

func TestAdvanceGenerationFullSize(t *testing.T) {
	p := newTestPopulation(t, 500)
	outgoing := p.Individuals
	for i, ind := range outgoing {
		ind.Die(i)
	}

	require.NoError(t, p.AdvanceGeneration())

	assert.Equal(t, 499, p.BestEverScore())
	assert.Equal(t, outgoing[499].ID, p.BestEver().ID)
	assert.Equal(t, 2, p.Generation)
	require.Len(t, p.Individuals, 501)
	assert.Equal(t, 501, p.AliveCount())

	h := p.History()[0]
	assert.Equal(t, 1, h.Generation)
	assert.Equal(t, 499, h.Max)
	assert.Equal(t, 0, h.Min)
	assert.Equal(t, 249, h.Avg)

	// Best-ever carry: a new individual with the best genome.
	carry := p.Individuals[0]
	assert.NotEqual(t, p.BestEver().ID, carry.ID)
	assert.Equal(t, p.BestEver().Genome.Genes, carry.Genome.Genes)
	assert.NotSame(t, p.BestEver().Genome, carry.Genome)

	// Elites keep their identity and genome but start over.
	for i := 0; i < 25; i++ {
		elite := p.Individuals[1+i]
		assert.Same(t, outgoing[499-i], elite)
		assert.True(t, elite.Alive())
		assert.Equal(t, 0, elite.Score())
	}

	// Mutate-best children differ from the best genome in at most four genes.
	for i := 0; i < 150; i++ {
		child := p.Individuals[1+25+25+i]
		assert.LessOrEqual(t, len(outgoing[499].Genome.Diff(child.Genome)), 4)
	}

	// The size stays at N+1.
	for i, ind := range p.Individuals {
		ind.Die(i % 7)
	}
	require.NoError(t, p.AdvanceGeneration())
	assert.Len(t, p.Individuals, 501)
	assert.Equal(t, 499, p.BestEverScore())
	assert.Equal(t, 3, p.Generation)
}

func TestAdvanceGenerationNormalizeSize(t *testing.T) {
	config := DefaultConfig()
	config.Evolution.PopSize = 37
	config.Evolution.NormalizeSize = true
	p, err := NewPopulation(config, rand.New(rand.NewSource(10)), WithLogger(discardLogger()))
	require.NoError(t, err)

	for gen := 0; gen < 3; gen++ {
		for i, ind := range p.Individuals {
			ind.Die(i + gen)
		}
		require.NoError(t, p.AdvanceGeneration())
		assert.Len(t, p.Individuals, 37)
	}
}

func TestAdvanceGenerationWithoutImprovement(t *testing.T) {
	p := newTestPopulation(t, 20)
	for _, ind := range p.Individuals {
		ind.Die(0)
	}
	require.NoError(t, p.AdvanceGeneration())
	assert.Nil(t, p.BestEver())
	assert.Equal(t, 0, p.BestEverScore())
	// No best-ever to carry: 1 + 1 + 6 + 8 + 4 quotas.
	assert.Len(t, p.Individuals, 20)
}

func TestAdvanceGenerationEmpty(t *testing.T) {
	p := newTestPopulation(t, 20)
	p.Individuals = nil
	require.NoError(t, p.AdvanceGeneration())
	assert.Len(t, p.Individuals, 20)
	assert.Equal(t, GenerationStats{Generation: 1}, p.History()[0])
}

func TestBestEverSurvivesLaterGenerations(t *testing.T) {
	p := newTestPopulation(t, 20)
	for i, ind := range p.Individuals {
		ind.Die(i * 10)
	}
	require.NoError(t, p.AdvanceGeneration())
	best := p.BestEver()
	genes := append([]genome.Gene(nil), best.Genome.Genes...)

	// Scribble over the carried copy and the elites.
	for _, ind := range p.Individuals {
		ind.Genome.Genes[0].Weight = 0.123
		ind.Die(1)
	}
	require.NoError(t, p.AdvanceGeneration())

	assert.Same(t, best, p.BestEver())
	assert.Equal(t, genes, best.Genome.Genes)
	assert.Equal(t, 190, p.BestEverScore())
}

func TestReportersReceiveTransition(t *testing.T) {
	var events []TransitionEvent
	var tickErr error
	var p *Population
	p = newTestPopulation(t, 20,
		WithReporter(ReporterFunc(func(e TransitionEvent) error {
			events = append(events, e)
			tickErr = p.Tick(nil, nil)
			return nil
		})),
		WithReporter(ReporterFunc(func(TransitionEvent) error {
			return errors.New("reporter down")
		})),
	)
	for i, ind := range p.Individuals {
		ind.Die(i)
	}
	require.NoError(t, p.AdvanceGeneration())

	require.Len(t, events, 1)
	e := events[0]
	assert.Equal(t, 2, e.Generation)
	assert.Equal(t, 1, e.Stats.Generation)
	assert.Equal(t, 21, e.Size)
	assert.Equal(t, 19, e.BestEverScore)
	assert.True(t, e.NewBestEver)
	assert.Equal(t, p.BestEver().ID, e.BestEverID)
	assert.ErrorIs(t, tickErr, ErrTransitioning)
	assert.Equal(t, Running, p.State())
}

func TestAdvanceGenerationKeepsTiedOrder(t *testing.T) {
	p := newTestPopulation(t, 100)
	outgoing := append([]*Individual(nil), p.Individuals...)
	for i, ind := range outgoing {
		ind.Die(7 - i%2)
	}

	require.NoError(t, p.AdvanceGeneration())

	elite := ComputeQuotas(100, &p.Config.Reproduction).Elite
	require.Equal(t, 5, elite)
	for i := 0; i < elite; i++ {
		assert.Same(t, outgoing[2*i], p.Individuals[1+i], "elite %d", i)
	}
	assert.Equal(t, outgoing[0].ID, p.BestEver().ID)
}

func TestAdvanceGenerationEmptyCarriesBestEver(t *testing.T) {
	for _, normalize := range []bool{false, true} {
		config := DefaultConfig()
		config.Evolution.PopSize = 20
		config.Evolution.NormalizeSize = normalize
		p, err := NewPopulation(config, rand.New(rand.NewSource(12)), WithLogger(discardLogger()))
		require.NoError(t, err)

		for i, ind := range p.Individuals {
			ind.Die(i)
		}
		require.NoError(t, p.AdvanceGeneration())
		best := p.BestEver()
		require.NotNil(t, best)

		p.Individuals = nil
		require.NoError(t, p.AdvanceGeneration())

		if normalize {
			assert.Len(t, p.Individuals, 20)
		} else {
			assert.Len(t, p.Individuals, 21)
		}
		carry := p.Individuals[0]
		assert.NotEqual(t, best.ID, carry.ID)
		assert.Equal(t, best.Genome.Genes, carry.Genome.Genes)
		assert.True(t, carry.Alive())
		assert.Same(t, best, p.BestEver())
	}
}

func TestAdvanceGenerationNormalizeSmallGeneration(t *testing.T) {
	config := DefaultConfig()
	config.Evolution.PopSize = 100
	config.Evolution.NormalizeSize = true
	p, err := NewPopulation(config, rand.New(rand.NewSource(13)), WithLogger(discardLogger()))
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(14))
	p.Individuals = []*Individual{newTestIndividual(t, rng, 1), newTestIndividual(t, rng, 3), newTestIndividual(t, rng, 2)}
	require.NoError(t, p.AdvanceGeneration())

	assert.Len(t, p.Individuals, 100)
	assert.Equal(t, 100, p.AliveCount())
}
