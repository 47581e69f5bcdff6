package genome

import (
	"fmt"
	"math/rand"
)

// Genome is the evolvable blueprint of a controller: a fixed-length list of
// genes plus the hidden and output bias vectors.
type Genome struct {
	Genes      []Gene    // Ordered patch list; later genes overwrite earlier ones.
	HiddenBias []float64 // One bias per hidden neuron.
	OutputBias []float64 // One bias per output neuron.
	// Config is shared by every genome of a run and is never modified.
	Config *Config
}

// New creates a genome with random genes and biases.
func New(rng *rand.Rand, config *Config) *Genome {
	g := &Genome{
		Genes:      make([]Gene, config.Length),
		HiddenBias: randomVector(rng, config.NumHidden, config.BiasMinValue, config.BiasMaxValue),
		OutputBias: randomVector(rng, config.NumOutputs, config.BiasMinValue, config.BiasMaxValue),
		Config:     config,
	}
	for i := range g.Genes {
		g.Genes[i] = NewRandomGene(rng, config)
	}
	return g
}

// Len returns the number of genes.
func (g *Genome) Len() int {
	return len(g.Genes)
}

// Copy returns a genome with independent gene and bias containers holding the same values.
func (g *Genome) Copy() *Genome {
	c := &Genome{
		Genes:      make([]Gene, len(g.Genes)),
		HiddenBias: make([]float64, len(g.HiddenBias)),
		OutputBias: make([]float64, len(g.OutputBias)),
		Config:     g.Config,
	}
	copy(c.Genes, g.Genes)
	copy(c.HiddenBias, g.HiddenBias)
	copy(c.OutputBias, g.OutputBias)
	return c
}

// Mutate returns a copy in which between MutateMinGenes and MutateMaxGenes
// randomly drawn positions hold brand-new random genes. Draws are made with
// replacement, so fewer positions may actually change. Biases are untouched.
func (g *Genome) Mutate(rng *rand.Rand) *Genome {
	child := g.Copy()
	if len(child.Genes) == 0 {
		return child
	}
	draws := drawCount(rng, g.Config.MutateMinGenes, g.Config.MutateMaxGenes)
	for i := 0; i < draws; i++ {
		index := rng.Intn(len(child.Genes))
		child.Genes[index] = NewRandomGene(rng, g.Config)
	}
	return child
}

// Crossover returns a copy of g in which a few randomly drawn positions are
// taken from other. The receiver is the dominant parent: the result differs
// from g in at most CrossoverMaxGenes positions.
func (g *Genome) Crossover(rng *rand.Rand, other *Genome) (*Genome, error) {
	if len(other.Genes) != len(g.Genes) {
		return nil, fmt.Errorf("%w: crossover between genomes of length %d and %d", ErrConfiguration, len(g.Genes), len(other.Genes))
	}
	child := g.Copy()
	if len(child.Genes) == 0 {
		return child, nil
	}
	draws := drawCount(rng, g.Config.CrossoverMinGenes, g.Config.CrossoverMaxGenes)
	for i := 0; i < draws; i++ {
		index := rng.Intn(len(child.Genes))
		child.Genes[index] = other.Genes[index]
	}
	return child, nil
}

// Diff returns the gene positions at which g and other differ.
func (g *Genome) Diff(other *Genome) []int {
	n := len(g.Genes)
	if len(other.Genes) > n {
		n = len(other.Genes)
	}
	var positions []int
	for i := 0; i < n; i++ {
		if i >= len(g.Genes) || i >= len(other.Genes) || g.Genes[i] != other.Genes[i] {
			positions = append(positions, i)
		}
	}
	return positions
}

// Validate checks every gene against the layer sizes and the bias vector lengths.
func (g *Genome) Validate() error {
	if len(g.HiddenBias) != g.Config.NumHidden {
		return fmt.Errorf("%w: hidden bias has %d entries, want %d", ErrConfiguration, len(g.HiddenBias), g.Config.NumHidden)
	}
	if len(g.OutputBias) != g.Config.NumOutputs {
		return fmt.Errorf("%w: output bias has %d entries, want %d", ErrConfiguration, len(g.OutputBias), g.Config.NumOutputs)
	}
	for i, gene := range g.Genes {
		if err := gene.Validate(g.Config); err != nil {
			return fmt.Errorf("gene %d: %w", i, err)
		}
	}
	return nil
}

// String returns a short summary of the genome.
func (g *Genome) String() string {
	hidden := 0
	for _, gene := range g.Genes {
		if gene.TargetsHidden {
			hidden++
		}
	}
	return fmt.Sprintf("Genome(Genes: %d, InputHidden: %d, HiddenOutput: %d)", len(g.Genes), hidden, len(g.Genes)-hidden)
}

// drawCount picks a value uniformly from the inclusive range [lo, hi].
func drawCount(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}
