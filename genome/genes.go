package genome

import (
	"fmt"
	"math/rand"
)

// Gene describes one entry of a sparse weight matrix.
// Genes are stored by value, so a gene placed in a genome is never modified;
// operators replace whole genes instead.
type Gene struct {
	TargetsHidden bool    // true: input->hidden connection, false: hidden->output.
	Source        int     // Index into the source layer (inputs or hidden neurons).
	Target        int     // Index into the target layer (hidden or output neurons).
	Weight        float64 // Weight written into the addressed matrix cell.
}

// NewRandomGene creates a gene with a uniformly chosen layer, position and weight.
func NewRandomGene(rng *rand.Rand, config *Config) Gene {
	g := Gene{TargetsHidden: rng.Float64() < 0.5}
	if g.TargetsHidden {
		g.Source = rng.Intn(config.NumInputs)
		g.Target = rng.Intn(config.NumHidden)
	} else {
		g.Source = rng.Intn(config.NumHidden)
		g.Target = rng.Intn(config.NumOutputs)
	}
	g.Weight = uniform(rng, config.WeightMinValue, config.WeightMaxValue)
	return g
}

// String returns a string representation of the Gene.
func (g Gene) String() string {
	layer := "hidden->output"
	if g.TargetsHidden {
		layer = "input->hidden"
	}
	return fmt.Sprintf("Gene(%s, %d->%d, Weight: %.3f)", layer, g.Source, g.Target, g.Weight)
}

// Validate reports whether the gene's indices fit the layer pairing it targets.
func (g Gene) Validate(config *Config) error {
	sources, targets := config.NumHidden, config.NumOutputs
	if g.TargetsHidden {
		sources, targets = config.NumInputs, config.NumHidden
	}
	if g.Source < 0 || g.Source >= sources {
		return fmt.Errorf("%w: %s source index out of range [0, %d)", ErrConfiguration, g, sources)
	}
	if g.Target < 0 || g.Target >= targets {
		return fmt.Errorf("%w: %s target index out of range [0, %d)", ErrConfiguration, g, targets)
	}
	return nil
}

func uniform(rng *rand.Rand, minVal, maxVal float64) float64 {
	return minVal + rng.Float64()*(maxVal-minVal)
}

func randomVector(rng *rand.Rand, size int, minVal, maxVal float64) []float64 {
	v := make([]float64, size)
	for i := range v {
		v[i] = uniform(rng, minVal, maxVal)
	}
	return v
}
