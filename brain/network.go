// Package brain turns a genome into a two-layer feed-forward network and evaluates it.
package brain

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/baldhumanity/dino-evo/genome"
)

// Network is the phenotype built from a genome: an input->hidden and a
// hidden->output weight matrix plus the genome's bias vectors.
type Network struct {
	hiddenWeights *mat.Dense    // NumHidden x NumInputs
	outputWeights *mat.Dense    // NumOutputs x NumHidden
	hiddenBias    *mat.VecDense // Shares its backing slice with the genome.
	outputBias    *mat.VecDense // Shares its backing slice with the genome.
	activation    ActivationType

	// Transient state of the last forward pass, kept for introspection only.
	LastInputs  []float64
	LastHidden  []float64
	LastOutputs []float64
}

// Build creates a network from g. Both matrices start at zero and the genes
// are applied in order, so when several genes address the same cell the last
// one wins and untouched cells stay zero. A nil activation selects ReLU.
func Build(g *genome.Genome, activation ActivationType) (*Network, error) {
	if g == nil || g.Config == nil {
		return nil, fmt.Errorf("%w: genome without config", genome.ErrConfiguration)
	}
	config := g.Config
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if len(g.HiddenBias) != config.NumHidden || len(g.OutputBias) != config.NumOutputs {
		return nil, fmt.Errorf("%w: bias vectors (%d, %d) do not match layers (%d, %d)",
			genome.ErrConfiguration, len(g.HiddenBias), len(g.OutputBias), config.NumHidden, config.NumOutputs)
	}
	if activation == nil {
		activation = ReLU
	}

	hidden := mat.NewDense(config.NumHidden, config.NumInputs, nil)
	output := mat.NewDense(config.NumOutputs, config.NumHidden, nil)
	for i, gene := range g.Genes {
		if err := gene.Validate(config); err != nil {
			return nil, fmt.Errorf("apply gene %d: %w", i, err)
		}
		if gene.TargetsHidden {
			hidden.Set(gene.Target, gene.Source, gene.Weight)
		} else {
			output.Set(gene.Target, gene.Source, gene.Weight)
		}
	}

	return &Network{
		hiddenWeights: hidden,
		outputWeights: output,
		hiddenBias:    mat.NewVecDense(len(g.HiddenBias), g.HiddenBias),
		outputBias:    mat.NewVecDense(len(g.OutputBias), g.OutputBias),
		activation:    activation,
		LastInputs:    make([]float64, config.NumInputs),
		LastHidden:    make([]float64, config.NumHidden),
		LastOutputs:   make([]float64, config.NumOutputs),
	}, nil
}

// NumInputs returns the expected sensor vector length.
func (n *Network) NumInputs() int {
	_, c := n.hiddenWeights.Dims()
	return c
}

// Evaluate computes activation(W_out * activation(W_hidden * x + b_hidden) + b_out).
// The result depends only on the bound weights, biases and x.
func (n *Network) Evaluate(sensors []float64) ([]float64, error) {
	if len(sensors) != n.NumInputs() {
		return nil, fmt.Errorf("mismatch between input count (%d) and network input neurons (%d)", len(sensors), n.NumInputs())
	}

	x := mat.NewVecDense(len(sensors), append([]float64(nil), sensors...))
	hidden := n.layer(n.hiddenWeights, x, n.hiddenBias)
	output := n.layer(n.outputWeights, hidden, n.outputBias)

	outputs := append([]float64(nil), output.RawVector().Data...)
	copy(n.LastInputs, sensors)
	copy(n.LastHidden, hidden.RawVector().Data)
	copy(n.LastOutputs, outputs)
	return outputs, nil
}

func (n *Network) layer(weights *mat.Dense, in, bias *mat.VecDense) *mat.VecDense {
	rows, _ := weights.Dims()
	out := mat.NewVecDense(rows, nil)
	out.MulVec(weights, in)
	out.AddVec(out, bias)
	for i := 0; i < rows; i++ {
		out.SetVec(i, n.activation(out.AtVec(i)))
	}
	return out
}

// HiddenWeights returns a copy of the input->hidden matrix.
func (n *Network) HiddenWeights() *mat.Dense {
	return mat.DenseCopyOf(n.hiddenWeights)
}

// OutputWeights returns a copy of the hidden->output matrix.
func (n *Network) OutputWeights() *mat.Dense {
	return mat.DenseCopyOf(n.outputWeights)
}

// NonZeroHidden counts the non-zero cells of the input->hidden matrix.
func (n *Network) NonZeroHidden() int {
	return countNonZero(n.hiddenWeights)
}

// NonZeroOutput counts the non-zero cells of the hidden->output matrix.
func (n *Network) NonZeroOutput() int {
	return countNonZero(n.outputWeights)
}

func countNonZero(m *mat.Dense) int {
	count := 0
	rows, cols := m.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if m.At(i, j) != 0 {
				count++
			}
		}
	}
	return count
}
