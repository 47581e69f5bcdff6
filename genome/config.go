package genome

import "fmt"

// Config holds parameters specific to the structure and mutation of genomes.
type Config struct {
	Length     int `ini:"genome_length"` // Number of genes; fixed for the lifetime of a genome.
	NumInputs  int `ini:"num_inputs"`
	NumHidden  int `ini:"num_hidden"`
	NumOutputs int `ini:"num_outputs"`

	WeightMinValue float64 `ini:"weight_min_value"`
	WeightMaxValue float64 `ini:"weight_max_value"`
	BiasMinValue   float64 `ini:"bias_min_value"`
	BiasMaxValue   float64 `ini:"bias_max_value"`

	// Inclusive bounds for the number of index draws per operator.
	MutateMinGenes    int `ini:"mutate_min_genes"`
	MutateMaxGenes    int `ini:"mutate_max_genes"`
	CrossoverMinGenes int `ini:"crossover_min_genes"`
	CrossoverMaxGenes int `ini:"crossover_max_genes"`
}

// DefaultConfig returns the 16-gene, 7-7-2 layout used by the dino controller.
func DefaultConfig() Config {
	return Config{
		Length:            16,
		NumInputs:         7,
		NumHidden:         7,
		NumOutputs:        2,
		WeightMinValue:    -1,
		WeightMaxValue:    1,
		BiasMinValue:      -1,
		BiasMaxValue:      1,
		MutateMinGenes:    1,
		MutateMaxGenes:    4,
		CrossoverMinGenes: 1,
		CrossoverMaxGenes: 4,
	}
}

// Validate checks that the layer sizes and operator bounds are usable.
func (c Config) Validate() error {
	if c.Length <= 0 {
		return fmt.Errorf("%w: genome_length must be positive", ErrConfiguration)
	}
	if c.NumInputs <= 0 || c.NumHidden <= 0 || c.NumOutputs <= 0 {
		return fmt.Errorf("%w: num_inputs, num_hidden and num_outputs must be positive", ErrConfiguration)
	}
	if c.WeightMaxValue < c.WeightMinValue {
		return fmt.Errorf("%w: weight_max_value cannot be less than weight_min_value", ErrConfiguration)
	}
	if c.BiasMaxValue < c.BiasMinValue {
		return fmt.Errorf("%w: bias_max_value cannot be less than bias_min_value", ErrConfiguration)
	}
	if c.MutateMinGenes < 0 || c.MutateMaxGenes < c.MutateMinGenes {
		return fmt.Errorf("%w: mutate gene bounds [%d, %d] are invalid", ErrConfiguration, c.MutateMinGenes, c.MutateMaxGenes)
	}
	if c.CrossoverMinGenes < 0 || c.CrossoverMaxGenes < c.CrossoverMinGenes {
		return fmt.Errorf("%w: crossover gene bounds [%d, %d] are invalid", ErrConfiguration, c.CrossoverMinGenes, c.CrossoverMaxGenes)
	}
	return nil
}
