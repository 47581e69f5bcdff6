package evolution

import (
	"fmt"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/baldhumanity/dino-evo/brain"
	"github.com/baldhumanity/dino-evo/genome"
)

// Config stores the configuration parameters for a simulation run.
type Config struct {
	Evolution    EvolutionConfig
	Genome       genome.Config
	Network      NetworkConfig
	Reproduction ReproductionConfig
}

// EvolutionConfig holds parameters of the generational loop itself.
type EvolutionConfig struct {
	PopSize        int  `ini:"pop_size"`
	TournamentSize int  `ini:"tournament_size"`
	NormalizeSize  bool `ini:"normalize_size"`  // Trim or pad the crossover quota to exactly PopSize.
	MaxGenerations int  `ini:"max_generations"` // 0 means unbounded; enforced by the driver.
}

// NetworkConfig holds parameters of the phenotype network.
type NetworkConfig struct {
	Activation string `ini:"activation"`
}

// ReproductionConfig holds the fractions of PopSize assigned to each
// reproduction strategy. Each quota is floor(PopSize * fraction).
type ReproductionConfig struct {
	EliteFraction            float64 `ini:"elite_fraction"`
	FreshFraction            float64 `ini:"fresh_fraction"`
	MutateBestFraction       float64 `ini:"mutate_best_fraction"`
	MutateTournamentFraction float64 `ini:"mutate_tournament_fraction"`
	CrossoverFraction        float64 `ini:"crossover_fraction"`
}

// DefaultConfig returns the configuration used by the dino simulation.
func DefaultConfig() *Config {
	return &Config{
		Evolution: EvolutionConfig{
			PopSize:        500,
			TournamentSize: 5,
		},
		Genome:  genome.DefaultConfig(),
		Network: NetworkConfig{Activation: "relu"},
		Reproduction: ReproductionConfig{
			EliteFraction:            0.05,
			FreshFraction:            0.05,
			MutateBestFraction:       0.30,
			MutateTournamentFraction: 0.40,
			CrossoverFraction:        0.20,
		},
	}
}

// LoadConfig loads configuration parameters from an INI file. Keys missing
// from the file keep their DefaultConfig values.
func LoadConfig(filePath string) (*Config, error) {
	config, err := loadConfig(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file '%s': %w", filePath, err)
	}
	return config, nil
}

// ParseConfig is like LoadConfig but reads INI content from memory.
func ParseConfig(data []byte) (*Config, error) {
	return loadConfig(data)
}

func loadConfig(source interface{}) (*Config, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		SpaceBeforeInlineComment: true, // "key = value # comment"
	}, source)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()

	// Map sections to structs
	if err := cfg.Section("Evolution").MapTo(&config.Evolution); err != nil {
		return nil, fmt.Errorf("failed to map [Evolution] section: %w", err)
	}
	if err := cfg.Section("Genome").MapTo(&config.Genome); err != nil {
		return nil, fmt.Errorf("failed to map [Genome] section: %w", err)
	}
	if err := cfg.Section("Network").MapTo(&config.Network); err != nil {
		return nil, fmt.Errorf("failed to map [Network] section: %w", err)
	}
	if err := cfg.Section("Reproduction").MapTo(&config.Reproduction); err != nil {
		return nil, fmt.Errorf("failed to map [Reproduction] section: %w", err)
	}

	config.Network.Activation = strings.ToLower(strings.TrimSpace(config.Network.Activation))
	if config.Network.Activation == "" {
		config.Network.Activation = "relu"
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the configuration and reports problems wrapped in ErrConfiguration.
func (c *Config) Validate() error {
	if c.Evolution.PopSize <= 0 {
		return fmt.Errorf("%w: pop_size must be positive", ErrConfiguration)
	}
	if c.Evolution.TournamentSize <= 0 {
		return fmt.Errorf("%w: tournament_size must be positive", ErrConfiguration)
	}
	if c.Evolution.MaxGenerations < 0 {
		return fmt.Errorf("%w: max_generations cannot be negative", ErrConfiguration)
	}
	if err := c.Genome.Validate(); err != nil {
		return err
	}
	if _, err := brain.GetActivation(c.Network.Activation); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	fractions := map[string]float64{
		"elite_fraction":             c.Reproduction.EliteFraction,
		"fresh_fraction":             c.Reproduction.FreshFraction,
		"mutate_best_fraction":       c.Reproduction.MutateBestFraction,
		"mutate_tournament_fraction": c.Reproduction.MutateTournamentFraction,
		"crossover_fraction":         c.Reproduction.CrossoverFraction,
	}
	for name, f := range fractions {
		if f < 0 || f > 1 {
			return fmt.Errorf("%w: %s must be between 0 and 1", ErrConfiguration, name)
		}
	}

	if ComputeQuotas(c.Evolution.PopSize, &c.Reproduction).Total() == 0 {
		return fmt.Errorf("%w: pop_size %d with the configured fractions yields an empty generation", ErrConfiguration, c.Evolution.PopSize)
	}
	return nil
}
