package evolution

import (
	"errors"

	"github.com/baldhumanity/dino-evo/genome"
)

var (
	// ErrConfiguration marks invalid configuration or genes that cannot be applied.
	ErrConfiguration = genome.ErrConfiguration

	// ErrSampling is reported when a tournament needs more individuals than
	// the generation holds.
	ErrSampling = errors.New("sampling error")

	// ErrGenerationAlive is returned when a transition is requested while
	// some individual is still alive.
	ErrGenerationAlive = errors.New("generation still has living individuals")

	// ErrTransitioning is returned when the population is used during a transition.
	ErrTransitioning = errors.New("population is transitioning")
)
