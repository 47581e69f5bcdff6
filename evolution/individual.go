package evolution

import (
	"fmt"

	"github.com/gofrs/uuid"

	"github.com/baldhumanity/dino-evo/brain"
	"github.com/baldhumanity/dino-evo/genome"
)

// Agent is the capability set the simulation needs from anything it can kill and revive.
type Agent interface {
	Alive() bool
	Score() int
	Die(score int)
	Reset()
}

// Individual is one controller under evaluation: a genome, the network built
// from it, and the alive/score bookkeeping set by the game.
type Individual struct {
	ID     string
	Genome *genome.Genome
	Brain  *brain.Network

	activation brain.ActivationType
	alive      bool
	score      int
}

var _ Agent = (*Individual)(nil)

// NewIndividual builds a fresh, alive individual around g.
func NewIndividual(g *genome.Genome, activation brain.ActivationType) (*Individual, error) {
	net, err := brain.Build(g, activation)
	if err != nil {
		return nil, fmt.Errorf("failed to build network: %w", err)
	}
	return &Individual{
		ID:         uuid.Must(uuid.NewV4()).String(),
		Genome:     g,
		Brain:      net,
		activation: activation,
		alive:      true,
	}, nil
}

// Alive reports whether the individual is still playing.
func (ind *Individual) Alive() bool { return ind.alive }

// Score returns the terminal score, or zero while alive.
func (ind *Individual) Score() int { return ind.score }

// Die marks the individual as eliminated with the given terminal score.
// Only the first call has an effect.
func (ind *Individual) Die(score int) {
	if !ind.alive {
		return
	}
	ind.alive = false
	ind.score = score
}

// Reset makes the individual alive again with a zero score, keeping its genome.
func (ind *Individual) Reset() {
	ind.alive = true
	ind.score = 0
}

// Think feeds one sensor vector through the network and decodes the action.
// Dead individuals do nothing.
func (ind *Individual) Think(sensors []float64) (brain.Action, error) {
	if !ind.alive {
		return brain.Action{}, nil
	}
	outputs, err := ind.Brain.Evaluate(sensors)
	if err != nil {
		return brain.Action{}, fmt.Errorf("individual %s: %w", ind.ID, err)
	}
	return brain.DecodeAction(outputs), nil
}

// Snapshot returns a frozen copy: same ID and score, dead, with its own genome
// copy and network. Later changes to ind never reach the snapshot.
func (ind *Individual) Snapshot() (*Individual, error) {
	g := ind.Genome.Copy()
	net, err := brain.Build(g, ind.activation)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot individual %s: %w", ind.ID, err)
	}
	return &Individual{
		ID:         ind.ID,
		Genome:     g,
		Brain:      net,
		activation: ind.activation,
		score:      ind.score,
	}, nil
}

// Clone returns a new alive individual with a copy of ind's genome.
func (ind *Individual) Clone() (*Individual, error) {
	return NewIndividual(ind.Genome.Copy(), ind.activation)
}

// String returns a short description of the individual.
func (ind *Individual) String() string {
	return fmt.Sprintf("Individual(%s, Alive: %t, Score: %d)", ind.ID, ind.alive, ind.score)
}
