package evolution

import (
	"fmt"
	"log/slog"
	"math/rand"
)

// TournamentSelector samples Size distinct individuals and picks the one with
// the highest score. Ties go to the candidate drawn first.
type TournamentSelector struct {
	Size   int
	Logger *slog.Logger
}

// PickParent runs one tournament over pool. If pool holds fewer than Size
// individuals the tournament shrinks to the whole pool and a warning is logged.
func (s TournamentSelector) PickParent(rng *rand.Rand, pool []*Individual) (*Individual, error) {
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: tournament over an empty generation", ErrSampling)
	}

	k := s.Size
	if k <= 0 {
		k = 1
	}
	if k > len(pool) {
		if s.Logger != nil {
			s.Logger.Warn("tournament size reduced",
				"err", fmt.Errorf("%w: need %d individuals, generation has %d", ErrSampling, k, len(pool)),
				"size", len(pool))
		}
		k = len(pool)
	}

	// Partial Fisher-Yates: the first k entries of order become a sample
	// without replacement.
	order := make([]int, len(pool))
	for i := range order {
		order[i] = i
	}
	var best *Individual
	for i := 0; i < k; i++ {
		j := i + rng.Intn(len(order)-i)
		order[i], order[j] = order[j], order[i]
		candidate := pool[order[i]]
		if best == nil || candidate.Score() > best.Score() {
			best = candidate
		}
	}
	return best, nil
}
