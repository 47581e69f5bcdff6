package evolution

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// GenerationStats aggregates the terminal scores of one finished generation.
// Records are appended once per transition and never modified afterwards.
type GenerationStats struct {
	Generation int
	Max        int
	Avg        int // Arithmetic mean truncated toward zero.
	Min        int
	Variance   float64 // Population variance.
	StdDev     float64 // Population standard deviation.
}

// String returns a string representation of the stats.
func (s GenerationStats) String() string {
	return fmt.Sprintf("Generation %d: max %d, avg %d, min %d, variance %.3f, stddev %.3f",
		s.Generation, s.Max, s.Avg, s.Min, s.Variance, s.StdDev)
}

// ComputeStats summarises scores. An empty slice yields all-zero statistics.
func ComputeStats(generation int, scores []int) GenerationStats {
	s := GenerationStats{Generation: generation}
	if len(scores) == 0 {
		return s
	}

	values := make([]float64, len(scores))
	sum := 0
	for i, score := range scores {
		values[i] = float64(score)
		sum += score
	}

	s.Max = int(floats.Max(values))
	s.Min = int(floats.Min(values))
	s.Avg = sum / len(scores)
	_, s.Variance = stat.PopMeanVariance(values, nil)
	s.StdDev = math.Sqrt(s.Variance)
	return s
}
