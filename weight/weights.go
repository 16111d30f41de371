package weight

import "fmt"

// NormalizeCounts converts hit counts into weights count/total that sum to
// one. A track without hits gets weight 0. A zero total fails with
// ErrDegenerateWeights instead of producing NaN weights.
func NormalizeCounts(counts []int) ([]float64, error) {
	total := 0
	for t, c := range counts {
		if c < 0 {
			return nil, fmt.Errorf("negative hit count %d for track %d", c, t)
		}
		total += c
	}
	if total == 0 {
		return nil, fmt.Errorf("%w (%d tracks)", ErrDegenerateWeights, len(counts))
	}

	weights := make([]float64, len(counts))
	p := float64(total)
	for t, c := range counts {
		weights[t] = float64(c) / p
	}
	return weights, nil
}
