package suggest

import "fmt"

// WarmupSets builds the warm-up ramp for a working weight. A zero
// weight (bodyweight work) yields an empty ramp rather than an error.
func (e *Engine) WarmupSets(workingWeight float64) ([]WarmupSet, error) {
	if workingWeight < 0 {
		return nil, fmt.Errorf("%w: negative working weight %.1f", ErrInvalidInput, workingWeight)
	}
	if workingWeight == 0 {
		return []WarmupSet{}, nil
	}

	sets := make([]WarmupSet, 0, len(e.cfg.WarmupRamp))
	for i, step := range e.cfg.WarmupRamp {
		sets = append(sets, WarmupSet{
			SetNumber: i + 1,
			Weight:    e.roundToPlate(workingWeight * step.Percent),
			Reps:      step.Reps,
		})
	}
	return sets, nil
}
