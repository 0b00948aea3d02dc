package suggest

import "fmt"

// RestTimerConfig is a pure lookup over slot type and exercise
// category. Every known combination resolves to a positive duration.
func (e *Engine) RestTimerConfig(slot SlotType, category ExerciseCategory) (*RestTimer, error) {
	byCategory, ok := e.cfg.RestSeconds[slot]
	if !ok {
		return nil, fmt.Errorf("%w: unknown slot type %q", ErrInvalidInput, slot)
	}
	seconds, ok := byCategory[category]
	if !ok {
		return nil, fmt.Errorf("%w: unknown exercise category %q", ErrInvalidInput, category)
	}
	return &RestTimer{Seconds: seconds}, nil
}
