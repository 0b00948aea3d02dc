package suggest

// WarmupStep is one rung of the warm-up ramp, a fraction of the
// working weight at a fixed rep count.
type WarmupStep struct {
	Percent float64
	Reps    int
}

type Config struct {
	// TargetReps and TargetRPE are what a performance has to hit for
	// the progressive overload rule to fire.
	TargetReps int
	TargetRPE  float64

	// RepsMin and RepsMax bound the suggested working rep range.
	RepsMin int
	RepsMax int

	// OverloadIncrementPct is the relative weight bump after a met
	// target, never below MinPlateIncrement in absolute terms.
	OverloadIncrementPct float64
	// MinPlateIncrement is the smallest equipment step, suggestions
	// are rounded to a multiple of it.
	MinPlateIncrement float64
	// BackoffPct is the relative reduction after a clearly missed
	// target.
	BackoffPct float64

	// FirstTimeWeight is the conservative default for an exercise
	// with no history, in the user's own unit.
	FirstTimeWeight float64

	// ConfidenceLookbackDays bounds the history scan that grades
	// suggestion confidence.
	ConfidenceLookbackDays int

	WarmupRamp []WarmupStep

	// RestSeconds must cover every slot and category combination.
	RestSeconds map[SlotType]map[ExerciseCategory]int
}

func DefaultConfig() Config {
	return Config{
		TargetReps:             8,
		TargetRPE:              8.0,
		RepsMin:                8,
		RepsMax:                12,
		OverloadIncrementPct:   0.025,
		MinPlateIncrement:      2.5,
		BackoffPct:             0.05,
		FirstTimeWeight:        20,
		ConfidenceLookbackDays: 60,
		WarmupRamp: []WarmupStep{
			{Percent: 0.4, Reps: 10},
			{Percent: 0.6, Reps: 6},
			{Percent: 0.8, Reps: 3},
		},
		RestSeconds: map[SlotType]map[ExerciseCategory]int{
			SlotPrimary: {
				CategoryCompound:  300,
				CategoryIsolation: 150,
				CategoryCardio:    120,
				CategoryMobility:  60,
			},
			SlotSecondary: {
				CategoryCompound:  180,
				CategoryIsolation: 120,
				CategoryCardio:    90,
				CategoryMobility:  45,
			},
			SlotAccessory: {
				CategoryCompound:  120,
				CategoryIsolation: 90,
				CategoryCardio:    60,
				CategoryMobility:  30,
			},
			SlotOptional: {
				CategoryCompound:  90,
				CategoryIsolation: 60,
				CategoryCardio:    45,
				CategoryMobility:  30,
			},
		},
	}
}
