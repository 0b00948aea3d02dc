package fatigue

// Config holds the scoring weights and level boundaries. The weights are
// directional by design: poor recovery raises fatigue, volume spikes weigh
// more than drops, a performance decline adds a fixed step penalty.
// All values are tunable, DefaultConfig is the calibrated baseline.
type Config struct {
	// RecoveryMax is the contribution of the worst possible recovery
	// average (1.0 on the 1-5 scale). A neutral 3.0 contributes half.
	RecoveryMax float64

	// volume trend
	SpikeThreshold float64 // trend ratio above which volume counts as a spike
	SpikeBase      float64 // flat contribution of any spike
	SpikeSlope     float64 // extra contribution per trend unit above the threshold
	SpikeExtraMax  float64 // cap of the extra contribution
	DropThreshold  float64 // trend ratio below which volume counts as a drop
	DropPenalty    float64 // flat contribution of a drop

	// session frequency vs target
	FrequencyThreshold float64
	FrequencySlope     float64
	FrequencyMax       float64

	// consecutive training days
	StreakThresholdDays int
	StreakPerDay        float64
	StreakMax           float64

	DeclinePenalty float64

	// level boundaries, half-open: fresh < Manageable <= manageable <
	// Accumulating <= accumulating < High <= high
	ManageableScore   float64
	AccumulatingScore float64
	HighScore         float64
}

func DefaultConfig() Config {
	return Config{
		RecoveryMax: 3.5,

		SpikeThreshold: 1.2,
		SpikeBase:      3.0,
		SpikeSlope:     5.0,
		SpikeExtraMax:  2.0,
		DropThreshold:  0.8,
		DropPenalty:    1.5,

		FrequencyThreshold: 1.2,
		FrequencySlope:     5.0,
		FrequencyMax:       1.5,

		StreakThresholdDays: 6,
		StreakPerDay:        0.5,
		StreakMax:           2.0,

		DeclinePenalty: 1.5,

		ManageableScore:   4.0,
		AccumulatingScore: 6.0,
		HighScore:         8.0,
	}
}
