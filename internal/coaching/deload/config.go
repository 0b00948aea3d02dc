package deload

// TypeParams are the default duration and prescription modifiers of one
// deload type.
type TypeParams struct {
	DurationDays      int
	VolumeModifier    float64
	IntensityModifier float64
}

// Config holds the deload trigger thresholds and the per-type parameter
// table. Deterministic and table-driven, no randomness.
type Config struct {
	// TriggerScore starts a recommendation on its own.
	TriggerScore float64
	// ElevatedScore starts a recommendation only once CooldownDays have
	// passed since the last deload started.
	ElevatedScore float64
	// EmergencyScore switches the recommendation to full rest.
	EmergencyScore float64
	CooldownDays   int

	Types map[Type]TypeParams
}

func DefaultConfig() Config {
	return Config{
		TriggerScore:   8.0,
		ElevatedScore:  6.0,
		EmergencyScore: 9.0,
		CooldownDays:   28,
		Types: map[Type]TypeParams{
			TypeVolume: {
				DurationDays:      7,
				VolumeModifier:    0.6,
				IntensityModifier: 1.0,
			},
			TypeIntensity: {
				DurationDays:      5,
				VolumeModifier:    1.0,
				IntensityModifier: 0.85,
			},
			TypeFullRest: {
				DurationDays:      3,
				VolumeModifier:    0,
				IntensityModifier: 0,
			},
		},
	}
}
