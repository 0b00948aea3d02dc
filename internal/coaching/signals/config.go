package signals

// Config holds the aggregation windows and thresholds. All values are
// tunable, use DefaultConfig as the baseline.
type Config struct {
	// VolumeLookbackDays is the numerator window of the volume trend.
	VolumeLookbackDays int
	// BaselineLookbackDays is the full trailing window, the baseline is the
	// average weekly volume of [BaselineLookbackDays, VolumeLookbackDays) ago.
	BaselineLookbackDays int
	RecoveryLookbackDays int

	// DeclineWindowDays splits the recent/prior comparison windows of the
	// performance decline check.
	DeclineWindowDays int
	// DeclineTolerance is the relative e1RM drop that counts as a decline.
	DeclineTolerance float64

	// DefaultTargetWeeklySessions is used when the user has no settings yet.
	DefaultTargetWeeklySessions int

	// CacheTTLSeconds bounds how long an aggregated signal may be reused.
	CacheTTLSeconds int
}

func DefaultConfig() Config {
	return Config{
		VolumeLookbackDays:          7,
		BaselineLookbackDays:        28,
		RecoveryLookbackDays:        7,
		DeclineWindowDays:           14,
		DeclineTolerance:            0.025,
		DefaultTargetWeeklySessions: 3,
		CacheTTLSeconds:             60,
	}
}
