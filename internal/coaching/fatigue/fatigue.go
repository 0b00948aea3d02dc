package fatigue

import "time"

type Level string

const (
	LevelFresh        Level = "fresh"
	LevelManageable   Level = "manageable"
	LevelAccumulating Level = "accumulating"
	LevelHigh         Level = "high"
)

// Factor is one signal contribution to the fatigue score, kept for
// transparency. Not authoritative state.
type Factor struct {
	Signal       string  `json:"signal"`
	Contribution float64 `json:"contribution"`
	Detail       string  `json:"detail"`
}

const (
	SignalVolumeSpike        = "volume_spike"
	SignalVolumeDrop         = "volume_drop"
	SignalRecovery           = "recovery"
	SignalSessionFrequency   = "session_frequency"
	SignalTrainingStreak     = "training_streak"
	SignalPerformanceDecline = "performance_decline"
)

type Assessment struct {
	Score           float64   `json:"score"`
	Level           Level     `json:"level"`
	Action          string    `json:"action"`
	Message         string    `json:"message"`
	Color           string    `json:"color"`
	Factors         []Factor  `json:"factors"`
	Recommendations []string  `json:"recommendations"`
	CreatedAt       time.Time `json:"createdAt"`
}

type levelInfo struct {
	level   Level
	action  string
	message string
	color   string
}

// levelInfoFor is the single mapping of score to level and display info.
// Boundaries are half-open, a score of exactly 4.0 is manageable.
func levelInfoFor(score float64, cfg Config) levelInfo {
	switch {
	case score < cfg.ManageableScore:
		return levelInfo{
			level:   LevelFresh,
			action:  "maintain",
			message: "Fatigue is low. Keep progressing as planned.",
			color:   "green",
		}
	case score < cfg.AccumulatingScore:
		return levelInfo{
			level:   LevelManageable,
			action:  "monitor",
			message: "Fatigue is building but manageable. Watch your recovery.",
			color:   "yellow",
		}
	case score < cfg.HighScore:
		return levelInfo{
			level:   LevelAccumulating,
			action:  "reduce",
			message: "Fatigue is accumulating. Consider easing the training volume.",
			color:   "orange",
		}
	default:
		return levelInfo{
			level:   LevelHigh,
			action:  "deload",
			message: "Fatigue is high. A deload is recommended.",
			color:   "red",
		}
	}
}

// LevelFor maps a score to its level. Total over [0, 10].
func LevelFor(score float64, cfg Config) Level {
	return levelInfoFor(score, cfg).level
}
