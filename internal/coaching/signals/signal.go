package signals

import "time"

// TrainingSignal is the normalized input of the fatigue scorer. It is
// computed on demand and never persisted.
type TrainingSignal struct {
	// VolumeTrend is the ratio of the most recent week total working-set
	// volume to the trailing weekly baseline. 1.0 when no baseline exists.
	VolumeTrend          float64 `json:"volumeTrend"`
	WeeklyVolume         float64 `json:"weeklyVolume"`
	BaselineWeeklyVolume float64 `json:"baselineWeeklyVolume"`

	// RecoveryAverage is the mean recovery self-report over the lookback
	// window, on a 1-5 scale, soreness and stress inverted. 3.0 (midpoint)
	// when no logs exist.
	RecoveryAverage float64 `json:"recoveryAverage"`

	// PerformanceDecline is set when the best estimated 1RM of any exercise
	// dropped versus the prior comparable window.
	PerformanceDecline bool `json:"performanceDecline"`

	SessionsLast7Days    int `json:"sessionsLast7Days"`
	TargetWeeklySessions int `json:"targetWeeklySessions"`
	// SessionFrequency is completed sessions over the trailing 7 days
	// divided by the target weekly sessions.
	SessionFrequency float64 `json:"sessionFrequency"`

	ConsecutiveTrainingDays int `json:"consecutiveTrainingDays"`

	AsOf time.Time `json:"asOf"`
}

// EstimateOneRepMax returns the Epley estimate: weight * (1 + reps/30).
func EstimateOneRepMax(weight float64, reps int) float64 {
	if reps <= 1 {
		return weight
	}
	return weight * (1 + float64(reps)/30)
}
