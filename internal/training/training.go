package training

import (
	"errors"
	"time"
)

var (
	ErrSetNotFound             = errors.New("training set not found")
	ErrSessionNotFound         = errors.New("training session not found")
	ErrExerciseDefaultNotFound = errors.New("exercise default not found")
	ErrUserSettingsNotFound    = errors.New("user settings not found")
)

// Set is a single logged set, warm-up or working.
type Set struct {
	ID         int       `json:"id"`
	UserID     string    `json:"userId"`
	SessionID  int       `json:"sessionId"`
	ExerciseID string    `json:"exerciseId"`
	SetNumber  int       `json:"setNumber"`
	Weight     float64   `json:"weight"`
	Reps       int       `json:"reps"`
	RPE        float64   `json:"rpe"`
	IsWarmup   bool      `json:"isWarmup"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Volume is weight x reps, the unit is whatever the set was logged in.
func (s Set) Volume() float64 {
	return s.Weight * float64(s.Reps)
}

type Session struct {
	ID         int        `json:"id"`
	UserID     string     `json:"userId"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

// RecoveryLog is a daily self-report, all fields on a 1-5 scale.
// Higher sleep quality and energy mean better recovery, higher
// soreness and stress mean worse.
type RecoveryLog struct {
	ID              int       `json:"id"`
	UserID          string    `json:"userId"`
	Date            time.Time `json:"date"`
	SleepQuality    int       `json:"sleepQuality"`
	EnergyLevel     int       `json:"energyLevel"`
	OverallSoreness int       `json:"overallSoreness"`
	StressLevel     int       `json:"stressLevel"`
}

// ExerciseDefault remembers how an exercise went the last time,
// used as the base for the next weight suggestion.
type ExerciseDefault struct {
	UserID     string    `json:"userId"`
	ExerciseID string    `json:"exerciseId"`
	LastWeight float64   `json:"lastWeight"`
	LastReps   int       `json:"lastReps"`
	LastRPE    float64   `json:"lastRpe"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type UserSettings struct {
	UserID               string `json:"userId"`
	TargetWeeklySessions int    `json:"targetWeeklySessions"`
	WeightUnit           string `json:"weightUnit"`
}
