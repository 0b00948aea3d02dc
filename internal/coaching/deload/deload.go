package deload

import (
	"errors"
	"math"
	"time"
)

var (
	ErrDeloadAlreadyActive = errors.New("deload already active")
	ErrNoActiveDeload      = errors.New("no active deload")
	ErrNoDeloadHistory     = errors.New("no deload history")
	ErrInvalidDecision     = errors.New("invalid deload decision")
)

type Type string

const (
	// TypeVolume reduces set/rep volume and keeps intensity.
	TypeVolume Type = "volume"
	// TypeIntensity reduces the load and keeps volume.
	TypeIntensity Type = "intensity"
	// TypeFullRest means no training at all.
	TypeFullRest Type = "full_rest"
)

type Decision struct {
	ShouldDeload      bool    `json:"shouldDeload"`
	DeloadType        Type    `json:"deloadType,omitempty"`
	DurationDays      int     `json:"durationDays,omitempty"`
	VolumeModifier    float64 `json:"volumeModifier"`
	IntensityModifier float64 `json:"intensityModifier"`
	Reason            string  `json:"reason"`
	Score             float64 `json:"score"`
}

// ActiveDeload is the persisted deload record. EndDate and DaysRemaining
// are derived, Refresh computes them before the record is handed out.
type ActiveDeload struct {
	ID                int        `json:"id"`
	UserID            string     `json:"userId"`
	StartDate         time.Time  `json:"startDate"`
	DurationDays      int        `json:"durationDays"`
	DeloadType        Type       `json:"deloadType"`
	VolumeModifier    float64    `json:"volumeModifier"`
	IntensityModifier float64    `json:"intensityModifier"`
	TriggerReason     string     `json:"triggerReason"`
	TriggerScore      float64    `json:"triggerScore"`
	EndedAt           *time.Time `json:"endedAt,omitempty"`

	EndDate       time.Time `json:"endDate"`
	DaysRemaining int       `json:"daysRemaining"`
}

func (d *ActiveDeload) Refresh(now time.Time) {
	d.EndDate = d.StartDate.AddDate(0, 0, d.DurationDays)
	remaining := int(math.Ceil(d.EndDate.Sub(now).Hours() / 24))
	if remaining < 0 {
		remaining = 0
	}
	d.DaysRemaining = remaining
}
