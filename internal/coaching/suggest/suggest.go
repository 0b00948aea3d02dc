package suggest

import "errors"

var ErrInvalidInput = errors.New("invalid input")

// Basis names the rule a weight suggestion came from.
type Basis string

const (
	BasisFirstTime           Basis = "first_time"
	BasisPreviousPerformance Basis = "previous_performance"
	BasisProgressiveOverload Basis = "progressive_overload"
	BasisDeloadAdjusted      Basis = "deload_adjusted"
	BasisWarmupRamp          Basis = "warmup_ramp"
)

type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

type WeightSuggestion struct {
	SuggestedWeight float64    `json:"suggestedWeight"`
	RepsMin         int        `json:"repsMin"`
	RepsMax         int        `json:"repsMax"`
	Confidence      Confidence `json:"confidence"`
	Basis           Basis      `json:"basis"`
	Reason          string     `json:"reason,omitempty"`
}

// Directive tells the lifter what to do with the next set in the
// same exercise.
type Directive string

const (
	DirectiveIncrease Directive = "increase"
	DirectiveHold     Directive = "hold"
	DirectiveDecrease Directive = "decrease"
)

type AfterSetInput struct {
	SetNumber     int     `json:"setNumber"`
	TotalSets     int     `json:"totalSets"`
	CompletedReps int     `json:"completedReps"`
	TargetReps    int     `json:"targetReps"`
	RPE           float64 `json:"rpe"`
	TargetRPE     float64 `json:"targetRpe"`
}

type SetFeedback struct {
	Directive       Directive `json:"directive"`
	WeightChangePct float64   `json:"weightChangePct"`
	Reason          string    `json:"reason"`
	// ForNextSession is set on the last set of the exercise, there is
	// no next set to apply the directive to in this session.
	ForNextSession bool `json:"forNextSession"`
}

type WarmupSet struct {
	SetNumber int     `json:"setNumber"`
	Weight    float64 `json:"weight"`
	Reps      int     `json:"reps"`
}

type SlotType string

const (
	SlotPrimary   SlotType = "primary"
	SlotSecondary SlotType = "secondary"
	SlotAccessory SlotType = "accessory"
	SlotOptional  SlotType = "optional"
)

type ExerciseCategory string

const (
	CategoryCompound  ExerciseCategory = "compound"
	CategoryIsolation ExerciseCategory = "isolation"
	CategoryCardio    ExerciseCategory = "cardio"
	CategoryMobility  ExerciseCategory = "mobility"
)

type RestTimer struct {
	Seconds int `json:"seconds"`
}
