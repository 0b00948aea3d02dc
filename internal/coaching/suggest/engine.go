package suggest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/liftado/liftado/internal/coaching/deload"
	"github.com/liftado/liftado/internal/telemetry/tracing"
	"github.com/liftado/liftado/internal/training"

	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=engine_mocks_test.go -package=suggest_test

type trainingStore interface {
	GetExerciseDefault(ctx context.Context, userID, exerciseID string) (*training.ExerciseDefault, error)
	ListSets(ctx context.Context, params training.SetParams) ([]training.Set, error)
}

type deloadChecker interface {
	GetActiveDeload(ctx context.Context, userID string) (*deload.ActiveDeload, error)
}

// Engine produces weight, warm-up and rest suggestions. Cross-session
// progression (SuggestWeight) and same-session auto-regulation
// (SuggestionAfterSet) are deliberately separate, they share no state.
type Engine struct {
	store   trainingStore
	deloads deloadChecker
	cfg     Config
	now     func() time.Time
}

func NewEngine(store trainingStore, deloads deloadChecker, cfg Config) *Engine {
	return &Engine{
		store:   store,
		deloads: deloads,
		cfg:     cfg,
		now:     time.Now,
	}
}

// SuggestWeight recommends the load for the next set of an exercise.
// Precedence: an active deload adjusts whatever the base rule would
// have suggested, prior performance drives progressive overload, and
// with no history at all a conservative first time default is returned
// rather than an error.
func (e *Engine) SuggestWeight(ctx context.Context, userID, exerciseID string, setNumber int, isWarmup bool) (_ *WeightSuggestion, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "engine.coaching.suggest.weight")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))
	span.SetAttributes(attribute.String("exercise_id", exerciseID))

	if setNumber < 1 {
		return nil, fmt.Errorf("%w: set number %d", ErrInvalidInput, setNumber)
	}

	suggestion, err := e.baseSuggestion(ctx, userID, exerciseID)
	if err != nil {
		return nil, err
	}

	if isWarmup {
		return e.warmupSuggestion(suggestion, setNumber), nil
	}

	active, err := e.deloads.GetActiveDeload(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get active deload: %w", err)
	}
	if active != nil {
		e.applyDeload(suggestion, active)
	}

	span.SetAttributes(attribute.String("basis", string(suggestion.Basis)))
	return suggestion, nil
}

func (e *Engine) baseSuggestion(ctx context.Context, userID, exerciseID string) (*WeightSuggestion, error) {
	def, err := e.store.GetExerciseDefault(ctx, userID, exerciseID)
	if errors.Is(err, training.ErrExerciseDefaultNotFound) {
		return &WeightSuggestion{
			SuggestedWeight: e.cfg.FirstTimeWeight,
			RepsMin:         e.cfg.RepsMin,
			RepsMax:         e.cfg.RepsMax,
			Confidence:      ConfidenceLow,
			Basis:           BasisFirstTime,
			Reason:          "no history for this exercise yet, starting light",
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get exercise default: %w", err)
	}

	confidence, err := e.confidence(ctx, userID, exerciseID)
	if err != nil {
		return nil, err
	}

	suggestion := &WeightSuggestion{
		RepsMin:    e.cfg.RepsMin,
		RepsMax:    e.cfg.RepsMax,
		Confidence: confidence,
	}

	switch {
	case def.LastReps >= e.cfg.TargetReps && def.LastRPE <= e.cfg.TargetRPE:
		suggestion.SuggestedWeight = e.increasedWeight(def.LastWeight)
		suggestion.Basis = BasisProgressiveOverload
		suggestion.Reason = fmt.Sprintf(
			"hit %d reps at RPE %.1f last time, adding a small increment", def.LastReps, def.LastRPE)
	case def.LastReps < e.cfg.TargetReps && def.LastRPE >= e.cfg.TargetRPE+1:
		suggestion.SuggestedWeight = e.roundToPlate(def.LastWeight * (1 - e.cfg.BackoffPct))
		suggestion.Basis = BasisPreviousPerformance
		suggestion.Reason = fmt.Sprintf(
			"missed the rep target at RPE %.1f last time, backing off", def.LastRPE)
	default:
		suggestion.SuggestedWeight = def.LastWeight
		suggestion.Basis = BasisPreviousPerformance
		suggestion.Reason = "repeating the last working weight"
	}

	return suggestion, nil
}

func (e *Engine) warmupSuggestion(base *WeightSuggestion, setNumber int) *WeightSuggestion {
	step := e.cfg.WarmupRamp[len(e.cfg.WarmupRamp)-1]
	if setNumber <= len(e.cfg.WarmupRamp) {
		step = e.cfg.WarmupRamp[setNumber-1]
	}
	return &WeightSuggestion{
		SuggestedWeight: e.roundToPlate(base.SuggestedWeight * step.Percent),
		RepsMin:         step.Reps,
		RepsMax:         step.Reps,
		Confidence:      base.Confidence,
		Basis:           BasisWarmupRamp,
		Reason:          fmt.Sprintf("warm-up at %.0f%% of the working weight", step.Percent*100),
	}
}

func (e *Engine) applyDeload(suggestion *WeightSuggestion, active *deload.ActiveDeload) {
	if active.VolumeModifier == 0 {
		suggestion.SuggestedWeight = 0
		suggestion.RepsMin = 0
		suggestion.RepsMax = 0
		suggestion.Basis = BasisDeloadAdjusted
		suggestion.Reason = "full rest deload active, no training prescribed"
		return
	}

	suggestion.SuggestedWeight = e.roundToPlate(suggestion.SuggestedWeight * active.IntensityModifier)
	suggestion.RepsMin = scaleReps(suggestion.RepsMin, active.VolumeModifier)
	suggestion.RepsMax = scaleReps(suggestion.RepsMax, active.VolumeModifier)
	suggestion.Basis = BasisDeloadAdjusted
	suggestion.Reason = fmt.Sprintf(
		"%s deload active for %d more days, prescription reduced", active.DeloadType, active.DaysRemaining)
}

// confidence grades how much recent history backs the suggestion,
// counted in distinct training days for the exercise.
func (e *Engine) confidence(ctx context.Context, userID, exerciseID string) (Confidence, error) {
	from := e.now().AddDate(0, 0, -e.cfg.ConfidenceLookbackDays)
	sets, err := e.store.ListSets(ctx, training.SetParams{
		UserID:      userID,
		ExerciseID:  exerciseID,
		From:        &from,
		WorkingOnly: true,
	})
	if err != nil {
		return "", fmt.Errorf("list sets: %w", err)
	}

	days := make(map[time.Time]struct{})
	for _, s := range sets {
		days[s.CreatedAt.Truncate(24*time.Hour)] = struct{}{}
	}

	switch {
	case len(days) >= 3:
		return ConfidenceHigh, nil
	case len(days) >= 1:
		return ConfidenceMedium, nil
	default:
		return ConfidenceLow, nil
	}
}

func (e *Engine) increasedWeight(last float64) float64 {
	increment := last * e.cfg.OverloadIncrementPct
	if increment < e.cfg.MinPlateIncrement {
		increment = e.cfg.MinPlateIncrement
	}
	increased := e.roundToPlate(last + increment)
	if increased <= last {
		increased = last + e.cfg.MinPlateIncrement
	}
	return increased
}

func (e *Engine) roundToPlate(weight float64) float64 {
	if e.cfg.MinPlateIncrement <= 0 {
		return weight
	}
	return math.Round(weight/e.cfg.MinPlateIncrement) * e.cfg.MinPlateIncrement
}

func scaleReps(reps int, modifier float64) int {
	scaled := int(math.Round(float64(reps) * modifier))
	if scaled < 1 {
		scaled = 1
	}
	return scaled
}
