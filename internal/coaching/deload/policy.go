package deload

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/liftado/liftado/internal/coaching/fatigue"
	"github.com/liftado/liftado/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

type fatigueScorer interface {
	CalculateFatigue(ctx context.Context, userID string) (*fatigue.Assessment, error)
}

type deloadRepo interface {
	GetActive(ctx context.Context, userID string) (*ActiveDeload, error)
	Last(ctx context.Context, userID string) (*ActiveDeload, error)
	Start(ctx context.Context, deload ActiveDeload) (int, error)
	End(ctx context.Context, userID string, endedAt time.Time) error
}

// Policy decides whether a deload should start, continue or end.
// It never starts a deload on its own, StartDeload is an explicit
// caller action.
type Policy struct {
	repo   deloadRepo
	scorer fatigueScorer
	cfg    Config
	now    func() time.Time
}

func NewPolicy(repo deloadRepo, scorer fatigueScorer, cfg Config) *Policy {
	return &Policy{
		repo:   repo,
		scorer: scorer,
		cfg:    cfg,
		now:    time.Now,
	}
}

// CheckDeloadNeeded evaluates the current fatigue against the deload
// history. Pure function of the underlying data, calling it twice with
// unchanged data yields the same decision.
func (p *Policy) CheckDeloadNeeded(ctx context.Context, userID string) (_ *Decision, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "policy.coaching.deload.check")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	assessment, err := p.scorer.CalculateFatigue(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("calculate fatigue: %w", err)
	}

	noDeload := &Decision{
		ShouldDeload:      false,
		VolumeModifier:    1.0,
		IntensityModifier: 1.0,
		Score:             assessment.Score,
	}

	if _, err := p.repo.GetActive(ctx, userID); err == nil {
		noDeload.Reason = "a deload is already active"
		return noDeload, nil
	} else if !errors.Is(err, ErrNoActiveDeload) {
		return nil, fmt.Errorf("get active deload: %w", err)
	}

	cooldownElapsed, err := p.cooldownElapsed(ctx, userID)
	if err != nil {
		return nil, err
	}

	var deloadType Type
	switch {
	case assessment.Score >= p.cfg.EmergencyScore:
		deloadType = TypeFullRest
	case assessment.Score >= p.cfg.TriggerScore:
		deloadType = typeForAssessment(assessment)
	case assessment.Score >= p.cfg.ElevatedScore && cooldownElapsed:
		deloadType = typeForAssessment(assessment)
	default:
		noDeload.Reason = fmt.Sprintf("fatigue score %.1f (%s), no deload needed", assessment.Score, assessment.Level)
		return noDeload, nil
	}

	params := p.cfg.Types[deloadType]
	return &Decision{
		ShouldDeload:      true,
		DeloadType:        deloadType,
		DurationDays:      params.DurationDays,
		VolumeModifier:    params.VolumeModifier,
		IntensityModifier: params.IntensityModifier,
		Reason:            reasonForAssessment(assessment, deloadType),
		Score:             assessment.Score,
	}, nil
}

func (p *Policy) cooldownElapsed(ctx context.Context, userID string) (bool, error) {
	last, err := p.repo.Last(ctx, userID)
	if errors.Is(err, ErrNoDeloadHistory) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("get last deload: %w", err)
	}
	return p.now().Sub(last.StartDate) >= time.Duration(p.cfg.CooldownDays)*24*time.Hour, nil
}

// typeForAssessment picks the deload type from the dominant fatigue
// driver: a volume spike asks for a volume deload, a performance decline
// at stable volume for an intensity deload.
func typeForAssessment(assessment *fatigue.Assessment) Type {
	var spike, decline float64
	for _, f := range assessment.Factors {
		switch f.Signal {
		case fatigue.SignalVolumeSpike:
			spike = f.Contribution
		case fatigue.SignalPerformanceDecline:
			decline = f.Contribution
		}
	}

	if decline > 0 && spike <= 0 {
		return TypeIntensity
	}
	return TypeVolume
}

func reasonForAssessment(assessment *fatigue.Assessment, deloadType Type) string {
	reason := fmt.Sprintf("fatigue score %.1f (%s)", assessment.Score, assessment.Level)
	if len(assessment.Factors) > 0 && assessment.Factors[0].Contribution > 0 {
		reason += ": " + assessment.Factors[0].Detail
	}
	if deloadType == TypeFullRest {
		reason += ", full rest advised"
	}
	return reason
}

// GetActiveDeload returns the active deload or nil when there is none.
// A record past its end date is still returned with DaysRemaining 0,
// archiving it is the caller's call.
func (p *Policy) GetActiveDeload(ctx context.Context, userID string) (_ *ActiveDeload, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "policy.coaching.deload.getactive")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	active, err := p.repo.GetActive(ctx, userID)
	if errors.Is(err, ErrNoActiveDeload) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active deload: %w", err)
	}

	active.Refresh(p.now())
	return active, nil
}

// StartDeload activates a deload from an accepted decision. Only one
// deload can be active per user, a second start fails with
// ErrDeloadAlreadyActive.
func (p *Policy) StartDeload(ctx context.Context, userID string, decision Decision, triggeringScore float64) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "policy.coaching.deload.start")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))
	span.SetAttributes(attribute.String("deload_type", string(decision.DeloadType)))

	if !decision.ShouldDeload {
		return 0, ErrInvalidDecision
	}
	params, ok := p.cfg.Types[decision.DeloadType]
	if !ok {
		return 0, fmt.Errorf("%w: unknown deload type %q", ErrInvalidDecision, decision.DeloadType)
	}

	durationDays := decision.DurationDays
	if durationDays <= 0 {
		durationDays = params.DurationDays
	}
	volumeModifier := decision.VolumeModifier
	intensityModifier := decision.IntensityModifier
	if decision.DeloadType == TypeFullRest {
		// full rest means no prescribed volume at all
		volumeModifier = 0
	}

	id, err := p.repo.Start(ctx, ActiveDeload{
		UserID:            userID,
		StartDate:         p.now(),
		DurationDays:      durationDays,
		DeloadType:        decision.DeloadType,
		VolumeModifier:    volumeModifier,
		IntensityModifier: intensityModifier,
		TriggerReason:     decision.Reason,
		TriggerScore:      triggeringScore,
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// EndDeload explicitly ends the active deload.
func (p *Policy) EndDeload(ctx context.Context, userID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "policy.coaching.deload.end")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	return p.repo.End(ctx, userID, p.now())
}
