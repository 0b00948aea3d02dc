package fatigue

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/liftado/liftado/internal/coaching/signals"
	"github.com/liftado/liftado/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

type signalsAggregator interface {
	AggregateSignals(ctx context.Context, userID string, asOf time.Time) (*signals.TrainingSignal, error)
}

// Scorer turns an aggregated TrainingSignal into a bounded fatigue score.
// Stateless, computed fresh on every call.
type Scorer struct {
	aggregator signalsAggregator
	cfg        Config
	now        func() time.Time
}

func NewScorer(aggregator signalsAggregator, cfg Config) *Scorer {
	return &Scorer{
		aggregator: aggregator,
		cfg:        cfg,
		now:        time.Now,
	}
}

func (s *Scorer) CalculateFatigue(ctx context.Context, userID string) (_ *Assessment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "scorer.coaching.fatigue")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	signal, err := s.aggregator.AggregateSignals(ctx, userID, s.now())
	if err != nil {
		return nil, fmt.Errorf("aggregate signals: %w", err)
	}

	assessment := AssessSignal(signal, s.cfg)
	assessment.CreatedAt = s.now()

	span.SetAttributes(attribute.Float64("fatigue.score", assessment.Score))
	span.SetAttributes(attribute.String("fatigue.level", string(assessment.Level)))

	return assessment, nil
}

// AssessSignal is the pure scoring function: a weighted sum of bounded
// signal contributions, clamped into [0, 10].
func AssessSignal(signal *signals.TrainingSignal, cfg Config) *Assessment {
	factors := []Factor{
		recoveryFactor(signal, cfg),
		volumeFactor(signal, cfg),
		frequencyFactor(signal, cfg),
		streakFactor(signal, cfg),
		declineFactor(signal, cfg),
	}

	var score float64
	for _, f := range factors {
		score += f.Contribution
	}
	score = clamp(score, 0, 10)

	// biggest contributors first
	sort.SliceStable(factors, func(i, j int) bool {
		return factors[i].Contribution > factors[j].Contribution
	})

	info := levelInfoFor(score, cfg)
	return &Assessment{
		Score:           score,
		Level:           info.level,
		Action:          info.action,
		Message:         info.message,
		Color:           info.color,
		Factors:         factors,
		Recommendations: recommendations(signal, factors, score, cfg),
	}
}

func recoveryFactor(signal *signals.TrainingSignal, cfg Config) Factor {
	recovery := clamp(signal.RecoveryAverage, 1, 5)
	return Factor{
		Signal:       SignalRecovery,
		Contribution: (5 - recovery) / 4 * cfg.RecoveryMax,
		Detail:       fmt.Sprintf("average recovery report %.1f of 5", recovery),
	}
}

func volumeFactor(signal *signals.TrainingSignal, cfg Config) Factor {
	trend := signal.VolumeTrend
	switch {
	case trend >= cfg.SpikeThreshold:
		extra := (trend - cfg.SpikeThreshold) * cfg.SpikeSlope
		if extra > cfg.SpikeExtraMax {
			extra = cfg.SpikeExtraMax
		}
		return Factor{
			Signal:       SignalVolumeSpike,
			Contribution: cfg.SpikeBase + extra,
			Detail:       fmt.Sprintf("weekly volume at %.0f%% of baseline", trend*100),
		}
	case trend <= cfg.DropThreshold:
		return Factor{
			Signal:       SignalVolumeDrop,
			Contribution: cfg.DropPenalty,
			Detail:       fmt.Sprintf("weekly volume dropped to %.0f%% of baseline", trend*100),
		}
	default:
		return Factor{
			Signal: SignalVolumeSpike,
			Detail: fmt.Sprintf("weekly volume at %.0f%% of baseline", trend*100),
		}
	}
}

func frequencyFactor(signal *signals.TrainingSignal, cfg Config) Factor {
	var contribution float64
	if signal.SessionFrequency > cfg.FrequencyThreshold {
		contribution = (signal.SessionFrequency - cfg.FrequencyThreshold) * cfg.FrequencySlope
		if contribution > cfg.FrequencyMax {
			contribution = cfg.FrequencyMax
		}
	}
	return Factor{
		Signal:       SignalSessionFrequency,
		Contribution: contribution,
		Detail: fmt.Sprintf(
			"%d of %d target sessions in the last 7 days",
			signal.SessionsLast7Days, signal.TargetWeeklySessions,
		),
	}
}

func streakFactor(signal *signals.TrainingSignal, cfg Config) Factor {
	var contribution float64
	if signal.ConsecutiveTrainingDays > cfg.StreakThresholdDays {
		contribution = float64(signal.ConsecutiveTrainingDays-cfg.StreakThresholdDays) * cfg.StreakPerDay
		if contribution > cfg.StreakMax {
			contribution = cfg.StreakMax
		}
	}
	return Factor{
		Signal:       SignalTrainingStreak,
		Contribution: contribution,
		Detail:       fmt.Sprintf("%d consecutive training days", signal.ConsecutiveTrainingDays),
	}
}

func declineFactor(signal *signals.TrainingSignal, cfg Config) Factor {
	factor := Factor{
		Signal: SignalPerformanceDecline,
		Detail: "no performance decline detected",
	}
	if signal.PerformanceDecline {
		factor.Contribution = cfg.DeclinePenalty
		factor.Detail = "estimated 1RM dropped versus the prior window"
	}
	return factor
}

func recommendations(signal *signals.TrainingSignal, factors []Factor, score float64, cfg Config) []string {
	var recs []string
	for _, f := range factors {
		if f.Contribution <= 0 {
			continue
		}
		switch f.Signal {
		case SignalVolumeSpike:
			recs = append(recs, "reduce training volume this week")
		case SignalVolumeDrop:
			recs = append(recs, "volume dropped sharply, check for pain or motivation issues")
		case SignalRecovery:
			if signal.RecoveryAverage < 2.5 {
				recs = append(recs, "prioritize sleep and stress management")
			}
		case SignalSessionFrequency:
			recs = append(recs, "training above the weekly target, plan a lighter session")
		case SignalTrainingStreak:
			recs = append(recs, "schedule a rest day")
		case SignalPerformanceDecline:
			recs = append(recs, "strength is declining, lower intensity and reassess")
		}
	}

	if len(recs) == 0 && score < cfg.ManageableScore {
		recs = append(recs, "keep training as planned")
	}
	return recs
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
