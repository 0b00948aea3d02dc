package signals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/liftado/liftado/internal/telemetry/tracing"
	"github.com/liftado/liftado/internal/training"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=aggregator_mocks_test.go -package=signals_test

type trainingRepo interface {
	ListSets(ctx context.Context, params training.SetParams) ([]training.Set, error)
	ListSessions(ctx context.Context, userID string, from, to time.Time) ([]training.Session, error)
	ListRecoveryLogs(ctx context.Context, userID string, from, to time.Time) ([]training.RecoveryLog, error)
	GetUserSettings(ctx context.Context, userID string) (*training.UserSettings, error)
}

// Aggregator reduces raw training history to the TrainingSignal the
// fatigue scorer consumes. Read-only, no policy.
type Aggregator struct {
	repo  trainingRepo
	cache *freecache.Cache
	cfg   Config
}

func NewAggregator(repo trainingRepo, cache *freecache.Cache, cfg Config) *Aggregator {
	return &Aggregator{
		repo:  repo,
		cache: cache,
		cfg:   cfg,
	}
}

func (a *Aggregator) AggregateSignals(ctx context.Context, userID string, asOf time.Time) (_ *TrainingSignal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "aggregator.coaching.signals")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	cacheKey := []byte(fmt.Sprintf("signals::%s::%s", userID, asOf.Format("2006-01-02T15:04")))
	if a.cache != nil {
		if cached, err := a.cache.Get(cacheKey); err == nil {
			var signal TrainingSignal
			if err := json.Unmarshal(cached, &signal); err == nil {
				span.SetAttributes(attribute.Bool("cache_hit", true))
				return &signal, nil
			}
		}
	}

	baselineFrom := asOf.AddDate(0, 0, -a.cfg.BaselineLookbackDays)
	sets, err := a.repo.ListSets(ctx, training.SetParams{
		UserID:      userID,
		From:        &baselineFrom,
		To:          &asOf,
		WorkingOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}

	sessions, err := a.repo.ListSessions(ctx, userID, baselineFrom, asOf)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	recoveryFrom := asOf.AddDate(0, 0, -a.cfg.RecoveryLookbackDays)
	recoveryLogs, err := a.repo.ListRecoveryLogs(ctx, userID, recoveryFrom, asOf)
	if err != nil {
		return nil, fmt.Errorf("list recovery logs: %w", err)
	}

	targetSessions := a.cfg.DefaultTargetWeeklySessions
	settings, err := a.repo.GetUserSettings(ctx, userID)
	switch {
	case err == nil && settings.TargetWeeklySessions > 0:
		targetSessions = settings.TargetWeeklySessions
	case errors.Is(err, training.ErrUserSettingsNotFound):
		// user never configured a target, keep the default
	case err != nil:
		return nil, fmt.Errorf("get user settings: %w", err)
	}

	signal := &TrainingSignal{
		TargetWeeklySessions: targetSessions,
		AsOf:                 asOf,
	}

	a.volumeTrend(signal, sets, asOf)
	signal.RecoveryAverage = recoveryAverage(recoveryLogs)
	signal.PerformanceDecline = a.performanceDeclined(sets, asOf)
	a.sessionFrequency(signal, sessions, asOf)
	signal.ConsecutiveTrainingDays = consecutiveTrainingDays(sessions, asOf)

	if a.cache != nil {
		if signalJson, err := json.Marshal(signal); err == nil {
			if err := a.cache.Set(cacheKey, signalJson, a.cfg.CacheTTLSeconds); err != nil {
				log.Tracef("failed to cache training signal for %s: %s", userID, err)
			}
		}
	}

	return signal, nil
}

func (a *Aggregator) volumeTrend(signal *TrainingSignal, sets []training.Set, asOf time.Time) {
	weekFrom := asOf.AddDate(0, 0, -a.cfg.VolumeLookbackDays)

	var weeklyVolume, baselineVolume float64
	for _, set := range sets {
		if set.CreatedAt.Before(weekFrom) {
			baselineVolume += set.Volume()
		} else {
			weeklyVolume += set.Volume()
		}
	}

	baselineWeeks := float64(a.cfg.BaselineLookbackDays-a.cfg.VolumeLookbackDays) / 7
	signal.WeeklyVolume = weeklyVolume
	if baselineWeeks > 0 {
		signal.BaselineWeeklyVolume = baselineVolume / baselineWeeks
	}

	// no baseline to compare with, treat the trend as neutral
	if signal.BaselineWeeklyVolume == 0 {
		signal.VolumeTrend = 1.0
		return
	}
	signal.VolumeTrend = weeklyVolume / signal.BaselineWeeklyVolume
}

func recoveryAverage(logs []training.RecoveryLog) float64 {
	if len(logs) == 0 {
		return 3.0
	}

	var total float64
	for _, rl := range logs {
		// soreness and stress are inverted: higher means worse recovery
		total += (float64(rl.SleepQuality) +
			float64(rl.EnergyLevel) +
			float64(6-rl.OverallSoreness) +
			float64(6-rl.StressLevel)) / 4
	}
	return total / float64(len(logs))
}

// performanceDeclined compares the best estimated 1RM per exercise in the
// recent window against the prior window of the same length.
func (a *Aggregator) performanceDeclined(sets []training.Set, asOf time.Time) bool {
	recentFrom := asOf.AddDate(0, 0, -a.cfg.DeclineWindowDays)

	recentBest := make(map[string]float64)
	priorBest := make(map[string]float64)
	for _, set := range sets {
		e1rm := EstimateOneRepMax(set.Weight, set.Reps)
		best := priorBest
		if !set.CreatedAt.Before(recentFrom) {
			best = recentBest
		}
		if e1rm > best[set.ExerciseID] {
			best[set.ExerciseID] = e1rm
		}
	}

	for exerciseID, prior := range priorBest {
		recent, ok := recentBest[exerciseID]
		if !ok {
			// not trained recently, no comparison
			continue
		}
		if recent < prior*(1-a.cfg.DeclineTolerance) {
			return true
		}
	}
	return false
}

func (a *Aggregator) sessionFrequency(signal *TrainingSignal, sessions []training.Session, asOf time.Time) {
	weekFrom := asOf.AddDate(0, 0, -a.cfg.VolumeLookbackDays)
	for _, s := range sessions {
		if !s.StartedAt.Before(weekFrom) {
			signal.SessionsLast7Days++
		}
	}
	if signal.TargetWeeklySessions > 0 {
		signal.SessionFrequency = float64(signal.SessionsLast7Days) / float64(signal.TargetWeeklySessions)
	}
}

func consecutiveTrainingDays(sessions []training.Session, asOf time.Time) int {
	trainingDays := make(map[time.Time]bool)
	for _, s := range sessions {
		trainingDays[s.StartedAt.Truncate(24*time.Hour)] = true
	}

	day := asOf.Truncate(24 * time.Hour)
	if !trainingDays[day] {
		// a streak that ended yesterday still counts for today's assessment
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for trainingDays[day] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
