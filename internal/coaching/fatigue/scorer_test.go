package fatigue_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/liftado/liftado/internal/coaching/fatigue"
	"github.com/liftado/liftado/internal/coaching/signals"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type aggregatorStub struct {
	signal *signals.TrainingSignal
	err    error
}

func (a *aggregatorStub) AggregateSignals(_ context.Context, _ string, _ time.Time) (*signals.TrainingSignal, error) {
	return a.signal, a.err
}

func neutralSignal() *signals.TrainingSignal {
	return &signals.TrainingSignal{
		VolumeTrend:          1.0,
		RecoveryAverage:      3.0,
		SessionFrequency:     1.0,
		TargetWeeklySessions: 3,
		SessionsLast7Days:    3,
	}
}

func TestLevelFor_Boundaries(t *testing.T) {
	cfg := fatigue.DefaultConfig()

	assert.Equal(t, fatigue.LevelFresh, fatigue.LevelFor(0, cfg))
	assert.Equal(t, fatigue.LevelFresh, fatigue.LevelFor(3.999, cfg))
	assert.Equal(t, fatigue.LevelManageable, fatigue.LevelFor(4.0, cfg))
	assert.Equal(t, fatigue.LevelManageable, fatigue.LevelFor(5.999, cfg))
	assert.Equal(t, fatigue.LevelAccumulating, fatigue.LevelFor(6.0, cfg))
	assert.Equal(t, fatigue.LevelAccumulating, fatigue.LevelFor(7.999, cfg))
	assert.Equal(t, fatigue.LevelHigh, fatigue.LevelFor(8.0, cfg))
	assert.Equal(t, fatigue.LevelHigh, fatigue.LevelFor(10.0, cfg))
}

func TestAssessSignal_NeutralIsFresh(t *testing.T) {
	assessment := fatigue.AssessSignal(neutralSignal(), fatigue.DefaultConfig())

	assert.Equal(t, fatigue.LevelFresh, assessment.Level)
	assert.Less(t, assessment.Score, 4.0)
	assert.GreaterOrEqual(t, assessment.Score, 0.0)
	assert.Contains(t, assessment.Recommendations, "keep training as planned")
}

func TestAssessSignal_ScoreClamped(t *testing.T) {
	signal := &signals.TrainingSignal{
		VolumeTrend:             2.5,
		RecoveryAverage:         1.0,
		SessionFrequency:        3.0,
		ConsecutiveTrainingDays: 20,
		PerformanceDecline:      true,
	}

	assessment := fatigue.AssessSignal(signal, fatigue.DefaultConfig())
	assert.Equal(t, 10.0, assessment.Score)
	assert.Equal(t, fatigue.LevelHigh, assessment.Level)
	assert.Equal(t, "deload", assessment.Action)
	assert.Equal(t, "red", assessment.Color)
}

func TestAssessSignal_VolumeSpikeDominates(t *testing.T) {
	signal := neutralSignal()
	signal.VolumeTrend = 1.5

	assessment := fatigue.AssessSignal(signal, fatigue.DefaultConfig())

	assert.GreaterOrEqual(t, assessment.Score, 6.0)
	assert.Contains(
		t,
		[]fatigue.Level{fatigue.LevelAccumulating, fatigue.LevelHigh},
		assessment.Level,
	)
	require.NotEmpty(t, assessment.Factors)
	assert.Equal(t, fatigue.SignalVolumeSpike, assessment.Factors[0].Signal)
	assert.Contains(t, assessment.Recommendations, "reduce training volume this week")
}

func TestAssessSignal_VolumeDropWeighsLessThanSpike(t *testing.T) {
	cfg := fatigue.DefaultConfig()

	spiked := neutralSignal()
	spiked.VolumeTrend = 1.3
	dropped := neutralSignal()
	dropped.VolumeTrend = 0.7

	spikeScore := fatigue.AssessSignal(spiked, cfg).Score
	dropScore := fatigue.AssessSignal(dropped, cfg).Score

	assert.Greater(t, spikeScore, dropScore)
	assert.Greater(t, dropScore, fatigue.AssessSignal(neutralSignal(), cfg).Score)
}

func TestAssessSignal_DeclineStepPenalty(t *testing.T) {
	cfg := fatigue.DefaultConfig()

	declined := neutralSignal()
	declined.PerformanceDecline = true

	base := fatigue.AssessSignal(neutralSignal(), cfg).Score
	withDecline := fatigue.AssessSignal(declined, cfg).Score

	assert.InDelta(t, cfg.DeclinePenalty, withDecline-base, 0.001)
}

func TestAssessSignal_StreakEscalates(t *testing.T) {
	cfg := fatigue.DefaultConfig()

	sevenDays := neutralSignal()
	sevenDays.ConsecutiveTrainingDays = 7
	nineDays := neutralSignal()
	nineDays.ConsecutiveTrainingDays = 9

	assert.Greater(
		t,
		fatigue.AssessSignal(nineDays, cfg).Score,
		fatigue.AssessSignal(sevenDays, cfg).Score,
	)
}

func TestCalculateFatigue_NoHistoryNeutral(t *testing.T) {
	scorer := fatigue.NewScorer(&aggregatorStub{
		signal: &signals.TrainingSignal{
			VolumeTrend:     1.0,
			RecoveryAverage: 3.0,
		},
	}, fatigue.DefaultConfig())

	assessment, err := scorer.CalculateFatigue(context.Background(), "user1")
	require.NoError(t, err)
	assert.Contains(
		t,
		[]fatigue.Level{fatigue.LevelFresh, fatigue.LevelManageable},
		assessment.Level,
	)
}

func TestCalculateFatigue_AggregatorErrorPropagated(t *testing.T) {
	storeErr := errors.New("store unreachable")
	scorer := fatigue.NewScorer(&aggregatorStub{err: storeErr}, fatigue.DefaultConfig())

	assessment, err := scorer.CalculateFatigue(context.Background(), "user1")
	require.Error(t, err)
	require.ErrorIs(t, err, storeErr)
	assert.Nil(t, assessment)
}
