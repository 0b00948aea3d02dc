package deload_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/liftado/liftado/internal/coaching/deload"
	"github.com/liftado/liftado/internal/coaching/fatigue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type scorerStub struct {
	assessment *fatigue.Assessment
	err        error
}

func (s *scorerStub) CalculateFatigue(_ context.Context, _ string) (*fatigue.Assessment, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.assessment, nil
}

func assessmentWithScore(score float64, factors ...fatigue.Factor) *fatigue.Assessment {
	return &fatigue.Assessment{
		Score:   score,
		Level:   fatigue.LevelFor(score, fatigue.DefaultConfig()),
		Factors: factors,
	}
}

func TestPolicy_CheckDeloadNeeded_LowScore(t *testing.T) {
	repo := deload.NewRepoMock()
	policy := deload.NewPolicy(repo, &scorerStub{
		assessment: assessmentWithScore(3.2),
	}, deload.DefaultConfig())

	decision, err := policy.CheckDeloadNeeded(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, decision.ShouldDeload)
	assert.Equal(t, 1.0, decision.VolumeModifier)
	assert.Equal(t, 1.0, decision.IntensityModifier)
	assert.InDelta(t, 3.2, decision.Score, 0.001)
}

func TestPolicy_CheckDeloadNeeded_Idempotent(t *testing.T) {
	repo := deload.NewRepoMock()
	policy := deload.NewPolicy(repo, &scorerStub{
		assessment: assessmentWithScore(8.4, fatigue.Factor{
			Signal:       fatigue.SignalVolumeSpike,
			Contribution: 4.5,
			Detail:       "weekly volume at 150% of baseline",
		}),
	}, deload.DefaultConfig())

	first, err := policy.CheckDeloadNeeded(context.Background(), "u1")
	require.NoError(t, err)
	second, err := policy.CheckDeloadNeeded(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPolicy_CheckDeloadNeeded_VolumeSpikeGetsVolumeDeload(t *testing.T) {
	repo := deload.NewRepoMock()
	policy := deload.NewPolicy(repo, &scorerStub{
		assessment: assessmentWithScore(8.4, fatigue.Factor{
			Signal:       fatigue.SignalVolumeSpike,
			Contribution: 4.5,
			Detail:       "weekly volume at 150% of baseline",
		}),
	}, deload.DefaultConfig())

	decision, err := policy.CheckDeloadNeeded(context.Background(), "u1")
	require.NoError(t, err)
	require.True(t, decision.ShouldDeload)
	assert.Equal(t, deload.TypeVolume, decision.DeloadType)
	assert.Equal(t, 7, decision.DurationDays)
	assert.InDelta(t, 0.6, decision.VolumeModifier, 0.001)
	assert.InDelta(t, 1.0, decision.IntensityModifier, 0.001)
	assert.Contains(t, decision.Reason, "weekly volume")
}

func TestPolicy_CheckDeloadNeeded_DeclineWithoutSpikeGetsIntensityDeload(t *testing.T) {
	repo := deload.NewRepoMock()
	policy := deload.NewPolicy(repo, &scorerStub{
		assessment: assessmentWithScore(8.1, fatigue.Factor{
			Signal:       fatigue.SignalPerformanceDecline,
			Contribution: 1.5,
			Detail:       "estimated one rep maxes trending down",
		}),
	}, deload.DefaultConfig())

	decision, err := policy.CheckDeloadNeeded(context.Background(), "u1")
	require.NoError(t, err)
	require.True(t, decision.ShouldDeload)
	assert.Equal(t, deload.TypeIntensity, decision.DeloadType)
	assert.Equal(t, 5, decision.DurationDays)
	assert.InDelta(t, 0.85, decision.IntensityModifier, 0.001)
}

func TestPolicy_CheckDeloadNeeded_EmergencyScoreMeansFullRest(t *testing.T) {
	repo := deload.NewRepoMock()
	policy := deload.NewPolicy(repo, &scorerStub{
		assessment: assessmentWithScore(9.6, fatigue.Factor{
			Signal:       fatigue.SignalVolumeSpike,
			Contribution: 5.0,
			Detail:       "weekly volume at 210% of baseline",
		}),
	}, deload.DefaultConfig())

	decision, err := policy.CheckDeloadNeeded(context.Background(), "u1")
	require.NoError(t, err)
	require.True(t, decision.ShouldDeload)
	assert.Equal(t, deload.TypeFullRest, decision.DeloadType)
	assert.Equal(t, 3, decision.DurationDays)
	assert.Zero(t, decision.VolumeModifier)
}

func TestPolicy_CheckDeloadNeeded_ActiveDeloadBlocksNewOne(t *testing.T) {
	repo := deload.NewRepoMock()
	_, err := repo.Start(context.Background(), deload.ActiveDeload{
		UserID:       "u1",
		StartDate:    time.Now().AddDate(0, 0, -2),
		DurationDays: 7,
		DeloadType:   deload.TypeVolume,
	})
	require.NoError(t, err)

	policy := deload.NewPolicy(repo, &scorerStub{
		assessment: assessmentWithScore(9.6),
	}, deload.DefaultConfig())

	decision, err := policy.CheckDeloadNeeded(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, decision.ShouldDeload)
	assert.Contains(t, decision.Reason, "already active")
}

func TestPolicy_CheckDeloadNeeded_CooldownGatesElevatedScore(t *testing.T) {
	ctx := context.Background()
	cfg := deload.DefaultConfig()
	assessment := assessmentWithScore(6.8, fatigue.Factor{
		Signal:       fatigue.SignalVolumeSpike,
		Contribution: 3.0,
		Detail:       "weekly volume at 135% of baseline",
	})

	recent := deload.NewRepoMock()
	startDate := time.Now().AddDate(0, 0, -10)
	endDate := startDate.AddDate(0, 0, 7)
	recent.Deloads = append(recent.Deloads, deload.ActiveDeload{
		ID: 1, UserID: "u1", StartDate: startDate, DurationDays: 7,
		DeloadType: deload.TypeVolume, EndedAt: &endDate,
	})

	policy := deload.NewPolicy(recent, &scorerStub{assessment: assessment}, cfg)
	decision, err := policy.CheckDeloadNeeded(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, decision.ShouldDeload, "10 days since last deload, cooldown still running")

	old := deload.NewRepoMock()
	oldStart := time.Now().AddDate(0, 0, -40)
	oldEnd := oldStart.AddDate(0, 0, 7)
	old.Deloads = append(old.Deloads, deload.ActiveDeload{
		ID: 1, UserID: "u1", StartDate: oldStart, DurationDays: 7,
		DeloadType: deload.TypeVolume, EndedAt: &oldEnd,
	})

	policy = deload.NewPolicy(old, &scorerStub{assessment: assessment}, cfg)
	decision, err = policy.CheckDeloadNeeded(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, decision.ShouldDeload)
	assert.Equal(t, deload.TypeVolume, decision.DeloadType)
}

func TestPolicy_CheckDeloadNeeded_HighScoreIgnoresCooldown(t *testing.T) {
	repo := deload.NewRepoMock()
	startDate := time.Now().AddDate(0, 0, -10)
	endDate := startDate.AddDate(0, 0, 7)
	repo.Deloads = append(repo.Deloads, deload.ActiveDeload{
		ID: 1, UserID: "u1", StartDate: startDate, DurationDays: 7,
		DeloadType: deload.TypeVolume, EndedAt: &endDate,
	})

	policy := deload.NewPolicy(repo, &scorerStub{
		assessment: assessmentWithScore(8.5, fatigue.Factor{
			Signal:       fatigue.SignalVolumeSpike,
			Contribution: 4.5,
			Detail:       "weekly volume at 160% of baseline",
		}),
	}, deload.DefaultConfig())

	decision, err := policy.CheckDeloadNeeded(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, decision.ShouldDeload)
}

func TestPolicy_CheckDeloadNeeded_ScorerErrorPropagated(t *testing.T) {
	forcedErr := errors.New("signals unavailable")
	policy := deload.NewPolicy(deload.NewRepoMock(), &scorerStub{err: forcedErr}, deload.DefaultConfig())

	_, err := policy.CheckDeloadNeeded(context.Background(), "u1")
	require.ErrorIs(t, err, forcedErr)
}

func TestPolicy_StartDeload(t *testing.T) {
	ctx := context.Background()
	repo := deload.NewRepoMock()
	policy := deload.NewPolicy(repo, &scorerStub{}, deload.DefaultConfig())

	decision := deload.Decision{
		ShouldDeload:      true,
		DeloadType:        deload.TypeVolume,
		DurationDays:      7,
		VolumeModifier:    0.6,
		IntensityModifier: 1.0,
		Reason:            "fatigue score 8.4 (high)",
	}

	id, err := policy.StartDeload(ctx, "u1", decision, 8.4)
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	active, err := policy.GetActiveDeload(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, deload.TypeVolume, active.DeloadType)
	assert.InDelta(t, 8.4, active.TriggerScore, 0.001)
	assert.Equal(t, 7, active.DaysRemaining)
	assert.Equal(t, active.StartDate.AddDate(0, 0, 7), active.EndDate)

	// second start while one is active
	_, err = policy.StartDeload(ctx, "u1", decision, 8.4)
	require.ErrorIs(t, err, deload.ErrDeloadAlreadyActive)
}

func TestPolicy_StartDeload_InvalidDecision(t *testing.T) {
	ctx := context.Background()
	policy := deload.NewPolicy(deload.NewRepoMock(), &scorerStub{}, deload.DefaultConfig())

	_, err := policy.StartDeload(ctx, "u1", deload.Decision{ShouldDeload: false}, 3.0)
	require.ErrorIs(t, err, deload.ErrInvalidDecision)

	_, err = policy.StartDeload(ctx, "u1", deload.Decision{
		ShouldDeload: true,
		DeloadType:   deload.Type("taper"),
	}, 8.0)
	require.ErrorIs(t, err, deload.ErrInvalidDecision)
}

func TestPolicy_StartDeload_FullRestForcesZeroVolume(t *testing.T) {
	ctx := context.Background()
	repo := deload.NewRepoMock()
	policy := deload.NewPolicy(repo, &scorerStub{}, deload.DefaultConfig())

	_, err := policy.StartDeload(ctx, "u1", deload.Decision{
		ShouldDeload:   true,
		DeloadType:     deload.TypeFullRest,
		VolumeModifier: 0.6,
	}, 9.5)
	require.NoError(t, err)

	active, err := policy.GetActiveDeload(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Zero(t, active.VolumeModifier)
	assert.Equal(t, 3, active.DurationDays)
}

func TestPolicy_EndDeload(t *testing.T) {
	ctx := context.Background()
	repo := deload.NewRepoMock()
	policy := deload.NewPolicy(repo, &scorerStub{}, deload.DefaultConfig())

	require.ErrorIs(t, policy.EndDeload(ctx, "u1"), deload.ErrNoActiveDeload)

	_, err := policy.StartDeload(ctx, "u1", deload.Decision{
		ShouldDeload: true,
		DeloadType:   deload.TypeVolume,
	}, 8.0)
	require.NoError(t, err)

	require.NoError(t, policy.EndDeload(ctx, "u1"))

	active, err := policy.GetActiveDeload(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestPolicy_GetActiveDeload_NoneIsNotAnError(t *testing.T) {
	policy := deload.NewPolicy(deload.NewRepoMock(), &scorerStub{}, deload.DefaultConfig())

	active, err := policy.GetActiveDeload(context.Background(), "u1")
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestPolicy_GetActiveDeload_PastEndDateReportsZeroDaysRemaining(t *testing.T) {
	repo := deload.NewRepoMock()
	_, err := repo.Start(context.Background(), deload.ActiveDeload{
		UserID:       "u1",
		StartDate:    time.Now().AddDate(0, 0, -10),
		DurationDays: 7,
		DeloadType:   deload.TypeVolume,
	})
	require.NoError(t, err)

	policy := deload.NewPolicy(repo, &scorerStub{}, deload.DefaultConfig())
	active, err := policy.GetActiveDeload(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, 0, active.DaysRemaining)
}
