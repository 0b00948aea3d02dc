package training

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/liftado/liftado/internal/telemetry/tracing"
	"github.com/liftado/liftado/pkg"

	"go.opentelemetry.io/otel/attribute"
)

// AddRecoveryLog stores a daily recovery self-report. One log per user
// per day, a second write for the same day overwrites the first.
func (r *Repo) AddRecoveryLog(ctx context.Context, rl RecoveryLog) (_ *RecoveryLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.training.recovery.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", rl.UserID))

	if err := validateRecoveryLog(rl); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO recovery_log
				(user_id, date, sleep_quality, energy_level, overall_soreness, stress_level)
				VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (user_id, date) DO UPDATE SET
				sleep_quality = EXCLUDED.sleep_quality,
				energy_level = EXCLUDED.energy_level,
				overall_soreness = EXCLUDED.overall_soreness,
				stress_level = EXCLUDED.stress_level
			RETURNING id;`,
		rl.UserID, rl.Date, rl.SleepQuality, rl.EnergyLevel, rl.OverallSoreness, rl.StressLevel,
	)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, fmt.Errorf("unknown user %s: %w", rl.UserID, err)
		}
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, errors.New("unexpected error [no rows next]")
	}

	var id int
	if err := rows.Scan(&id); err != nil {
		return nil, err
	}

	rl.ID = id
	return &rl, nil
}

// ListRecoveryLogs returns the user recovery logs for [from, to), oldest first.
func (r *Repo) ListRecoveryLogs(ctx context.Context, userID string, from, to time.Time) (_ []RecoveryLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.training.recovery.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT id, user_id, date, sleep_quality, energy_level, overall_soreness, stress_level
			FROM recovery_log
				WHERE user_id = $1
				AND date >= $2
				AND date < $3
			ORDER BY date ASC;`,
		userID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	var logs []RecoveryLog
	for rows.Next() {
		var rl RecoveryLog
		if err := rows.Scan(
			&rl.ID, &rl.UserID, &rl.Date,
			&rl.SleepQuality, &rl.EnergyLevel, &rl.OverallSoreness, &rl.StressLevel,
		); err != nil {
			return nil, err
		}
		logs = append(logs, rl)
	}

	return logs, nil
}

func validateRecoveryLog(rl RecoveryLog) error {
	for _, v := range []int{rl.SleepQuality, rl.EnergyLevel, rl.OverallSoreness, rl.StressLevel} {
		if v < 1 || v > 5 {
			return fmt.Errorf("recovery log values must be between 1 and 5, got %d", v)
		}
	}
	return nil
}
