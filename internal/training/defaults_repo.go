package training

import (
	"context"

	"github.com/liftado/liftado/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

func (r *Repo) GetExerciseDefault(ctx context.Context, userID, exerciseID string) (_ *ExerciseDefault, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.training.defaults.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))
	span.SetAttributes(attribute.String("exercise_id", exerciseID))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT user_id, exercise_id, last_weight, last_reps, last_rpe, updated_at
			FROM exercise_default
			WHERE user_id = $1 AND exercise_id = $2;`,
		userID, exerciseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, ErrExerciseDefaultNotFound
	}

	def := &ExerciseDefault{}
	if err := rows.Scan(
		&def.UserID, &def.ExerciseID, &def.LastWeight, &def.LastReps, &def.LastRPE, &def.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return def, nil
}

func (r *Repo) UpsertExerciseDefault(ctx context.Context, def ExerciseDefault) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.training.defaults.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", def.UserID))
	span.SetAttributes(attribute.String("exercise_id", def.ExerciseID))

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO exercise_default
				(user_id, exercise_id, last_weight, last_reps, last_rpe, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (user_id, exercise_id) DO UPDATE SET
				last_weight = EXCLUDED.last_weight,
				last_reps = EXCLUDED.last_reps,
				last_rpe = EXCLUDED.last_rpe,
				updated_at = EXCLUDED.updated_at;`,
		def.UserID, def.ExerciseID, def.LastWeight, def.LastReps, def.LastRPE, def.UpdatedAt,
	)
	return err
}

func (r *Repo) GetUserSettings(ctx context.Context, userID string) (_ *UserSettings, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.training.settings.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT user_id, target_weekly_sessions, weight_unit
			FROM user_settings
			WHERE user_id = $1;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, ErrUserSettingsNotFound
	}

	settings := &UserSettings{}
	if err := rows.Scan(&settings.UserID, &settings.TargetWeeklySessions, &settings.WeightUnit); err != nil {
		return nil, err
	}
	return settings, nil
}
