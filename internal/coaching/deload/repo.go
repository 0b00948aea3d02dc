package deload

import (
	"context"
	"time"

	"github.com/liftado/liftado/internal/telemetry/tracing"
	"github.com/liftado/liftado/pkg"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) GetActive(ctx context.Context, userID string) (_ *ActiveDeload, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.coaching.deload.getactive")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT id, user_id, start_date, duration_days, deload_type,
				volume_modifier, intensity_modifier, trigger_reason, trigger_score, ended_at
			FROM deload
			WHERE user_id = $1 AND ended_at IS NULL;`,
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
		return nil, ErrNoActiveDeload
	}

	return scanDeload(rows.Scan)
}

// Last returns the most recently started deload, active or ended.
func (r *Repo) Last(ctx context.Context, userID string) (_ *ActiveDeload, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.coaching.deload.last")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT id, user_id, start_date, duration_days, deload_type,
				volume_modifier, intensity_modifier, trigger_reason, trigger_score, ended_at
			FROM deload
			WHERE user_id = $1
			ORDER BY start_date DESC
			LIMIT 1;`,
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
		return nil, ErrNoDeloadHistory
	}

	return scanDeload(rows.Scan)
}

// Start inserts a new deload unless one is already active for the user.
// The insert is conditional so that two concurrent starts cannot both
// succeed, a partial unique index on (user_id) WHERE ended_at IS NULL
// backs it up.
func (r *Repo) Start(ctx context.Context, deload ActiveDeload) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.coaching.deload.start")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", deload.UserID))

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO deload
				(user_id, start_date, duration_days, deload_type,
				volume_modifier, intensity_modifier, trigger_reason, trigger_score)
			SELECT $1, $2, $3, $4, $5, $6, $7, $8
			WHERE NOT EXISTS (
				SELECT 1 FROM deload WHERE user_id = $1 AND ended_at IS NULL
			)
			RETURNING id;`,
		deload.UserID, deload.StartDate, deload.DurationDays, deload.DeloadType,
		deload.VolumeModifier, deload.IntensityModifier, deload.TriggerReason, deload.TriggerScore,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return 0, ErrDeloadAlreadyActive
		}
		return 0, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		if pkg.IsUniqueViolationError(err) {
			return 0, ErrDeloadAlreadyActive
		}
		return 0, err
	}

	if !rows.Next() {
		return 0, ErrDeloadAlreadyActive
	}

	var id int
	if err := rows.Scan(&id); err != nil {
		return 0, err
	}

	span.SetAttributes(attribute.Int("deload.id", id))
	return id, nil
}

func (r *Repo) End(ctx context.Context, userID string, endedAt time.Time) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.coaching.deload.end")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE deload SET ended_at = $1 WHERE user_id = $2 AND ended_at IS NULL;`,
		endedAt, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoActiveDeload
	}
	return nil
}

func scanDeload(scan func(dest ...any) error) (*ActiveDeload, error) {
	deload := &ActiveDeload{}
	if err := scan(
		&deload.ID, &deload.UserID, &deload.StartDate, &deload.DurationDays, &deload.DeloadType,
		&deload.VolumeModifier, &deload.IntensityModifier, &deload.TriggerReason, &deload.TriggerScore,
		&deload.EndedAt,
	); err != nil {
		return nil, err
	}
	return deload, nil
}
