package training

import (
	"context"
	"errors"
	"time"

	"github.com/liftado/liftado/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type SetParams struct {
	UserID      string
	ExerciseID  string
	From        *time.Time
	To          *time.Time
	WorkingOnly bool
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) AddSet(ctx context.Context, set Set) (_ *Set, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.training.sets.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO training_set
				(user_id, session_id, exercise_id, set_number, weight, reps, rpe, is_warmup, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id;`,
		set.UserID, set.SessionID, set.ExerciseID, set.SetNumber,
		set.Weight, set.Reps, set.RPE, set.IsWarmup, set.CreatedAt,
	)
	if err != nil {
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

	span.SetAttributes(attribute.Int("set.id", id))

	set.ID = id
	return &set, nil
}

func (r *Repo) GetSet(ctx context.Context, id int) (_ *Set, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.training.sets.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	set := &Set{}
	err = r.db.
		QueryRow(ctx, `
			SELECT id, user_id, session_id, exercise_id, set_number, weight, reps, rpe, is_warmup, created_at
			FROM training_set
			WHERE id = $1;`, id).
		Scan(
			&set.ID, &set.UserID, &set.SessionID, &set.ExerciseID, &set.SetNumber,
			&set.Weight, &set.Reps, &set.RPE, &set.IsWarmup, &set.CreatedAt,
		)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSetNotFound
		}
		return nil, err
	}
	return set, nil
}

func (r *Repo) UpdateSet(ctx context.Context, set Set) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.training.sets.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", set.ID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE training_set SET set_number = $1, weight = $2, reps = $3, rpe = $4, is_warmup = $5 WHERE id = $6;`,
		set.SetNumber, set.Weight, set.Reps, set.RPE, set.IsWarmup, set.ID,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrSetNotFound
	}

	return nil
}

func (r *Repo) DeleteSet(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.training.sets.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM training_set WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSetNotFound
	}
	return nil
}

// ListSets returns the sets matching the given params, oldest first.
func (r *Repo) ListSets(ctx context.Context, params SetParams) (_ []Set, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.training.sets.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", params.UserID))
	span.SetAttributes(attribute.String("exercise_id", params.ExerciseID))
	span.SetAttributes(attribute.Bool("working-only", params.WorkingOnly))
	if params.From != nil {
		span.SetAttributes(attribute.String("from", params.From.String()))
	}
	if params.To != nil {
		span.SetAttributes(attribute.String("to", params.To.String()))
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, user_id, session_id, exercise_id, set_number, weight, reps, rpe, is_warmup, created_at
			FROM training_set
				WHERE user_id = $1
				AND ($2::text = '' OR exercise_id = $2)
				AND ($3::timestamp IS NULL OR created_at >= $3)
				AND ($4::timestamp IS NULL OR created_at < $4)
				AND ($5::boolean IS FALSE OR is_warmup = false)
			ORDER BY created_at ASC;`,
		params.UserID, params.ExerciseID,
		params.From, params.To,
		params.WorkingOnly,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	var sets []Set
	for rows.Next() {
		var set Set
		if err := rows.Scan(
			&set.ID, &set.UserID, &set.SessionID, &set.ExerciseID, &set.SetNumber,
			&set.Weight, &set.Reps, &set.RPE, &set.IsWarmup, &set.CreatedAt,
		); err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}

	return sets, nil
}

func (r *Repo) SetsCount(ctx context.Context, params SetParams) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.training.sets.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT COUNT(*) FROM training_set
			WHERE user_id = $1
			AND ($2::text = '' OR exercise_id = $2)
			AND ($3::timestamp IS NULL OR created_at >= $3)
			AND ($4::timestamp IS NULL OR created_at < $4)
			AND ($5::boolean IS FALSE OR is_warmup = false);
	`,
		params.UserID, params.ExerciseID,
		params.From, params.To,
		params.WorkingOnly,
	)
	if err != nil {
		return -1, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return -1, err
	}

	if rows.Next() {
		var count int
		if err := rows.Scan(&count); err == nil {
			return count, nil
		}
	}

	return -1, errors.New("unexpected error, failed to get sets count")
}
