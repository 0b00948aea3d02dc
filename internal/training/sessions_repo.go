package training

import (
	"context"
	"errors"
	"time"

	"github.com/liftado/liftado/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

func (r *Repo) StartSession(ctx context.Context, userID string, startedAt time.Time) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.training.sessions.start")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO training_session (user_id, started_at) VALUES ($1, $2) RETURNING id;`,
		userID, startedAt,
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

	return &Session{
		ID:        id,
		UserID:    userID,
		StartedAt: startedAt,
	}, nil
}

func (r *Repo) FinishSession(ctx context.Context, id int, finishedAt time.Time) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.training.sessions.finish")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE training_session SET finished_at = $1 WHERE id = $2 AND finished_at IS NULL;`,
		finishedAt, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ListSessions returns the user sessions started within [from, to), oldest first.
func (r *Repo) ListSessions(ctx context.Context, userID string, from, to time.Time) (_ []Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.training.sessions.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))
	span.SetAttributes(attribute.String("from", from.String()))
	span.SetAttributes(attribute.String("to", to.String()))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT id, user_id, started_at, finished_at
			FROM training_session
				WHERE user_id = $1
				AND started_at >= $2
				AND started_at < $3
			ORDER BY started_at ASC;`,
		userID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	var sessions []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.ID, &s.UserID, &s.StartedAt, &s.FinishedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}

	return sessions, nil
}
