package training

import (
	"context"
	"sync"
	"time"
)

// RepoMock is an in-memory Repo stand-in for tests, also used by the
// coaching packages to test against seeded history without a database.
type RepoMock struct {
	mu        sync.Mutex
	nextID    int
	Sets      []Set
	Sessions  []Session
	Recovery  []RecoveryLog
	Defaults  map[string]ExerciseDefault // key: userID + "/" + exerciseID
	Settings  map[string]UserSettings
	ForcedErr error
}

func NewRepoMock() *RepoMock {
	return &RepoMock{
		nextID:   1,
		Defaults: make(map[string]ExerciseDefault),
		Settings: make(map[string]UserSettings),
	}
}

func (r *RepoMock) AddSet(_ context.Context, set Set) (*Set, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ForcedErr != nil {
		return nil, r.ForcedErr
	}
	set.ID = r.nextID
	r.nextID++
	r.Sets = append(r.Sets, set)
	return &set, nil
}

func (r *RepoMock) GetSet(_ context.Context, id int) (*Set, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ForcedErr != nil {
		return nil, r.ForcedErr
	}
	for _, s := range r.Sets {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, ErrSetNotFound
}

func (r *RepoMock) UpdateSet(_ context.Context, set Set) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ForcedErr != nil {
		return r.ForcedErr
	}
	for i, s := range r.Sets {
		if s.ID == set.ID {
			set.UserID = s.UserID
			set.SessionID = s.SessionID
			set.ExerciseID = s.ExerciseID
			set.CreatedAt = s.CreatedAt
			r.Sets[i] = set
			return nil
		}
	}
	return ErrSetNotFound
}

func (r *RepoMock) DeleteSet(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ForcedErr != nil {
		return r.ForcedErr
	}
	for i, s := range r.Sets {
		if s.ID == id {
			r.Sets = append(r.Sets[:i], r.Sets[i+1:]...)
			return nil
		}
	}
	return ErrSetNotFound
}

func (r *RepoMock) ListSets(_ context.Context, params SetParams) ([]Set, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ForcedErr != nil {
		return nil, r.ForcedErr
	}
	var sets []Set
	for _, s := range r.Sets {
		if s.UserID != params.UserID {
			continue
		}
		if params.ExerciseID != "" && s.ExerciseID != params.ExerciseID {
			continue
		}
		if params.From != nil && s.CreatedAt.Before(*params.From) {
			continue
		}
		if params.To != nil && !s.CreatedAt.Before(*params.To) {
			continue
		}
		if params.WorkingOnly && s.IsWarmup {
			continue
		}
		sets = append(sets, s)
	}
	return sets, nil
}

func (r *RepoMock) SetsCount(ctx context.Context, params SetParams) (int, error) {
	sets, err := r.ListSets(ctx, params)
	if err != nil {
		return -1, err
	}
	return len(sets), nil
}

func (r *RepoMock) StartSession(_ context.Context, userID string, startedAt time.Time) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ForcedErr != nil {
		return nil, r.ForcedErr
	}
	s := Session{ID: r.nextID, UserID: userID, StartedAt: startedAt}
	r.nextID++
	r.Sessions = append(r.Sessions, s)
	return &s, nil
}

func (r *RepoMock) FinishSession(_ context.Context, id int, finishedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ForcedErr != nil {
		return r.ForcedErr
	}
	for i, s := range r.Sessions {
		if s.ID == id && s.FinishedAt == nil {
			r.Sessions[i].FinishedAt = &finishedAt
			return nil
		}
	}
	return ErrSessionNotFound
}

func (r *RepoMock) ListSessions(_ context.Context, userID string, from, to time.Time) ([]Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ForcedErr != nil {
		return nil, r.ForcedErr
	}
	var sessions []Session
	for _, s := range r.Sessions {
		if s.UserID != userID {
			continue
		}
		if s.StartedAt.Before(from) || !s.StartedAt.Before(to) {
			continue
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

func (r *RepoMock) AddRecoveryLog(_ context.Context, rl RecoveryLog) (*RecoveryLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ForcedErr != nil {
		return nil, r.ForcedErr
	}
	if err := validateRecoveryLog(rl); err != nil {
		return nil, err
	}
	rl.ID = r.nextID
	r.nextID++
	r.Recovery = append(r.Recovery, rl)
	return &rl, nil
}

func (r *RepoMock) ListRecoveryLogs(_ context.Context, userID string, from, to time.Time) ([]RecoveryLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ForcedErr != nil {
		return nil, r.ForcedErr
	}
	var logs []RecoveryLog
	for _, rl := range r.Recovery {
		if rl.UserID != userID {
			continue
		}
		if rl.Date.Before(from) || !rl.Date.Before(to) {
			continue
		}
		logs = append(logs, rl)
	}
	return logs, nil
}

func (r *RepoMock) GetExerciseDefault(_ context.Context, userID, exerciseID string) (*ExerciseDefault, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ForcedErr != nil {
		return nil, r.ForcedErr
	}
	def, ok := r.Defaults[userID+"/"+exerciseID]
	if !ok {
		return nil, ErrExerciseDefaultNotFound
	}
	return &def, nil
}

func (r *RepoMock) UpsertExerciseDefault(_ context.Context, def ExerciseDefault) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ForcedErr != nil {
		return r.ForcedErr
	}
	r.Defaults[def.UserID+"/"+def.ExerciseID] = def
	return nil
}

func (r *RepoMock) GetUserSettings(_ context.Context, userID string) (*UserSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ForcedErr != nil {
		return nil, r.ForcedErr
	}
	settings, ok := r.Settings[userID]
	if !ok {
		return nil, ErrUserSettingsNotFound
	}
	return &settings, nil
}
