package deload

import (
	"context"
	"sync"
	"time"
)

// RepoMock is an in-memory deloadRepo used in tests.
type RepoMock struct {
	mutex     sync.Mutex
	nextID    int
	Deloads   []ActiveDeload
	ForcedErr error
}

func NewRepoMock() *RepoMock {
	return &RepoMock{
		nextID: 1,
	}
}

func (r *RepoMock) GetActive(_ context.Context, userID string) (*ActiveDeload, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.ForcedErr != nil {
		return nil, r.ForcedErr
	}

	for i := range r.Deloads {
		if r.Deloads[i].UserID == userID && r.Deloads[i].EndedAt == nil {
			d := r.Deloads[i]
			return &d, nil
		}
	}
	return nil, ErrNoActiveDeload
}

func (r *RepoMock) Last(_ context.Context, userID string) (*ActiveDeload, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.ForcedErr != nil {
		return nil, r.ForcedErr
	}

	var last *ActiveDeload
	for i := range r.Deloads {
		if r.Deloads[i].UserID != userID {
			continue
		}
		if last == nil || r.Deloads[i].StartDate.After(last.StartDate) {
			last = &r.Deloads[i]
		}
	}
	if last == nil {
		return nil, ErrNoDeloadHistory
	}
	d := *last
	return &d, nil
}

func (r *RepoMock) Start(_ context.Context, deload ActiveDeload) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.ForcedErr != nil {
		return 0, r.ForcedErr
	}

	for i := range r.Deloads {
		if r.Deloads[i].UserID == deload.UserID && r.Deloads[i].EndedAt == nil {
			return 0, ErrDeloadAlreadyActive
		}
	}

	deload.ID = r.nextID
	r.nextID++
	r.Deloads = append(r.Deloads, deload)
	return deload.ID, nil
}

func (r *RepoMock) End(_ context.Context, userID string, endedAt time.Time) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.ForcedErr != nil {
		return r.ForcedErr
	}

	for i := range r.Deloads {
		if r.Deloads[i].UserID == userID && r.Deloads[i].EndedAt == nil {
			ended := endedAt
			r.Deloads[i].EndedAt = &ended
			return nil
		}
	}
	return ErrNoActiveDeload
}
