package repository

import (
	"context"
	"sync"

	"github.com/Shivanand-hulikatti/activity-signup/internal/model"
)

// MemoryRepository keeps activities in process memory. State is lost on
// restart.
type MemoryRepository struct {
	mu         sync.RWMutex
	activities model.ActivityCollection
}

// NewMemoryRepository constructs an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// List returns a deep copy so callers cannot mutate stored rosters.
func (r *MemoryRepository) List(_ context.Context) (model.ActivityCollection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(model.ActivityCollection, len(r.activities))
	for i, a := range r.activities {
		a.Participants = append([]string{}, a.Participants...)
		out[i] = a
	}
	return out, nil
}

func (r *MemoryRepository) Signup(_ context.Context, activity, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(activity)
	if i < 0 {
		return ErrNotFound
	}
	if r.activities[i].HasParticipant(email) {
		return ErrAlreadySignedUp
	}
	r.activities[i].Participants = append(r.activities[i].Participants, email)
	return nil
}

func (r *MemoryRepository) Unregister(_ context.Context, activity, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(activity)
	if i < 0 {
		return ErrNotFound
	}
	roster := r.activities[i].Participants
	for j, p := range roster {
		if p == email {
			r.activities[i].Participants = append(roster[:j:j], roster[j+1:]...)
			return nil
		}
	}
	return ErrNotRegistered
}

func (r *MemoryRepository) Seed(_ context.Context, activities model.ActivityCollection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range activities {
		if r.index(a.Name) >= 0 {
			continue
		}
		a.Participants = append([]string{}, a.Participants...)
		r.activities = append(r.activities, a)
	}
	return nil
}

// index must be called with mu held.
func (r *MemoryRepository) index(name string) int {
	for i, a := range r.activities {
		if a.Name == name {
			return i
		}
	}
	return -1
}
