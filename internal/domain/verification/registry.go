package verification

import (
	"fmt"
	"sync"
	"time"
)

// Registry holds live attempts keyed by attempt ID. Attempts belong to one
// participant's session; lookups check ownership so one user can never drive
// another's pipeline.
type Registry struct {
	mu       sync.Mutex
	attempts map[string]*Attempt
}

func NewRegistry() *Registry {
	return &Registry{attempts: make(map[string]*Attempt)}
}

func (r *Registry) Put(a *Attempt) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts[a.ID] = a
}

func (r *Registry) Get(attemptID, uid string) (*Attempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attempts[attemptID]
	if !ok || a.UID != uid {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, attemptID)
	}
	return a, nil
}

func (r *Registry) Remove(attemptID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.attempts, attemptID)
}

// Sweep evicts completed, abandoned and idle attempts so the registry stays
// bounded over the server's lifetime. Returns how many were removed.
func (r *Registry) Sweep(now time.Time, ttl time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int
	for id, a := range r.attempts {
		if a.expired(now, ttl) {
			delete(r.attempts, id)
			n++
		}
	}
	return n
}

// FindByQuest returns the user's existing attempt for a quest, if any, so a
// re-opened verification screen resumes instead of forking a second attempt.
func (r *Registry) FindByQuest(questID, uid string) *Attempt {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.attempts {
		if a.QuestID == questID && a.UID == uid {
			return a
		}
	}
	return nil
}
