package storage

import (
	"context"
	"sync"
	"time"

	"github.com/claude/yeabuddy/internal/models"
)

// MemoryStore keeps workouts in process memory. Values are copied on the
// way in and out so callers never share state with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	workouts []models.Workout
	now      func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// ListWorkouts returns every workout, newest first.
func (m *MemoryStore) ListWorkouts(ctx context.Context) ([]models.Workout, error) {
	m.mu.RLock()
	out := models.CloneWorkouts(m.workouts)
	m.mu.RUnlock()

	sortNewestFirst(out)
	return out, nil
}

// GetWorkout returns the workout with id or ErrNotFound.
func (m *MemoryStore) GetWorkout(ctx context.Context, id string) (*models.Workout, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, w := range m.workouts {
		if w.ID == id {
			out := w.Clone()
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

// CreateWorkout stores a copy of w with fresh ids.
func (m *MemoryStore) CreateWorkout(ctx context.Context, w models.Workout) (*models.Workout, error) {
	stored := prepareWorkout(w, m.now())

	m.mu.Lock()
	m.workouts = append(m.workouts, stored)
	m.mu.Unlock()

	out := stored.Clone()
	return &out, nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}
