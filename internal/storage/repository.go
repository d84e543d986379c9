package storage

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/claude/yeabuddy/internal/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned when no workout has the requested id.
var ErrNotFound = errors.New("workout not found")

// Repository stores workouts. Implementations assign ids and default
// dates on create and list newest first.
type Repository interface {
	ListWorkouts(ctx context.Context) ([]models.Workout, error)
	GetWorkout(ctx context.Context, id string) (*models.Workout, error)
	CreateWorkout(ctx context.Context, w models.Workout) (*models.Workout, error)
	Close() error
}

var (
	_ Repository = (*MemoryStore)(nil)
	_ Repository = (*DB)(nil)
	_ Repository = (*SQLStore)(nil)
)

// prepareWorkout copies w and stamps fresh ids on the workout, its
// exercises and their sets. A zero date becomes now. Dates are kept in UTC
// at microsecond precision so every backend round-trips them unchanged.
func prepareWorkout(w models.Workout, now time.Time) models.Workout {
	out := w.Clone()
	out.ID = uuid.NewString()
	if out.Date.IsZero() {
		out.Date = now
	}
	out.Date = out.Date.UTC().Truncate(time.Microsecond)
	out.Name = strings.TrimSpace(out.Name)
	if out.Exercises == nil {
		out.Exercises = []models.Exercise{}
	}
	for i := range out.Exercises {
		ex := &out.Exercises[i]
		ex.ID = uuid.NewString()
		ex.Modality = ex.Modality.OrDefault()
		if ex.Sets == nil {
			ex.Sets = []models.Set{}
		}
		for j := range ex.Sets {
			ex.Sets[j].ID = uuid.NewString()
		}
	}
	return out
}

// sortNewestFirst orders by date descending. The sort is stable so equal
// dates keep insertion order.
func sortNewestFirst(ws []models.Workout) {
	slices.SortStableFunc(ws, func(a, b models.Workout) int {
		return b.Date.Compare(a.Date)
	})
}
