package alpha

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/claude/yeabuddy/internal/ingest"
	"github.com/claude/yeabuddy/internal/models"
)

// Store is where imported workouts go. Both a storage.Repository and the
// REST client satisfy it.
type Store interface {
	ListWorkouts(ctx context.Context) ([]models.Workout, error)
	CreateWorkout(ctx context.Context, w models.Workout) (*models.Workout, error)
}

// Provider imports Alpha Progression CSV exports.
type Provider struct {
	store Store
	log   *slog.Logger
}

// NewProvider creates a new Alpha Progression import provider.
func NewProvider(store Store, log *slog.Logger) *Provider {
	return &Provider{store: store, log: log}
}

type sessionKey struct {
	name string
	date time.Time
}

func keyOf(w models.Workout) sessionKey {
	return sessionKey{name: w.Name, date: w.Date.UTC().Truncate(time.Minute)}
}

// Ingest parses a CSV export and creates one workout per session. Sessions
// already stored under the same name and start minute are skipped so an
// export can be imported again after new sessions were added.
func (p *Provider) Ingest(ctx context.Context, r io.Reader) (*ingest.Result, error) {
	sessions, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}
	workouts, droppedSets := ToWorkouts(sessions)

	existing, err := p.store.ListWorkouts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing existing workouts: %w", err)
	}
	seen := make(map[sessionKey]bool, len(existing))
	for _, w := range existing {
		seen[keyOf(w)] = true
	}

	result := &ingest.Result{
		WorkoutsReceived: len(sessions),
		WorkoutsSkipped:  len(sessions) - len(workouts),
		SetsSkipped:      droppedSets,
	}
	for _, s := range sessions {
		for _, ex := range s.Exercises {
			result.SetsReceived += len(ex.Sets)
		}
	}

	for _, w := range workouts {
		sets := 0
		for _, ex := range w.Exercises {
			sets += len(ex.Sets)
		}
		if seen[keyOf(w)] {
			result.WorkoutsSkipped++
			result.SetsSkipped += sets
			continue
		}
		created, err := p.store.CreateWorkout(ctx, w)
		if err != nil {
			return result, fmt.Errorf("creating workout %q (%s): %w", w.Name, w.Date.Format("2006-01-02"), err)
		}
		seen[keyOf(w)] = true
		result.WorkoutsCreated++
		result.SetsCreated += sets
		result.WorkoutIDs = append(result.WorkoutIDs, created.ID)
	}

	p.log.Info("alpha import complete",
		"received", result.WorkoutsReceived,
		"created", result.WorkoutsCreated,
		"skipped", result.WorkoutsSkipped,
	)
	result.Message = fmt.Sprintf("imported %d of %d sessions", result.WorkoutsCreated, result.WorkoutsReceived)
	return result, nil
}
