package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/claude/yeabuddy/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// CreateWorkout inserts the workout, its exercises and sets in one
// transaction and returns the stored copy.
func (db *DB) CreateWorkout(ctx context.Context, w models.Workout) (*models.Workout, error) {
	stored := prepareWorkout(w, time.Now())

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO workouts (id, name, date) VALUES ($1, $2, $3)`,
		stored.ID, stored.Name, stored.Date); err != nil {
		return nil, fmt.Errorf("inserting workout: %w", err)
	}

	for i, ex := range stored.Exercises {
		if _, err := tx.Exec(ctx,
			`INSERT INTO workout_exercises (id, workout_id, position, name, modality)
			 VALUES ($1, $2, $3, $4, $5)`,
			ex.ID, stored.ID, i, ex.Name, int(ex.Modality)); err != nil {
			return nil, fmt.Errorf("inserting exercise %q: %w", ex.Name, err)
		}
		if err := insertSets(ctx, tx, ex.ID, ex.Sets); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing workout: %w", err)
	}
	return &stored, nil
}

// setBatchSize keeps each insert well under Postgres' 65535 bind
// parameter limit.
const setBatchSize = 1000

// execer is the part of pgx.Tx used by insertSets.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// insertSets batch-inserts the sets of one exercise, setBatchSize rows per
// statement.
func insertSets(ctx context.Context, tx execer, exerciseID string, sets []models.Set) error {
	for start := 0; start < len(sets); start += setBatchSize {
		end := min(start+setBatchSize, len(sets))
		if err := insertSetBatch(ctx, tx, exerciseID, start, sets[start:end]); err != nil {
			return err
		}
	}
	return nil
}

// insertSetBatch inserts sets whose first element sits at position offset.
func insertSetBatch(ctx context.Context, tx execer, exerciseID string, offset int, sets []models.Set) error {
	const cols = 15
	query := `INSERT INTO workout_sets (id, exercise_id, position, reps, weight, rpe, duration_ms,
		distance_m, is_warmup, is_dropset, is_failure, is_bodyweight, additional_weight,
		notes, rest_seconds) VALUES `
	args := make([]any, 0, len(sets)*cols)
	valueStrings := make([]string, 0, len(sets))

	for i, s := range sets {
		base := i * cols
		placeholders := make([]string, cols)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", base+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		args = append(args, s.ID, exerciseID, offset+i, s.Reps, s.Weight, s.RPE, s.DurationMs,
			s.DistanceM, s.IsWarmup, s.IsDropset, s.IsFailure, s.IsBodyweight, s.AdditionalWeight,
			s.Notes, s.RestSeconds)
	}

	query += strings.Join(valueStrings, ",")
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting sets %d-%d: %w", offset+1, offset+len(sets), err)
	}
	return nil
}

// ListWorkouts returns all workouts newest first. Equal dates keep
// insertion order via the seq column.
func (db *DB) ListWorkouts(ctx context.Context) ([]models.Workout, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT CAST(id AS TEXT), name, date FROM workouts ORDER BY date DESC, seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	a := newAssembler()
	err = scanPgWorkouts(rows, a)
	rows.Close()
	if err != nil {
		return nil, err
	}

	if err := db.loadChildren(ctx, a, ""); err != nil {
		return nil, err
	}
	return a.workouts, nil
}

// GetWorkout retrieves a single workout with its exercises and sets.
func (db *DB) GetWorkout(ctx context.Context, id string) (*models.Workout, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT CAST(id AS TEXT), name, date FROM workouts WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("querying workout: %w", err)
	}
	a := newAssembler()
	err = scanPgWorkouts(rows, a)
	rows.Close()
	if err != nil {
		return nil, err
	}
	if len(a.workouts) == 0 {
		return nil, ErrNotFound
	}

	if err := db.loadChildren(ctx, a, id); err != nil {
		return nil, err
	}
	return &a.workouts[0], nil
}

func scanPgWorkouts(rows pgx.Rows, a *assembler) error {
	for rows.Next() {
		var w models.Workout
		if err := rows.Scan(&w.ID, &w.Name, &w.Date); err != nil {
			return fmt.Errorf("scanning workout: %w", err)
		}
		w.Date = w.Date.UTC()
		a.addWorkout(w)
	}
	return rows.Err()
}

// loadChildren fills exercises and sets. An empty workoutID loads all.
func (db *DB) loadChildren(ctx context.Context, a *assembler, workoutID string) error {
	where, args := "", []any{}
	if workoutID != "" {
		where, args = "WHERE e.workout_id = $1", []any{workoutID}
	}

	exRows, err := db.Pool.Query(ctx,
		`SELECT `+exerciseColumns+` FROM workout_exercises e `+where+`
		 ORDER BY e.workout_id, e.position`, args...)
	if err != nil {
		return fmt.Errorf("querying exercises: %w", err)
	}
	err = a.scanExercises(exRows)
	exRows.Close()
	if err != nil {
		return err
	}

	setRows, err := db.Pool.Query(ctx,
		`SELECT `+setColumns+` FROM workout_sets s
		 JOIN workout_exercises e ON e.id = s.exercise_id `+where+`
		 ORDER BY s.exercise_id, s.position`, args...)
	if err != nil {
		return fmt.Errorf("querying sets: %w", err)
	}
	defer setRows.Close()
	return a.scanSets(setRows)
}
