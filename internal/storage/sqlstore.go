package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/claude/yeabuddy/internal/models"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// SQLStore is a Repository over database/sql for SQLite files ("sqlite"
// driver) and remote libSQL databases ("libsql" driver).
type SQLStore struct {
	db *sql.DB
}

const sqlSchema = `
CREATE TABLE IF NOT EXISTS workouts (
	seq     INTEGER PRIMARY KEY AUTOINCREMENT,
	id      TEXT NOT NULL UNIQUE,
	name    TEXT NOT NULL DEFAULT '',
	date_us INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS workouts_date_idx ON workouts (date_us DESC, seq);

CREATE TABLE IF NOT EXISTS workout_exercises (
	id         TEXT PRIMARY KEY,
	workout_id TEXT NOT NULL REFERENCES workouts(id) ON DELETE CASCADE,
	position   INTEGER NOT NULL,
	name       TEXT NOT NULL,
	modality   INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS workout_exercises_workout_idx ON workout_exercises (workout_id, position);

CREATE TABLE IF NOT EXISTS workout_sets (
	id                TEXT PRIMARY KEY,
	exercise_id       TEXT NOT NULL REFERENCES workout_exercises(id) ON DELETE CASCADE,
	position          INTEGER NOT NULL,
	reps              INTEGER NOT NULL DEFAULT 0,
	weight            REAL,
	rpe               INTEGER,
	duration_ms       INTEGER,
	distance_m        REAL,
	is_warmup         INTEGER NOT NULL DEFAULT 0,
	is_dropset        INTEGER NOT NULL DEFAULT 0,
	is_failure        INTEGER NOT NULL DEFAULT 0,
	is_bodyweight     INTEGER NOT NULL DEFAULT 0,
	additional_weight REAL,
	notes             TEXT NOT NULL DEFAULT '',
	rest_seconds      INTEGER
);
CREATE INDEX IF NOT EXISTS workout_sets_exercise_idx ON workout_sets (exercise_id, position);
`

// OpenSQLite opens (or creates) a SQLite database file at path.
func OpenSQLite(ctx context.Context, path string) (*SQLStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data dir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	return initSQLStore(ctx, db)
}

// OpenLibSQL connects to a libSQL/Turso database URL.
func OpenLibSQL(ctx context.Context, url string) (*SQLStore, error) {
	db, err := sql.Open("libsql", url)
	if err != nil {
		return nil, fmt.Errorf("opening libsql db: %w", err)
	}
	return initSQLStore(ctx, db)
}

func initSQLStore(ctx context.Context, db *sql.DB) (*SQLStore, error) {
	if _, err := db.ExecContext(ctx, sqlSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLStore{db: db}, nil
}

// Close closes the database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// CreateWorkout inserts the workout tree in one transaction.
func (s *SQLStore) CreateWorkout(ctx context.Context, w models.Workout) (*models.Workout, error) {
	stored := prepareWorkout(w, time.Now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO workouts (id, name, date_us) VALUES (?, ?, ?)`,
		stored.ID, stored.Name, stored.Date.UnixMicro()); err != nil {
		return nil, fmt.Errorf("inserting workout: %w", err)
	}

	for i, ex := range stored.Exercises {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO workout_exercises (id, workout_id, position, name, modality) VALUES (?, ?, ?, ?, ?)`,
			ex.ID, stored.ID, i, ex.Name, int(ex.Modality)); err != nil {
			return nil, fmt.Errorf("inserting exercise %q: %w", ex.Name, err)
		}
		for j, set := range ex.Sets {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO workout_sets (id, exercise_id, position, reps, weight, rpe, duration_ms,
				 distance_m, is_warmup, is_dropset, is_failure, is_bodyweight, additional_weight,
				 notes, rest_seconds) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				set.ID, ex.ID, j, set.Reps, set.Weight, set.RPE, set.DurationMs,
				set.DistanceM, boolToInt(set.IsWarmup), boolToInt(set.IsDropset),
				boolToInt(set.IsFailure), boolToInt(set.IsBodyweight), set.AdditionalWeight,
				set.Notes, set.RestSeconds); err != nil {
				return nil, fmt.Errorf("inserting set: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing workout: %w", err)
	}
	return &stored, nil
}

// ListWorkouts returns all workouts newest first, ties in insertion order.
func (s *SQLStore) ListWorkouts(ctx context.Context) ([]models.Workout, error) {
	a, err := s.queryWorkouts(ctx,
		`SELECT id, name, date_us FROM workouts ORDER BY date_us DESC, seq ASC`)
	if err != nil {
		return nil, err
	}
	if err := s.loadChildren(ctx, a, ""); err != nil {
		return nil, err
	}
	return a.workouts, nil
}

// GetWorkout returns one workout or ErrNotFound.
func (s *SQLStore) GetWorkout(ctx context.Context, id string) (*models.Workout, error) {
	a, err := s.queryWorkouts(ctx,
		`SELECT id, name, date_us FROM workouts WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(a.workouts) == 0 {
		return nil, ErrNotFound
	}
	if err := s.loadChildren(ctx, a, id); err != nil {
		return nil, err
	}
	return &a.workouts[0], nil
}

func (s *SQLStore) queryWorkouts(ctx context.Context, query string, args ...any) (*assembler, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	a := newAssembler()
	for rows.Next() {
		var w models.Workout
		var us int64
		if err := rows.Scan(&w.ID, &w.Name, &us); err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		w.Date = time.UnixMicro(us).UTC()
		a.addWorkout(w)
	}
	return a, rows.Err()
}

func (s *SQLStore) loadChildren(ctx context.Context, a *assembler, workoutID string) error {
	where, args := "", []any{}
	if workoutID != "" {
		where, args = "WHERE e.workout_id = ?", []any{workoutID}
	}

	exRows, err := s.db.QueryContext(ctx,
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

	setRows, err := s.db.QueryContext(ctx,
		`SELECT `+setColumns+` FROM workout_sets s
		 JOIN workout_exercises e ON e.id = s.exercise_id `+where+`
		 ORDER BY s.exercise_id, s.position`, args...)
	if err != nil {
		return fmt.Errorf("querying sets: %w", err)
	}
	defer setRows.Close()
	return a.scanSets(setRows)
}
