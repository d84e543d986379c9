package storage

import (
	"fmt"

	"github.com/claude/yeabuddy/internal/models"
)

// rowScanner is satisfied by both pgx.Rows and *sql.Rows.
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// assembler rebuilds workout trees from the flat rows of the three tables.
// Children must arrive ordered by position within their parent.
type assembler struct {
	workouts   []models.Workout
	byWorkout  map[string]int
	byExercise map[string][2]int
}

func newAssembler() *assembler {
	return &assembler{
		workouts:   []models.Workout{},
		byWorkout:  make(map[string]int),
		byExercise: make(map[string][2]int),
	}
}

func (a *assembler) addWorkout(w models.Workout) {
	w.Exercises = []models.Exercise{}
	a.byWorkout[w.ID] = len(a.workouts)
	a.workouts = append(a.workouts, w)
}

func (a *assembler) scanExercises(rows rowScanner) error {
	for rows.Next() {
		var ex models.Exercise
		var workoutID string
		var modality int
		if err := rows.Scan(&ex.ID, &workoutID, &ex.Name, &modality); err != nil {
			return fmt.Errorf("scanning exercise: %w", err)
		}
		wi, ok := a.byWorkout[workoutID]
		if !ok {
			continue
		}
		ex.Modality = models.Modality(modality).OrDefault()
		ex.Sets = []models.Set{}
		w := &a.workouts[wi]
		a.byExercise[ex.ID] = [2]int{wi, len(w.Exercises)}
		w.Exercises = append(w.Exercises, ex)
	}
	return rows.Err()
}

// Ids are cast so Postgres UUID columns scan into strings like SQLite text.
const exerciseColumns = `CAST(e.id AS TEXT), CAST(e.workout_id AS TEXT), e.name, e.modality`

const setColumns = `CAST(s.id AS TEXT), CAST(s.exercise_id AS TEXT), s.reps, s.weight, s.rpe, s.duration_ms, s.distance_m,
	s.is_warmup, s.is_dropset, s.is_failure, s.is_bodyweight, s.additional_weight,
	s.notes, s.rest_seconds`

func (a *assembler) scanSets(rows rowScanner) error {
	for rows.Next() {
		var s models.Set
		var exerciseID string
		if err := rows.Scan(&s.ID, &exerciseID, &s.Reps, &s.Weight, &s.RPE, &s.DurationMs, &s.DistanceM,
			&s.IsWarmup, &s.IsDropset, &s.IsFailure, &s.IsBodyweight, &s.AdditionalWeight,
			&s.Notes, &s.RestSeconds); err != nil {
			return fmt.Errorf("scanning set: %w", err)
		}
		pos, ok := a.byExercise[exerciseID]
		if !ok {
			continue
		}
		ex := &a.workouts[pos[0]].Exercises[pos[1]]
		ex.Sets = append(ex.Sets, s)
	}
	return rows.Err()
}
