package session

import (
	"fmt"
	"strings"

	"github.com/claude/yeabuddy/internal/models"
)

// Staged holds the entry fields of the set being composed. Zero values mean
// "not entered".
type Staged struct {
	Reps             int
	Weight           float64
	Duration         string // "mm:ss"
	Distance         float64
	RPE              int
	AdditionalWeight float64
	Notes            string
	Warmup           bool
	Dropset          bool
	Failure          bool
	Bodyweight       bool
}

// Builder accumulates the sets of one exercise. It is not safe for
// concurrent use.
type Builder struct {
	Name        string
	Modality    models.Modality
	RestSeconds int
	Staged      Staged

	sets []models.Set
	done []bool
}

// NewBuilder returns an empty builder for a WeightReps exercise.
func NewBuilder(restSeconds int) *Builder {
	return &Builder{Modality: models.ModalityWeightReps, RestSeconds: restSeconds}
}

func positive[T int | int64 | float64](v T) *T {
	if v <= 0 {
		return nil
	}
	return &v
}

// StagedSet converts the staging fields into a Set and checks the primary
// metric of the current modality.
func (b *Builder) StagedSet() (models.Set, error) {
	st := b.Staged
	set := models.Set{
		Reps:      st.Reps,
		Weight:    positive(st.Weight),
		RPE:       positive(st.RPE),
		DistanceM: positive(st.Distance),
		IsWarmup:  st.Warmup,
		IsDropset: st.Dropset,
		IsFailure: st.Failure,
		Notes:     strings.TrimSpace(st.Notes),
	}
	if set.Reps < 0 {
		set.Reps = 0
	}
	if ms, ok := models.ParseDuration(st.Duration); ok {
		set.DurationMs = &ms
	}
	if b.Modality.UsesAdditionalWeight() {
		set.AdditionalWeight = positive(st.AdditionalWeight)
		set.IsBodyweight = st.Bodyweight || b.Modality.OrDefault() == models.ModalityBodyweight
	}
	if b.RestSeconds > 0 {
		set.RestSeconds = models.Ptr(b.RestSeconds)
	}
	if err := set.Validate(b.Modality); err != nil {
		return models.Set{}, err
	}
	return set, nil
}

// AddSet appends the staged set when it passes validation and clears the
// entry fields. Name and modality are kept. On failure nothing changes.
func (b *Builder) AddSet() bool {
	set, err := b.StagedSet()
	if err != nil {
		return false
	}
	b.sets = append(b.sets, set)
	b.done = append(b.done, false)
	b.ClearStaging()
	return true
}

// RemoveSet deletes the set at index.
func (b *Builder) RemoveSet(index int) error {
	if err := b.checkIndex(index); err != nil {
		return err
	}
	b.sets = append(b.sets[:index], b.sets[index+1:]...)
	b.done = append(b.done[:index], b.done[index+1:]...)
	return nil
}

// CopyPreviousSet loads the last recorded set back into staging.
func (b *Builder) CopyPreviousSet() bool {
	if len(b.sets) == 0 {
		return false
	}
	last := b.sets[len(b.sets)-1]
	st := Staged{
		Reps:       last.Reps,
		Notes:      last.Notes,
		Warmup:     last.IsWarmup,
		Dropset:    last.IsDropset,
		Failure:    last.IsFailure,
		Bodyweight: last.IsBodyweight,
	}
	if last.Weight != nil {
		st.Weight = *last.Weight
	}
	if last.RPE != nil {
		st.RPE = *last.RPE
	}
	if last.DurationMs != nil {
		st.Duration = models.FormatDuration(*last.DurationMs)
	}
	if last.DistanceM != nil {
		st.Distance = *last.DistanceM
	}
	if last.AdditionalWeight != nil {
		st.AdditionalWeight = *last.AdditionalWeight
	}
	b.Staged = st
	return true
}

// IncrementWeight adds delta to the staged weight. Negative deltas are
// allowed; the result is not clamped.
func (b *Builder) IncrementWeight(delta float64) {
	b.Staged.Weight += delta
}

// ToggleSetDone flips the display-only done marker of a set.
func (b *Builder) ToggleSetDone(index int) error {
	if err := b.checkIndex(index); err != nil {
		return err
	}
	b.done[index] = !b.done[index]
	return nil
}

// IsDone reports the done marker of a set. Out-of-range indexes are false.
func (b *Builder) IsDone(index int) bool {
	if index < 0 || index >= len(b.done) {
		return false
	}
	return b.done[index]
}

// UpdateSetNumber moves the set at oldIndex to the 1-based position
// newSetNumber. Its done marker moves with it.
func (b *Builder) UpdateSetNumber(oldIndex, newSetNumber int) error {
	if err := b.checkIndex(oldIndex); err != nil {
		return err
	}
	n := len(b.sets)
	if newSetNumber < 1 || newSetNumber > n {
		return &models.ValidationError{
			Field:   "setNumber",
			Message: fmt.Sprintf("set number must be between 1 and %d", n),
		}
	}
	newIndex := newSetNumber - 1
	if newIndex == oldIndex {
		return nil
	}
	set, done := b.sets[oldIndex], b.done[oldIndex]
	b.sets = append(b.sets[:oldIndex], b.sets[oldIndex+1:]...)
	b.done = append(b.done[:oldIndex], b.done[oldIndex+1:]...)
	b.sets = insertAt(b.sets, newIndex, set)
	b.done = insertAt(b.done, newIndex, done)
	return nil
}

func insertAt[T any](s []T, i int, v T) []T {
	var zero T
	s = append(s, zero)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

// UpdateSetReps edits the rep count of a recorded set in place.
func (b *Builder) UpdateSetReps(index, reps int) error {
	if err := b.checkIndex(index); err != nil {
		return err
	}
	if reps < 0 {
		return &models.ValidationError{Field: "reps", Message: "must not be negative"}
	}
	b.sets[index].Reps = reps
	return nil
}

// Sets returns a copy of the recorded sets.
func (b *Builder) Sets() []models.Set {
	return models.CloneSets(b.sets)
}

// Len returns the number of recorded sets.
func (b *Builder) Len() int {
	return len(b.sets)
}

// CreateExercise snapshots the builder as an Exercise. It reports false
// when the trimmed name is empty or no sets were recorded.
func (b *Builder) CreateExercise() (models.Exercise, bool) {
	name := strings.TrimSpace(b.Name)
	if name == "" || len(b.sets) == 0 {
		return models.Exercise{}, false
	}
	return models.Exercise{
		Name:     name,
		Modality: b.Modality.OrDefault(),
		Sets:     models.CloneSets(b.sets),
	}, true
}

// ResetExercise clears name, sets and staging and returns the modality to
// WeightReps. RestSeconds is kept.
func (b *Builder) ResetExercise() {
	b.Name = ""
	b.Modality = models.ModalityWeightReps
	b.sets = nil
	b.done = nil
	b.ClearStaging()
}

// ClearStaging empties the entry fields.
func (b *Builder) ClearStaging() {
	b.Staged = Staged{}
}

func (b *Builder) checkIndex(index int) error {
	if index < 0 || index >= len(b.sets) {
		return fmt.Errorf("set %d of %d: %w", index, len(b.sets), ErrIndexOutOfRange)
	}
	return nil
}
