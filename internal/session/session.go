// Package session composes a workout on the client: set entry, exercise
// assembly, the session lifecycle and the rest timer.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/claude/yeabuddy/internal/models"
)

// DefaultRestSeconds is the rest period stamped on new sets.
const DefaultRestSeconds = 90

var (
	ErrNotInProgress   = errors.New("no workout in progress")
	ErrNoExercises     = errors.New("workout has no exercises")
	ErrFinishPending   = errors.New("finish already in progress")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// State is the lifecycle phase of a session.
type State int

const (
	NotStarted State = iota
	InProgress
	Finishing
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case InProgress:
		return "in progress"
	case Finishing:
		return "finishing"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Transport sends finished workouts to the store and lists stored ones.
type Transport interface {
	ListWorkouts(ctx context.Context) ([]models.Workout, error)
	CreateWorkout(ctx context.Context, w models.Workout) (*models.Workout, error)
}

// Options configures a Session.
type Options struct {
	// RestSeconds is stamped on each set and starts the rest timer after
	// working sets. Zero disables both.
	RestSeconds int
	// OnRestComplete is called from the timer goroutine when a rest period
	// ends.
	OnRestComplete func()
}

// Session owns the in-progress workout.
type Session struct {
	mu        sync.Mutex
	transport Transport
	timer     *RestTimer
	builder   *Builder

	state     State
	name      string
	exercises []models.Exercise
	known     []models.Workout
}

// New creates a session in the NotStarted state.
func New(t Transport, opts Options) *Session {
	return &Session{
		transport: t,
		timer:     NewRestTimer(opts.OnRestComplete),
		builder:   NewBuilder(opts.RestSeconds),
	}
}

// Builder returns the set builder for the exercise being entered. Its
// fields belong to the goroutine driving the session; session methods
// serialise their own builder access with Finish.
func (s *Session) Builder() *Builder {
	return s.builder
}

// Timer returns the rest timer owned by the session.
func (s *Session) Timer() *RestTimer {
	return s.timer
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) requireInProgressLocked() error {
	switch s.state {
	case InProgress:
		return nil
	case Finishing:
		return ErrFinishPending
	}
	return ErrNotInProgress
}

// Start begins a new workout, discarding any exercises and staging. It may
// be called again while in progress.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Finishing {
		return ErrFinishPending
	}
	s.state = InProgress
	s.exercises = nil
	s.builder.ResetExercise()
	return nil
}

// SetName sets the optional workout name.
func (s *Session) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

// Name returns the workout name as entered.
func (s *Session) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// RecordSet adds the staged set to the current exercise. A working set
// with a positive rest period starts the rest timer. It reports false when
// the staged fields fail validation.
func (s *Session) RecordSet() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireInProgressLocked(); err != nil {
		return false, err
	}
	warmup := s.builder.Staged.Warmup
	if !s.builder.AddSet() {
		return false, nil
	}
	if rest := s.builder.RestSeconds; !warmup && rest > 0 {
		s.timer.Start(rest)
	}
	return true, nil
}

// CommitExercise promotes the builder's sets into an exercise, appends it
// and resets the builder.
func (s *Session) CommitExercise() (models.Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireInProgressLocked(); err != nil {
		return models.Exercise{}, err
	}
	ex, ok := s.builder.CreateExercise()
	if !ok {
		return models.Exercise{}, &models.ValidationError{
			Field:   "exercise",
			Message: "an exercise needs a name and at least one set",
		}
	}
	s.exercises = append(s.exercises, ex.Clone())
	s.builder.ResetExercise()
	return ex, nil
}

// AddExercise appends a copy of e to the workout.
func (s *Session) AddExercise(e models.Exercise) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireInProgressLocked(); err != nil {
		return err
	}
	s.exercises = append(s.exercises, e.Clone())
	return nil
}

// RemoveExercise drops the exercise at index.
func (s *Session) RemoveExercise(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireInProgressLocked(); err != nil {
		return err
	}
	if index < 0 || index >= len(s.exercises) {
		return fmt.Errorf("exercise %d of %d: %w", index, len(s.exercises), ErrIndexOutOfRange)
	}
	s.exercises = append(s.exercises[:index], s.exercises[index+1:]...)
	return nil
}

// Exercises returns a copy of the committed exercises.
func (s *Session) Exercises() []models.Exercise {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Exercise, len(s.exercises))
	for i, ex := range s.exercises {
		out[i] = ex.Clone()
	}
	return out
}

// Cancel discards the workout without contacting the server. It is
// rejected while a finish is in flight.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Finishing {
		return ErrFinishPending
	}
	s.resetLocked()
	return nil
}

func (s *Session) resetLocked() {
	s.state = NotStarted
	s.name = ""
	s.exercises = nil
	s.builder.ResetExercise()
	s.timer.Pause()
}

// Finish sends the workout to the transport. On success the stored
// workout is prepended to the known list and the session resets. On
// failure the session stays in progress with its data intact.
func (s *Session) Finish(ctx context.Context) (*models.Workout, error) {
	s.mu.Lock()
	if err := s.requireInProgressLocked(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if len(s.exercises) == 0 {
		s.mu.Unlock()
		return nil, ErrNoExercises
	}
	payload := models.Workout{
		Name:      strings.TrimSpace(s.name),
		Exercises: make([]models.Exercise, len(s.exercises)),
	}
	for i, ex := range s.exercises {
		payload.Exercises[i] = ex.Clone()
	}
	s.state = Finishing
	s.mu.Unlock()

	created, err := s.transport.CreateWorkout(ctx, payload)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil && created == nil {
		err = errors.New("empty response")
	}
	if err != nil {
		s.state = InProgress
		return nil, fmt.Errorf("finishing workout: %w", err)
	}
	w := created.Clone()
	s.known = append([]models.Workout{w}, s.known...)
	s.resetLocked()
	return created, nil
}

// Refresh replaces the known workouts with the store's list.
func (s *Session) Refresh(ctx context.Context) error {
	ws, err := s.transport.ListWorkouts(ctx)
	if err != nil {
		return fmt.Errorf("listing workouts: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.known = models.CloneWorkouts(ws)
	return nil
}

// Workouts returns a copy of the known workouts, newest first.
func (s *Session) Workouts() []models.Workout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneWorkouts(s.known)
}

// RestRemaining returns the seconds left on the rest timer and whether it
// is running.
func (s *Session) RestRemaining() (int, bool) {
	return s.timer.Remaining()
}

// RestElapsed returns how long the current rest has been running.
func (s *Session) RestElapsed() time.Duration {
	started := s.timer.StartedAt()
	if started.IsZero() {
		return 0
	}
	return time.Since(started)
}
