package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/claude/yeabuddy/internal/models"
)

type fakeTransport struct {
	mu      sync.Mutex
	created []models.Workout
	list    []models.Workout
	err     error
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeTransport) ListWorkouts(ctx context.Context) ([]models.Workout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return models.CloneWorkouts(f.list), nil
}

func (f *fakeTransport) CreateWorkout(ctx context.Context, w models.Workout) (*models.Workout, error) {
	if f.entered != nil {
		close(f.entered)
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, w)
	out := w.Clone()
	out.ID = "w-" + string(rune('0'+len(f.created)))
	out.Date = time.Date(2026, 1, len(f.created), 9, 0, 0, 0, time.UTC)
	return &out, nil
}

func newTestSession(t *testing.T, tr Transport) *Session {
	t.Helper()
	s := New(tr, Options{})
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	return s
}

func recordExercise(t *testing.T, s *Session, name string, reps ...int) {
	t.Helper()
	b := s.Builder()
	b.Name = name
	for _, r := range reps {
		b.Staged.Reps = r
		if ok, err := s.RecordSet(); !ok || err != nil {
			t.Fatalf("RecordSet(reps=%d) = %v, %v", r, ok, err)
		}
	}
	if _, err := s.CommitExercise(); err != nil {
		t.Fatalf("CommitExercise: %v", err)
	}
}

// TestFinishResetsSession verifies a successful finish prepends the stored
// workout and returns the session to NotStarted.
func TestFinishResetsSession(t *testing.T) {
	tr := &fakeTransport{}
	s := newTestSession(t, tr)
	s.SetName("  Push day ")
	recordExercise(t, s, "Bench", 5, 5)

	w, err := s.Finish(context.Background())
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if w.ID == "" {
		t.Error("finished workout has no id")
	}
	if got := tr.created[0].Name; got != "Push day" {
		t.Errorf("payload name = %q, want %q", got, "Push day")
	}
	if got := len(tr.created[0].Exercises); got != 1 {
		t.Errorf("payload exercises = %d, want 1", got)
	}
	if s.State() != NotStarted {
		t.Errorf("state = %v, want %v", s.State(), NotStarted)
	}
	if len(s.Exercises()) != 0 || s.Name() != "" {
		t.Errorf("session not reset: exercises=%d name=%q", len(s.Exercises()), s.Name())
	}
	known := s.Workouts()
	if len(known) != 1 || known[0].ID != w.ID {
		t.Errorf("known = %+v, want finished workout first", known)
	}

	s.Start()
	recordExercise(t, s, "Squat", 3)
	w2, err := s.Finish(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if known := s.Workouts(); known[0].ID != w2.ID || len(known) != 2 {
		t.Errorf("newest workout not prepended: %+v", known)
	}
}

// TestFinishFailureKeepsData verifies a transport error leaves the session intact.
func TestFinishFailureKeepsData(t *testing.T) {
	boom := errors.New("connection refused")
	tr := &fakeTransport{err: boom}
	s := newTestSession(t, tr)
	s.SetName("Legs")
	recordExercise(t, s, "Squat", 5)

	if _, err := s.Finish(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Finish = %v, want wrapped %v", err, boom)
	}
	if s.State() != InProgress {
		t.Errorf("state = %v, want %v", s.State(), InProgress)
	}
	if len(s.Exercises()) != 1 || s.Name() != "Legs" {
		t.Error("session data lost after failed finish")
	}
}

// TestFinishPreconditions verifies finishing requires an in-progress workout with exercises.
func TestFinishPreconditions(t *testing.T) {
	s := New(&fakeTransport{}, Options{})
	if _, err := s.Finish(context.Background()); !errors.Is(err, ErrNotInProgress) {
		t.Errorf("Finish before Start = %v, want ErrNotInProgress", err)
	}
	s.Start()
	if _, err := s.Finish(context.Background()); !errors.Is(err, ErrNoExercises) {
		t.Errorf("Finish without exercises = %v, want ErrNoExercises", err)
	}
}

// TestCancelWhileFinishing verifies cancel is rejected during an in-flight finish.
func TestCancelWhileFinishing(t *testing.T) {
	tr := &fakeTransport{block: make(chan struct{}), entered: make(chan struct{})}
	s := newTestSession(t, tr)
	recordExercise(t, s, "Deadlift", 3)

	done := make(chan error, 1)
	go func() {
		_, err := s.Finish(context.Background())
		done <- err
	}()
	<-tr.entered

	if s.State() != Finishing {
		t.Errorf("state = %v, want %v", s.State(), Finishing)
	}
	if err := s.Cancel(); !errors.Is(err, ErrFinishPending) {
		t.Errorf("Cancel = %v, want ErrFinishPending", err)
	}
	if err := s.Start(); !errors.Is(err, ErrFinishPending) {
		t.Errorf("Start = %v, want ErrFinishPending", err)
	}
	if err := s.AddExercise(models.Exercise{Name: "x"}); !errors.Is(err, ErrFinishPending) {
		t.Errorf("AddExercise = %v, want ErrFinishPending", err)
	}

	close(tr.block)
	if err := <-done; err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if s.State() != NotStarted {
		t.Errorf("state = %v, want %v", s.State(), NotStarted)
	}
}

// TestRecordSetDuringFinish verifies set entry is rejected while a finish is
// in flight and does not race with the reset that follows it.
func TestRecordSetDuringFinish(t *testing.T) {
	tr := &fakeTransport{block: make(chan struct{}), entered: make(chan struct{})}
	s := newTestSession(t, tr)
	recordExercise(t, s, "Squat", 5)
	s.Builder().Name = "Lunge"
	s.Builder().Staged.Reps = 8

	done := make(chan error, 1)
	go func() {
		_, err := s.Finish(context.Background())
		done <- err
	}()
	<-tr.entered

	if _, err := s.RecordSet(); !errors.Is(err, ErrFinishPending) {
		t.Errorf("RecordSet = %v, want ErrFinishPending", err)
	}
	if _, err := s.CommitExercise(); !errors.Is(err, ErrFinishPending) {
		t.Errorf("CommitExercise = %v, want ErrFinishPending", err)
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				s.RecordSet()
				s.CommitExercise()
			}
		}
	}()

	close(tr.block)
	if err := <-done; err != nil {
		t.Fatalf("Finish: %v", err)
	}
	close(stop)
	wg.Wait()

	if s.State() != NotStarted {
		t.Errorf("state = %v, want %v", s.State(), NotStarted)
	}
	if n := s.Builder().Len(); n != 0 {
		t.Errorf("builder sets = %d, want 0", n)
	}
	if len(s.Exercises()) != 0 {
		t.Errorf("exercises = %d, want 0", len(s.Exercises()))
	}
}

// TestCancelDiscards verifies cancel drops exercises and name without a network call.
func TestCancelDiscards(t *testing.T) {
	tr := &fakeTransport{}
	s := newTestSession(t, tr)
	s.SetName("Pull")
	recordExercise(t, s, "Row", 10)
	if err := s.Cancel(); err != nil {
		t.Fatal(err)
	}
	if s.State() != NotStarted || len(s.Exercises()) != 0 || s.Name() != "" {
		t.Error("cancel did not reset session")
	}
	if len(tr.created) != 0 {
		t.Errorf("created = %d, want 0", len(tr.created))
	}
}

// TestStartClearsExercises verifies Start is re-entrant and discards prior work.
func TestStartClearsExercises(t *testing.T) {
	s := newTestSession(t, &fakeTransport{})
	recordExercise(t, s, "Curl", 12)
	s.Builder().Staged.Reps = 4
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	if len(s.Exercises()) != 0 || s.Builder().Staged.Reps != 0 {
		t.Error("Start did not clear exercises and staging")
	}
}

// TestAddExerciseRequiresInProgress verifies mutations before Start are rejected.
func TestAddExerciseRequiresInProgress(t *testing.T) {
	s := New(&fakeTransport{}, Options{})
	if err := s.AddExercise(models.Exercise{Name: "Bench"}); !errors.Is(err, ErrNotInProgress) {
		t.Errorf("AddExercise = %v, want ErrNotInProgress", err)
	}
	s.Builder().Staged.Reps = 5
	if _, err := s.RecordSet(); !errors.Is(err, ErrNotInProgress) {
		t.Errorf("RecordSet = %v, want ErrNotInProgress", err)
	}
}

// TestCommitExerciseValidation verifies an unnamed or empty exercise is rejected.
func TestCommitExerciseValidation(t *testing.T) {
	s := newTestSession(t, &fakeTransport{})
	_, err := s.CommitExercise()
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("CommitExercise = %v, want ValidationError", err)
	}
	s.Builder().Name = "Press"
	s.Builder().Modality = models.ModalityTime
	s.Builder().Staged.Duration = "0:45"
	s.RecordSet()
	ex, err := s.CommitExercise()
	if err != nil {
		t.Fatal(err)
	}
	if ex.Modality != models.ModalityTime {
		t.Errorf("modality = %v, want Time", ex.Modality)
	}
	if s.Builder().Modality != models.ModalityWeightReps || s.Builder().Name != "" {
		t.Error("builder not reset after commit")
	}
}

// TestRemoveExercise verifies removal and bounds.
func TestRemoveExercise(t *testing.T) {
	s := newTestSession(t, &fakeTransport{})
	recordExercise(t, s, "A", 1)
	recordExercise(t, s, "B", 1)
	if err := s.RemoveExercise(0); err != nil {
		t.Fatal(err)
	}
	if ex := s.Exercises(); len(ex) != 1 || ex[0].Name != "B" {
		t.Errorf("exercises = %+v, want [B]", ex)
	}
	if err := s.RemoveExercise(1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("RemoveExercise(1) = %v, want ErrIndexOutOfRange", err)
	}
}

// TestRecordSetStartsRestTimer verifies working sets start the timer and warm-ups do not.
func TestRecordSetStartsRestTimer(t *testing.T) {
	s := New(&fakeTransport{}, Options{RestSeconds: 90})
	s.Start()
	defer s.Timer().Pause()
	b := s.Builder()

	b.Staged = Staged{Reps: 10, Warmup: true}
	if ok, _ := s.RecordSet(); !ok {
		t.Fatal("RecordSet warm-up failed")
	}
	if s.Timer().Active() {
		t.Error("timer active after warm-up set")
	}

	b.Staged = Staged{Reps: 5}
	if ok, _ := s.RecordSet(); !ok {
		t.Fatal("RecordSet failed")
	}
	rem, active := s.RestRemaining()
	if !active || rem != 90 {
		t.Errorf("rest = %d, %v, want 90, true", rem, active)
	}

	b.Staged = Staged{}
	if ok, _ := s.RecordSet(); ok {
		t.Error("RecordSet with empty staging = true")
	}

	s.Cancel()
	if s.Timer().Active() {
		t.Error("timer active after cancel")
	}
}

// TestRefresh verifies the known list is loaded from the transport.
func TestRefresh(t *testing.T) {
	tr := &fakeTransport{list: []models.Workout{{ID: "a"}, {ID: "b"}}}
	s := New(tr, Options{})
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := s.Workouts(); len(got) != 2 || got[0].ID != "a" {
		t.Errorf("workouts = %+v", got)
	}

	tr.err = errors.New("offline")
	if err := s.Refresh(context.Background()); err == nil {
		t.Error("Refresh: expected error")
	}
	if got := s.Workouts(); len(got) != 2 {
		t.Errorf("known list changed on failed refresh: %d", len(got))
	}
}
