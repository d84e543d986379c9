package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/claude/yeabuddy/internal/models"
)

// newTestServer creates an httptest server that routes requests to handler functions
// keyed by path.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Error(err)
	}
}

func fastClient(url string) *Client {
	c := New(url, time.Second)
	c.backoff = time.Millisecond
	return c
}

// TestListWorkouts verifies the list request and decoding.
func TestListWorkouts(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/workouts": func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				t.Errorf("method = %s, want GET", r.Method)
			}
			writeTestJSON(t, w, http.StatusOK, []models.Workout{
				{ID: "b", Name: "Pull"},
				{ID: "a", Name: "Push"},
			})
		},
	})

	got, err := fastClient(ts.URL + "/").ListWorkouts(context.Background())
	if err != nil {
		t.Fatalf("ListWorkouts: %v", err)
	}
	if len(got) != 2 || got[0].ID != "b" || got[1].Name != "Push" {
		t.Errorf("workouts = %+v", got)
	}
}

// TestListWorkoutsNull verifies a null body decodes to an empty list.
func TestListWorkoutsNull(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/workouts": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("null"))
		},
	})
	got, err := fastClient(ts.URL).ListWorkouts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Error("workouts = nil, want empty slice")
	}
}

// TestGetWorkoutNotFound verifies 404 maps to ErrNotFound without retries.
func TestGetWorkoutNotFound(t *testing.T) {
	var calls atomic.Int32
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/workouts/missing": func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			writeTestJSON(t, w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		},
	})

	_, err := fastClient(ts.URL).GetWorkout(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}
}

// TestGetWorkoutEscapesID verifies ids with reserved characters stay in one path segment.
func TestGetWorkoutEscapesID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got, want := r.URL.EscapedPath(), "/api/workouts/a%2Fb%3Fc%23d"; got != want {
			t.Errorf("path = %q, want %q", got, want)
		}
		if r.URL.RawQuery != "" {
			t.Errorf("query = %q, want empty", r.URL.RawQuery)
		}
		writeTestJSON(t, w, http.StatusOK, models.Workout{ID: "a/b?c#d", Name: "Odd"})
	}))
	t.Cleanup(ts.Close)

	w, err := fastClient(ts.URL).GetWorkout(context.Background(), "a/b?c#d")
	if err != nil {
		t.Fatal(err)
	}
	if w.Name != "Odd" {
		t.Errorf("name = %q, want Odd", w.Name)
	}
}

// TestGetRetriesServerErrors verifies GETs retry 5xx responses and then succeed.
func TestGetRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/workouts/w1": func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				http.Error(w, "busy", http.StatusServiceUnavailable)
				return
			}
			writeTestJSON(t, w, http.StatusOK, models.Workout{ID: "w1", Name: "Legs"})
		},
	})

	got, err := fastClient(ts.URL).GetWorkout(context.Background(), "w1")
	if err != nil {
		t.Fatalf("GetWorkout: %v", err)
	}
	if got.Name != "Legs" {
		t.Errorf("name = %q, want Legs", got.Name)
	}
	if n := calls.Load(); n != 3 {
		t.Errorf("calls = %d, want 3", n)
	}
}

// TestGetGivesUpAfterMaxAttempts verifies the last StatusError is returned.
func TestGetGivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/workouts": func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.Error(w, "boom", http.StatusInternalServerError)
		},
	})

	_, err := fastClient(ts.URL).ListWorkouts(context.Background())
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusInternalServerError {
		t.Fatalf("err = %v, want StatusError 500", err)
	}
	if se.Body != "boom" {
		t.Errorf("body = %q, want boom", se.Body)
	}
	if n := calls.Load(); n != maxAttempts {
		t.Errorf("calls = %d, want %d", n, maxAttempts)
	}
}

// TestCreateWorkout verifies the POST body and the 201 decode.
func TestCreateWorkout(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/workouts": func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("method = %s, want POST", r.Method)
			}
			if ct := r.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("content-type = %q", ct)
			}
			var in models.Workout
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				t.Error(err)
				return
			}
			in.ID = "srv-1"
			w.Header().Set("Location", "/api/workouts/srv-1")
			writeTestJSON(t, w, http.StatusCreated, in)
		},
	})

	w := models.Workout{
		Name:      "Push",
		Exercises: []models.Exercise{{Name: "Bench", Sets: []models.Set{{Reps: 5, Weight: models.Ptr(80.0)}}}},
	}
	got, err := fastClient(ts.URL).CreateWorkout(context.Background(), w)
	if err != nil {
		t.Fatalf("CreateWorkout: %v", err)
	}
	if got.ID != "srv-1" || *got.Exercises[0].Sets[0].Weight != 80 {
		t.Errorf("created = %+v", got)
	}
}

// TestCreateWorkoutNotRetried verifies a failed POST is sent exactly once.
func TestCreateWorkoutNotRetried(t *testing.T) {
	var calls atomic.Int32
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/workouts": func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.Error(w, "down", http.StatusBadGateway)
		},
	})

	_, err := fastClient(ts.URL).CreateWorkout(context.Background(), models.Workout{})
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusBadGateway {
		t.Errorf("err = %v, want StatusError 502", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}
}

// TestCreateWorkoutRequiresCreated verifies a 200 reply to POST is treated as failure.
func TestCreateWorkoutRequiresCreated(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/workouts": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, http.StatusOK, models.Workout{ID: "x"})
		},
	})
	if _, err := fastClient(ts.URL).CreateWorkout(context.Background(), models.Workout{}); err == nil {
		t.Error("expected error for non-201 response")
	}
}

// TestNetworkError verifies an unreachable server surfaces an error after retries.
func TestNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	if _, err := fastClient(url).ListWorkouts(context.Background()); err == nil {
		t.Error("expected error for closed server")
	}
}
