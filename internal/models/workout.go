package models

import "time"

// Set is one performed set within an exercise.
type Set struct {
	ID               string   `json:"id,omitempty"`
	Reps             int      `json:"reps"`
	Weight           *float64 `json:"weight,omitempty"`
	RPE              *int     `json:"rpe,omitempty"`
	DurationMs       *int64   `json:"durationMs,omitempty"`
	DistanceM        *float64 `json:"distanceM,omitempty"`
	IsWarmup         bool     `json:"isWarmup,omitempty"`
	IsDropset        bool     `json:"isDropset,omitempty"`
	IsFailure        bool     `json:"isFailure,omitempty"`
	IsBodyweight     bool     `json:"isBodyweight,omitempty"`
	AdditionalWeight *float64 `json:"additionalWeight,omitempty"`
	Notes            string   `json:"notes,omitempty"`
	RestSeconds      *int     `json:"restSeconds,omitempty"`
}

// Exercise is a named movement with its ordered sets.
type Exercise struct {
	ID       string   `json:"id,omitempty"`
	Name     string   `json:"name"`
	Modality Modality `json:"modality,omitempty"`
	Sets     []Set    `json:"sets"`
}

// Workout is a dated session of exercises.
type Workout struct {
	ID        string     `json:"id,omitempty"`
	Date      time.Time  `json:"date,omitzero"`
	Name      string     `json:"name,omitempty"`
	Exercises []Exercise `json:"exercises"`
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Clone returns a deep copy of s.
func (s Set) Clone() Set {
	out := s
	out.Weight = clonePtr(s.Weight)
	out.RPE = clonePtr(s.RPE)
	out.DurationMs = clonePtr(s.DurationMs)
	out.DistanceM = clonePtr(s.DistanceM)
	out.AdditionalWeight = clonePtr(s.AdditionalWeight)
	out.RestSeconds = clonePtr(s.RestSeconds)
	return out
}

// Clone returns a deep copy of e.
func (e Exercise) Clone() Exercise {
	out := e
	out.Sets = CloneSets(e.Sets)
	return out
}

// Clone returns a deep copy of w.
func (w Workout) Clone() Workout {
	out := w
	if w.Exercises != nil {
		out.Exercises = make([]Exercise, len(w.Exercises))
		for i, ex := range w.Exercises {
			out.Exercises[i] = ex.Clone()
		}
	}
	return out
}

// CloneSets deep-copies a set slice, preserving nil.
func CloneSets(sets []Set) []Set {
	if sets == nil {
		return nil
	}
	out := make([]Set, len(sets))
	for i, s := range sets {
		out[i] = s.Clone()
	}
	return out
}

// CloneWorkouts deep-copies a workout slice.
func CloneWorkouts(ws []Workout) []Workout {
	out := make([]Workout, len(ws))
	for i, w := range ws {
		out[i] = w.Clone()
	}
	return out
}
