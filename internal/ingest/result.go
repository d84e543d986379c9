// Package ingest holds types shared by the workout importers.
package ingest

// Result holds the outcome of an import.
type Result struct {
	WorkoutsReceived int `json:"workouts_received"`
	WorkoutsCreated  int `json:"workouts_created"`
	WorkoutsSkipped  int `json:"workouts_skipped"`

	SetsReceived int `json:"sets_received"`
	SetsCreated  int `json:"sets_created"`
	SetsSkipped  int `json:"sets_skipped"`

	WorkoutIDs []string `json:"workout_ids,omitempty"`
	Message    string   `json:"message,omitempty"`
}
