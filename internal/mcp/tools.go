package mcp

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/claude/yeabuddy/internal/client"
	"github.com/claude/yeabuddy/internal/models"
	"github.com/claude/yeabuddy/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
)

const defaultListLimit = 20

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// timeRange parses optional bounds. A date-only end covers that whole day.
func timeRange(startStr, endStr string) (start, end time.Time, err error) {
	if startStr != "" {
		if start, err = parseFlexTime(startStr); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if endStr != "" {
		if end, err = parseFlexTime(endStr); err != nil {
			return time.Time{}, time.Time{}, err
		}
		if len(endStr) == len("2006-01-02") {
			end = end.Add(24*time.Hour - time.Nanosecond)
		}
	}
	return start, end, nil
}

func inRange(t, start, end time.Time) bool {
	if !start.IsZero() && t.Before(start) {
		return false
	}
	if !end.IsZero() && t.After(end) {
		return false
	}
	return true
}

func matchesExercise(w models.Workout, filter string) bool {
	if filter == "" {
		return true
	}
	for _, ex := range w.Exercises {
		if strings.Contains(strings.ToLower(ex.Name), filter) {
			return true
		}
	}
	return false
}

// --- Tool definitions ---

var toolListWorkouts = mcp.NewTool("list_workouts",
	mcp.WithDescription("List logged workouts, newest first, with every exercise and set."),
	mcp.WithNumber("limit", mcp.Description("Maximum number of workouts to return. Defaults to 20.")),
	mcp.WithString("exercise", mcp.Description("Only workouts containing an exercise whose name matches (partial, case-insensitive, e.g. 'bench')")),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Unbounded when omitted.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Unbounded when omitted.")),
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Get one workout by id."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workout id as returned by list_workouts")),
)

var toolExerciseHistory = mcp.NewTool("exercise_history",
	mcp.WithDescription("Every recorded set of an exercise across workouts, newest first, with a short summary per set (e.g. '8 reps @ 60 kg (RPE 8)')."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name (partial, case-insensitive)")),
)

// --- Tool handlers ---

func (h *handlers) listWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := timeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}
	limit := req.GetInt("limit", defaultListLimit)
	if limit <= 0 {
		limit = defaultListLimit
	}
	filter := strings.ToLower(strings.TrimSpace(req.GetString("exercise", "")))

	workouts, err := h.ds.ListWorkouts(ctx)
	if err != nil {
		h.log.Error("mcp list_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	out := []models.Workout{}
	for _, w := range workouts {
		if len(out) == limit {
			break
		}
		if inRange(w.Date, start, end) && matchesExercise(w, filter) {
			out = append(out, w)
		}
	}

	result, err := mcp.NewToolResultJSON(out)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	w, err := h.ds.GetWorkout(ctx, id)
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, client.ErrNotFound) {
		return mcp.NewToolResultError("workout not found: " + id), nil
	}
	if err != nil {
		h.log.Error("mcp get_workout", "id", id, "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(w)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// HistoryEntry is one set of an exercise as it appears in exercise_history.
type HistoryEntry struct {
	WorkoutID   string          `json:"workoutId"`
	WorkoutName string          `json:"workoutName,omitempty"`
	Date        time.Time       `json:"date"`
	Exercise    string          `json:"exercise"`
	Modality    models.Modality `json:"modality"`
	SetNumber   int             `json:"setNumber"`
	Summary     string          `json:"summary"`
	Set         models.Set      `json:"set"`
}

// exerciseHistory flattens matching sets. Workouts arrive newest first, so
// the history is newest first as well.
func exerciseHistory(workouts []models.Workout, filter string) []HistoryEntry {
	filter = strings.ToLower(strings.TrimSpace(filter))
	out := []HistoryEntry{}
	for _, w := range workouts {
		for _, ex := range w.Exercises {
			if !strings.Contains(strings.ToLower(ex.Name), filter) {
				continue
			}
			m := ex.Modality.OrDefault()
			for i, s := range ex.Sets {
				out = append(out, HistoryEntry{
					WorkoutID:   w.ID,
					WorkoutName: w.Name,
					Date:        w.Date,
					Exercise:    ex.Name,
					Modality:    m,
					SetNumber:   i + 1,
					Summary:     models.DescribeSet(m, s),
					Set:         s,
				})
			}
		}
	}
	return out
}

func (h *handlers) exerciseHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil || strings.TrimSpace(exercise) == "" {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	workouts, err := h.ds.ListWorkouts(ctx)
	if err != nil {
		h.log.Error("mcp exercise_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(exerciseHistory(workouts, exercise))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
