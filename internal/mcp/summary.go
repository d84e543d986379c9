package mcp

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/claude/yeabuddy/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// VolumeSummary holds aggregated training volume for one period.
// Warm-up sets are excluded.
type VolumeSummary struct {
	Period            string  `json:"period"`
	Sessions          int     `json:"sessions"`
	WorkingSets       int     `json:"working_sets"`
	TotalReps         int     `json:"total_reps"`
	TonnageKg         float64 `json:"tonnage_kg"`
	TimeUnderLoadSec  float64 `json:"time_sec,omitempty"`
	DistanceKm        float64 `json:"distance_km,omitempty"`
	AvgSetsPerSession float64 `json:"avg_sets_per_session"`
}

// periodStart truncates t to the Monday of its week or the first of its month.
func periodStart(t time.Time, bucket string) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	if bucket == "week" {
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// setTonnage is weight times reps. Bodyweight sets count only the added load.
func setTonnage(m models.Modality, s models.Set) float64 {
	if !m.RepBased() {
		return 0
	}
	load := 0.0
	switch {
	case s.Weight != nil:
		load = *s.Weight
	case m == models.ModalityBodyweight && s.AdditionalWeight != nil:
		load = *s.AdditionalWeight
	}
	return load * float64(s.Reps)
}

// summarizeVolume buckets workouts in [start, end] by period, newest first.
func summarizeVolume(workouts []models.Workout, start, end time.Time, bucket string) []VolumeSummary {
	byPeriod := make(map[time.Time]*VolumeSummary)
	var order []time.Time

	for _, w := range workouts {
		if !inRange(w.Date, start, end) {
			continue
		}
		key := periodStart(w.Date, bucket)
		p, ok := byPeriod[key]
		if !ok {
			p = &VolumeSummary{Period: key.Format("2006-01-02")}
			byPeriod[key] = p
			order = append(order, key)
		}
		p.Sessions++
		for _, ex := range w.Exercises {
			m := ex.Modality.OrDefault()
			for _, s := range ex.Sets {
				if s.IsWarmup {
					continue
				}
				p.WorkingSets++
				if m.RepBased() {
					p.TotalReps += s.Reps
				}
				p.TonnageKg += setTonnage(m, s)
				if s.DurationMs != nil {
					p.TimeUnderLoadSec += float64(*s.DurationMs) / 1000
				}
				if s.DistanceM != nil {
					p.DistanceKm += *s.DistanceM
				}
			}
		}
	}

	out := make([]VolumeSummary, 0, len(order))
	for _, key := range order {
		p := byPeriod[key]
		p.AvgSetsPerSession = float64(p.WorkingSets) / float64(p.Sessions)
		out = append(out, *p)
	}
	slices.SortFunc(out, func(a, b VolumeSummary) int {
		return strings.Compare(b.Period, a.Period)
	})
	return out
}

var toolTrainingSummary = mcp.NewTool("training_summary",
	mcp.WithDescription("Weekly or monthly training volume: sessions, working sets, reps, tonnage (kg × reps), time and distance. Warm-up sets are excluded."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 6 months ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
	mcp.WithString("bucket", mcp.Description("Aggregation period. Defaults to 'week'."), mcp.Enum("week", "month")),
)

func (h *handlers) trainingSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := timeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}
	if start.IsZero() {
		start = time.Now().AddDate(0, -6, 0)
	}
	bucket := req.GetString("bucket", "week")
	if bucket != "week" && bucket != "month" {
		return mcp.NewToolResultError("bucket must be week or month"), nil
	}

	workouts, err := h.ds.ListWorkouts(ctx)
	if err != nil {
		h.log.Error("mcp training_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(summarizeVolume(workouts, start, end, bucket))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
