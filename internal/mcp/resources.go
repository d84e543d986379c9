package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/claude/yeabuddy/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

const recentDays = 14

func (h *handlers) recentWorkouts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	workouts, err := h.ds.ListWorkouts(ctx)
	if err != nil {
		h.log.Error("mcp recent_workouts", "error", err)
		return nil, err
	}

	since := time.Now().AddDate(0, 0, -recentDays)
	recent := []models.Workout{}
	for _, w := range workouts {
		if !w.Date.Before(since) {
			recent = append(recent, w)
		}
	}

	data, err := json.Marshal(recent)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
