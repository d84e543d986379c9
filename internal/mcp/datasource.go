package mcp

import (
	"context"

	"github.com/claude/yeabuddy/internal/client"
	"github.com/claude/yeabuddy/internal/models"
	"github.com/claude/yeabuddy/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Every storage backend
// (local) and client.Client (remote via REST API) satisfy this interface.
type DataSource interface {
	ListWorkouts(ctx context.Context) ([]models.Workout, error)
	GetWorkout(ctx context.Context, id string) (*models.Workout, error)
}

var (
	_ DataSource = (storage.Repository)(nil)
	_ DataSource = (*client.Client)(nil)
)
