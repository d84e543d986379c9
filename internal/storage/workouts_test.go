package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/claude/yeabuddy/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
)

type recordingExecer struct {
	queries []string
	args    [][]any
}

func (r *recordingExecer) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	r.queries = append(r.queries, sql)
	r.args = append(r.args, args)
	return pgconn.CommandTag{}, nil
}

// TestInsertSetsChunksLargeExercises verifies big set lists are split into
// statements that stay under the bind parameter limit with continuous positions.
func TestInsertSetsChunksLargeExercises(t *testing.T) {
	tests := []struct {
		sets      int
		wantExecs int
	}{
		{0, 0},
		{1, 1},
		{setBatchSize, 1},
		{setBatchSize + 1, 2},
		{5000, 5},
	}
	for _, tt := range tests {
		sets := make([]models.Set, tt.sets)
		for i := range sets {
			sets[i] = models.Set{ID: "s", Reps: i + 1}
		}
		rec := &recordingExecer{}
		if err := insertSets(context.Background(), rec, "ex-1", sets); err != nil {
			t.Fatalf("insertSets(%d): %v", tt.sets, err)
		}
		if len(rec.queries) != tt.wantExecs {
			t.Fatalf("insertSets(%d) execs = %d, want %d", tt.sets, len(rec.queries), tt.wantExecs)
		}

		next := 0
		for i, args := range rec.args {
			if len(args) > 65535 {
				t.Errorf("exec %d has %d args, over the limit", i, len(args))
			}
			if got := strings.Count(rec.queries[i], "$"); got != len(args) {
				t.Errorf("exec %d placeholders = %d, want %d", i, got, len(args))
			}
			for j := 0; j < len(args); j += 15 {
				if args[j+2] != next {
					t.Fatalf("position = %v, want %d", args[j+2], next)
				}
				if args[j+3] != next+1 {
					t.Errorf("reps at position %d = %v, want %d", next, args[j+3], next+1)
				}
				next++
			}
		}
		if next != tt.sets {
			t.Errorf("inserted %d sets, want %d", next, tt.sets)
		}
	}
}
