// Package distribution turns the household catalog into a calendar of
// assignments. The planner splits the requested period into chunks sized by
// catalog volume, the orchestrator feeds each chunk through the generation
// backend and persists the results, and the balance evaluator reports how
// evenly the work landed.
package distribution

import (
	"time"

	"choreflow/internal/types"
)

// Chunk is one contiguous inclusive date range handled by a single
// generation call.
type Chunk struct {
	Index int
	Start time.Time
	End   time.Time
}

// Days returns the inclusive day count of the chunk.
func (c Chunk) Days() int {
	return int(c.End.Sub(c.Start).Hours()/24) + 1
}

// String renders the chunk bounds for logs and progress output.
func (c Chunk) String() string {
	return c.Start.Format(types.DateLayout) + ".." + c.End.Format(types.DateLayout)
}

// chunkDays picks the chunk length from catalog size. Bigger catalogs mean
// bigger responses per day, so the window shrinks to keep each response
// within what the backend can emit without truncating.
func chunkDays(taskCount int) int {
	switch {
	case taskCount > 80:
		return 1
	case taskCount > 50:
		return 2
	case taskCount > 30:
		return 3
	default:
		return 7
	}
}

// PlanChunks splits [start, end] into ordered contiguous chunks. The last
// chunk is clamped to end. An inverted range yields no chunks; an empty
// catalog yields a single chunk spanning the whole range.
func PlanChunks(start, end time.Time, taskCount int) []Chunk {
	if start.After(end) {
		return nil
	}
	if taskCount == 0 {
		return []Chunk{{Index: 1, Start: start, End: end}}
	}

	days := chunkDays(taskCount)
	var chunks []Chunk
	for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, days) {
		chunkEnd := cur.AddDate(0, 0, days-1)
		if chunkEnd.After(end) {
			chunkEnd = end
		}
		chunks = append(chunks, Chunk{Index: len(chunks) + 1, Start: cur, End: chunkEnd})
	}
	return chunks
}
