package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"choreflow/internal/logging"
	"choreflow/internal/repair"
	"choreflow/internal/types"
)

const (
	maxAttempts = 3
	backoffBase = 2 * time.Second
)

// sleep is swapped out in tests to avoid real backoff delays.
var sleep = time.Sleep

// Generator wraps a Client with the retry-repair-parse loop. Each attempt
// is a full round trip: backend call, text repair, JSON parse. Any failure
// in that pipeline counts as a failed attempt except configuration errors,
// which no retry can fix and abort immediately.
type Generator struct {
	client Client
}

// NewGenerator creates a Generator over the given client.
func NewGenerator(client Client) *Generator {
	return &Generator{client: client}
}

// Model returns the backend model the underlying client uses.
func (g *Generator) Model() string {
	return g.client.GetModel()
}

// DistributeTasks asks the oracle for a distribution covering one chunk,
// retrying up to maxAttempts with linearly increasing backoff (2s, 4s).
// After exhaustion the returned error wraps ErrGeneration and carries the
// last underlying failure.
func (g *Generator) DistributeTasks(ctx context.Context, req Request) (*types.Distribution, error) {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		logging.API("distribution attempt %d/%d (model=%s, chunk %s..%s)",
			attempt, maxAttempts, g.client.GetModel(),
			req.ChunkStart.Format(types.DateLayout), req.ChunkEnd.Format(types.DateLayout))

		dist, err := g.tryOnce(ctx, req)
		if err == nil {
			logging.API("attempt %d succeeded with %d assignments", attempt, len(dist.Assignments))
			return dist, nil
		}
		if errors.Is(err, ErrConfiguration) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}

		lastErr = err
		logging.API("attempt %d failed: %v", attempt, err)

		if attempt < maxAttempts {
			sleep(time.Duration(attempt) * backoffBase)
		}
	}

	return nil, fmt.Errorf("%w: no valid distribution after %d attempts: %v", ErrGeneration, maxAttempts, lastErr)
}

// tryOnce runs a single call-repair-parse round trip.
func (g *Generator) tryOnce(ctx context.Context, req Request) (*types.Distribution, error) {
	raw, err := g.client.GenerateDistribution(ctx, req)
	if err != nil {
		return nil, err
	}

	repaired := repair.Repair(raw)

	var dist types.Distribution
	if err := json.Unmarshal([]byte(repaired), &dist); err != nil {
		return nil, fmt.Errorf("response is not valid JSON after repair: %w", err)
	}
	return &dist, nil
}
