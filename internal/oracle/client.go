// Package oracle talks to the external generation backend that proposes
// chore distributions. The backend is treated as an untrusted oracle: it
// receives a structured request (people, tasks, date window) and returns
// raw text that is expected, but not guaranteed, to contain a JSON
// distribution. Providers differ in transport and quirks; they all present
// the same Client contract.
package oracle

import (
	"context"
	"errors"
	"time"

	"choreflow/internal/types"
)

// ErrConfiguration marks failures that no retry can fix: missing API keys,
// unknown providers, unreachable backends due to bad setup.
var ErrConfiguration = errors.New("oracle configuration error")

// ErrGeneration marks responses that never became a valid distribution
// after all repair and retry attempts.
var ErrGeneration = errors.New("oracle generation error")

// Request is the structured input for one distribution call: one chunk of
// the requested date range plus snapshots of the roster and catalog.
type Request struct {
	ChunkStart time.Time
	ChunkEnd   time.Time
	Persons    []types.Person
	Tasks      []types.Task
}

// Client generates a raw distribution proposal for one chunk. The returned
// text is unvalidated; callers run it through repair and parsing.
type Client interface {
	GenerateDistribution(ctx context.Context, req Request) (string, error)

	// SetModel overrides the backend model used for generation.
	SetModel(model string)
	// GetModel returns the current backend model.
	GetModel() string
}
