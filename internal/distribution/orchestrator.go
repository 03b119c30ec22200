package distribution

import (
	"context"
	"errors"
	"fmt"
	"time"

	"choreflow/internal/logging"
	"choreflow/internal/oracle"
	"choreflow/internal/store"
	"choreflow/internal/types"
)

// ErrValidation marks precondition failures: inverted dates, empty roster,
// empty catalog. Nothing has been modified when it is returned.
var ErrValidation = errors.New("validation failed")

// EntityStore is the slice of the store the distribution engine needs.
// *store.Store satisfies it.
type EntityStore interface {
	ListPersons() ([]types.Person, error)
	ListActiveTasks() ([]types.Task, error)
	CreateAssignment(types.Assignment) (types.Assignment, error)
	DeleteAllAssignments() error
	FindAssignments(store.AssignmentFilter) ([]types.Assignment, error)
}

// Generator produces one distribution per chunk. *oracle.Generator
// satisfies it.
type Generator interface {
	DistributeTasks(ctx context.Context, req oracle.Request) (*types.Distribution, error)
	Model() string
}

// ProgressState tags the phases a run moves through.
type ProgressState string

const (
	StatePlanning     ProgressState = "planning"
	StateRunningChunk ProgressState = "running_chunk"
	StatePersisted    ProgressState = "persisted"
	StateDone         ProgressState = "done"
	StateAborted      ProgressState = "aborted"
)

// ProgressEvent is emitted after each phase transition.
type ProgressEvent struct {
	State   ProgressState
	Chunk   int // 1-based, zero outside chunk phases
	Chunks  int
	Created int // assignments created so far
}

// ProgressFunc receives progress events. Called synchronously between
// chunks; keep it fast.
type ProgressFunc func(ProgressEvent)

// Result reports what a run created. Populated on success and on abort
// alike, so partial progress is always visible.
type Result struct {
	AssignmentsCreated int
	RowsSkipped        int
	ChunksCompleted    int
	ChunksTotal        int
}

// Orchestrator drives the chunked generate-persist loop.
type Orchestrator struct {
	store    EntityStore
	gen      Generator
	progress ProgressFunc
}

// NewOrchestrator creates an orchestrator. progress may be nil.
func NewOrchestrator(st EntityStore, gen Generator, progress ProgressFunc) *Orchestrator {
	return &Orchestrator{store: st, gen: gen, progress: progress}
}

func (o *Orchestrator) emit(ev ProgressEvent) {
	if o.progress != nil {
		o.progress(ev)
	}
}

// snapshot loads and validates the roster and catalog once per run; chunks
// within a run all see the same entities.
func (o *Orchestrator) snapshot(start, end time.Time) ([]types.Person, []types.Task, error) {
	if start.After(end) {
		return nil, nil, fmt.Errorf("%w: start date %s is after end date %s",
			ErrValidation, start.Format(types.DateLayout), end.Format(types.DateLayout))
	}
	persons, err := o.store.ListPersons()
	if err != nil {
		return nil, nil, err
	}
	if len(persons) == 0 {
		return nil, nil, fmt.Errorf("%w: no persons to assign tasks to", ErrValidation)
	}
	tasks, err := o.store.ListActiveTasks()
	if err != nil {
		return nil, nil, err
	}
	if len(tasks) == 0 {
		return nil, nil, fmt.Errorf("%w: no active tasks to distribute", ErrValidation)
	}
	return persons, tasks, nil
}

// Distribute runs a single generation over the whole [start, end] range,
// optionally clearing existing assignments first.
func (o *Orchestrator) Distribute(ctx context.Context, start, end time.Time, clearFirst bool) (Result, error) {
	persons, tasks, err := o.snapshot(start, end)
	if err != nil {
		return Result{}, err
	}
	if clearFirst {
		if err := o.store.DeleteAllAssignments(); err != nil {
			return Result{}, err
		}
	}

	result := Result{ChunksTotal: 1}
	chunk := Chunk{Index: 1, Start: start, End: end}
	o.emit(ProgressEvent{State: StateRunningChunk, Chunk: 1, Chunks: 1})

	if err := o.runChunk(ctx, chunk, persons, tasks, &result); err != nil {
		o.emit(ProgressEvent{State: StateAborted, Chunk: 1, Chunks: 1, Created: result.AssignmentsCreated})
		return result, err
	}
	result.ChunksCompleted = 1
	o.emit(ProgressEvent{State: StateDone, Chunks: 1, Created: result.AssignmentsCreated})
	return result, nil
}

// Redistribute clears the whole schedule and regenerates it chunk by chunk,
// strictly sequentially, persisting each chunk before starting the next. A
// chunk that fails after retries aborts the run; everything persisted so
// far stays, and the error names the failed chunk.
func (o *Orchestrator) Redistribute(ctx context.Context, start, end time.Time) (Result, error) {
	persons, tasks, err := o.snapshot(start, end)
	if err != nil {
		return Result{}, err
	}
	if err := o.store.DeleteAllAssignments(); err != nil {
		return Result{}, err
	}

	chunks := PlanChunks(start, end, len(tasks))
	result := Result{ChunksTotal: len(chunks)}
	o.emit(ProgressEvent{State: StatePlanning, Chunks: len(chunks)})
	logging.Distribution("redistributing %s..%s: %d chunks, %d persons, %d tasks (model=%s)",
		start.Format(types.DateLayout), end.Format(types.DateLayout),
		len(chunks), len(persons), len(tasks), o.gen.Model())

	for _, chunk := range chunks {
		o.emit(ProgressEvent{State: StateRunningChunk, Chunk: chunk.Index, Chunks: len(chunks), Created: result.AssignmentsCreated})

		if err := o.runChunk(ctx, chunk, persons, tasks, &result); err != nil {
			o.emit(ProgressEvent{State: StateAborted, Chunk: chunk.Index, Chunks: len(chunks), Created: result.AssignmentsCreated})
			return result, fmt.Errorf("chunk %d/%d (%s) failed, keeping %d assignments from %d completed chunks: %w",
				chunk.Index, len(chunks), chunk, result.AssignmentsCreated, result.ChunksCompleted, err)
		}
		result.ChunksCompleted++
		o.emit(ProgressEvent{State: StatePersisted, Chunk: chunk.Index, Chunks: len(chunks), Created: result.AssignmentsCreated})
	}

	o.emit(ProgressEvent{State: StateDone, Chunks: len(chunks), Created: result.AssignmentsCreated})
	logging.Distribution("redistribution done: %d assignments over %d chunks", result.AssignmentsCreated, result.ChunksCompleted)
	return result, nil
}

// runChunk generates one chunk and persists it immediately.
func (o *Orchestrator) runChunk(ctx context.Context, chunk Chunk, persons []types.Person, tasks []types.Task, result *Result) error {
	dist, err := o.gen.DistributeTasks(ctx, oracle.Request{
		ChunkStart: chunk.Start,
		ChunkEnd:   chunk.End,
		Persons:    persons,
		Tasks:      tasks,
	})
	if err != nil {
		return err
	}

	created, skipped := o.persist(dist, persons, tasks)
	result.AssignmentsCreated += created
	result.RowsSkipped += skipped
	logging.Distribution("chunk %s: persisted %d assignments, skipped %d rows", chunk, created, skipped)
	return nil
}

// persist writes the proposed triples, filtering defensively: the backend
// sometimes invents IDs or drops fields, and one bad row must never sink a
// chunk that is otherwise fine.
func (o *Orchestrator) persist(dist *types.Distribution, persons []types.Person, tasks []types.Task) (created, skipped int) {
	knownPersons := make(map[string]bool, len(persons))
	for _, p := range persons {
		knownPersons[p.ID] = true
	}
	knownTasks := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		knownTasks[t.ID] = true
	}

	for _, proposed := range dist.Assignments {
		switch {
		case proposed.Date == "":
			logging.Distribution("skipping row with empty date (task=%s person=%s)", proposed.TaskID, proposed.PersonID)
			skipped++
			continue
		case !knownTasks[proposed.TaskID]:
			logging.Distribution("skipping row with unknown task %s", proposed.TaskID)
			skipped++
			continue
		case !knownPersons[proposed.PersonID]:
			logging.Distribution("skipping row with unknown person %s", proposed.PersonID)
			skipped++
			continue
		}

		_, err := o.store.CreateAssignment(types.Assignment{
			TaskID:   proposed.TaskID,
			PersonID: proposed.PersonID,
			Date:     proposed.Date,
		})
		if err != nil {
			logging.Distribution("skipping row (task=%s person=%s date=%s): %v",
				proposed.TaskID, proposed.PersonID, proposed.Date, err)
			skipped++
			continue
		}
		created++
	}
	return created, skipped
}
