// Package engine drives a run: it plans a LinkRequest once and executes
// the planned links in order, producing one Entry per link as it goes.
//
// With more than one worker, directory steps still run first and in order;
// the remaining links are then spread over a goroutine pool. Links sharing
// a destination stay on one worker, in planned order. Entries are always
// yielded in planned order regardless of completion order.
package engine

import (
	"context"
	"iter"
	"sync"
	"time"

	"github.com/arthur-debert/flnk/pkg/executor"
	"github.com/arthur-debert/flnk/pkg/logging"
	"github.com/arthur-debert/flnk/pkg/planner"
	"github.com/arthur-debert/flnk/pkg/types"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"
)

// Engine combines a Planner and an Executor over one filesystem.
type Engine struct {
	planner  *planner.Planner
	executor *executor.Executor
	workers  int
	logger   zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers sets the number of concurrent executors. Values below 2
// select sequential execution.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// New creates an Engine over fsys.
func New(fsys types.FS, opts ...Option) *Engine {
	e := &Engine{
		planner:  planner.New(fsys),
		executor: executor.New(fsys),
		workers:  1,
		logger:   logging.GetLogger("engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Planner returns the planner used by Run.
func (e *Engine) Planner() *planner.Planner { return e.planner }

// Executor returns the executor used by Run.
func (e *Engine) Executor() *executor.Executor { return e.executor }

// Run plans req and executes the plan. onEntry, if not nil, is called for
// every entry as soon as it is available in planned order. A PlanError is
// returned before anything is executed. Cancelling ctx stops the run
// after the entries in flight; the report then holds the completed ones.
func (e *Engine) Run(ctx context.Context, req types.LinkRequest, onEntry func(types.Entry)) (*types.RunReport, error) {
	done := logging.LogOperationStart(e.logger, "run")
	defer done()
	start := time.Now()

	plan, err := e.planner.Plan(req)
	if err != nil {
		return nil, err
	}

	report := &types.RunReport{Planned: len(plan)}
	for entry := range e.Execute(ctx, plan, req.Policy()) {
		report.Add(entry)
		if onEntry != nil {
			onEntry(entry)
		}
	}
	report.Interrupted = ctx.Err() != nil && len(report.Entries) < len(plan)
	report.Duration = time.Since(start)

	e.logger.Info().
		Int("planned", report.Planned).
		Int("created", report.Counts.Created).
		Int("backed_up", report.Counts.BackedUp).
		Int("skipped", report.Counts.Skipped).
		Int("failed", report.Counts.Failed).
		Bool("interrupted", report.Interrupted).
		Msg("Run finished")
	return report, nil
}

// Execute returns the lazy, ordered stream of entries for plan. Links are
// only executed while the stream is being consumed; stopping early or
// cancelling ctx leaves the remaining links untouched.
func (e *Engine) Execute(ctx context.Context, plan []types.PlannedLink, policy types.Policy) iter.Seq[types.Entry] {
	if e.workers < 2 {
		return e.sequential(ctx, plan, policy)
	}
	return e.parallel(ctx, plan, policy)
}

func (e *Engine) sequential(ctx context.Context, plan []types.PlannedLink, policy types.Policy) iter.Seq[types.Entry] {
	return func(yield func(types.Entry) bool) {
		for i, link := range plan {
			if ctx.Err() != nil {
				return
			}
			if !yield(types.Entry{Index: i, Link: link, Outcome: e.executor.Execute(link, policy)}) {
				return
			}
		}
	}
}

func (e *Engine) parallel(ctx context.Context, plan []types.PlannedLink, policy types.Policy) iter.Seq[types.Entry] {
	return func(yield func(types.Entry) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		// Each slot receives exactly one outcome, or is closed when its
		// link was never executed.
		slots := make([]chan types.LinkOutcome, len(plan))
		for i := range slots {
			slots[i] = make(chan types.LinkOutcome, 1)
		}

		finished := make(chan struct{})
		go func() {
			defer close(finished)
			e.produce(ctx, plan, policy, slots)
		}()
		defer func() { <-finished }()

		for i, slot := range slots {
			outcome, ok := <-slot
			if !ok {
				continue
			}
			if !yield(types.Entry{Index: i, Link: plan[i], Outcome: outcome}) {
				cancel()
				return
			}
		}
	}
}

// produce executes every directory step in order, then the remaining
// links on a pool of e.workers goroutines.
func (e *Engine) produce(ctx context.Context, plan []types.PlannedLink, policy types.Policy, slots []chan types.LinkOutcome) {
	run := func(i int) {
		if ctx.Err() != nil {
			close(slots[i])
			return
		}
		slots[i] <- e.executor.Execute(plan[i], policy)
	}

	var groups [][]int
	byDestination := make(map[string]int)
	for i, link := range plan {
		if link.IsDirectory() {
			run(i)
			continue
		}
		if g, ok := byDestination[link.Destination]; ok {
			groups[g] = append(groups[g], i)
			continue
		}
		byDestination[link.Destination] = len(groups)
		groups = append(groups, []int{i})
	}

	pool, err := ants.NewPool(e.workers)
	if err != nil {
		e.logger.Error().Err(err).Msg("Cannot create worker pool, executing sequentially")
		for _, group := range groups {
			for _, i := range group {
				run(i)
			}
		}
		return
	}
	defer pool.Release()

	e.logger.Debug().
		Int("workers", e.workers).
		Int("groups", len(groups)).
		Msg("Executing links in parallel")

	var wg sync.WaitGroup
	for _, group := range groups {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			for _, i := range group {
				run(i)
			}
		}
		if err := pool.Submit(task); err != nil {
			e.logger.Debug().Err(err).Msg("Pool rejected task, running inline")
			task()
		}
	}
	wg.Wait()
}
