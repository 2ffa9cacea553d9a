// Package driver coordinates snapshot loading with graph integration: it
// loads per-unit snapshots through the loader port, merges them into the
// session graph one at a time, and hands the set of invalidated tasks back
// to the external scheduler.
package driver

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"go.trai.ch/ripple/internal/core/domain"
	"go.trai.ch/ripple/internal/core/ports"
	"go.trai.ch/ripple/internal/engine/depgraph"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Driver owns the session graph for the lifetime of a build session. All
// graph mutation happens on the caller's goroutine; only snapshot loading
// is parallelized.
type Driver struct {
	graph  *depgraph.Graph
	loader ports.SnapshotLoader
	log    ports.Logger
	tracer ports.Tracer

	// renderer, when set together with debug, emits a rendering of the
	// graph before and after every integration.
	renderer ports.GraphRenderer
	debug    bool

	dotSequence map[domain.TaskID]int
}

// Option configures a Driver.
type Option func(*Driver)

// WithDebug enables invariant checking and per-integration graph renderings.
func WithDebug(renderer ports.GraphRenderer) Option {
	return func(d *Driver) {
		d.debug = true
		d.renderer = renderer
	}
}

// New creates a Driver for one build session.
func New(g *depgraph.Graph, loader ports.SnapshotLoader, log ports.Logger, tracer ports.Tracer, opts ...Option) *Driver {
	d := &Driver{
		graph:       g,
		loader:      loader,
		log:         log,
		tracer:      tracer,
		dotSequence: make(map[domain.TaskID]int),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Graph exposes the session graph for cascade queries and iteration.
func (d *Driver) Graph() *depgraph.Graph {
	return d.graph
}

// Integrate loads a snapshot from raw bytes and merges it for the unit the
// given task compiles. A load or contract failure leaves the graph
// untouched and yields LoadResultHadError.
func (d *Driver) Integrate(ctx context.Context, task domain.TaskID, unit domain.InternedString, source []byte) depgraph.LoadResult {
	_, span := d.tracer.Start(ctx, "integrate "+unit.String())
	defer span.End()

	snap, err := d.loader.Load(source)
	if err != nil {
		span.RecordError(err)
		d.log.Error(zerr.With(zerr.Wrap(err, domain.ErrSnapshotLoadFailed.Error()),
			"unit", unit.String()))
		return depgraph.LoadResultHadError
	}

	if err := d.graph.RegisterTask(task, unit); err != nil {
		span.RecordError(err)
		d.log.Error(err)
		return depgraph.LoadResultHadError
	}

	d.debugCheckpoint(task)
	res, err := d.graph.Merge(unit, snap)
	if err != nil {
		span.RecordError(err)
		d.log.Error(err)
		return depgraph.LoadResultHadError
	}
	d.debugCheckpoint(task)

	span.SetAttribute("ripple.result", res.Result.String())
	span.SetAttribute("ripple.changed_keys", len(res.Changed))
	return res.Result
}

// IntegrateFile reads a snapshot file from disk and integrates it. An
// unreadable file is a load failure: the graph stays untouched.
func (d *Driver) IntegrateFile(ctx context.Context, task domain.TaskID, unit domain.InternedString, path string) depgraph.LoadResult {
	source, err := os.ReadFile(path) //nolint:gosec // path names a snapshot the caller owns
	if err != nil {
		d.log.Error(zerr.With(zerr.Wrap(err, domain.ErrSnapshotLoadFailed.Error()),
			"path", path))
		return depgraph.LoadResultHadError
	}
	return d.Integrate(ctx, task, unit, source)
}

// Item names one snapshot file to integrate for a task/unit pair.
type Item struct {
	Task domain.TaskID
	Unit domain.InternedString
	Path string
}

// IntegrateAll loads the snapshots for a batch of completed tasks
// concurrently, then merges them serially in batch order. Loading is pure
// and safe to parallelize; merging stays single-writer. The returned map
// holds one result per item.
func (d *Driver) IntegrateAll(ctx context.Context, items []Item) (map[domain.TaskID]depgraph.LoadResult, error) {
	type loaded struct {
		snap *domain.UnitSnapshot
		err  error
	}
	sources := make([]loaded, len(items))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.NumCPU())
	for i, item := range items {
		eg.Go(func() error {
			data, err := os.ReadFile(item.Path) //nolint:gosec // path names a snapshot the caller owns
			if err != nil {
				sources[i] = loaded{err: zerr.With(zerr.Wrap(err, domain.ErrSnapshotLoadFailed.Error()), "path", item.Path)}
				return nil
			}
			snap, err := d.loader.Load(data)
			if err != nil {
				sources[i] = loaded{err: err}
				return nil
			}
			sources[i] = loaded{snap: snap}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make(map[domain.TaskID]depgraph.LoadResult, len(items))
	for i, item := range items {
		if sources[i].err != nil {
			d.log.Error(sources[i].err)
			results[item.Task] = depgraph.LoadResultHadError
			continue
		}
		if err := d.graph.RegisterTask(item.Task, item.Unit); err != nil {
			d.log.Error(err)
			results[item.Task] = depgraph.LoadResultHadError
			continue
		}
		res, err := d.graph.Merge(item.Unit, sources[i].snap)
		if err != nil {
			d.log.Error(err)
			results[item.Task] = depgraph.LoadResultHadError
			continue
		}
		results[item.Task] = res.Result
	}
	return results, nil
}

// AffectedTasks maps the transitive closure of units invalidated by a
// changed unit to their scheduler tasks, for handoff to the scheduler.
func (d *Driver) AffectedTasks(ctx context.Context, unit domain.InternedString) []domain.TaskID {
	units := d.graph.TransitivelyAffectedUnits(unit)
	tasks := make([]domain.TaskID, 0, len(units))
	for _, u := range units {
		// TransitivelyAffectedUnits guarantees the correspondence exists.
		task, _ := d.graph.TaskForUnit(u)
		tasks = append(tasks, task)
	}
	d.tracer.EmitAffected(ctx, tasks)
	return tasks
}

// debugCheckpoint verifies invariants and optionally renders the graph.
// Only active in debug mode.
func (d *Driver) debugCheckpoint(task domain.TaskID) {
	if !d.debug {
		return
	}
	if err := d.graph.Verify(); err != nil {
		d.log.Error(err)
	}
	if d.renderer == nil {
		return
	}
	seq := d.dotSequence[task]
	d.dotSequence[task] = seq + 1
	path := fmt.Sprintf("%s.%d.dot", string(task), seq)
	f, err := os.Create(path) //nolint:gosec // debug artifact named after the task
	if err != nil {
		d.log.Warn("skipping graph rendering: " + err.Error())
		return
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer
	if err := d.renderer.Render(f, d.graph); err != nil {
		d.log.Error(zerr.Wrap(err, domain.ErrRenderFailed.Error()))
	}
}
