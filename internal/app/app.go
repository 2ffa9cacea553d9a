// Package app implements the application layer for ripple.
package app

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"go.trai.ch/ripple/internal/core/domain"
	"go.trai.ch/ripple/internal/core/ports"
	"go.trai.ch/ripple/internal/engine/depgraph"
	"go.trai.ch/ripple/internal/engine/driver"
	"go.trai.ch/zerr"
)

// App represents the main application logic. It builds a session graph from
// a directory of unit snapshots and answers invalidation queries over it.
type App struct {
	driver   *driver.Driver
	logger   ports.Logger
	renderer ports.GraphRenderer
	watcher  ports.Watcher
}

// New creates a new App instance.
func New(d *driver.Driver, log ports.Logger, renderer ports.GraphRenderer, watcher ports.Watcher) *App {
	return &App{
		driver:   d,
		logger:   log,
		renderer: renderer,
		watcher:  watcher,
	}
}

// Driver exposes the underlying driver, primarily for tests.
func (a *App) Driver() *driver.Driver {
	return a.driver
}

// unitForPath derives the unit name for a snapshot file: its path relative
// to the snapshot root, or the raw path when it is not under the root.
func unitForPath(root, path string) domain.InternedString {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return domain.NewInternedString(path)
	}
	return domain.NewInternedString(rel)
}

// taskForUnit derives the task identifier the scheduler would use for a
// unit. Snapshot directories carry no scheduler manifest, so the unit path
// itself serves as the task name.
func taskForUnit(unit domain.InternedString) domain.TaskID {
	return domain.TaskID(unit.String())
}

// collectSnapshots walks root and returns one integration item per
// snapshot file, ordered by path.
func collectSnapshots(root string) ([]driver.Item, error) {
	var items []driver.Item
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".yaml", ".yml":
			unit := unitForPath(root, path)
			items = append(items, driver.Item{
				Task: taskForUnit(unit),
				Unit: unit,
				Path: path,
			})
		}
		return nil
	})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrSnapshotLoadFailed.Error()), "root", root)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Path < items[j].Path })
	return items, nil
}

// Load integrates every snapshot under root into the session graph. Units
// whose snapshots fail to load are reported through the logger; the rest of
// the batch still integrates.
func (a *App) Load(ctx context.Context, root string) error {
	items, err := collectSnapshots(root)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return zerr.With(zerr.With(domain.ErrSnapshotLoadFailed, "root", root), "reason", "no snapshot files found")
	}

	results, err := a.driver.IntegrateAll(ctx, items)
	if err != nil {
		return err
	}

	var failed int
	for task, res := range results {
		if res == depgraph.LoadResultHadError {
			failed++
			a.logger.Warn(fmt.Sprintf("snapshot for %s did not integrate", task))
		}
	}
	if failed > 0 {
		return zerr.With(zerr.With(domain.ErrSnapshotLoadFailed, "failed", failed), "total", len(items))
	}
	return nil
}

// Affected loads the snapshots under root and returns the units that must
// rebuild when the given unit's interface changed, in sorted order.
func (a *App) Affected(ctx context.Context, root, changedUnit string) ([]string, error) {
	if err := a.Load(ctx, root); err != nil {
		return nil, err
	}

	unit := domain.NewInternedString(changedUnit)
	if _, ok := a.driver.Graph().TaskForUnit(unit); !ok {
		return nil, zerr.With(domain.ErrUnknownUnit, "unit", changedUnit)
	}

	tasks := a.driver.AffectedTasks(ctx, unit)
	return taskNames(tasks), nil
}

// Externals loads the snapshots under root and returns every external
// dependency name the graph tracks, in sorted order.
func (a *App) Externals(ctx context.Context, root string) ([]string, error) {
	if err := a.Load(ctx, root); err != nil {
		return nil, err
	}

	keys := a.driver.Graph().AllExternalDependencies()
	names := make([]string, 0, len(keys))
	for _, key := range keys {
		names = append(names, key.Name)
	}
	return names, nil
}

// AffectedByExternal loads the snapshots under root and returns the units
// invalidated by a change to the named external dependency.
func (a *App) AffectedByExternal(ctx context.Context, root, name string) ([]string, error) {
	if err := a.Load(ctx, root); err != nil {
		return nil, err
	}

	units := a.driver.Graph().AffectedByExternalDependency(name)
	names := make([]string, 0, len(units))
	for _, u := range units {
		names = append(names, u.String())
	}
	return names, nil
}

// RenderGraph loads the snapshots under root and writes the session graph
// to w in the renderer's format.
func (a *App) RenderGraph(ctx context.Context, root string, w io.Writer) error {
	if err := a.Load(ctx, root); err != nil {
		return err
	}
	return a.renderer.Render(w, a.driver.Graph())
}

// Watch loads the snapshots under root, then re-integrates every snapshot
// the watcher reports and prints the tasks each change invalidates. It
// blocks until ctx is cancelled.
func (a *App) Watch(ctx context.Context, root string, out io.Writer) error {
	if err := a.Load(ctx, root); err != nil {
		return err
	}

	if err := a.watcher.Start(ctx, root); err != nil {
		return zerr.Wrap(err, domain.ErrWatchFailed.Error())
	}
	defer func() {
		_ = a.watcher.Stop()
	}()

	a.logger.Info(fmt.Sprintf("watching %s for snapshot changes", root))

	for event := range a.watcher.Events() {
		unit := unitForPath(root, event.Path)
		res := a.driver.IntegrateFile(ctx, taskForUnit(unit), unit, event.Path)
		switch res {
		case depgraph.LoadResultUpToDate:
			fmt.Fprintf(out, "%s: up to date\n", unit)
		case depgraph.LoadResultAffectsDownstream:
			tasks := a.driver.AffectedTasks(ctx, unit)
			fmt.Fprintf(out, "%s: %d downstream task(s) invalidated\n", unit, len(tasks))
			for _, task := range tasks {
				fmt.Fprintf(out, "  %s\n", task)
			}
		case depgraph.LoadResultHadError:
			a.logger.Warn(fmt.Sprintf("snapshot for %s did not integrate", unit))
		}
	}

	return ctx.Err()
}

func taskNames(tasks []domain.TaskID) []string {
	names := make([]string, 0, len(tasks))
	for _, task := range tasks {
		names = append(names, string(task))
	}
	return names
}
