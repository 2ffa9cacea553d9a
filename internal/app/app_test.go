package app_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ripple/internal/adapters/dot"
	"go.trai.ch/ripple/internal/adapters/snapshot"
	"go.trai.ch/ripple/internal/adapters/telemetry"
	"go.trai.ch/ripple/internal/app"
	"go.trai.ch/ripple/internal/core/domain"
	"go.trai.ch/ripple/internal/core/ports/mocks"
	"go.trai.ch/ripple/internal/engine/depgraph"
	"go.trai.ch/ripple/internal/engine/driver"
	"go.uber.org/mock/gomock"
)

const snapshotA = `unit: a.yaml
nodes:
  - kind: nominal
    aspect: interface
    name: A
    fingerprint: aaa1
    dependsOn:
      - kind: external
        name: libc
`

const snapshotB = `unit: b.yaml
nodes:
  - kind: nominal
    aspect: interface
    name: B
    fingerprint: bbb1
    dependsOn:
      - kind: nominal
        aspect: interface
        name: A
`

func writeSnapshot(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	d := driver.New(depgraph.New(), snapshot.NewLoader(), log, telemetry.NewNoOpTracer())
	return app.New(d, log, dot.NewRenderer(), nil)
}

func TestApp_Affected(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "a.yaml", snapshotA)
	writeSnapshot(t, dir, "b.yaml", snapshotB)

	a := newTestApp(t)
	affected, err := a.Affected(context.Background(), dir, "a.yaml")
	require.NoError(t, err)

	assert.Equal(t, []string{"b.yaml"}, affected)
}

func TestApp_Affected_UnknownUnit(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "a.yaml", snapshotA)

	a := newTestApp(t)
	_, err := a.Affected(context.Background(), dir, "missing.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownUnit)
}

func TestApp_Load_NoSnapshots(t *testing.T) {
	a := newTestApp(t)
	err := a.Load(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSnapshotLoadFailed)
}

func TestApp_Externals(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "a.yaml", snapshotA)
	writeSnapshot(t, dir, "b.yaml", snapshotB)

	a := newTestApp(t)
	names, err := a.Externals(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"libc"}, names)
}

func TestApp_AffectedByExternal(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "a.yaml", snapshotA)
	writeSnapshot(t, dir, "b.yaml", snapshotB)

	a := newTestApp(t)
	affected, err := a.AffectedByExternal(context.Background(), dir, "libc")
	require.NoError(t, err)

	// The direct user rebuilds, and its interface change ripples onward.
	assert.Equal(t, []string{"a.yaml", "b.yaml"}, affected)
}

func TestApp_RenderGraph(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "a.yaml", snapshotA)
	writeSnapshot(t, dir, "b.yaml", snapshotB)

	a := newTestApp(t)
	var buf bytes.Buffer
	require.NoError(t, a.RenderGraph(context.Background(), dir, &buf))

	out := buf.String()
	assert.Contains(t, out, "digraph ripple {")
	assert.Contains(t, out, "nominal(interface) A")
	assert.Contains(t, out, "->")
}
