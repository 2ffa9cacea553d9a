package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/ripple/internal/adapters/dot"
	"go.trai.ch/ripple/internal/adapters/snapshot"
	"go.trai.ch/ripple/internal/adapters/telemetry"
	"go.trai.ch/ripple/internal/app"
	"go.trai.ch/ripple/internal/core/ports/mocks"
	"go.trai.ch/ripple/internal/engine/depgraph"
	"go.trai.ch/ripple/internal/engine/driver"
	"go.uber.org/mock/gomock"
)

func testComponents(t *testing.T) *app.Components {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Error(gomock.Any()).AnyTimes()

	d := driver.New(depgraph.New(), snapshot.NewLoader(), mockLogger, telemetry.NewNoOpTracer())
	return &app.Components{
		App:    app.New(d, mockLogger, dot.NewRenderer(), nil),
		Logger: mockLogger,
	}
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	components := testComponents(t)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)
	assert.Equal(t, 0, exitCode)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run returns 1 when the command execution fails.
func TestRun_ExecutionError(t *testing.T) {
	components := testComponents(t)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	stderr := new(bytes.Buffer)
	// An empty snapshot directory makes the affected query fail.
	exitCode := run(context.Background(), []string{"affected", "a.yaml", "--snapshots", t.TempDir()}, stderr, provider)

	assert.Equal(t, 1, exitCode)
}
