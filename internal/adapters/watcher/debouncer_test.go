package watcher_test

import (
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ripple/internal/adapters/watcher"
)

func TestDebouncer_CoalescesBurst(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		// A burst of writes within the window fires the callback once.
		d.Add("/snapshots/main.yaml")
		d.Add("/snapshots/util.yaml")
		d.Add("/snapshots/main.yaml")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 1, callCount)
		require.Len(t, receivedPaths, 2)
		assert.Contains(t, receivedPaths, "/snapshots/main.yaml")
		assert.Contains(t, receivedPaths, "/snapshots/util.yaml")
	})
}

func TestDebouncer_TimerReset(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int

		d := watcher.NewDebouncer(100*time.Millisecond, func([]string) {
			callCount++
		})

		d.Add("/snapshots/main.yaml")
		time.Sleep(50 * time.Millisecond)

		// A second add within the window restarts it.
		d.Add("/snapshots/util.yaml")
		time.Sleep(50 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, 0, callCount)

		time.Sleep(60 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 1, callCount)
	})
}

func TestDebouncer_FlushImmediate(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		d.Add("/snapshots/main.yaml")
		d.Flush()

		require.Equal(t, 1, callCount)
		require.Len(t, receivedPaths, 1)
		assert.Equal(t, "/snapshots/main.yaml", receivedPaths[0])
	})
}

func TestDebouncer_FlushEmpty(t *testing.T) {
	var callCount int

	d := watcher.NewDebouncer(100*time.Millisecond, func([]string) {
		callCount++
	})

	d.Flush()

	assert.Equal(t, 0, callCount)
}

func TestDebouncer_FlushClearsPending(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int

		d := watcher.NewDebouncer(100*time.Millisecond, func([]string) {
			callCount++
		})

		d.Add("/snapshots/main.yaml")
		d.Flush()

		require.Equal(t, 1, callCount)

		// The original timer must not fire a second time.
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, 1, callCount)
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(_ *testing.T) {
		d := watcher.NewDebouncer(50*time.Millisecond, nil)

		d.Add("/snapshots/main.yaml")

		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		d.Flush()
	})
}
