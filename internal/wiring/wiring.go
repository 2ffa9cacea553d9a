// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/ripple/internal/adapters/dot"
	_ "go.trai.ch/ripple/internal/adapters/logger"
	_ "go.trai.ch/ripple/internal/adapters/snapshot"
	_ "go.trai.ch/ripple/internal/adapters/telemetry"
	_ "go.trai.ch/ripple/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/ripple/internal/app"
	_ "go.trai.ch/ripple/internal/engine/depgraph"
	_ "go.trai.ch/ripple/internal/engine/driver"
)
