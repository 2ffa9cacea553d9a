// Package build holds build-time information.
package build

// Version is the application version.
// It defaults to "dev" and can be overwritten by linker flags.
var Version = "dev"

// Commit is the git revision the binary was built from.
var Commit = "unknown"

// Date is the build timestamp.
var Date = "unknown"
