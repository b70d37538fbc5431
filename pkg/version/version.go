package version

import "runtime"

// Version is the current application version.
// This is a var (not const) so it can be overridden at build time via:
//
//	go build -ldflags "-X github.com/vanderheijden86/h5nav/pkg/version.Version=v1.2.3"
var Version = "v0.1.0"

// Commit is the source revision, set the same way as Version.
var Commit = "unknown"

// String returns the one-line version banner.
func String() string {
	return "h5nav " + Version + " (" + Commit + ", " + runtime.Version() + " " + runtime.GOOS + "/" + runtime.GOARCH + ")"
}
