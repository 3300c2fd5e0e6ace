// Package version holds the application version string.
package version

// Version is the application version, overridable at build time:
//
//	go build -ldflags "-X .../internal/version.Version=1.2.3"
var Version = "1.0.0"
