// Package version exposes the webscout build version.
package version

// Version is the current version of webscout.
// It is overridden at build time via -ldflags.
var Version = "dev"

// GetVersion returns the version string of the running binary.
func GetVersion() string {
	return Version
}
