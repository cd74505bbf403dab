// Package version holds build-time version metadata for the permcheck CLI.
package version

import "fmt"

var (
	// Version is the semantic version of the CLI, overridable via -ldflags.
	Version = "0.1.0-dev"
	// GitCommit is an optional git commit hash, set at build time.
	GitCommit = ""
	// BuildDate is an optional ISO-8601 build date, set at build time.
	BuildDate = ""
)

// VersionString renders the version plus optional commit/date suffix.
func VersionString() string {
	s := Version
	if GitCommit != "" {
		s += fmt.Sprintf(" (%s)", GitCommit)
	}
	if BuildDate != "" {
		s += fmt.Sprintf(" built %s", BuildDate)
	}
	return s
}
