// Package version holds build metadata injected via ldflags.
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// UserAgent is the User-Agent sent to upstream backends when none is configured.
func UserAgent() string {
	return "triage/" + Version
}
