package version

var (
	// Version is the semantic version, set at build time via ldflags.
	Version = "dev"
	// GitCommit is the git sha1, set at build time via ldflags.
	GitCommit = "none"
	// FullVersion combines version and commit.
	FullVersion = Version + " (" + GitCommit + ")"
)
