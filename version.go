package qsim

// Version information for the qsim SDK
const (
	// Version is the current SDK version.
	// TODO: stamp this from the release pipeline instead of hardcoding it.
	Version = "1.9.0"

	// APIVersion is the current API version
	APIVersion = "v1alpha1"

	// BuildDate is set during build time
	BuildDate = "development"

	// GitCommit is set during build time
	GitCommit = "unknown"
)
