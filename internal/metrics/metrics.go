// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Account metrics
	IncUserRegistered()
	IncLoginSucceeded()
	IncLoginFailed()

	// Recipe metrics
	IncRecipeCreated()
	IncRecipeDeleted()

	// Access guard metrics
	IncAuthRejected(reason string) // reason: "missing_token", "invalid_token", "config"
}

// Auth rejection reasons.
const (
	ReasonMissingToken = "missing_token"
	ReasonInvalidToken = "invalid_token"
	ReasonConfig       = "config"
)

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
