package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered  uint64
	LoginsSucceeded  uint64
	LoginsFailed     uint64
	RecipesCreated   uint64
	RecipesDeleted   uint64
	AuthMissingToken uint64
	AuthInvalidToken uint64
	AuthConfigErrors uint64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	usersRegistered  uint64
	loginsSucceeded  uint64
	loginsFailed     uint64
	recipesCreated   uint64
	recipesDeleted   uint64
	authMissingToken uint64
	authInvalidToken uint64
	authConfigErrors uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersRegistered:  atomic.LoadUint64(&m.usersRegistered),
		LoginsSucceeded:  atomic.LoadUint64(&m.loginsSucceeded),
		LoginsFailed:     atomic.LoadUint64(&m.loginsFailed),
		RecipesCreated:   atomic.LoadUint64(&m.recipesCreated),
		RecipesDeleted:   atomic.LoadUint64(&m.recipesDeleted),
		AuthMissingToken: atomic.LoadUint64(&m.authMissingToken),
		AuthInvalidToken: atomic.LoadUint64(&m.authInvalidToken),
		AuthConfigErrors: atomic.LoadUint64(&m.authConfigErrors),
	}
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}

// IncLoginSucceeded increments the successful login counter.
func (m *InMemoryRecorder) IncLoginSucceeded() {
	atomic.AddUint64(&m.loginsSucceeded, 1)
}

// IncLoginFailed increments the failed login counter.
func (m *InMemoryRecorder) IncLoginFailed() {
	atomic.AddUint64(&m.loginsFailed, 1)
}

// IncRecipeCreated increments recipe created counter.
func (m *InMemoryRecorder) IncRecipeCreated() {
	atomic.AddUint64(&m.recipesCreated, 1)
}

// IncRecipeDeleted increments recipe deleted counter.
func (m *InMemoryRecorder) IncRecipeDeleted() {
	atomic.AddUint64(&m.recipesDeleted, 1)
}

// IncAuthRejected increments the counter for the given rejection reason.
// Unknown reasons are counted as invalid tokens.
func (m *InMemoryRecorder) IncAuthRejected(reason string) {
	switch reason {
	case ReasonMissingToken:
		atomic.AddUint64(&m.authMissingToken, 1)
	case ReasonConfig:
		atomic.AddUint64(&m.authConfigErrors, 1)
	default:
		atomic.AddUint64(&m.authInvalidToken, 1)
	}
}
