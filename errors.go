package keystoreauth

import "errors"

var (
	// ErrPermissionDenied is the definite deny verdict. Callers branch on
	// this error to produce access-denied responses; it is never returned
	// for infrastructure faults.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrSystem marks a caller-side contract violation: a missing access
	// vector for DomainGrant, a DomainKeyID descriptor reaching the
	// engine, or a grant attempt for an unsupported domain. It is fatal to
	// the request but is not a deny verdict.
	ErrSystem = errors.New("system error")
	// ErrBackend marks a failure of the MAC oracle or the context
	// resolver, including namespace lookups that find nothing. It is
	// fatal to the request but is not a deny verdict.
	ErrBackend = errors.New("mac backend failure")
	// ErrEngineNotReady is returned when an Engine method is invoked on a
	// nil or incompletely constructed engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
