package internaldefs

import (
	keystoreauth "github.com/hentaiOS/platform-system-security"
)

// CounterDef defines a public type used by keystoreauth APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   keystoreauth.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by keystoreauth APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   keystoreauth.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the authorization engine.
var CounterDefs = []CounterDef{
	{ID: keystoreauth.MetricKeystoreCheckAllowed, Name: "keystoreauth_keystore_check_allowed_total", Help: "Allowed service-level permission checks."},
	{ID: keystoreauth.MetricKeystoreCheckDenied, Name: "keystoreauth_keystore_check_denied_total", Help: "Denied service-level permission checks."},
	{ID: keystoreauth.MetricKeyCheckAllowed, Name: "keystoreauth_key_check_allowed_total", Help: "Allowed key-level permission checks."},
	{ID: keystoreauth.MetricKeyCheckDenied, Name: "keystoreauth_key_check_denied_total", Help: "Denied key-level permission checks."},
	{ID: keystoreauth.MetricGrantCheckAllowed, Name: "keystoreauth_grant_check_allowed_total", Help: "Allowed grant permission checks."},
	{ID: keystoreauth.MetricGrantCheckDenied, Name: "keystoreauth_grant_check_denied_total", Help: "Denied grant permission checks."},
	{ID: keystoreauth.MetricGrantOfGrantRejected, Name: "keystoreauth_grant_of_grant_rejected_total", Help: "Grant requests rejected for containing the grant permission."},
	{ID: keystoreauth.MetricSystemError, Name: "keystoreauth_system_error_total", Help: "Checks failed by caller contract violations."},
	{ID: keystoreauth.MetricBackendError, Name: "keystoreauth_backend_error_total", Help: "Checks failed by backend oracle faults."},
	{ID: keystoreauth.MetricNamespaceCacheHit, Name: "keystoreauth_namespace_cache_hit_total", Help: "Namespace resolutions served from cache."},
	{ID: keystoreauth.MetricNamespaceCacheMiss, Name: "keystoreauth_namespace_cache_miss_total", Help: "Namespace resolutions that missed the cache."},
}

// HistogramDefs is an exported constant or variable used by the authorization engine.
var HistogramDefs = []HistogramDef{
	{ID: keystoreauth.MetricCheckLatency, Name: "keystoreauth_check_latency_seconds", Help: "Permission check latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the authorization engine.
var HistogramBounds = []string{
	"0.00005",
	"0.0001",
	"0.00025",
	"0.0005",
	"0.001",
	"0.005",
	"0.025",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the authorization engine.
var HistogramBoundSuffix = []string{
	"0_00005",
	"0_0001",
	"0_00025",
	"0_0005",
	"0_001",
	"0_005",
	"0_025",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets may return an error when input validation, dependency calls, or security checks fail.
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets may return an error when input validation, dependency calls, or security checks fail.
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
