// Package keystoreauth implements the authorization decision layer of the
// keystore service: given a caller's security context, a requested
// permission, and a key's ownership domain, it renders an allow/deny
// verdict by consulting a mandatory-access-control [Backend] and, for
// grant-domain keys, a locally held capability bitset.
//
// The package is designed for concurrent server workloads: Engine methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build]. The engine holds no mutable decision state; every check
// is a pure function of its inputs and the backend's answers at call time.
//
// # Architecture boundaries
//
// keystoreauth is the public surface. It exposes [Engine], [Builder],
// [Config], [Backend], and value types (AuditEvent, MetricsSnapshot). The
// permission catalogs and bitset live in the permission subpackage; signed
// grant capability tokens live in the grant subpackage.
//
// # What this package must NOT do
//
//   - Implement the MAC policy itself; policy lives behind [Backend].
//   - Resolve opaque key ids into domains; the database layer upstream
//     must have rewritten DomainKeyID descriptors before calling in.
//   - Cache access-check verdicts. Only namespace resolution is cached,
//     and only when explicitly enabled.
//
// # Performance contract
//
// CheckKeyPermission is the hot path. For DomainGrant it must complete
// without any backend round-trip; for the other domains it performs at
// most one context resolution (cacheable) plus the access checks the
// domain requires.
package keystoreauth
