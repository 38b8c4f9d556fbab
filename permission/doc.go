// Package permission provides the two closed permission catalogs of the
// keystore security classes and a bitset container for key-level permissions.
//
// # Catalogs
//
// [KeyPerm] covers the keystore2_key security class (per-key operations such
// as use, delete, grant). [KeystorePerm] covers the keystore2 security class
// (service-level operations such as lock, reset). Each catalog entry carries
// a fixed power-of-two wire code and a fixed protocol string name; both are
// part of the access-check vocabulary spoken to the MAC backend and must
// never be renamed without backend-side coordination.
//
// Decoding is total and fail-closed: any integer that is not a defined wire
// code maps to the catalog's None sentinel. None is not a grantable
// permission and is unknown to the policy.
//
// # Architecture boundaries
//
// This package is a pure in-memory data structure with no I/O. It provides
// the codec (Encode/DecodeSet) used when a [KeyPermSet] is embedded in a
// grant token.
//
// # What this package must NOT do
//
//   - Access Redis, databases, or the network.
//   - Import keystoreauth or grant (no upward imports).
//   - Assign new wire codes at runtime; both catalogs are closed.
package permission
