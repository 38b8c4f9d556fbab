package keystoreauth

import "strconv"

// SecurityContext is an opaque principal label produced by the [Backend]
// (for example an SELinux context string). The engine never constructs or
// interprets one; it only passes them back into backend access checks.
type SecurityContext string

// Domain tags a key descriptor with how its owning namespace resolves to a
// target [SecurityContext]. The numeric values are a wire contract shared
// with the key database and must not be reordered.
type Domain int32

const (
	// DomainApp keys belong to the calling app; the service's own context
	// is the check target.
	DomainApp Domain = 0
	// DomainGrant keys are accessed through a granted capability bitset;
	// no backend mediation takes place.
	DomainGrant Domain = 1
	// DomainSELinux keys belong to a policy-defined namespace resolved by
	// the backend.
	DomainSELinux Domain = 2
	// DomainKeyID descriptors are opaque database ids. The upstream lookup
	// must rewrite them into DomainApp or DomainSELinux; one reaching the
	// engine is a caller bug.
	DomainKeyID Domain = 3
	// DomainBlob keys bypass namespace isolation and additionally require
	// the manage_blob permission on every access.
	DomainBlob Domain = 4
)

// String returns a stable lower-case tag for logs and audit records.
func (d Domain) String() string {
	switch d {
	case DomainApp:
		return "app"
	case DomainGrant:
		return "grant"
	case DomainSELinux:
		return "selinux"
	case DomainKeyID:
		return "key_id"
	case DomainBlob:
		return "blob"
	default:
		return "domain(" + strconv.FormatInt(int64(d), 10) + ")"
	}
}

// KeyDescriptor identifies a key as the request handler resolved it. The
// engine reads Domain and Namespace; Alias and Blob ride along untouched
// for audit context.
type KeyDescriptor struct {
	Domain    Domain
	Namespace int64
	Alias     string
	Blob      []byte
}
