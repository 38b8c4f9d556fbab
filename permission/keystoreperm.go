package permission

// KeystorePerm is a permission of the keystore2 security class. These
// guard service-level operations and are never part of a [KeyPermSet].
type KeystorePerm int32

const (
	// KeystorePermNone is the fail-closed decode sentinel. It is never
	// granted and has no policy name.
	KeystorePermNone KeystorePerm = 0
	// KeystorePermAddAuth is checked when a new auth token is installed.
	KeystorePermAddAuth KeystorePerm = 1
	// KeystorePermClearNs is checked when an app is uninstalled or wiped.
	KeystorePermClearNs KeystorePerm = 2
	// KeystorePermGetState is checked when the locked state is queried.
	KeystorePermGetState KeystorePerm = 4
	// KeystorePermLock is checked when the keystore gets locked.
	KeystorePermLock KeystorePerm = 8
	// KeystorePermReset is checked when the keystore shall be reset.
	KeystorePermReset KeystorePerm = 0x10
	// KeystorePermUnlock is checked when the keystore shall be unlocked.
	KeystorePermUnlock KeystorePerm = 0x20
)

// KeystorePermFromCode decodes a wire code into a [KeystorePerm]. Unknown
// codes yield [KeystorePermNone], never an error.
func KeystorePermFromCode(code int32) KeystorePerm {
	switch KeystorePerm(code) {
	case KeystorePermAddAuth,
		KeystorePermClearNs,
		KeystorePermGetState,
		KeystorePermLock,
		KeystorePermReset,
		KeystorePermUnlock:
		return KeystorePerm(code)
	default:
		return KeystorePermNone
	}
}

// Name returns the fixed protocol string for the permission as required by
// the backend access check. [KeystorePermNone] and undefined values report
// "none".
func (p KeystorePerm) Name() string {
	switch p {
	case KeystorePermAddAuth:
		return "add_auth"
	case KeystorePermClearNs:
		return "clear_ns"
	case KeystorePermGetState:
		return "get_state"
	case KeystorePermLock:
		return "lock"
	case KeystorePermReset:
		return "reset"
	case KeystorePermUnlock:
		return "unlock"
	default:
		return "none"
	}
}

// Code returns the wire code of the permission.
func (p KeystorePerm) Code() int32 {
	return int32(p)
}

// AllKeystorePerms returns every grantable service permission in ascending
// code order. The None sentinel is excluded.
func AllKeystorePerms() []KeystorePerm {
	return []KeystorePerm{
		KeystorePermAddAuth,
		KeystorePermClearNs,
		KeystorePermGetState,
		KeystorePermLock,
		KeystorePermReset,
		KeystorePermUnlock,
	}
}
