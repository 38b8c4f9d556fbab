package permission

// KeyPerm is a permission of the keystore2_key security class. The numeric
// values are the wire bit-field codes of the Grant interface and double as
// bit positions inside a [KeyPermSet].
type KeyPerm int32

const (
	// KeyPermNone is the fail-closed decode sentinel. It is never granted
	// and has no policy name.
	KeyPermNone KeyPerm = 0
	// KeyPermDelete allows deleting a key.
	KeyPermDelete KeyPerm = 1
	// KeyPermGenUniqueID allows generating a unique device id with the key.
	KeyPermGenUniqueID KeyPerm = 2
	// KeyPermGetInfo allows reading key metadata.
	KeyPermGetInfo KeyPerm = 4
	// KeyPermGrant allows granting the key to another principal.
	KeyPermGrant KeyPerm = 8
	// KeyPermList allows enumerating the key in listings.
	KeyPermList KeyPerm = 0x10
	// KeyPermManageBlob allows managing blob-domain key material.
	KeyPermManageBlob KeyPerm = 0x20
	// KeyPermRebind allows rebinding an alias to a new key.
	KeyPermRebind KeyPerm = 0x40
	// KeyPermReqForcedOp allows requesting a forced (queue-jumping) operation.
	KeyPermReqForcedOp KeyPerm = 0x80
	// KeyPermUpdate allows updating key material.
	KeyPermUpdate KeyPerm = 0x100
	// KeyPermUse allows cryptographic use of the key.
	KeyPermUse KeyPerm = 0x200
	// KeyPermUseDevID allows use of device-identifier attestation.
	KeyPermUseDevID KeyPerm = 0x400
)

// KeyPermFromCode decodes a wire code into a [KeyPerm]. The decode is total
// and fail-closed: any code that is not a defined catalog entry yields
// [KeyPermNone], never an error.
func KeyPermFromCode(code int32) KeyPerm {
	switch KeyPerm(code) {
	case KeyPermDelete,
		KeyPermGenUniqueID,
		KeyPermGetInfo,
		KeyPermGrant,
		KeyPermList,
		KeyPermManageBlob,
		KeyPermRebind,
		KeyPermReqForcedOp,
		KeyPermUpdate,
		KeyPermUse,
		KeyPermUseDevID:
		return KeyPerm(code)
	default:
		return KeyPermNone
	}
}

// Name returns the fixed protocol string for the permission as required by
// the backend access check, e.g. "use" for [KeyPermUse]. [KeyPermNone] and
// undefined values report "none".
func (p KeyPerm) Name() string {
	switch p {
	case KeyPermDelete:
		return "delete"
	case KeyPermGenUniqueID:
		return "gen_unique_id"
	case KeyPermGetInfo:
		return "get_info"
	case KeyPermGrant:
		return "grant"
	case KeyPermList:
		return "list"
	case KeyPermManageBlob:
		return "manage_blob"
	case KeyPermRebind:
		return "rebind"
	case KeyPermReqForcedOp:
		return "req_forced_op"
	case KeyPermUpdate:
		return "update"
	case KeyPermUse:
		return "use"
	case KeyPermUseDevID:
		return "use_dev_id"
	default:
		return "none"
	}
}

// Code returns the wire bit-field code of the permission.
func (p KeyPerm) Code() int32 {
	return int32(p)
}

// AllKeyPerms returns every grantable key permission in ascending code
// order. The None sentinel is excluded.
func AllKeyPerms() []KeyPerm {
	return []KeyPerm{
		KeyPermDelete,
		KeyPermGenUniqueID,
		KeyPermGetInfo,
		KeyPermGrant,
		KeyPermList,
		KeyPermManageBlob,
		KeyPermRebind,
		KeyPermReqForcedOp,
		KeyPermUpdate,
		KeyPermUse,
		KeyPermUseDevID,
	}
}
