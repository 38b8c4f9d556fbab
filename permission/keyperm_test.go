package permission

import "testing"

func TestKeyPermFromCodeRoundTrip(t *testing.T) {
	for _, p := range AllKeyPerms() {
		if got := KeyPermFromCode(p.Code()); got != p {
			t.Fatalf("KeyPermFromCode(%#x) = %v, want %v", p.Code(), got, p)
		}
	}
}

func TestKeyPermFromCodeFailClosed(t *testing.T) {
	for _, code := range []int32{-1, 3, 5, 0x800, 0x1000, 1 << 30, 0x7fffffff} {
		if got := KeyPermFromCode(code); got != KeyPermNone {
			t.Fatalf("KeyPermFromCode(%#x) = %v, want KeyPermNone", code, got)
		}
	}
	if got := KeyPermFromCode(0); got != KeyPermNone {
		t.Fatalf("KeyPermFromCode(0) = %v, want KeyPermNone", got)
	}
}

func TestKeyPermNames(t *testing.T) {
	want := map[KeyPerm]string{
		KeyPermNone:        "none",
		KeyPermDelete:      "delete",
		KeyPermGenUniqueID: "gen_unique_id",
		KeyPermGetInfo:     "get_info",
		KeyPermGrant:       "grant",
		KeyPermList:        "list",
		KeyPermManageBlob:  "manage_blob",
		KeyPermRebind:      "rebind",
		KeyPermReqForcedOp: "req_forced_op",
		KeyPermUpdate:      "update",
		KeyPermUse:         "use",
		KeyPermUseDevID:    "use_dev_id",
	}
	for p, name := range want {
		if got := p.Name(); got != name {
			t.Fatalf("(%#x).Name() = %q, want %q", p.Code(), got, name)
		}
	}
}

func TestKeyPermWireCodes(t *testing.T) {
	// The codes are a wire contract shared with the backend policy; they
	// must bit-match the Grant interface exactly.
	want := []int32{1, 2, 4, 8, 0x10, 0x20, 0x40, 0x80, 0x100, 0x200, 0x400}
	got := AllKeyPerms()
	if len(got) != len(want) {
		t.Fatalf("catalog size = %d, want %d", len(got), len(want))
	}
	for i, p := range got {
		if p.Code() != want[i] {
			t.Fatalf("AllKeyPerms()[%d].Code() = %#x, want %#x", i, p.Code(), want[i])
		}
	}
}

func TestKeystorePermFromCodeFailClosed(t *testing.T) {
	for _, code := range []int32{-1, 3, 5, 0x40, 0x100, 0x7fffffff} {
		if got := KeystorePermFromCode(code); got != KeystorePermNone {
			t.Fatalf("KeystorePermFromCode(%#x) = %v, want KeystorePermNone", code, got)
		}
	}
}

func TestKeystorePermNames(t *testing.T) {
	want := map[KeystorePerm]string{
		KeystorePermNone:     "none",
		KeystorePermAddAuth:  "add_auth",
		KeystorePermClearNs:  "clear_ns",
		KeystorePermGetState: "get_state",
		KeystorePermLock:     "lock",
		KeystorePermReset:    "reset",
		KeystorePermUnlock:   "unlock",
	}
	for p, name := range want {
		if got := p.Name(); got != name {
			t.Fatalf("(%#x).Name() = %q, want %q", p.Code(), got, name)
		}
	}
}

func TestKeystorePermWireCodes(t *testing.T) {
	want := []int32{1, 2, 4, 8, 0x10, 0x20}
	got := AllKeystorePerms()
	if len(got) != len(want) {
		t.Fatalf("catalog size = %d, want %d", len(got), len(want))
	}
	for i, p := range got {
		if p.Code() != want[i] {
			t.Fatalf("AllKeystorePerms()[%d].Code() = %#x, want %#x", i, p.Code(), want[i])
		}
	}
}
