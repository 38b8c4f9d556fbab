package permission

import (
	"bytes"
	"testing"
)

// FuzzSetCodecRoundTrip exercises the set decode path with arbitrary bytes.
// Goal: no panics; valid-length inputs must re-encode to a stable form.
func FuzzSetCodecRoundTrip(f *testing.F) {
	f.Add(make([]byte, 4))
	f.Add([]byte{0, 0, 0x06, 0x28})
	f.Add([]byte{0xff, 0xff, 0xff, 0xff})

	// Invalid sizes.
	f.Add([]byte{})
	f.Add([]byte{1, 2, 3})
	f.Add(make([]byte, 5))

	f.Fuzz(func(t *testing.T, data []byte) {
		s, err := DecodeSet(data)
		if err != nil {
			return
		}

		// Decoding is fail-closed: re-decoding the encoding must be a
		// fixed point once undefined bits have been dropped.
		encoded := s.Encode()
		again, err := DecodeSet(encoded)
		if err != nil {
			t.Fatalf("DecodeSet failed after successful DecodeSet: %v", err)
		}
		if again != s {
			t.Fatalf("roundtrip changed set: %#x != %#x", uint32(again), uint32(s))
		}
		if !bytes.Equal(again.Encode(), encoded) {
			t.Fatal("re-encoding is not stable")
		}
	})
}

// FuzzKeyPermFromCode asserts the decode never panics and never yields a
// value outside the catalog.
func FuzzKeyPermFromCode(f *testing.F) {
	f.Add(int32(0))
	f.Add(int32(1))
	f.Add(int32(0x400))
	f.Add(int32(-1))
	f.Add(int32(0x7fffffff))

	f.Fuzz(func(t *testing.T, code int32) {
		p := KeyPermFromCode(code)
		if p == KeyPermNone {
			return
		}
		found := false
		for _, known := range AllKeyPerms() {
			if p == known {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("KeyPermFromCode(%#x) = %v, outside catalog", code, p)
		}
	})
}
