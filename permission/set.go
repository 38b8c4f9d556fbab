package permission

// KeyPermSet is a bitset over the keystore2_key catalog, backed by a 32-bit
// integer. It represents either the permissions conveyed by a grant or the
// permissions requested for a check. The zero value is the empty set.
//
// Sets are plain values: every operation returns a result instead of
// mutating the receiver, so a set can be shared across goroutines freely.
type KeyPermSet uint32

// NewKeyPermSet builds the union of the given permissions. Calling it with
// no arguments yields the empty set. None sentinels contribute no bits.
func NewKeyPermSet(perms ...KeyPerm) KeyPermSet {
	var s KeyPermSet
	for _, p := range perms {
		s |= KeyPermSet(p)
	}
	return s
}

// Includes reports whether every permission in other is also in s. The
// relation is reflexive and transitive; every set includes the empty set.
func (s KeyPermSet) Includes(other KeyPermSet) bool {
	return s&other == other
}

// IncludesPerm reports whether the single permission p is in s.
func (s KeyPermSet) IncludesPerm(p KeyPerm) bool {
	return s.Includes(KeyPermSet(p))
}

// Union returns the set containing every permission of s and other.
func (s KeyPermSet) Union(other KeyPermSet) KeyPermSet {
	return s | other
}

// IsEmpty reports whether the set contains no permissions.
func (s KeyPermSet) IsEmpty() bool {
	return s == 0
}

// Iterator returns a restartable iterator over the permissions in the set,
// decoded in strictly ascending bit-position order. The ordering is part of
// the contract: per-permission backend checks and audit records follow it
// deterministically.
func (s KeyPermSet) Iterator() *Iterator {
	return &Iterator{set: s}
}

// Permissions returns the permissions in the set in ascending bit order.
func (s KeyPermSet) Permissions() []KeyPerm {
	var perms []KeyPerm
	it := s.Iterator()
	for p, ok := it.Next(); ok; p, ok = it.Next() {
		perms = append(perms, p)
	}
	return perms
}

// Names returns the protocol string names of the permissions in the set in
// ascending bit order.
func (s KeyPermSet) Names() []string {
	var names []string
	it := s.Iterator()
	for p, ok := it.Next(); ok; p, ok = it.Next() {
		names = append(names, p.Name())
	}
	return names
}

// Iterator walks the set bits of a [KeyPermSet] from bit 0 upward. Obtain
// one with [KeyPermSet.Iterator]; each iterator is independent, so a set
// can be iterated any number of times.
type Iterator struct {
	set KeyPermSet
	pos uint8
}

// Next returns the next permission in ascending bit order, or ok=false when
// the set is exhausted. Bits that do not correspond to a defined catalog
// entry decode to the None sentinel via the fail-closed decode; such bits
// never appear in sets built with [NewKeyPermSet].
func (it *Iterator) Next() (KeyPerm, bool) {
	for it.pos < 32 {
		bit := KeyPermSet(1) << it.pos
		it.pos++
		if it.set&bit != 0 {
			return KeyPermFromCode(int32(bit)), true
		}
	}
	return KeyPermNone, false
}
