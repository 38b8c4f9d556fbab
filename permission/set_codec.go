package permission

import (
	"encoding/binary"
	"errors"
)

const setEncodedSize = 4

// Encode returns the big-endian 4-byte wire form of the set. The encoding
// is stable and is what grant tokens embed.
func (s KeyPermSet) Encode() []byte {
	buf := make([]byte, setEncodedSize)
	binary.BigEndian.PutUint32(buf, uint32(s))
	return buf
}

// DecodeSet parses the wire form produced by [KeyPermSet.Encode]. Bits that
// do not correspond to defined catalog entries are dropped, keeping the
// fail-closed decode contract of the catalogs.
func DecodeSet(data []byte) (KeyPermSet, error) {
	if len(data) != setEncodedSize {
		return 0, errors.New("invalid permission set size")
	}

	raw := KeyPermSet(binary.BigEndian.Uint32(data))

	var s KeyPermSet
	it := raw.Iterator()
	for p, ok := it.Next(); ok; p, ok = it.Next() {
		s |= KeyPermSet(p)
	}
	return s, nil
}
