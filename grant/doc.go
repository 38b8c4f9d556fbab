// Package grant manages signed grant capability tokens: the transportable
// form of a key grant's permission bitset, bound to a grantee and a key id
// and verified without consulting the MAC backend.
package grant
