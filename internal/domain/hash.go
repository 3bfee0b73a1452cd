package domain

import "hash/fnv"

// HashID computes the stable 64-bit identifier hash for a market id using
// FNV-1a. The hash is fixed and non-cryptographic: the same string always
// hashes to the same value across processes, which is what lets callers
// cross-check a hash they obtained elsewhere against the id they hold.
func HashID(id string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return h.Sum64()
}
