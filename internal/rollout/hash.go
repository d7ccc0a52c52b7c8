// Package rollout provides deterministic identifier bucketing for experiments
// and containers.
package rollout

import (
	"github.com/spaolacci/murmur3"
)

// Hash returns the signed murmur3 x86_32 hash of value under seed.
// Every SDK sharing a workspace must produce the same value here; it is what
// keeps a user's assignment stable across platforms and releases.
func Hash(value string, seed int32) int32 {
	return int32(murmur3.Sum32WithSeed([]byte(value), uint32(seed)))
}

// SlotNumber returns the slot (0..slotSize-1) value falls into.
// The absolute value is taken in 64 bits so math.MinInt32 stays in range.
func SlotNumber(seed int32, slotSize int, value string) int {
	if slotSize <= 0 {
		return -1
	}
	h := int64(Hash(value, seed))
	if h < 0 {
		h = -h
	}
	return int(h % int64(slotSize))
}
