package rollout

import "github.com/Hyunsik-Yoo/hackle-go-sdk/internal/model"

// Bucketer assigns identifiers to bucket slots.
//
// Algorithm:
//  1. murmur3(identifier, bucket.Seed) -> signed 32-bit hash
//  2. |hash| mod bucket.SlotSize -> slot number
//  3. the slot whose [start, end) range covers the slot number
//
// The result is a pure function of (bucket, identifier): it does not depend on
// process state or on any other workspace data.
type Bucketer struct{}

// NewBucketer creates a Bucketer.
func NewBucketer() *Bucketer {
	return &Bucketer{}
}

// Bucketing returns the slot the identifier is assigned to. It reports false
// when the slot number is not covered by any slot, which means the identifier
// receives no traffic from this bucket.
func (b *Bucketer) Bucketing(bucket *model.Bucket, identifier string) (model.Slot, bool) {
	if bucket == nil {
		return model.Slot{}, false
	}
	slotNumber := SlotNumber(bucket.Seed, bucket.SlotSize, identifier)
	if slotNumber < 0 {
		return model.Slot{}, false
	}
	return bucket.Slot(slotNumber)
}
