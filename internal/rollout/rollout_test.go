package rollout

import (
	"strconv"
	"testing"

	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/model"
)

func halfBucket() *model.Bucket {
	return &model.Bucket{
		ID:       1,
		Seed:     1234,
		SlotSize: 10000,
		Slots: []model.Slot{
			{StartInclusive: 0, EndExclusive: 5000, VariationID: 11},
			{StartInclusive: 5000, EndExclusive: 10000, VariationID: 12},
		},
	}
}

func TestBucketing_Deterministic(t *testing.T) {
	b := NewBucketer()
	bucket := halfBucket()

	slot1, ok1 := b.Bucketing(bucket, "user-123")
	slot2, ok2 := b.Bucketing(bucket, "user-123")

	if !ok1 || !ok2 {
		t.Fatal("Expected a slot for a fully allocated bucket")
	}
	if slot1 != slot2 {
		t.Errorf("Bucketing is not deterministic: got %+v and %+v", slot1, slot2)
	}
}

func TestBucketing_MatchesSlotNumber(t *testing.T) {
	b := NewBucketer()
	bucket := halfBucket()

	for i := 0; i < 100; i++ {
		id := "user-" + strconv.Itoa(i)
		slot, ok := b.Bucketing(bucket, id)
		if !ok {
			t.Fatalf("no slot for %s", id)
		}
		want := int64(11)
		if SlotNumber(bucket.Seed, bucket.SlotSize, id) >= 5000 {
			want = 12
		}
		if slot.VariationID != want {
			t.Errorf("%s: variation %d, want %d", id, slot.VariationID, want)
		}
	}
}

func TestBucketing_UnallocatedSlot(t *testing.T) {
	b := NewBucketer()
	bucket := &model.Bucket{ID: 2, Seed: 0, SlotSize: 10000, Slots: []model.Slot{
		{StartInclusive: 0, EndExclusive: 3351, VariationID: 1},
	}}

	// "hello" lands on slot 3351, just outside the allocated range.
	if _, ok := b.Bucketing(bucket, "hello"); ok {
		t.Error("Expected no slot for an unallocated slot number")
	}
}

func TestBucketing_IndependentOfSlotOrder(t *testing.T) {
	b := NewBucketer()
	forward := halfBucket()
	reversed := halfBucket()
	reversed.Slots[0], reversed.Slots[1] = reversed.Slots[1], reversed.Slots[0]

	for i := 0; i < 100; i++ {
		id := "user-" + strconv.Itoa(i)
		s1, _ := b.Bucketing(forward, id)
		s2, _ := b.Bucketing(reversed, id)
		if s1 != s2 {
			t.Errorf("%s: %+v vs %+v", id, s1, s2)
		}
	}
}

func TestBucketing_Distribution(t *testing.T) {
	b := NewBucketer()
	bucket := halfBucket()
	counts := map[int64]int{}
	total := 10000

	for i := 0; i < total; i++ {
		slot, ok := b.Bucketing(bucket, "user-"+strconv.Itoa(i))
		if ok {
			counts[slot.VariationID]++
		}
	}

	// Expect ~50% each, allow 5% variance.
	for _, id := range []int64{11, 12} {
		pct := float64(counts[id]) / float64(total) * 100
		if pct < 45 || pct > 55 {
			t.Errorf("Variation %d: expected ~50%%, got %.2f%%", id, pct)
		}
	}
}

func TestBucketing_NilBucket(t *testing.T) {
	if _, ok := NewBucketer().Bucketing(nil, "user"); ok {
		t.Error("Expected no slot for nil bucket")
	}
}
