package rollout

import (
	"strconv"
	"testing"
)

func TestHash_ReferenceVectors(t *testing.T) {
	// murmur3 x86_32 reference values shared with the other SDKs.
	tests := []struct {
		value string
		seed  int32
		want  uint32
	}{
		{value: "", seed: 0, want: 0},
		{value: "", seed: 1, want: 0x514E28B7},
		{value: "hello", seed: 0, want: 0x248BFA47},
		{value: "The quick brown fox jumps over the lazy dog", seed: 0, want: 0x2E4FF723},
	}

	for _, tt := range tests {
		got := Hash(tt.value, tt.seed)
		if uint32(got) != tt.want {
			t.Errorf("Hash(%q, %d) = %#x, want %#x", tt.value, tt.seed, uint32(got), tt.want)
		}
	}
}

func TestSlotNumber_Deterministic(t *testing.T) {
	slot1 := SlotNumber(42, 10000, "user-123")
	slot2 := SlotNumber(42, 10000, "user-123")

	if slot1 != slot2 {
		t.Errorf("SlotNumber is not deterministic: got %d and %d", slot1, slot2)
	}
	if slot1 < 0 || slot1 >= 10000 {
		t.Errorf("Slot out of range: %d", slot1)
	}
}

func TestSlotNumber_ReferenceSlots(t *testing.T) {
	if got := SlotNumber(0, 10000, "hello"); got != 3351 {
		t.Errorf("SlotNumber(hello) = %d, want 3351", got)
	}
	if got := SlotNumber(0, 10000, "The quick brown fox jumps over the lazy dog"); got != 2547 {
		t.Errorf("SlotNumber(fox) = %d, want 2547", got)
	}
}

func TestSlotNumber_InvalidSlotSize(t *testing.T) {
	if got := SlotNumber(1, 0, "user"); got != -1 {
		t.Errorf("Expected -1 for zero slot size, got %d", got)
	}
}

func TestSlotNumber_DifferentSeeds(t *testing.T) {
	// Different seeds should generally give different slots for most users.
	same := 0
	for i := 0; i < 1000; i++ {
		id := "user-" + strconv.Itoa(i)
		if SlotNumber(1, 10000, id) == SlotNumber(2, 10000, id) {
			same++
		}
	}
	if same > 10 {
		t.Errorf("Seeds look correlated: %d/1000 identical slots", same)
	}
}

func TestSlotNumber_Distribution(t *testing.T) {
	counts := make([]int, 100)

	for i := 0; i < 10000; i++ {
		slot := SlotNumber(7, 100, "user-"+strconv.Itoa(i))
		if slot >= 0 && slot < 100 {
			counts[slot]++
		}
	}

	// Each slot should have ~100 users; allow 50% variance.
	for i, count := range counts {
		if count < 50 || count > 150 {
			t.Errorf("Slot %d has %d users, expected ~100", i, count)
		}
	}
}
