package tlbfake

import "testing"

func TestWriteRandomThenLookup(t *testing.T) {
	tlb := New()

	tlb.WriteRandom(0x1000, 0xAB)

	hi, lo, ok := tlb.Lookup(0x1000)
	if !ok {
		t.Fatal("expected a lookup hit")
	}

	if hi != 0x1000 || lo != 0xAB {
		t.Errorf("Lookup = (0x%x, 0x%x); want (0x1000, 0xAB)", hi, lo)
	}
}

func TestLookupMiss(t *testing.T) {
	tlb := New()

	if _, _, ok := tlb.Lookup(0x1000); ok {
		t.Error("expected a lookup miss on an empty TLB")
	}
}

func TestFlushInvalidatesEverything(t *testing.T) {
	tlb := New()

	tlb.WriteRandom(0x1000, 0xAB)
	tlb.Flush()

	if _, _, ok := tlb.Lookup(0x1000); ok {
		t.Error("expected Flush to invalidate every entry")
	}

	if tlb.Flushes != 1 {
		t.Errorf("Flushes = %d; want 1", tlb.Flushes)
	}
}

func TestWriteRandomWrapsAround(t *testing.T) {
	tlb := New()

	for i := 0; i < NumEntries+1; i++ {
		tlb.WriteRandom(uint32(i), uint32(i))
	}

	// Entry 0 should have been evicted by the (NumEntries+1)th write.
	if _, _, ok := tlb.Lookup(0); ok {
		t.Error("expected the oldest entry to have been evicted after wrapping around")
	}

	if _, _, ok := tlb.Lookup(NumEntries); !ok {
		t.Error("expected the most recent write to still be present")
	}
}
