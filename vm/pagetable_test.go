package vm

import "testing"

func TestPageTableLookupMiss(t *testing.T) {
	var pt pageTable

	if _, ok := pt.lookup(0x1000); ok {
		t.Error("lookup on an empty table must report the top-level slot absent")
	}
}

func TestPageTableSetThenLookup(t *testing.T) {
	var pt pageTable

	const vaddr = 0x00403000
	entry := newPTE(5*PageSize, flagValid|flagDirty)

	pt.set(vaddr, entry)

	got, ok := pt.lookup(vaddr)
	if !ok {
		t.Fatal("expected the top-level slot to be present after set")
	}

	if got != entry {
		t.Errorf("lookup = %#x; want %#x", got, entry)
	}
}

func TestPageTableSparseSlots(t *testing.T) {
	var pt pageTable

	pt.set(0x00001000, newPTE(PageSize, flagValid))

	// A different top-level slot must still report absent.
	if _, ok := pt.lookup(0x00400000); ok {
		t.Error("setting one top-level slot must not populate another")
	}
}

func TestPageTableWalkPresentSkipsZeroEntries(t *testing.T) {
	var pt pageTable

	pt.ensureSecondLevel(0x1000)
	pt.set(0x1000, newPTE(PageSize, flagValid))
	// Leave every other entry in that second-level table zero.

	count := 0
	pt.walkPresent(func(top, second int, entry pte) {
		count++
	})

	if count != 1 {
		t.Errorf("walkPresent visited %d entries; want 1", count)
	}
}

func TestPageTableWalkTopLevelsVisitsEmptyTables(t *testing.T) {
	var pt pageTable

	pt.ensureSecondLevel(0x1000) // allocate but install nothing

	visited := 0
	pt.walkTopLevels(func(top int, sl *secondLevel) {
		visited++
	})

	if visited != 1 {
		t.Errorf("walkTopLevels visited %d slots; want 1", visited)
	}

	presentCount := 0
	pt.walkPresent(func(top, second int, entry pte) {
		presentCount++
	})

	if presentCount != 0 {
		t.Errorf("walkPresent found %d entries in an empty second-level table; want 0", presentCount)
	}
}

func TestSplitAddressRoundTrip(t *testing.T) {
	const vaddr = 0x0040317c

	top, second := splitAddress(vaddr)

	reconstructed := uintptr(top)<<topLevelShift | uintptr(second)<<secondLevelShift
	if reconstructed != pageAlignDown(vaddr) {
		t.Errorf("splitAddress/reconstruct round trip = 0x%x; want 0x%x", reconstructed, pageAlignDown(vaddr))
	}
}
