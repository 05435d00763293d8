package vm

// secondLevel is a fully populated second-level page table: 1024 frame
// reference words indexed by bits [21:12] of a virtual address.
type secondLevel [NumSecondLevelSlots]pte

// pageTable is the two-level, sparse page table described in spec.md §3:
// a top-level array of exactly 1024 slots, each either absent or owning a
// second-level array. Grounded on gopher-os/kernel/mem/vmm/pdt.go's
// PageDirectoryTable, but flattened from x86's multi-level recursive
// scheme down to the specified fixed two-level layout, and modeled as a
// plain Go value (no unsafe, no recursive self-mapping) since this core
// never needs to walk an inactive table through a temporary mapping —
// it already holds a direct pointer to every level it owns.
type pageTable struct {
	top [NumTopLevelSlots]*secondLevel
}

// lookup returns the pte for vaddr without allocating anything. ok is
// false if the top-level slot is absent.
func (pt *pageTable) lookup(vaddr uintptr) (entry pte, ok bool) {
	top, second := splitAddress(vaddr)

	sl := pt.top[top]
	if sl == nil {
		return 0, false
	}

	return sl[second], true
}

// ensureSecondLevel returns the second-level table for vaddr's top-level
// slot, allocating and zeroing a fresh one if the slot is currently
// absent (spec.md §3: "created on first fault into its 4 MiB slab").
func (pt *pageTable) ensureSecondLevel(vaddr uintptr) *secondLevel {
	top, _ := splitAddress(vaddr)

	if pt.top[top] == nil {
		pt.top[top] = &secondLevel{}
	}

	return pt.top[top]
}

// set installs entry at vaddr's slot, allocating the owning second-level
// table on demand.
func (pt *pageTable) set(vaddr uintptr, entry pte) {
	_, second := splitAddress(vaddr)
	sl := pt.ensureSecondLevel(vaddr)
	sl[second] = entry
}

// walkPresent invokes fn for every (top, second, entry) triple where a
// second-level table exists for top and entry is non-zero. Destroy uses it
// to free every frame the table names.
func (pt *pageTable) walkPresent(fn func(top, second int, entry pte)) {
	for top, sl := range pt.top {
		if sl == nil {
			continue
		}

		for second, entry := range sl {
			if entry == 0 {
				continue
			}

			fn(top, second, entry)
		}
	}
}

// walkTopLevels invokes fn for every present top-level slot, regardless of
// whether its second-level table has any non-zero entries; unlike
// walkPresent, it also visits a second-level table whose entries are all
// zero.
func (pt *pageTable) walkTopLevels(fn func(top int, sl *secondLevel)) {
	for top, sl := range pt.top {
		if sl == nil {
			continue
		}

		fn(top, sl)
	}
}
