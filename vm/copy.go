package vm

import "github.com/gopher-vm/dumbvm/internal/klog"

// Copy deep-copies old into a freshly created address space: every
// mapped frame is duplicated (eager, not copy-on-write — spec.md §1's
// non-goals explicitly exclude shared memory between address spaces), and
// the region list, heap top, stack top, and loading flag are all
// preserved (spec.md §4.6).
//
// Grounded on Oichkatzelesfrettschen-biscuit/biscuit/src/vm/as.go's
// rollback discipline around partial fork failures (Uvmfree is always
// reachable on an error path), de-COW'd to the eager-copy semantics
// spec.md §9 specifies.
func Copy(old *AddressSpace, alloc FrameAllocator, log *klog.Logger) (*AddressSpace, error) {
	newAS := Create(log)

	for top, sl := range old.pt.top {
		if sl == nil {
			continue
		}

		newSL := newAS.pt.ensureSecondLevelAt(top)

		for second, entry := range sl {
			if entry == 0 {
				// spec.md §9 decision 2: absent entries stay absent.
				continue
			}

			newEntry, err := copyFrame(entry, alloc)
			if err != nil {
				// spec.md §9 decision 3: roll back everything allocated
				// so far in newAS before returning.
				Destroy(newAS, alloc)
				return nil, outOfMemory("copy")
			}

			newSL[second] = newEntry
		}
	}

	newAS.regions = append(newAS.regions, old.regions...)
	newAS.heapTop = old.heapTop
	newAS.stackTop = old.stackTop
	newAS.loadingFlag = old.loadingFlag

	return newAS, nil
}

// copyFrame allocates a fresh frame, copies the source frame's contents
// into it via each frame's kernel-segment alias, and composes a pte
// carrying the source's DIRTY bit.
func copyFrame(source pte, alloc FrameAllocator) (pte, error) {
	newFrame, err := alloc.Alloc()
	if err != nil {
		return 0, err
	}

	dst := alloc.Access(newFrame)
	zero(dst)
	src := alloc.Access(addrFrame(source.phys()))
	copy(dst, src)

	flags := flagValid
	if source.isWritable() {
		flags |= flagDirty
	}

	return newPTE(frameAddr(newFrame), flags), nil
}

// ensureSecondLevelAt allocates and installs a second-level table at a
// specific top-level slot, used by Copy to mirror old's sparse layout
// exactly (a slot present in old is present in new even if, in a
// pathological case, every entry in it turns out to be zero).
func (pt *pageTable) ensureSecondLevelAt(top int) *secondLevel {
	if pt.top[top] == nil {
		pt.top[top] = &secondLevel{}
	}

	return pt.top[top]
}
