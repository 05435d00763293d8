package vm

// FaultKind distinguishes a TLB-miss from a write to a write-protected
// page (spec.md §4.8).
type FaultKind uint8

const (
	// FaultMiss is an ordinary TLB-refill exception: no translation is
	// currently installed for the faulting address.
	FaultMiss FaultKind = iota

	// FaultReadOnlyViolation is a write to a page that is mapped but not
	// writable. It is never fixed up.
	FaultReadOnlyViolation
)

// Fault resolves a TLB-miss fault or rejects it, per the outcome table in
// spec.md §4.8. Grounded on gopher-os/kernel/mem/vmm/vmm.go's
// pageFaultHandler, which likewise looks up the faulting page's mapping
// before deciding whether the fault can be fixed up.
func Fault(proc Proc, tlb TLB, alloc FrameAllocator, kind FaultKind, faultAddress uintptr) error {
	// Step 1: a write-protection violation is never fixed up.
	if kind == FaultReadOnlyViolation {
		return badAddress("fault", faultAddress)
	}

	// Step 2: there must be a current address space.
	as := proc.CurrentAS()
	if as == nil {
		return badAddress("fault", faultAddress)
	}

	return as.fault(tlb, alloc, faultAddress)
}

// fault implements steps 3-9 of spec.md §4.8's algorithm against this
// address space.
func (as *AddressSpace) fault(tlb TLB, alloc FrameAllocator, faultAddress uintptr) error {
	// Step 3/4: find the covering region, or fall back to the stack
	// window (spec.md §9's resolution of the stack-representation open
	// question: an explicit region first, the window only as a
	// defensive fallback — which in this implementation, where
	// DefineStack always installs an explicit region, only matters if
	// the caller never called DefineStack).
	var dirty pte

	region, ok := findRegion(as.regions, faultAddress)
	if ok {
		if region.Flags.Has(PermW) {
			dirty = flagDirty
		}
	} else {
		stackBase := as.stackTop - StackMaxBytes
		if faultAddress < stackBase || faultAddress >= as.stackTop {
			return badAddress("fault", faultAddress)
		}

		dirty = flagDirty
	}

	// Step 5: locate the page-table slot.
	pageAddr := pageAlignDown(faultAddress)

	// Step 6/7: lazily materialize the second-level table and the frame.
	entry, _ := as.pt.lookup(pageAddr)
	if !entry.present() {
		frame, err := alloc.Alloc()
		if err != nil {
			return outOfMemory("fault")
		}

		zero(alloc.Access(frame))

		entry = newPTE(frameAddr(frame), flagValid|dirty)
		as.pt.set(pageAddr, entry)
	}

	// Step 8: compose and install the TLB entry, applying the transient
	// loading override only at install time (never stored in the pte).
	ehi := uint32(pageAddr)
	elo := uint32(entry) | uint32(as.loadingFlag)
	tlb.WriteRandom(ehi, elo)

	as.log.Debug("fault resolved", "addr", faultAddress, "writable", dirty != 0)

	return nil
}

// zero fills a frame's backing storage with zero bytes.
func zero(page []byte) {
	for i := range page {
		page[i] = 0
	}
}
