package vm

// Architectural constants for the address-space core. These mirror the
// MIPS-like target described in the specification: a 4KiB page, a
// two-level page table indexed by bits [31:22] and [21:12] of a virtual
// address, and a fixed user-stack top.
const (
	// PageShift is log2(PageSize).
	PageShift = 12

	// PageSize is the size, in bytes, of a single page and physical frame.
	PageSize = 1 << PageShift

	// pageOffsetMask masks the intra-page offset (bits [11:0]) of an address.
	pageOffsetMask = PageSize - 1

	// NumTopLevelSlots is the number of entries in the first-level page
	// table, indexed by bits [31:22] of a virtual address.
	NumTopLevelSlots = 1024

	// NumSecondLevelSlots is the number of entries in each second-level
	// page table, indexed by bits [21:12] of a virtual address.
	NumSecondLevelSlots = 1024

	// secondLevelShift is the bit position of the second-level index.
	secondLevelShift = PageShift

	// topLevelShift is the bit position of the top-level index.
	topLevelShift = PageShift + 10 // 10 = log2(NumSecondLevelSlots)

	// UserStack is the architecture-defined sentinel virtual address one
	// past the top of every process's user stack.
	UserStack uintptr = 0x80000000

	// StackMaxBytes is the maximum size of the implicit user stack region,
	// measured down from UserStack.
	StackMaxBytes = 16 * PageSize
)

// pageAlignDown rounds addr down to the nearest page boundary.
func pageAlignDown(addr uintptr) uintptr {
	return addr &^ pageOffsetMask
}

// pageAlignUp rounds size up to the nearest multiple of PageSize.
func pageAlignUp(size uintptr) uintptr {
	return (size + pageOffsetMask) &^ pageOffsetMask
}

// splitAddress decomposes a virtual address into its top-level and
// second-level page-table indices.
func splitAddress(vaddr uintptr) (top, second int) {
	top = int((vaddr >> topLevelShift) & (NumTopLevelSlots - 1))
	second = int((vaddr >> secondLevelShift) & (NumSecondLevelSlots - 1))

	return top, second
}
