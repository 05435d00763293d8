package vm

// pte is a page-table entry word. Its layout matches the hardware TLB
// low-word layout described in spec.md §3/§6: a page-aligned physical
// address occupies the high bits, and the low bits carry flags that are
// hardware-meaningful to the TLB. A zero pte denotes "not present".
//
// Unlike gopher-os's x86 pageTableEntry (kernel/mem/vmm/pte_test.go), the
// flag set here is deliberately tiny: the reference source only ever
// tests VALID and DIRTY ("dirty" meaning write-enabled, per MIPS
// convention — a page without DIRTY is read-only to user mode).
type pte uint32

const (
	// flagValid marks a translation as installable in the TLB.
	flagValid pte = 1 << 0

	// flagDirty marks a page writable (MIPS convention: DIRTY == write-enabled).
	flagDirty pte = 1 << 1

	// pteAddrMask isolates the page-aligned physical address bits of a pte.
	pteAddrMask pte = ^pte(PageSize - 1)
)

// newPTE composes a page-table entry from a page-aligned physical address
// and a set of flags.
func newPTE(phys uintptr, flags pte) pte {
	return pte(phys)&pteAddrMask | flags
}

// present reports whether this entry names a physical frame at all.
func (p pte) present() bool {
	return p != 0
}

// phys returns the page-aligned physical address named by this entry.
func (p pte) phys() uintptr {
	return uintptr(p & pteAddrMask)
}

// isValid reports whether the VALID flag is set.
func (p pte) isValid() bool {
	return p&flagValid != 0
}

// isWritable reports whether the DIRTY (write-enable) flag is set.
func (p pte) isWritable() bool {
	return p&flagDirty != 0
}

// withFlag ORs an additional flag into the entry, as the fault handler does
// when applying the transient loading override at TLB-install time.
func (p pte) withFlag(flag pte) pte {
	return p | flag
}
