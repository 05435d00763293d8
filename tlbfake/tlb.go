// Package tlbfake provides an in-memory stand-in for the hardware TLB
// primitives spec.md §6 lists as external collaborators
// (tlb_write/tlb_random). Grounded on the mocked switchPDT/flushTLBEntry
// function-variable seams in gopher-os/kernel/mem/vmm/vmm_test.go — there,
// the seams exist so tests never touch real hardware; here, the whole
// backend is the fake, since this core never runs on real MIPS hardware.
package tlbfake

// NumEntries mirrors the architecture's NUM_TLB constant.
const NumEntries = 64

// entry is one (virtual-page, translation) slot.
type entry struct {
	hi, lo uint32
	valid  bool
}

// TLB is a fixed-size, round-robin fake of the hardware TLB.
type TLB struct {
	entries [NumEntries]entry
	next    int

	// Flushes counts how many times Flush has been called, so tests can
	// assert that CompleteLoad/Activate actually flushed (spec.md I5).
	Flushes int
}

// New returns an empty TLB.
func New() *TLB {
	return &TLB{}
}

// WriteRandom installs (ehi, elo) into the next slot in round-robin
// order, standing in for the hardware's pseudo-random victim selection
// (tlb_random).
func (t *TLB) WriteRandom(ehi, elo uint32) {
	t.entries[t.next] = entry{hi: ehi, lo: elo, valid: true}
	t.next = (t.next + 1) % NumEntries
}

// Flush invalidates every entry (tlb_write of an invalid pair to every
// index).
func (t *TLB) Flush() {
	for i := range t.entries {
		t.entries[i] = entry{}
	}

	t.Flushes++
}

// Lookup returns the installed (hi, lo) pair for a page-aligned virtual
// address, if one is currently present. It exists purely for tests that
// want to assert on what Fault actually installed.
func (t *TLB) Lookup(vaddrPage uint32) (hi, lo uint32, ok bool) {
	for _, e := range t.entries {
		if e.valid && e.hi == vaddrPage {
			return e.hi, e.lo, true
		}
	}

	return 0, 0, false
}
