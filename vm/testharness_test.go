package vm

// Internal (white-box) test helpers. Scenario/property tests that want a
// real frame pool live in an external vm_test package (scenario_test.go)
// to avoid an import cycle: package frame imports package vm.

// fakeProc is a synthetic "current address space" provider, letting tests
// drive Fault/Activate without a real process abstraction (spec.md §9
// Design Notes).
type fakeProc struct {
	as *AddressSpace
}

func (p *fakeProc) CurrentAS() *AddressSpace { return p.as }

// fakeTLB counts Flush/WriteRandom calls and remembers the last installed
// entry.
type fakeTLB struct {
	flushes     int
	lastHi      uint32
	lastLo      uint32
	writeRandom int
}

func (t *fakeTLB) WriteRandom(ehi, elo uint32) {
	t.lastHi, t.lastLo = ehi, elo
	t.writeRandom++
}

func (t *fakeTLB) Flush() { t.flushes++ }

// fakeAllocator is a tiny bitmap-free frame allocator good enough for
// white-box unit tests: it just hands out ever-increasing indices and
// tracks which ones are currently live so Free can be validated.
type fakeAllocator struct {
	pages     map[Frame][]byte
	next      Frame
	failAfter int // if > 0, Alloc fails once this many allocations have succeeded
	allocated int
}

func newFakeAllocator() *fakeAllocator {
	return &fakeAllocator{pages: make(map[Frame][]byte)}
}

func (a *fakeAllocator) Alloc() (Frame, error) {
	if a.failAfter > 0 && a.allocated >= a.failAfter {
		return 0, ErrOutOfMemory
	}

	f := a.next
	a.next++
	a.pages[f] = make([]byte, PageSize)
	a.allocated++

	return f, nil
}

func (a *fakeAllocator) Free(f Frame) {
	if _, ok := a.pages[f]; !ok {
		panic("fakeAllocator: double free")
	}

	delete(a.pages, f)
}

func (a *fakeAllocator) Access(f Frame) []byte {
	return a.pages[f]
}

func (a *fakeAllocator) inUse() int {
	return len(a.pages)
}
