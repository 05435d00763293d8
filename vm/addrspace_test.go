package vm

import (
	"errors"
	"testing"

	"github.com/gopher-vm/dumbvm/internal/klog"
)

func TestCreate(t *testing.T) {
	as := Create(klog.Default())

	if as.stackTop != UserStack {
		t.Errorf("stackTop = 0x%x; want 0x%x", as.stackTop, UserStack)
	}

	if as.heapTop != 0 {
		t.Errorf("heapTop = 0x%x; want 0", as.heapTop)
	}

	if len(as.regions) != 0 {
		t.Errorf("expected no regions on a fresh address space, got %d", len(as.regions))
	}
}

func TestDefineRegionAligns(t *testing.T) {
	as := Create(klog.Default())

	// vaddr not page-aligned, memsize not a page multiple.
	if err := DefineRegion(as, 0x00400123, 0x1000, true, false, true); err != nil {
		t.Fatalf("DefineRegion: %v", err)
	}

	if len(as.regions) != 1 {
		t.Fatalf("expected exactly one region, got %d", len(as.regions))
	}

	r := as.regions[0]
	if r.Base != pageAlignDown(0x00400123) {
		t.Errorf("Base = 0x%x; want 0x%x", r.Base, pageAlignDown(0x00400123))
	}

	wantSize := pageAlignUp(0x1000 + 0x123)
	if r.Size != wantSize {
		t.Errorf("Size = 0x%x; want 0x%x", r.Size, wantSize)
	}

	if !r.Flags.Has(PermR) || r.Flags.Has(PermW) || !r.Flags.Has(PermX) {
		t.Errorf("Flags = %v; want R+X only", r.Flags)
	}
}

func TestDefineRegionAdvancesHeapTop(t *testing.T) {
	as := Create(klog.Default())

	if err := DefineRegion(as, 0x00400000, 0x2000, true, true, false); err != nil {
		t.Fatalf("DefineRegion: %v", err)
	}

	want := uintptr(0x00400000 + 0x2000)
	if as.heapTop != want {
		t.Errorf("heapTop = 0x%x; want 0x%x", as.heapTop, want)
	}
}

func TestDefineRegionRejectsStackCollision(t *testing.T) {
	as := Create(klog.Default())

	err := DefineRegion(as, as.stackTop-StackMaxBytes, PageSize, true, true, false)
	if !errors.Is(err, ErrOutOfMemory) {
		t.Errorf("DefineRegion into the stack window: err = %v; want ErrOutOfMemory", err)
	}
}

func TestDefineRegionNilAddressSpace(t *testing.T) {
	err := DefineRegion(nil, 0x1000, 0x1000, true, false, false)
	if !errors.Is(err, ErrBadAddress) {
		t.Errorf("err = %v; want ErrBadAddress", err)
	}
}

func TestDefineStack(t *testing.T) {
	as := Create(klog.Default())

	sp, err := DefineStack(as)
	if err != nil {
		t.Fatalf("DefineStack: %v", err)
	}

	if sp != as.stackTop {
		t.Errorf("initial stack pointer = 0x%x; want 0x%x", sp, as.stackTop)
	}

	if len(as.regions) != 1 {
		t.Fatalf("expected exactly one region, got %d", len(as.regions))
	}

	r := as.regions[0]
	if r.Base != as.stackTop-StackMaxBytes || r.Size != StackMaxBytes {
		t.Errorf("stack region = {Base:0x%x Size:0x%x}; want {Base:0x%x Size:0x%x}",
			r.Base, r.Size, as.stackTop-StackMaxBytes, StackMaxBytes)
	}

	if !r.Flags.Has(PermR | PermW | PermX) {
		t.Errorf("stack region flags = %v; want R+W+X", r.Flags)
	}
}

func TestPrepareCompleteLoad(t *testing.T) {
	as := Create(klog.Default())
	tlb := &fakeTLB{}

	if err := PrepareLoad(as); err != nil {
		t.Fatalf("PrepareLoad: %v", err)
	}

	if as.loadingFlag != flagDirty {
		t.Errorf("loadingFlag = %#x after PrepareLoad; want flagDirty", as.loadingFlag)
	}

	if err := CompleteLoad(as, tlb); err != nil {
		t.Fatalf("CompleteLoad: %v", err)
	}

	if as.loadingFlag != 0 {
		t.Errorf("loadingFlag = %#x after CompleteLoad; want 0", as.loadingFlag)
	}

	if tlb.flushes != 1 {
		t.Errorf("CompleteLoad flushed the TLB %d times; want 1", tlb.flushes)
	}
}

func TestActivateNoCurrentAS(t *testing.T) {
	tlb := &fakeTLB{}
	proc := &fakeProc{as: nil}

	Activate(proc, tlb)

	if tlb.flushes != 0 {
		t.Errorf("Activate with no current address space flushed the TLB %d times; want 0", tlb.flushes)
	}
}

func TestActivateFlushesTLB(t *testing.T) {
	tlb := &fakeTLB{}
	proc := &fakeProc{as: Create(klog.Default())}

	Activate(proc, tlb)

	if tlb.flushes != 1 {
		t.Errorf("Activate flushed the TLB %d times; want 1", tlb.flushes)
	}
}

func TestDestroyFreesEveryFrame(t *testing.T) {
	as := Create(klog.Default())
	alloc := newFakeAllocator()

	if err := DefineRegion(as, 0x00400000, PageSize, true, true, false); err != nil {
		t.Fatalf("DefineRegion: %v", err)
	}

	tlb := &fakeTLB{}
	proc := &fakeProc{as: as}

	if err := Fault(proc, tlb, alloc, FaultMiss, 0x00400010); err != nil {
		t.Fatalf("Fault: %v", err)
	}

	if alloc.inUse() != 1 {
		t.Fatalf("expected one frame allocated before Destroy, got %d", alloc.inUse())
	}

	Destroy(as, alloc)

	if alloc.inUse() != 0 {
		t.Errorf("Destroy left %d frames allocated; want 0", alloc.inUse())
	}

	if len(as.regions) != 0 {
		t.Errorf("Destroy left %d regions; want 0", len(as.regions))
	}
}

func TestDestroyNilIsNoop(t *testing.T) {
	Destroy(nil, newFakeAllocator())
}
