package vm

import "github.com/gopher-vm/dumbvm/internal/klog"

// AddressSpace is the per-process mapping from virtual to physical pages
// plus the metadata that governs it (spec.md §3). It owns its page table,
// its region list, and every frame either names.
//
// Grounded on gopher-os/kernel/mem/vmm's PageDirectoryTable/FrameAllocatorFn
// pairing and original_source/kern/vm/addrspace.c's struct addrspace.
type AddressSpace struct {
	pt      pageTable
	regions []Region

	// stackTop is the constant user-stack top address (USERSTACK).
	stackTop uintptr

	// heapTop is the first address past the most recently defined region,
	// set by DefineRegion; with regions defined in ascending order, that
	// is the first address above the highest one.
	heapTop uintptr

	// loadingFlag is either 0 or flagDirty; it is OR-ed into every TLB
	// entry Fault installs while set (spec.md §4.4).
	loadingFlag pte

	log *klog.Logger
}

// Create returns a fresh address space with no regions, a heap top of
// zero, and the architecture's stack top. It never fails: unlike the
// physical frame pool, the small-object allocator backing an
// *AddressSpace is Go's garbage-collected heap, which spec.md §5 already
// treats as an allocation that is a precondition rather than a checked
// failure mode in this source lineage.
func Create(log *klog.Logger) *AddressSpace {
	as := &AddressSpace{
		stackTop: UserStack,
		heapTop:  0,
		log:      log,
	}

	as.log.Debug("address space created")

	return as
}

// Regions returns the address space's region list in definition order, for
// diagnostic and monitoring use (e.g. cmd/vmdemo). Callers must not mutate
// the returned slice.
func (as *AddressSpace) Regions() []Region {
	return as.regions
}

// DefineRegion declares a mappable range [vaddr, vaddr+memsize) with the
// given permissions (spec.md §4.2). No frames are allocated; all mapping
// is lazy via Fault.
func DefineRegion(as *AddressSpace, vaddr, memsize uintptr, r, w, x bool) error {
	if as == nil {
		return badAddress("define_region", vaddr)
	}

	if vaddr+memsize >= as.stackTop-StackMaxBytes {
		return outOfMemory("define_region")
	}

	// Align: extend memsize by vaddr's page offset, then truncate vaddr
	// down to a page boundary, then round memsize up to a page multiple.
	memsize += vaddr & pageOffsetMask
	vaddr = pageAlignDown(vaddr)
	memsize = pageAlignUp(memsize)

	var flags Perm
	if r {
		flags |= PermR
	}

	if w {
		flags |= PermW
	}

	if x {
		flags |= PermX
	}

	as.regions = append(as.regions, Region{
		Base:       vaddr,
		Size:       memsize,
		Flags:      flags,
		SavedFlags: flags,
	})

	as.heapTop = vaddr + memsize

	as.log.Debug("region defined", "base", vaddr, "size", memsize, "flags", flags)

	return nil
}

// DefineStack installs the implicit stack region
// [stackTop-StackMaxBytes, stackTop) with R+W+X permissions and returns
// the initial stack pointer (spec.md §4.3).
func DefineStack(as *AddressSpace) (uintptr, error) {
	if as == nil {
		return 0, badAddress("define_stack", 0)
	}

	perms := PermR | PermW | PermX
	as.regions = append(as.regions, Region{
		Base:       as.stackTop - StackMaxBytes,
		Size:       StackMaxBytes,
		Flags:      perms,
		SavedFlags: perms,
	})

	as.log.Debug("stack region defined", "top", as.stackTop)

	return as.stackTop, nil
}

// PrepareLoad enables the transient write-everywhere override used while
// the ELF loader copies bytes into otherwise read-only segments
// (spec.md §4.4).
func PrepareLoad(as *AddressSpace) error {
	if as == nil {
		return badAddress("prepare_load", 0)
	}

	as.loadingFlag = flagDirty
	as.log.Debug("load prepared")

	return nil
}

// CompleteLoad disables the transient write-everywhere override and
// flushes the hardware TLB, so that the ephemeral DIRTY bit it applied is
// dropped and subsequent faults install entries consistent with each
// region's real flags (spec.md §4.4).
func CompleteLoad(as *AddressSpace, tlb TLB) error {
	if as == nil {
		return badAddress("complete_load", 0)
	}

	as.loadingFlag = 0
	tlb.Flush()
	as.log.Debug("load completed")

	return nil
}

// Activate makes the Proc's current address space live by flushing the
// hardware TLB (spec.md §4.5). It returns silently if there is no current
// address space.
func Activate(proc Proc, tlb TLB) {
	if proc.CurrentAS() == nil {
		return
	}

	tlb.Flush()
}

// Deactivate is a no-op; the next Activate flushes the TLB (spec.md §4.5).
func Deactivate() {}

// Destroy frees every resource owned by as: every non-zero frame, every
// second-level page table, the region list, and the address space itself
// (represented, in Go, by simply dropping every reference after returning
// frames to alloc — there is no kalloc/kfree to mirror for the struct
// itself). Destroy never fails (spec.md §4.7).
func Destroy(as *AddressSpace, alloc FrameAllocator) {
	if as == nil {
		return
	}

	as.pt.walkPresent(func(_, _ int, entry pte) {
		alloc.Free(addrFrame(entry.phys()))
	})

	as.pt = pageTable{}
	as.regions = nil

	as.log.Debug("address space destroyed")
}
