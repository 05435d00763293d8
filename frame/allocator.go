// Package frame provides a reference implementation of the physical frame
// allocator spec.md §1/§6 treats as an out-of-scope, assumed-correct
// collaborator (alloc_frame/free_frame). It exists so the property tests
// in package vm and cmd/vmdemo have something real to allocate from.
//
// Grounded on gopher-os/kernel/mem/pfn/bootmem_allocator.go and
// kernel/mem/pmm/allocator's bitmap design, simplified to a single
// fixed-size pool (no multiboot memory map to parse — the pool size is
// just a constructor argument here) that Alloc always scans from its
// lowest-numbered frame.
package frame

import (
	"fmt"
	"sync"

	"github.com/gopher-vm/dumbvm/vm"
)

// PageSize mirrors vm.PageSize; frames managed by this package are always
// this many bytes.
const PageSize = vm.PageSize

// Pool is a bitmap-backed physical frame allocator. It implements
// vm.FrameAllocator. The zero value is not usable; construct with
// NewPool.
type Pool struct {
	mu sync.Mutex

	backing []byte // numFrames * PageSize bytes of simulated physical memory
	free    []uint64
	inUse   int
	total   int
}

// NewPool reserves a pool of numFrames frames, all initially free.
func NewPool(numFrames int) *Pool {
	words := (numFrames + 63) / 64

	return &Pool{
		backing: make([]byte, numFrames*PageSize),
		free:    make([]uint64, words),
		total:   numFrames,
	}
}

// Alloc reserves the lowest-numbered free frame.
func (p *Pool) Alloc() (vm.Frame, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for word := range p.free {
		if p.free[word] == ^uint64(0) {
			continue
		}

		for bit := 0; bit < 64; bit++ {
			idx := word*64 + bit
			if idx >= p.total {
				break
			}

			mask := uint64(1) << uint(bit)
			if p.free[word]&mask != 0 {
				continue
			}

			p.free[word] |= mask
			p.inUse++

			return vm.Frame(idx), nil
		}
	}

	return 0, vm.ErrOutOfMemory
}

// Free releases a frame previously returned by Alloc. Freeing an already
// free frame, or one outside the pool, panics: that is always a
// programmer error in the caller, never a user-induced condition.
func (p *Pool) Free(f vm.Frame) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := int(f)
	if idx < 0 || idx >= p.total {
		panic(fmt.Sprintf("frame: Free: frame %d out of range", idx))
	}

	word, bit := idx/64, uint(idx%64)
	mask := uint64(1) << bit
	if p.free[word]&mask == 0 {
		panic(fmt.Sprintf("frame: Free: frame %d already free", idx))
	}

	p.free[word] &^= mask
	p.inUse--
}

// Access returns the PageSize-length slice backing frame f.
func (p *Pool) Access(f vm.Frame) []byte {
	idx := int(f)

	return p.backing[idx*PageSize : (idx+1)*PageSize]
}

// InUse returns the number of currently allocated frames — the quantity
// spec.md §8's P3 no-leak property checks returns to baseline after a
// Create/.../Destroy cycle.
func (p *Pool) InUse() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.inUse
}

// Total returns the pool's fixed capacity.
func (p *Pool) Total() int {
	return p.total
}
