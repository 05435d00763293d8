// Command vmdemo is a hosted harness around the vm package: each
// sub-command replays one of the scenarios in spec.md §8 against a real
// frame.Pool and tlbfake.TLB, so the in-memory core can be exercised and
// observed outside of a unit test. Grounded on smoynes-elsie's
// internal/cli Command/Commander pattern.
package main

import (
	"flag"

	"github.com/gopher-vm/dumbvm/frame"
	"github.com/gopher-vm/dumbvm/internal/klog"
	"github.com/gopher-vm/dumbvm/tlbfake"
	"github.com/gopher-vm/dumbvm/vm"
)

// demoProc is the Proc collaborator every sub-command uses: a single
// address space, swappable, standing in for the one process the demo
// drives at a time (spec.md §9 Design Notes).
type demoProc struct {
	as *vm.AddressSpace
}

func (p *demoProc) CurrentAS() *vm.AddressSpace { return p.as }

// session bundles the collaborators every sub-command needs: a frame
// pool sized by -frames, a fake TLB, and the logger every vm.Create call
// takes.
type session struct {
	pool *frame.Pool
	tlb  *tlbfake.TLB
	proc *demoProc
	log  *klog.Logger
}

func newSession(numFrames int) *session {
	return &session{
		pool: frame.NewPool(numFrames),
		tlb:  tlbfake.New(),
		proc: &demoProc{},
		log:  klog.Default(),
	}
}

// framesFlag is shared by every sub-command that needs a frame pool size.
func framesFlag(fs *flag.FlagSet) *int {
	return fs.Int("frames", 256, "number of physical frames in the demo pool")
}
