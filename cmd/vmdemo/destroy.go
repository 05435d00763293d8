package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/gopher-vm/dumbvm/internal/klog"
	"github.com/gopher-vm/dumbvm/vm"
)

// destroyCommand faults in every page of a region and then destroys the
// address space, demonstrating the P3 no-leak property: frame usage
// returns to its pre-run baseline.
type destroyCommand struct {
	fs     *flag.FlagSet
	frames *int
	base   *uintptrFlag
	size   *uintptrFlag
}

func newDestroyCommand() *destroyCommand {
	fs := flag.NewFlagSet("destroy", flag.ContinueOnError)

	c := &destroyCommand{fs: fs}
	c.frames = framesFlag(fs)
	c.base = newUintptrFlag(fs, "base", 0x00400000, "base virtual address of the region")
	c.size = newUintptrFlag(fs, "size", vm.PageSize*8, "size of the region")

	return c
}

func (c *destroyCommand) FlagSet() *flag.FlagSet { return c.fs }

func (c *destroyCommand) Description() string {
	return "fault in a whole region, then destroy it and confirm every frame was freed"
}

func (c *destroyCommand) Run(_ context.Context, _ []string, out io.Writer, log *klog.Logger) int {
	sess := newSession(*c.frames)

	as := vm.Create(log)
	if err := vm.DefineRegion(as, c.base.v, c.size.v, true, true, false); err != nil {
		fmt.Fprintf(out, "define region: %v\n", err)
		return 1
	}

	sess.proc.as = as

	baseline := sess.pool.InUse()

	for addr := c.base.v; addr < c.base.v+c.size.v; addr += vm.PageSize {
		if err := vm.Fault(sess.proc, sess.tlb, sess.pool, vm.FaultMiss, addr); err != nil {
			fmt.Fprintf(out, "fault at 0x%x: %v\n", addr, err)
			return 1
		}
	}

	fmt.Fprintf(out, "frames in use after faulting the whole region: %d\n", sess.pool.InUse())

	vm.Destroy(as, sess.pool)

	fmt.Fprintf(out, "frames in use after destroy: %d (baseline was %d)\n", sess.pool.InUse(), baseline)

	return 0
}
