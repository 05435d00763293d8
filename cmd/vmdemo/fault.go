package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/gopher-vm/dumbvm/internal/klog"
	"github.com/gopher-vm/dumbvm/vm"
)

// faultCommand defines one writable region, then resolves a TLB-miss
// fault inside it, printing the installed entry (spec.md §8 scenario 1).
type faultCommand struct {
	fs     *flag.FlagSet
	frames *int
	base   *uintptrFlag
	size   *uintptrFlag
	addr   *uintptrFlag
}

func newFaultCommand() *faultCommand {
	fs := flag.NewFlagSet("fault", flag.ContinueOnError)

	c := &faultCommand{fs: fs}
	c.frames = framesFlag(fs)
	c.base = newUintptrFlag(fs, "base", 0x00400000, "base virtual address of the region")
	c.size = newUintptrFlag(fs, "size", vm.PageSize*4, "size of the region")
	c.addr = newUintptrFlag(fs, "addr", 0x00400010, "faulting address")

	return c
}

func (c *faultCommand) FlagSet() *flag.FlagSet { return c.fs }

func (c *faultCommand) Description() string {
	return "resolve a single TLB-miss fault and print the installed entry"
}

func (c *faultCommand) Run(_ context.Context, _ []string, out io.Writer, log *klog.Logger) int {
	sess := newSession(*c.frames)

	as := vm.Create(log)
	if err := vm.DefineRegion(as, c.base.v, c.size.v, true, true, false); err != nil {
		fmt.Fprintf(out, "define region: %v\n", err)
		return 1
	}

	sess.proc.as = as

	if err := vm.Fault(sess.proc, sess.tlb, sess.pool, vm.FaultMiss, c.addr.v); err != nil {
		fmt.Fprintf(out, "fault: %v\n", err)
		return 1
	}

	hi, lo, ok := sess.tlb.Lookup(uint32(c.addr.v &^ (vm.PageSize - 1)))
	if !ok {
		fmt.Fprintln(out, "fault resolved but no TLB entry found (unexpected)")
		return 1
	}

	fmt.Fprintf(out, "installed TLB entry: ehi=0x%08x elo=0x%08x\n", hi, lo)
	fmt.Fprintf(out, "frames in use: %d/%d\n", sess.pool.InUse(), sess.pool.Total())

	return 0
}
