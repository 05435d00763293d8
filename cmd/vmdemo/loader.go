package main

import (
	"context"
	"encoding/binary"
	"flag"
	"fmt"
	"io"

	"golang.org/x/arch/mips64asm"

	"github.com/gopher-vm/dumbvm/internal/klog"
	"github.com/gopher-vm/dumbvm/vm"
)

// loaderCommand replays the prepare_load/fault/complete_load sequence
// spec.md §4.4 describes for an ELF loader copying a program's text
// segment into a read-only region. It disassembles the first instruction
// word it writes with mips64asm.Decode and logs the mnemonic, the one
// domain dependency in the pack that actually matches this core's ISA.
type loaderCommand struct {
	fs   *flag.FlagSet
	base *uintptrFlag
}

// program is a stand-in for an ELF text segment: a handful of plausible
// MIPS words (NOPs, a load, and a jump), written once at the start of the
// demo page.
var program = []uint32{
	0x00000000, // sll $0,$0,0  (nop)
	0x8c820000, // lw $2,0($4)
	0x00000008, // jr $0
	0x00000000, // sll $0,$0,0  (delay slot nop)
}

func newLoaderCommand() *loaderCommand {
	fs := flag.NewFlagSet("load", flag.ContinueOnError)

	c := &loaderCommand{fs: fs}
	c.base = newUintptrFlag(fs, "base", 0x00400000, "base virtual address of the text region")

	return c
}

func (c *loaderCommand) FlagSet() *flag.FlagSet { return c.fs }

func (c *loaderCommand) Description() string {
	return "simulate an ELF loader writing into a read-only text region"
}

func (c *loaderCommand) Run(_ context.Context, _ []string, out io.Writer, log *klog.Logger) int {
	sess := newSession(64)

	as := vm.Create(log)
	if err := vm.DefineRegion(as, c.base.v, vm.PageSize, true, false, true); err != nil {
		fmt.Fprintf(out, "define text region: %v\n", err)
		return 1
	}

	sess.proc.as = as

	if err := vm.PrepareLoad(as); err != nil {
		fmt.Fprintf(out, "prepare load: %v\n", err)
		return 1
	}

	if err := vm.Fault(sess.proc, sess.tlb, sess.pool, vm.FaultMiss, c.base.v); err != nil {
		fmt.Fprintf(out, "fault during load: %v\n", err)
		return 1
	}

	_, lo, _ := sess.tlb.Lookup(uint32(c.base.v))
	page := sess.pool.Access(vm.Frame(lo >> vm.PageShift))

	for i, word := range program {
		binary.BigEndian.PutUint32(page[i*4:], word)
	}

	fmt.Fprintln(out, "wrote text segment, disassembling the first instruction:")

	inst, err := mips64asm.Decode(page[:4], binary.BigEndian)
	if err != nil {
		log.Warn("decode failed", "err", err)
		fmt.Fprintf(out, "  <undecodable: %v>\n", err)
	} else {
		log.Info("decoded loader instruction", "mnemonic", inst.String())
		fmt.Fprintf(out, "  %s\n", inst.String())
	}

	if err := vm.CompleteLoad(as, sess.tlb); err != nil {
		fmt.Fprintf(out, "complete load: %v\n", err)
		return 1
	}

	fmt.Fprintln(out, "load complete; text region is read-only again")

	return 0
}
