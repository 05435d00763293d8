package main

import (
	"context"
	"flag"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/gopher-vm/dumbvm/internal/klog"
	"github.com/gopher-vm/dumbvm/vm"
)

// statCommand faults in a batch of pages and prints frame-pool occupancy
// with locale-aware thousands grouping, making the P3 no-leak property
// legible at pool sizes too large to eyeball.
type statCommand struct {
	fs     *flag.FlagSet
	frames *int
	pages  *int
}

func newStatCommand() *statCommand {
	fs := flag.NewFlagSet("stat", flag.ContinueOnError)

	c := &statCommand{fs: fs}
	c.frames = fs.Int("frames", 20_000, "number of physical frames in the demo pool")
	c.pages = fs.Int("pages", 12_345, "number of pages to fault in before reporting")

	return c
}

func (c *statCommand) FlagSet() *flag.FlagSet { return c.fs }

func (c *statCommand) Description() string {
	return "fault in a batch of pages and report frame-pool occupancy"
}

func (c *statCommand) Run(_ context.Context, _ []string, out io.Writer, log *klog.Logger) int {
	sess := newSession(*c.frames)

	as := vm.Create(log)
	base := uintptr(0x00400000)
	size := uintptr(*c.pages) * vm.PageSize

	if err := vm.DefineRegion(as, base, size, true, true, false); err != nil {
		p := message.NewPrinter(language.English)
		p.Fprintf(out, "define region: %v\n", err)

		return 1
	}

	sess.proc.as = as

	for i := 0; i < *c.pages; i++ {
		addr := base + uintptr(i)*vm.PageSize
		if err := vm.Fault(sess.proc, sess.tlb, sess.pool, vm.FaultMiss, addr); err != nil {
			message.NewPrinter(language.English).Fprintf(out, "fault at page %d: %v\n", i, err)
			return 1
		}
	}

	p := message.NewPrinter(language.English)
	p.Fprintf(out, "frames in use:  %v\n", number.Decimal(sess.pool.InUse()))
	p.Fprintf(out, "frames total:   %v\n", number.Decimal(sess.pool.Total()))
	p.Fprintf(out, "bytes resident: %v\n", number.Decimal(sess.pool.InUse()*vm.PageSize))

	return 0
}
