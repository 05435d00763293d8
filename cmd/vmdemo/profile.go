package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"time"

	"github.com/google/pprof/driver"
	"github.com/google/pprof/profile"

	"github.com/gopher-vm/dumbvm/internal/klog"
	"github.com/gopher-vm/dumbvm/vm"
)

// profileCommand drives repeated fault/copy/destroy cycles under
// runtime/pprof, then hands the resulting profile to pprof/driver.PProf
// so the interactive flame-graph UI can be served against it — the
// ordinary way google/pprof is consumed as a library rather than as the
// standalone `pprof` binary.
type profileCommand struct {
	fs       *flag.FlagSet
	cycles   *int
	frames   *int
	httpAddr *string
}

func newProfileCommand() *profileCommand {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)

	c := &profileCommand{fs: fs}
	c.cycles = fs.Int("cycles", 5000, "number of fault/copy/destroy cycles to profile")
	c.frames = framesFlag(fs)
	c.httpAddr = fs.String("http", "localhost:0", "address for the pprof web UI")

	return c
}

func (c *profileCommand) FlagSet() *flag.FlagSet { return c.fs }

func (c *profileCommand) Description() string {
	return "profile repeated fault/copy/destroy cycles and serve the pprof web UI"
}

func (c *profileCommand) Run(_ context.Context, _ []string, out io.Writer, log *klog.Logger) int {
	sess := newSession(*c.frames)
	as := vm.Create(log)

	if err := vm.DefineRegion(as, 0x00400000, vm.PageSize*8, true, true, false); err != nil {
		fmt.Fprintf(out, "define region: %v\n", err)
		return 1
	}

	sess.proc.as = as

	var buf bytes.Buffer
	if err := pprof.StartCPUProfile(&buf); err != nil {
		fmt.Fprintf(out, "start profile: %v\n", err)
		return 1
	}

	for i := 0; i < *c.cycles; i++ {
		addr := uintptr(0x00400000 + (i%8)*vm.PageSize)

		if err := vm.Fault(sess.proc, sess.tlb, sess.pool, vm.FaultMiss, addr); err != nil {
			continue
		}

		child, err := vm.Copy(sess.proc.as, sess.pool, log)
		if err == nil {
			vm.Destroy(child, sess.pool)
		}
	}

	pprof.StopCPUProfile()

	prof, err := profile.Parse(&buf)
	if err != nil {
		fmt.Fprintf(out, "parse profile: %v\n", err)
		return 1
	}

	fmt.Fprintf(out, "captured %d samples over %d cycles; serving UI on %s\n",
		len(prof.Sample), *c.cycles, *c.httpAddr)

	fetcher := capturedProfileFetcher{profile: prof}

	// driver.PProf parses its own flags from os.Args[1:] when
	// Options.Flagset is nil; since our Fetch ignores the source
	// argument entirely, any single positional token satisfies it.
	os.Args = []string{"vmdemo", "-http=" + *c.httpAddr, "captured"}

	if err := driver.PProf(&driver.Options{Fetch: fetcher}); err != nil {
		fmt.Fprintf(out, "pprof driver: %v\n", err)
		return 1
	}

	return 0
}

// capturedProfileFetcher implements driver.Fetcher over a profile
// already captured in memory, instead of fetching one from a file or URL.
type capturedProfileFetcher struct {
	profile *profile.Profile
}

func (f capturedProfileFetcher) Fetch(src string, duration, timeout time.Duration) (*profile.Profile, string, error) {
	return f.profile, "vmdemo", nil
}
