package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/gopher-vm/dumbvm/internal/klog"
	"github.com/gopher-vm/dumbvm/vm"
)

// monitorCommand is a single-step interactive debugger over one address
// space: the user drives Fault/PrepareLoad/CompleteLoad/Copy calls one at
// a time and inspects the region list and page-table occupancy between
// them. Grounded on smoynes-elsie/internal/tty's raw-mode Console setup,
// simplified to a line-oriented command loop (term.Terminal already
// handles echo and line editing once the fd is in raw mode).
type monitorCommand struct {
	fs     *flag.FlagSet
	frames *int
}

func newMonitorCommand() *monitorCommand {
	fs := flag.NewFlagSet("monitor", flag.ContinueOnError)

	c := &monitorCommand{fs: fs}
	c.frames = framesFlag(fs)

	return c
}

func (c *monitorCommand) FlagSet() *flag.FlagSet { return c.fs }

func (c *monitorCommand) Description() string {
	return "interactively step an address space through fault/load/fork/destroy"
}

func (c *monitorCommand) Run(ctx context.Context, _ []string, out io.Writer, log *klog.Logger) int {
	sess := newSession(*c.frames)
	sess.proc.as = vm.Create(log)

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		fmt.Fprintln(out, "stdin is not a terminal; reading commands line-by-line instead")
		return runMonitorLoop(sess, bufio.NewScanner(os.Stdin), out, out)
	}

	saved, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(out, "monitor: %v\n", err)
		return 1
	}

	defer term.Restore(fd, saved)

	t := term.NewTerminal(readWriter{os.Stdin, out}, "vmdemo> ")

	return runMonitorTerminal(sess, t, out)
}

// readWriter adapts a separate Reader and Writer to io.ReadWriter, the
// shape term.NewTerminal wants.
type readWriter struct {
	io.Reader
	io.Writer
}

func runMonitorTerminal(sess *session, t *term.Terminal, out io.Writer) int {
	fmt.Fprintln(out, "vmdemo monitor: fault <addr> | prepare | complete | fork | regions | destroy | quit")

	for {
		line, err := t.ReadLine()
		if err != nil {
			return 0
		}

		if handleMonitorCommand(sess, line, out) {
			return 0
		}
	}
}

func runMonitorLoop(sess *session, scan *bufio.Scanner, out io.Writer, _ io.Writer) int {
	fmt.Fprintln(out, "vmdemo monitor: fault <addr> | prepare | complete | fork | regions | destroy | quit")

	for scan.Scan() {
		if handleMonitorCommand(sess, scan.Text(), out) {
			return 0
		}
	}

	return 0
}

// handleMonitorCommand executes one monitor command line and reports
// whether the session should end.
func handleMonitorCommand(sess *session, line string, out io.Writer) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "quit", "exit":
		return true

	case "regions":
		printRegions(out, sess.proc.as)

	case "prepare":
		if err := vm.PrepareLoad(sess.proc.as); err != nil {
			fmt.Fprintf(out, "prepare: %v\n", err)
		}

	case "complete":
		if err := vm.CompleteLoad(sess.proc.as, sess.tlb); err != nil {
			fmt.Fprintf(out, "complete: %v\n", err)
		}

	case "fault":
		if len(fields) != 2 {
			fmt.Fprintln(out, "usage: fault <hex-addr>")
			break
		}

		addr, err := strconv.ParseUint(strings.TrimPrefix(fields[1], "0x"), 16, 64)
		if err != nil {
			fmt.Fprintf(out, "bad address: %v\n", err)
			break
		}

		if err := vm.Fault(sess.proc, sess.tlb, sess.pool, vm.FaultMiss, uintptr(addr)); err != nil {
			fmt.Fprintf(out, "fault: %v\n", err)
		} else {
			fmt.Fprintf(out, "fault resolved; frames in use: %d\n", sess.pool.InUse())
		}

	case "fork":
		child, err := vm.Copy(sess.proc.as, sess.pool, sess.log)
		if err != nil {
			fmt.Fprintf(out, "fork: %v\n", err)
			break
		}

		fmt.Fprintln(out, "forked; switching to the child address space")
		sess.proc.as = child

	case "destroy":
		vm.Destroy(sess.proc.as, sess.pool)
		fmt.Fprintf(out, "destroyed; frames in use: %d\n", sess.pool.InUse())

	default:
		fmt.Fprintf(out, "unrecognized command %q\n", fields[0])
	}

	return false
}
