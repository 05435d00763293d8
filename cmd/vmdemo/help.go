package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/gopher-vm/dumbvm/internal/cli"
	"github.com/gopher-vm/dumbvm/internal/klog"
)

type helpCommand struct {
	fs       *flag.FlagSet
	commands []cli.Command
}

func newHelpCommand() *helpCommand {
	return &helpCommand{fs: flag.NewFlagSet("help", flag.ContinueOnError)}
}

func (h *helpCommand) FlagSet() *flag.FlagSet { return h.fs }

func (h *helpCommand) Description() string {
	return "list the available sub-commands"
}

func (h *helpCommand) Run(_ context.Context, _ []string, out io.Writer, _ *klog.Logger) int {
	fmt.Fprintln(out, "vmdemo: a hosted harness over the vm package's virtual memory core")
	fmt.Fprintln(out, "usage: vmdemo <command> [flags]")
	fmt.Fprintln(out)

	for _, cmd := range h.commands {
		fmt.Fprintf(out, "  %-10s %s\n", cmd.FlagSet().Name(), cmd.Description())
	}

	return 0
}
