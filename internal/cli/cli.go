// Package cli contains the vmdemo command-line interface.
//
// Grounded on smoynes-elsie/internal/cli/cli.go's Command/Commander
// pattern: every sub-command owns its own flag.FlagSet, and a Commander
// dispatches the first argument to whichever sub-command claims it.
package cli

import (
	"context"
	"flag"
	"io"
	"os"

	"github.com/gopher-vm/dumbvm/internal/klog"
)

// Command represents one vmdemo sub-command.
type Command interface {
	// FlagSet returns the flags this command accepts; FlagSet().Name()
	// is also the sub-command's dispatch name.
	FlagSet() *flag.FlagSet

	// Description returns a one-line summary for the help command.
	Description() string

	// Run executes the command. It returns a process exit code.
	Run(ctx context.Context, args []string, out io.Writer, log *klog.Logger) int
}

// Commander dispatches a sub-command by name.
type Commander struct {
	ctx context.Context
	log *klog.Logger

	help     Command
	commands []Command
}

// New creates a Commander bound to ctx.
func New(ctx context.Context) *Commander {
	return &Commander{ctx: ctx, log: klog.Default()}
}

// WithCommands registers the sub-commands a Commander can dispatch to.
func (c *Commander) WithCommands(cmds []Command) *Commander {
	c.commands = append([]Command(nil), cmds...)
	return c
}

// WithHelp configures the fallback command used when no argument is
// given or none match.
func (c *Commander) WithHelp(cmd Command) *Commander {
	c.help = cmd
	return c
}

// Execute finds the sub-command named by args[0] and runs it with the
// remaining arguments.
func (c *Commander) Execute(args []string) int {
	if len(args) == 0 {
		return c.help.Run(c.ctx, nil, os.Stdout, c.log)
	}

	found := c.help
	for _, cmd := range c.commands {
		if args[0] == cmd.FlagSet().Name() {
			found = cmd
		}
	}

	fs := found.FlagSet()
	if err := fs.Parse(args[1:]); err != nil {
		c.log.Warn("flag parse error", "err", err)
		return 1
	}

	return found.Run(c.ctx, fs.Args(), os.Stdout, c.log)
}

// Commands exposes the registered sub-commands, e.g. for a help command
// to list them.
func (c *Commander) Commands() []Command {
	return c.commands
}
