package main

import (
	"context"
	"os"

	"github.com/gopher-vm/dumbvm/internal/cli"
)

func main() {
	help := newHelpCommand()

	commands := []cli.Command{
		newCreateCommand(),
		newLoaderCommand(),
		newFaultCommand(),
		newForkCommand(),
		newDestroyCommand(),
		newStatCommand(),
		newMonitorCommand(),
		newProfileCommand(),
		help,
	}

	help.commands = commands

	commander := cli.New(context.Background()).
		WithCommands(commands).
		WithHelp(help)

	os.Exit(commander.Execute(os.Args[1:]))
}
