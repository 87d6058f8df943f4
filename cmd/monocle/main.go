package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/3-lines-studio/monocle/internal/adapters/cli"
)

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, app *app, args []string) error
}

var commands = []command{
	{"items", "items [--format json|yaml] [--package KEY]", runItems},
	{"viewports", "viewports [--format json|yaml] [--package KEY]", runViewports},
	{"render", "render --prototype NAME [--package KEY] [--prop-set NAME] [--props JSON] [--locales JSON]", runRender},
	{"export", "export --package KEY [--locales JSON] [--out DIR]", runExport},
	{"serve", "serve [--listen ADDR]", runServe},
	{"browse", "browse [--package KEY]", runBrowse},
	{"doctor", "doctor", runDoctor},
}

func main() {
	output := cli.NewOutput()

	if len(os.Args) < 2 {
		printUsage(output)
		os.Exit(1)
	}

	name := os.Args[1]
	var cmd *command
	for i := range commands {
		if commands[i].name == name {
			cmd = &commands[i]
			break
		}
	}
	if cmd == nil {
		output.PrintError("Unknown command %q", name)
		printUsage(output)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApp(output)
	if err != nil {
		output.PrintError("%v", err)
		os.Exit(1)
	}

	if err := cmd.run(ctx, app, os.Args[2:]); err != nil {
		output.PrintError("%v", err)
		stop()
		os.Exit(1)
	}
}

func printUsage(output *cli.Output) {
	output.PrintHeader("Monocle")
	output.PrintStep("", "Usage: monocle <command> [flags]")
	fmt.Println()
	for _, cmd := range commands {
		output.PrintStep("", "monocle %s", cmd.usage)
	}
}
