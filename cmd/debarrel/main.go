package main

import (
	"context"
	"io"
	"os"

	"github.com/debarrel/debarrel/internal/app"
	"github.com/debarrel/debarrel/internal/cli"
)

var exitFunc = os.Exit

func run(args []string, out, errOut io.Writer) int {
	runner := app.New(out)
	commandLine := cli.New(runner, out, errOut)
	return commandLine.Run(context.Background(), args)
}

func main() {
	exitFunc(run(os.Args[1:], os.Stdout, os.Stderr))
}
