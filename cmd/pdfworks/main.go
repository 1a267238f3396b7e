package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/Epistemic-Technology/pdfworks/internal/cli"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	root := cli.NewRootCmd(version)

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}
