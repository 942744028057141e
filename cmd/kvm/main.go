package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/afero"

	"github.com/itsallnoise/kontakt-version-manager/internal/cli"
	"github.com/itsallnoise/kontakt-version-manager/internal/kvm"
	"github.com/itsallnoise/kontakt-version-manager/internal/kvm/paths"
)

var exitFunc = os.Exit

func main() {
	exitFunc(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code. Rejected requests
// have already printed their report, so only other errors are echoed.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	level := &slog.LevelVar{}
	level.Set(slog.LevelWarn)
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	configDir, err := paths.ResolveConfigDir()
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to resolve config directory: %v\n", err)
		return 1
	}

	mgr := kvm.NewManager(afero.NewOsFs(), kvm.Options{
		ConfigDir: configDir,
		Logger:    logger,
	})
	root := cli.NewRootCommand(mgr, cli.NewPromptUIWithIO(stdin, stdout), stdout, stderr, level)
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		if !errors.Is(err, cli.ErrRejected) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}
