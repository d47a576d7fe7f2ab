package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/dotfiles/internal/cli"
	"github.com/arthur-debert/dotfiles/pkg/errors"
)

func main() {
	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// gpg has already explained itself on the terminal
		if !cli.IsReported(err) && !errors.IsErrorCode(err, errors.ErrExternalTool) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(errors.ExitCode(err))
	}
}
