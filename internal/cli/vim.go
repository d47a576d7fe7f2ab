package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/arthur-debert/dotfiles/pkg/filesystem"
	"github.com/arthur-debert/dotfiles/pkg/paths"
	"github.com/arthur-debert/dotfiles/pkg/variant"
	"github.com/spf13/cobra"
)

func newVimCmd() *cobra.Command {
	var ide bool

	cmd := &cobra.Command{
		Use:     "vim",
		Short:   MsgVimShort,
		Long:    MsgVimLong,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVim(cmd.OutOrStdout(), ide)
		},
	}
	cmd.Flags().BoolVarP(&ide, "ide", "i", false, MsgFlagIDE)
	return cmd
}

func runVim(out io.Writer, ide bool) error {
	home, err := paths.GetHomeDirectory()
	if err != nil {
		return err
	}

	result, err := variant.SwitchVim(filesystem.NewOS(), filepath.Join(home, ".vim"), ide)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, MsgVimSwitched, result.Target)
	if result.Missing {
		fmt.Fprintf(out, MsgVimNotPresent, filepath.Join(paths.ContractHome(home, filepath.Dir(result.Link)), result.Target))
	}
	return nil
}
