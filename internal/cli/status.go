package cli

import (
	stderrors "errors"
	"io"
	"io/fs"
	"os"

	"github.com/arthur-debert/dotfiles/pkg/config"
	"github.com/arthur-debert/dotfiles/pkg/errors"
	"github.com/arthur-debert/dotfiles/pkg/filesystem"
	"github.com/arthur-debert/dotfiles/pkg/linker"
	"github.com/arthur-debert/dotfiles/pkg/output"
	"github.com/arthur-debert/dotfiles/pkg/paths"
	"github.com/arthur-debert/dotfiles/pkg/planner"
	"github.com/arthur-debert/dotfiles/pkg/types"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		Long:    MsgStatusLong,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.OutOrStdout(), source)
		},
	}
	cmd.Flags().StringVar(&source, "source", "", MsgFlagSource)
	return cmd
}

func runStatus(out io.Writer, source string) error {
	env, err := loadEnvironment(source, nil)
	if err != nil {
		return err
	}

	cfg, err := readConfig(env.paths.ConfigFile())
	if err != nil {
		return err
	}

	inspector := linker.NewInspector(filesystem.NewOS())
	if _, err := planner.New(env.paths.Home(), env.paths.Source(), inspector).Run(cfg); err != nil {
		return err
	}

	rows := make([]output.StatusRow, 0, len(inspector.Results))
	for _, result := range inspector.Results {
		rows = append(rows, statusRow(env.paths.Home(), result))
	}
	return output.RenderStatus(out, rows)
}

// readConfig reads the link configuration without creating it; a missing
// file reports against the defaults.
func readConfig(path string) (*config.Configuration, error) {
	data, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read %s", path)
	}
	cfg, err := config.Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", path)
	}
	return cfg, nil
}

func statusRow(home string, result linker.Inspection) output.StatusRow {
	row := output.StatusRow{
		State:       string(result.State),
		Source:      paths.ContractHome(home, result.Request.Source),
		Destination: paths.ContractHome(home, result.Request.Destination),
	}
	switch {
	case result.SourceMissing:
		row.Note = "source missing"
	case result.State != types.StateLinked && result.Target != "":
		row.Note = "-> " + paths.ContractHome(home, result.Target)
	}
	return row
}
