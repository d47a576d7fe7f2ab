package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/arthur-debert/dotfiles/internal/version"
	"github.com/arthur-debert/dotfiles/pkg/config"
	"github.com/arthur-debert/dotfiles/pkg/errors"
	"github.com/arthur-debert/dotfiles/pkg/filesystem"
	"github.com/arthur-debert/dotfiles/pkg/linker"
	"github.com/arthur-debert/dotfiles/pkg/logging"
	"github.com/arthur-debert/dotfiles/pkg/output"
	"github.com/arthur-debert/dotfiles/pkg/paths"
	"github.com/arthur-debert/dotfiles/pkg/planner"
	"github.com/arthur-debert/dotfiles/pkg/runlock"
	"github.com/arthur-debert/dotfiles/pkg/types"
	"github.com/spf13/cobra"
)

// clock stamps backups and archives; tests replace it.
var clock types.Clock = types.SystemClock{}

type installOptions struct {
	init   bool
	force  bool
	dry    bool
	source string
	copy   bool
	color  string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var verbosity int
	opts := &installOptions{}

	initTemplateFormatting()

	rootCmd := &cobra.Command{
		Use:     "dotfiles",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgRootExample,
		Version: version.Version,
		Args:    cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity, logFile())
			logging.LogCommand(cmd.CommandPath(), args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd.OutOrStdout(), opts)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)

	flags := rootCmd.Flags()
	flags.BoolVarP(&opts.init, "init", "i", false, MsgFlagInit)
	flags.BoolVarP(&opts.force, "force", "f", false, MsgFlagForce)
	flags.BoolVarP(&opts.dry, "dry", "d", false, MsgFlagDry)
	flags.StringVar(&opts.source, "source", "", MsgFlagSource)
	flags.BoolVar(&opts.copy, "copy", false, MsgFlagCopy)
	flags.StringVar(&opts.color, "color", "", MsgFlagColor)

	rootCmd.AddGroup(
		&cobra.Group{ID: "core", Title: "Commands:"},
		&cobra.Group{ID: "misc", Title: "Misc:"},
	)
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newCryptdirCmd())
	rootCmd.AddCommand(newMkarchiveCmd())
	rootCmd.AddCommand(newVimCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// logFile returns the log path in the state directory, or "" when the
// paths cannot be resolved.
func logFile() string {
	p, err := paths.New("")
	if err != nil {
		return ""
	}
	return p.LogFile()
}

// environment is what every subcommand resolves before doing any work.
type environment struct {
	paths    *paths.Paths
	settings *config.Settings
}

// loadEnvironment resolves paths and settings. A source given on the
// command line wins over the settings file and DOTFILES_SOURCE.
func loadEnvironment(source string, overrides map[string]interface{}) (*environment, error) {
	p, err := paths.New(source)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, MsgErrInitPaths)
	}

	if overrides == nil {
		overrides = map[string]interface{}{}
	}
	overrides["source"] = source

	settings, err := config.LoadSettings(p.SettingsFile(), overrides)
	if err != nil {
		return nil, err
	}

	if source == "" && settings.Source != paths.DefaultSource {
		if p, err = paths.New(settings.Source); err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, MsgErrInitPaths)
		}
	}

	return &environment{paths: p, settings: settings}, nil
}

func runInstall(out io.Writer, opts *installOptions) error {
	logger := logging.GetLogger("cli.install")

	overrides := map[string]interface{}{"color": opts.color}
	if opts.copy {
		overrides["link_mode"] = config.LinkModeCopy
	}
	env, err := loadEnvironment(opts.source, overrides)
	if err != nil {
		return err
	}

	loaded, err := config.Load(env.paths.ConfigFile(), opts.force)
	if err != nil {
		return err
	}
	if opts.init {
		if loaded.Created {
			fmt.Fprintln(out, MsgCreatedConf)
			fmt.Fprintln(out, loaded.Path)
		}
		return nil
	}

	if !opts.dry {
		lock, err := runlock.Acquire(env.paths.LockFile())
		if err != nil {
			return err
		}
		defer lock.Release()
	}

	fsys := filesystem.NewOS()
	strategy, err := linker.SelectStrategy(env.settings.LinkMode, runtime.GOOS, fsys)
	if err != nil {
		return err
	}

	run := types.NewRunContext(env.paths.Home(), env.paths.Source(), opts.dry, clock, out)
	reporter := output.NewReporter(out, env.settings.Color, opts.dry)
	installer := linker.NewInstaller(run, fsys, strategy, reporter)

	summary, err := planner.New(run.Home, run.Source, installer).Run(loaded.Config)
	if err != nil {
		return err
	}
	reporter.Finish()

	logger.Info().
		Int("requests", summary.Requests).
		Int("source_missing", summary.Count(types.OutcomeSourceMissing)).
		Int("parent_missing", summary.Count(types.OutcomeDestinationParentMissing)).
		Msg("install finished")
	return nil
}
