package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/dotfiles/pkg/archive"
	"github.com/arthur-debert/dotfiles/pkg/config"
	"github.com/arthur-debert/dotfiles/pkg/errors"
	"github.com/arthur-debert/dotfiles/pkg/output"
	"github.com/spf13/cobra"
)

// newEncrypter is replaced in tests to avoid running gpg.
var newEncrypter = func(env *environment, reporter *output.Reporter) (archive.Encrypter, error) {
	crypt := env.settings.Crypt
	passphrase := os.Getenv(archive.PassphraseEnv)

	switch crypt.Backend {
	case config.BackendOpenPGP:
		return &archive.OpenPGP{
			PublicKeyring: env.paths.ExpandUser(crypt.PublicKeyring),
			SecretKeyring: env.paths.ExpandUser(crypt.SecretKeyring),
			Passphrase:    []byte(passphrase),
		}, nil
	case config.BackendGPG, "":
		return &archive.GPG{
			Binary:     crypt.GPGBinary,
			Passphrase: passphrase,
			Output:     reporter.Line,
		}, nil
	}
	return nil, errors.Newf(errors.ErrInvalidInput, "unknown crypt backend %q", crypt.Backend)
}

type cryptdirOptions struct {
	decrypt bool
	recip   string
	backend string
}

func newCryptdirCmd() *cobra.Command {
	opts := &cryptdirOptions{}

	cmd := &cobra.Command{
		Use:     "cryptdir PATH",
		Short:   MsgCryptdirShort,
		Long:    MsgCryptdirLong,
		Example: MsgCryptdirExample,
		Args:    cobra.ExactArgs(1),
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCryptdir(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.decrypt, "decrypt", "d", false, MsgFlagDecrypt)
	cmd.Flags().StringVarP(&opts.recip, "recip", "r", "", MsgFlagRecip)
	cmd.Flags().StringVar(&opts.backend, "backend", "", MsgFlagBackend)
	return cmd
}

func runCryptdir(cmd *cobra.Command, path string, opts *cryptdirOptions) error {
	env, err := loadEnvironment("", map[string]interface{}{
		"crypt.recipient": opts.recip,
		"crypt.backend":   opts.backend,
	})
	if err != nil {
		return err
	}

	recipient := env.settings.Crypt.Recipient
	if !opts.decrypt && recipient == "" {
		stderr := cmd.ErrOrStderr()
		fmt.Fprintln(stderr, formatRed(stderr, MsgNoRecipient))
		cmd.SetOut(stderr)
		_ = cmd.Help()
		return reported(errors.New(errors.ErrInvalidInput, MsgNoRecipient))
	}

	reporter := output.NewReporter(cmd.OutOrStdout(), env.settings.Color, false)
	encrypter, err := newEncrypter(env, reporter)
	if err != nil {
		return err
	}

	crypt := &archive.CryptDir{Encrypter: encrypter, Reporter: reporter}
	if opts.decrypt {
		_, err = crypt.Decrypt(path)
	} else {
		_, err = crypt.Encrypt(path, recipient)
	}
	return err
}

func newMkarchiveCmd() *cobra.Command {
	var dest string

	cmd := &cobra.Command{
		Use:     "mkarchive PATH",
		Short:   MsgMkarchiveShort,
		Long:    MsgMkarchiveLong,
		Args:    cobra.ExactArgs(1),
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMkarchive(cmd.OutOrStdout(), args[0], dest)
		},
	}
	cmd.Flags().StringVarP(&dest, "dest", "d", "", MsgFlagDest)
	return cmd
}

func runMkarchive(out io.Writer, target, dest string) error {
	env, err := loadEnvironment("", map[string]interface{}{"archive.dest": dest})
	if err != nil {
		return err
	}

	archiver := &archive.DatedArchiver{
		Dest:     env.paths.ExpandUser(env.settings.Archive.Dest),
		Home:     env.paths.Home(),
		Clock:    clock,
		Reporter: output.NewReporter(out, env.settings.Color, false),
	}
	_, err = archiver.Archive(target)
	return err
}
