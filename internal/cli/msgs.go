package cli

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Link dotfiles from a source tree into your home directory"
	MsgVersionShort    = "Print version information"
	MsgVersionLong     = "Print detailed version information including commit hash and build date"
	MsgStatusShort     = "Show the state of every configured link"
	MsgCryptdirShort   = "Compress and encrypt a path, or decrypt and extract it"
	MsgMkarchiveShort  = "Store a tarball of a path in a dated archive directory"
	MsgVimShort        = "Switch ~/.vim/vimrc between the base and IDE variants"
	MsgCompletionShort = "Generate shell completion script"

	// Results
	MsgCreatedConf   = "created default conf:"
	MsgNoRecipient   = "Cannot encrypt directory without a recipient"
	MsgVimSwitched   = "vim now reads %s\n"
	MsgVimNotPresent = "note: %s does not exist yet\n"

	// Version output
	MsgVersionFormat = "dotfiles version %s\n"
	MsgCommitFormat  = "Commit: %s\n"
	MsgBuiltFormat   = "Built:  %s\n"

	// Error messages
	MsgErrInitPaths    = "failed to initialize paths"
	MsgErrUnknownShell = "unknown shell %q"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagInit     = "Only create the default config, do not link anything"
	MsgFlagForce    = "Overwrite the existing config with the defaults"
	MsgFlagDry      = "Print what would be done without changing any file"
	MsgFlagSource   = "Dotfiles source tree (default ~/.dotfiles/src)"
	MsgFlagCopy     = "Copy files instead of symlinking them"
	MsgFlagColor    = "Color output: auto, always or never"
	MsgFlagDecrypt  = "Decrypt PATH instead of encrypting it"
	MsgFlagRecip    = "Recipient key-holder"
	MsgFlagBackend  = "Encryption backend: gpg or openpgp"
	MsgFlagDest     = "Destination directory for the archive"
	MsgFlagIDE      = "Link the IDE variant"
)

// Long messages
const (
	MsgRootLong = `dotfiles links a source-controlled dotfiles tree into your home directory.

The links are described in dotfiles.yaml in your config directory, which is
created with sensible defaults on the first run. Anything already sitting at
a destination is renamed with a timestamp suffix before the link is made, so
nothing is ever deleted. Broken links are replaced in place.`

	MsgRootExample = `  # Link everything
  dotfiles

  # See what would happen
  dotfiles --dry

  # Write the default config and stop
  dotfiles --init`

	MsgStatusLong = `Status walks the configured links without changing anything and reports,
for each destination, whether it is ABSENT, LINKED to its source, OCCUPIED by
something else, or a BROKEN_LINK.`

	MsgCryptdirLong = `Encrypting turns PATH into PATH.tar.gz.gpg: PATH is compressed, the tarball
is encrypted for the recipient, and each input is removed once the next
step succeeds. Decrypting reverses this for a PATH ending in .tar.gz.gpg.

A failing gpg makes this command exit with gpg's own exit status.`

	MsgCryptdirExample = `  dotfiles cryptdir ~/secrets -r me@example.com
  dotfiles cryptdir ~/secrets.tar.gz.gpg -d`

	MsgMkarchiveLong = `Mkarchive compresses PATH and moves the tarball to
DEST/YYYY/MM/DD/HH:MM:SS.<name>.tar.gz, creating the dated directories.`

	MsgVimLong = `Vim reads ~/.vim/vimrc, which is a relative link to rc/vimrc.vim. With
--ide it points to rc/vimide.vim instead.`

	MsgCompletionLong = `To load completions:

Bash:
  $ source <(dotfiles completion bash)

Zsh:
  $ dotfiles completion zsh > "${fpath[1]}/_dotfiles"

Fish:
  $ dotfiles completion fish | source

PowerShell:
  PS> dotfiles completion powershell | Out-String | Invoke-Expression`
)

// MsgUsageTemplate is the cobra usage template.
const MsgUsageTemplate = `{{boldUpper "usage"}}:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

{{boldUpper "aliases"}}:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

{{boldUpper "examples"}}:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}

{{boldUpper "commands"}}:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

{{boldUpper "flags"}}:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

{{boldUpper "global flags"}}:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}
`
