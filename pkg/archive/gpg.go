package archive

import (
	"bufio"
	stderrors "errors"
	"io"
	"os/exec"
	"strings"

	"github.com/arthur-debert/dotfiles/pkg/errors"
	"github.com/arthur-debert/dotfiles/pkg/logging"
)

// Encrypter turns a file into an encrypted file and back.
type Encrypter interface {
	// Name identifies the backend in messages and errors
	Name() string
	Encrypt(in, out, recipient string) error
	Decrypt(in, out string) error
}

// Runner runs an external command. Each line the command writes to stdout
// or stderr is passed to line as it arrives. A command that starts and
// exits non-zero is not an error: its status is returned.
type Runner interface {
	Run(name string, args []string, stdin io.Reader, line func(string)) (int, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run starts name and streams its combined output.
func (ExecRunner) Run(name string, args []string, stdin io.Reader, line func(string)) (int, error) {
	cmd := exec.Command(name, args...)
	cmd.Stdin = stdin

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return -1, err
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return -1, err
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		if line != nil {
			line(strings.TrimRight(scanner.Text(), " \t\r"))
		}
	}

	err = cmd.Wait()
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return -1, err
	}
	return 0, nil
}

// GPG encrypts with the gpg command line tool.
type GPG struct {
	// Binary is the gpg executable, "gpg" when empty
	Binary string

	// Runner defaults to ExecRunner
	Runner Runner

	// Passphrase, when set, is fed to gpg on stdin for decryption
	Passphrase string

	// Output receives gpg's output lines
	Output func(string)
}

// Name returns "gpg"
func (g *GPG) Name() string { return "gpg" }

// Encrypt runs gpg -o out -r recipient -e in.
func (g *GPG) Encrypt(in, out, recipient string) error {
	return g.run(errors.ErrEncrypt, nil, "-o", out, "-r", recipient, "-e", in)
}

// Decrypt runs gpg -o out -d in.
func (g *GPG) Decrypt(in, out string) error {
	if g.Passphrase != "" {
		return g.run(errors.ErrDecrypt, strings.NewReader(g.Passphrase+"\n"),
			"--batch", "--yes", "--pinentry-mode", "loopback", "--passphrase-fd", "0",
			"-o", out, "-d", in)
	}
	return g.run(errors.ErrDecrypt, nil, "-o", out, "-d", in)
}

func (g *GPG) run(code errors.ErrorCode, stdin io.Reader, args ...string) error {
	logger := logging.GetLogger("archive.gpg")

	binary := g.Binary
	if binary == "" {
		binary = "gpg"
	}
	runner := g.Runner
	if runner == nil {
		runner = ExecRunner{}
	}

	logger.Debug().Str("binary", binary).Strs("args", args).Msg("running")
	status, err := runner.Run(binary, args, stdin, g.Output)
	if err != nil {
		return errors.Wrapf(err, code, "failed to run %s", binary)
	}
	if status != 0 {
		logger.Warn().Int("status", status).Msg("gpg failed")
		return errors.ExternalTool(binary, status)
	}
	return nil
}
