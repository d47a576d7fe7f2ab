package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/dotfiles/pkg/errors"
)

// Environment variable names
const (
	// EnvSource overrides the dotfiles source tree
	EnvSource = "DOTFILES_SOURCE"

	// EnvConfigDir overrides the XDG config directory for dotfiles
	EnvConfigDir = "DOTFILES_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory for dotfiles
	EnvStateDir = "DOTFILES_STATE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// AppName names the XDG subdirectories and the config file
	AppName = "dotfiles"

	// ConfigFileName is the link configuration file
	ConfigFileName = AppName + ".yaml"

	// SettingsFileName holds optional user settings
	SettingsFileName = "settings.toml"

	// LogFileName is the name of the log file
	LogFileName = AppName + ".log"

	// LockFileName guards against concurrent installs
	LockFileName = AppName + ".lock"

	// DefaultSource is the dotfiles source tree relative to home
	DefaultSource = "~/.dotfiles/src"

	// DefaultArchiveDir is where mkarchive stores archives
	DefaultArchiveDir = "~/Documents/Archive"
)

// Paths resolves every location the tool reads or writes.
type Paths struct {
	home      string
	source    string
	configDir string
	stateDir  string
}

// New creates a Paths instance. An empty source falls back to
// DOTFILES_SOURCE and then to DefaultSource.
func New(source string) (*Paths, error) {
	home, err := GetHomeDirectory()
	if err != nil {
		return nil, err
	}
	return NewWithHome(home, source)
}

// NewWithHome is New with an explicit home directory.
func NewWithHome(home, source string) (*Paths, error) {
	if home == "" {
		return nil, errors.New(errors.ErrInvalidInput, "home directory must not be empty")
	}
	p := &Paths{home: filepath.Clean(home)}

	if source == "" {
		source = os.Getenv(EnvSource)
	}
	if source == "" {
		source = DefaultSource
	}
	absSource, err := filepath.Abs(p.ExpandUser(source))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for source %s", source)
	}
	p.source = absSource

	if dir := os.Getenv(EnvConfigDir); dir != "" {
		p.configDir = p.ExpandUser(dir)
	} else {
		p.configDir = filepath.Join(xdg.ConfigHome, AppName)
	}

	if dir := os.Getenv(EnvStateDir); dir != "" {
		p.stateDir = p.ExpandUser(dir)
	} else {
		p.stateDir = filepath.Join(xdg.StateHome, AppName)
	}

	return p, nil
}

// Home returns the user's home directory
func (p *Paths) Home() string { return p.home }

// Source returns the absolute dotfiles source tree
func (p *Paths) Source() string { return p.source }

// ConfigDir returns the config directory
func (p *Paths) ConfigDir() string { return p.configDir }

// ConfigFile returns the link configuration file
func (p *Paths) ConfigFile() string { return filepath.Join(p.configDir, ConfigFileName) }

// SettingsFile returns the optional settings file
func (p *Paths) SettingsFile() string { return filepath.Join(p.configDir, SettingsFileName) }

// StateDir returns the state directory
func (p *Paths) StateDir() string { return p.stateDir }

// LogFile returns the log file path
func (p *Paths) LogFile() string { return filepath.Join(p.stateDir, LogFileName) }

// LockFile returns the run lock path
func (p *Paths) LockFile() string { return filepath.Join(p.stateDir, LockFileName) }

// DefaultArchiveDir returns the expanded default archive destination
func (p *Paths) DefaultArchiveDir() string { return p.ExpandUser(DefaultArchiveDir) }

// ExpandUser expands a leading ~ against this instance's home directory.
func (p *Paths) ExpandUser(path string) string {
	return ExpandUser(p.home, path)
}

// ContractHome replaces a leading home directory with ~ for display.
func (p *Paths) ContractHome(path string) string {
	return ContractHome(p.home, path)
}

// ExpandUser replaces a leading "~" or "~/" with home. Only the prefix is
// touched: the remainder is kept byte for byte, so "~/." becomes "<home>/."
// and callers may append a name directly.
func ExpandUser(home, path string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return home + path[1:]
	}
	return path
}

// ContractHome replaces a leading home in path with ~.
func ContractHome(home, path string) string {
	if home == "" {
		return path
	}
	if path == home {
		return "~"
	}
	prefix := home + string(filepath.Separator)
	if strings.HasPrefix(path, prefix) {
		return "~" + string(filepath.Separator) + strings.TrimPrefix(path, prefix)
	}
	return path
}

// GetHomeDirectory returns the user's home directory.
// HOME wins so tests and sandboxes can redirect it, then os.UserHomeDir().
func GetHomeDirectory() (string, error) {
	if homeDir := os.Getenv(EnvHome); homeDir != "" {
		return homeDir, nil
	}

	homeDir, err := os.UserHomeDir()
	if err == nil && homeDir != "" {
		return homeDir, nil
	}

	return "", errors.New(errors.ErrFileAccess, "unable to determine home directory: neither HOME nor os.UserHomeDir() are available")
}
