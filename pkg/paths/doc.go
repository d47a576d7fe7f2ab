// Package paths provides centralized path handling for dotfiles.
//
// It resolves the home directory, the dotfiles source tree and the XDG
// directories used for the link configuration, the settings file, the
// log file and the run lock.
//
// # Environment Variables
//
//   - DOTFILES_SOURCE: dotfiles source tree (default: ~/.dotfiles/src)
//   - DOTFILES_CONFIG_DIR: override the config directory (default: $XDG_CONFIG_HOME/dotfiles)
//   - DOTFILES_STATE_DIR: override the state directory (default: $XDG_STATE_HOME/dotfiles)
//
// # Usage
//
//	p, err := paths.New("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	p.ConfigFile()          // ~/.config/dotfiles/dotfiles.yaml
//	p.ExpandUser("~/.")     // /home/user/.
package paths
