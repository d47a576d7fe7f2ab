// Package config handles the two configuration layers of dotfiles.
//
// The link configuration (dotfiles.yaml) declares which source paths are
// linked to which destinations. It is decoded from the YAML node tree so
// that declaration order survives: directories must be linked before the
// files that are sourced through them.
//
// Settings (settings.toml) tune the tool itself. They are layered with
// koanf: embedded defaults, the optional settings file, DOTFILES_*
// environment variables and finally command-line overrides.
package config
