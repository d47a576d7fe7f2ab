package config

import (
	"os"
	"strings"

	"github.com/arthur-debert/dotfiles/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every settings environment variable
const EnvPrefix = "DOTFILES_"

// Link modes
const (
	LinkModeAuto    = "auto"
	LinkModeSymlink = "symlink"
	LinkModeCopy    = "copy"
)

// Crypt backends
const (
	BackendGPG     = "gpg"
	BackendOpenPGP = "openpgp"
)

// Settings tune the tool. Paths may start with ~ and are expanded by the caller.
type Settings struct {
	Source   string          `koanf:"source" validate:"required"`
	LinkMode string          `koanf:"link_mode" validate:"oneof=auto symlink copy"`
	Color    string          `koanf:"color" validate:"oneof=auto always never"`
	Archive  ArchiveSettings `koanf:"archive"`
	Crypt    CryptSettings   `koanf:"crypt"`
}

// ArchiveSettings configure mkarchive
type ArchiveSettings struct {
	Dest string `koanf:"dest" validate:"required"`
}

// CryptSettings configure cryptdir
type CryptSettings struct {
	Backend       string `koanf:"backend" validate:"oneof=gpg openpgp"`
	Recipient     string `koanf:"recipient"`
	GPGBinary     string `koanf:"gpg_binary" validate:"required"`
	PublicKeyring string `koanf:"public_keyring"`
	SecretKeyring string `koanf:"secret_keyring"`
}

// nestedSections are the settings tables reachable through env vars:
// DOTFILES_CRYPT_RECIPIENT maps to crypt.recipient.
var nestedSections = []string{"archive_", "crypt_"}

// envKey maps DOTFILES_LINK_MODE to link_mode and DOTFILES_CRYPT_GPG_BINARY
// to crypt.gpg_binary.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range nestedSections {
		if strings.HasPrefix(key, section) {
			return strings.TrimSuffix(section, "_") + "." + strings.TrimPrefix(key, section)
		}
	}
	return key
}

// LoadSettings layers embedded defaults, the settings file at path (if it
// exists), DOTFILES_* environment variables and overrides, in that order.
// Empty override values are ignored.
func LoadSettings(path string, overrides map[string]interface{}) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultSettings}, tomlParser{}); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load default settings")
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), tomlParser{}); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load settings from %s", path)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load settings from environment")
	}

	if set := nonEmpty(overrides); len(set) > 0 {
		if err := k.Load(confmap.Provider(set, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var s Settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &s,
			WeaklyTypedInput: true,
			TagName:          "koanf",
		},
	}
	if err := k.UnmarshalWithConf("", &s, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal settings")
	}

	if err := validator.New().Struct(&s); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigInvalid, "invalid settings")
	}

	return &s, nil
}

func nonEmpty(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		if v == nil {
			continue
		}
		out[k] = v
	}
	return out
}
