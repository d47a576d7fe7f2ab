package config

import (
	"bytes"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/dotfiles/pkg/errors"
	"github.com/arthur-debert/dotfiles/pkg/logging"
	"gopkg.in/yaml.v3"
)

// LoadResult is the outcome of Load.
type LoadResult struct {
	Config *Configuration
	Path   string
	// Created is true when the default configuration was written by this call
	Created bool
}

// Load reads the link configuration at path. A missing file is created
// from Default with the explanatory header; force replaces an existing
// file with the defaults.
func Load(path string, force bool) (*LoadResult, error) {
	logger := logging.GetLogger("config")

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigWrite, "failed to create config directory %s", filepath.Dir(path))
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil && !force:
		cfg, err := Parse(data)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", path)
		}
		logger.Debug().Str("path", path).Int("links", cfg.Len()).Msg("loaded link configuration")
		return &LoadResult{Config: cfg, Path: path}, nil
	case err != nil && !stderrors.Is(err, fs.ErrNotExist):
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read %s", path)
	}

	cfg := Default()
	if err := Write(path, cfg); err != nil {
		return nil, err
	}
	logger.Info().Str("path", path).Bool("force", force).Msg("wrote default link configuration")
	return &LoadResult{Config: cfg, Path: path, Created: true}, nil
}

// Parse decodes a link configuration document.
func Parse(data []byte) (*Configuration, error) {
	cfg := &Configuration{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal renders cfg as YAML without the header.
func Marshal(cfg *Configuration) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write stores cfg at path with the comment header prepended.
func Write(path string, cfg *Configuration) error {
	body, err := Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigWrite, "failed to encode configuration")
	}
	data := append([]byte(Header()), body...)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrConfigWrite, "failed to write %s", path)
	}
	return nil
}
