package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/barrygolden/juliabox/pkg/types"
)

// Load reads the mandatory configuration document at mandatoryPath, then,
// if overridePath is non-empty and exists, decodes it over the same
// struct. yaml.v3 only sets fields present in a document, so keys the
// override omits keep their mandatory-document value, matching the
// original's read_config/cfg.update(ucfg) layering.
func Load(mandatoryPath, overridePath string) (types.Config, error) {
	var cfg types.Config

	data, err := os.ReadFile(mandatoryPath)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", mandatoryPath, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", mandatoryPath, err)
	}

	if overridePath != "" {
		odata, err := os.ReadFile(overridePath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(odata, &cfg); err != nil {
				return cfg, fmt.Errorf("parse override config %s: %w", overridePath, err)
			}
		case os.IsNotExist(err):
			// No override document is not an error.
		default:
			return cfg, fmt.Errorf("read override config %s: %w", overridePath, err)
		}
	}

	expanded, err := expandTilde(cfg.BackupLocation)
	if err != nil {
		return cfg, fmt.Errorf("expand backup_location: %w", err)
	}
	cfg.BackupLocation = expanded

	cfg.Finalize()
	return cfg, nil
}

// expandTilde replaces a leading "~" with the user's home directory,
// replacing Python's os.path.expanduser.
func expandTilde(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
