package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"go.uber.org/zap"

	"github.com/osinstall/kbdsetup/pkg/keyboard"
)

// defaultConfigFile is looked up in the XDG config directories when no
// explicit --config path is given.
const defaultConfigFile = "kbdsetup/keyboard.toml"

// loadConfig reads the keyboard configuration file. Running without any
// configuration file is fine; everything can come from flags or be derived
// during activation.
func loadConfig(path string, logger *zap.SugaredLogger) (*keyboard.Config, error) {
	if path == "" {
		found, err := xdg.SearchConfigFile(defaultConfigFile)
		if err != nil {
			logger.Debugf("no configuration file found: %v", err)
			return &keyboard.Config{}, nil
		}
		path = found
	}

	var cfg keyboard.Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	logger.Debugf("loaded keyboard configuration from %s", path)
	return &cfg, nil
}

// applyFlags overrides file-supplied values with the ones given on the
// command line.
func applyFlags(cfg *keyboard.Config, vcKeymap, xLayouts, switchOptions, legacy string) {
	if vcKeymap != "" {
		cfg.VCKeymap = vcKeymap
	}
	if xLayouts != "" {
		cfg.XLayouts = splitList(xLayouts)
	}
	if switchOptions != "" {
		cfg.SwitchOptions = splitList(switchOptions)
	}
	if legacy != "" {
		cfg.Legacy = legacy
	}
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
