package keyboard

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
)

const (
	xorgConfDir   = "etc/X11/xorg.conf.d"
	sysconfigFile = "etc/sysconfig/keyboard"
	vconsoleFile  = "etc/vconsole.conf"
)

// ConfigWriteError aggregates everything that went wrong while writing the
// configuration files. Writes are attempted independently, so the error
// describes the complete set of failures, not just the first one.
type ConfigWriteError struct {
	Err error
}

func (e *ConfigWriteError) Error() string {
	return fmt.Sprintf("writing keyboard configuration: %v", e.Err)
}

func (e *ConfigWriteError) Unwrap() error {
	return e.Err
}

// WriteConfig writes the keyboard configuration for the next boot under
// root: the X InputClass config (weight is the two-digit prefix of its file
// name), the sysconfig keymap file and the vconsole keymap file. Every
// artifact is attempted even when an earlier one failed; cfg is not modified.
func WriteConfig(cfg *Config, root string, weight int) error {
	var errs *multierror.Error

	xconfDir := filepath.Join(root, xorgConfDir)
	if err := os.MkdirAll(xconfDir, 0755); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("create xorg.conf.d directory: %w", err))
	}

	if len(cfg.XLayouts) > 0 {
		xconfPath := filepath.Join(xconfDir, fmt.Sprintf("%02d-anaconda-keyboard.conf", weight))
		if err := os.WriteFile(xconfPath, []byte(XorgConfig(cfg)), 0644); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("write X keyboard configuration: %w", err))
		}
	}

	if cfg.VCKeymap != "" {
		line := []byte(fmt.Sprintf("KEYMAP=%q\n", cfg.VCKeymap))

		if err := os.WriteFile(filepath.Join(root, sysconfigFile), line, 0644); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("write sysconfig keyboard configuration: %w", err))
		}

		if err := os.WriteFile(filepath.Join(root, vconsoleFile), line, 0644); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("write vconsole configuration: %w", err))
		}
	}

	if err := errs.ErrorOrNil(); err != nil {
		return &ConfigWriteError{Err: err}
	}

	return nil
}
