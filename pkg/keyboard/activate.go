package keyboard

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/osinstall/kbdsetup/pkg/layoutspec"
)

// defaultKeymap is adopted when the configuration specifies no keyboard at
// all.
const defaultKeymap = "us"

// Activator reconciles a possibly partial Config into a complete one,
// activates it on the live system and writes it out for the installed system.
type Activator struct {
	converter LayoutConverter
	layoutSet LayoutSet
	loader    KeymapLoader
	log       *zap.SugaredLogger
}

// NewActivator builds an Activator. layoutSet may be nil when no live X input
// engine is reachable (text mode installation); the X configuration is then
// still written out, just not activated for the running session.
func NewActivator(converter LayoutConverter, layoutSet LayoutSet, loader KeymapLoader, log *zap.SugaredLogger) *Activator {
	return &Activator{
		converter: converter,
		layoutSet: layoutSet,
		loader:    loader,
		log:       log,
	}
}

// Activate fills in the missing parts of cfg via localed, loads the console
// keymap, pushes the layouts to the live engine and persists the result under
// root with the given xorg.conf weight.
//
// A console keymap string that fails to load is logged and skipped, it does
// not abort the installation. Converter and persister failures do.
func (a *Activator) Activate(cfg *Config, root string, weight int) error {
	// the deprecated single-value form is ambiguous: if it loads as a
	// console keymap it was one, otherwise it names an X layout
	if cfg.Legacy != "" && cfg.VCKeymap == "" && len(cfg.XLayouts) == 0 {
		isKeymap, err := a.loader.TryLoad(cfg.Legacy)
		if err != nil {
			return fmt.Errorf("probe legacy keyboard value %q: %w", cfg.Legacy, err)
		}

		if isKeymap {
			cfg.VCKeymap = cfg.Legacy
		} else {
			cfg.XLayouts = append(cfg.XLayouts, cfg.Legacy)
		}
	}

	if cfg.VCKeymap == "" && len(cfg.XLayouts) == 0 {
		a.log.Debugf("no keyboard configuration given, defaulting to %q", defaultKeymap)
		cfg.VCKeymap = defaultKeymap
	}

	var converted layoutspec.LayoutSpec
	if cfg.VCKeymap != "" {
		valid, err := a.loader.TryLoad(cfg.VCKeymap)
		if err != nil {
			return fmt.Errorf("probe console keymap %q: %w", cfg.VCKeymap, err)
		}

		if !valid {
			a.log.Errorf("%q is not a valid console keymap, not loading", cfg.VCKeymap)
		} else {
			converted, err = a.converter.SetAndConvertKeymap(cfg.VCKeymap)
			if err != nil {
				return fmt.Errorf("convert keymap %q: %w", cfg.VCKeymap, err)
			}
		}
	}

	if len(cfg.XLayouts) == 0 && converted.Layout != "" {
		cfg.XLayouts = append(cfg.XLayouts, converted.String())
	}

	if len(cfg.XLayouts) == 0 {
		return nil
	}

	keymap, err := a.converter.SetAndConvertLayout(layoutspec.Parse(cfg.XLayouts[0]))
	if err != nil {
		return fmt.Errorf("convert layout %q: %w", cfg.XLayouts[0], err)
	}

	if cfg.VCKeymap == "" {
		cfg.VCKeymap = keymap
	}

	if a.layoutSet != nil {
		if err := a.layoutSet.Replace(cfg.XLayouts); err != nil {
			return fmt.Errorf("activate X layouts: %w", err)
		}

		if len(cfg.SwitchOptions) > 0 {
			if err := a.layoutSet.SetSwitchOptions(cfg.SwitchOptions); err != nil {
				return fmt.Errorf("set layout switching options: %w", err)
			}
		}
	}

	// localed only ever writes single-layout configuration, so the full
	// multi-layout set has to go through our own xorg.conf file to take
	// effect for the graphical session
	return WriteConfig(cfg, root, weight)
}
