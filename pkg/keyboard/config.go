// Package keyboard reconciles, activates and persists the keyboard
// configuration of a machine being installed: a console keymap for the text
// console and an ordered set of X11 layouts for the graphical session, kept
// mutually consistent through systemd-localed.
package keyboard

import "github.com/osinstall/kbdsetup/pkg/layoutspec"

// Config is the keyboard configuration as given by the user or a kickstart
// file. It may be partial; Activator.Activate fills in whatever is missing
// and the result is what gets written to the target system.
type Config struct {
	// VCKeymap is the console keymap, e.g. "cz-qwerty".
	VCKeymap string `toml:"vc_keymap"`

	// XLayouts are X11 layouts in "layout" or "layout (variant)" form,
	// ordered by priority; the first one is the default.
	XLayouts []string `toml:"x_layouts"`

	// SwitchOptions are XKB options for switching between the layouts at
	// runtime, e.g. "grp:alt_shift_toggle".
	SwitchOptions []string `toml:"switch_options"`

	// Legacy is the deprecated single-value form of the keyboard setting,
	// ambiguous between a console keymap and an X11 layout.
	Legacy string `toml:"keyboard"`
}

// LayoutConverter converts between console keymaps and X11 layouts. Both
// directions activate the given value on the live system as a side effect;
// there is no pure query mode.
type LayoutConverter interface {
	SetAndConvertKeymap(keymap string) (layoutspec.LayoutSpec, error)
	SetAndConvertLayout(spec layoutspec.LayoutSpec) (string, error)
}

// LayoutSet is the live X input engine's active layout set.
type LayoutSet interface {
	Replace(layouts []string) error
	SetSwitchOptions(options []string) error
}

// KeymapLoader probes whether a string names a loadable console keymap.
// A positive probe really loads the keymap.
type KeymapLoader interface {
	TryLoad(keymap string) (bool, error)
}
