// Package xkbset maintains the set of X11 keyboard layouts active on the
// live system. The configuration is a pair of index-aligned lists: layouts
// and variants. Zipped together they form the real layouts, e.g. "cz"
// + "qwerty" = "cz (qwerty)". A third list holds XKB options.
package xkbset

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/osinstall/kbdsetup/pkg/layoutspec"
	"github.com/osinstall/kbdsetup/pkg/xkbregistry"
)

var (
	// ErrLayoutNotFound means the exact layout/variant pair is not in the
	// active set.
	ErrLayoutNotFound = errors.New("layout not in the active set")

	// ErrGroupStateUnavailable means the engine cannot report which layout
	// group is currently active.
	ErrGroupStateUnavailable = errors.New("active layout group state unavailable")
)

// ActivationError means the live engine rejected a layout/option set, e.g.
// because of a platform limit on simultaneous layouts. The engine's own state
// is unmodified on a rejected activation.
type ActivationError struct {
	Layouts []string
	Err     error
}

func (e *ActivationError) Error() string {
	return fmt.Sprintf("failed to activate layouts %s: %v", strings.Join(e.Layouts, ","), e.Err)
}

func (e *ActivationError) Unwrap() error {
	return e.Err
}

// Engine is the live input engine being configured. Activate replaces the
// whole configuration atomically; a rejected Activate leaves the engine
// unchanged.
type Engine interface {
	Configuration() (layouts, variants, options []string, err error)
	Activate(layouts, variants, options []string) error
	ActiveGroup() (group int, names []string, err error)
}

// Manager owns the mutation protocol against an Engine. It mirrors the
// engine's parallel lists and keeps len(layouts) == len(variants) at every
// observable point. Not safe for concurrent use.
type Manager struct {
	engine   Engine
	registry *xkbregistry.Registry
	log      *zap.SugaredLogger

	layouts  []string
	variants []string
	options  []string
}

// NewManager reads the engine's current configuration. X is usually
// initialized to a single layout with no variant, so the variants list may be
// shorter than the layouts list; it is padded with "" and re-activated to
// restore the parallel-lists invariant.
func NewManager(engine Engine, registry *xkbregistry.Registry, log *zap.SugaredLogger) (*Manager, error) {
	layouts, variants, options, err := engine.Configuration()
	if err != nil {
		return nil, fmt.Errorf("read engine configuration: %w", err)
	}

	m := &Manager{
		engine:   engine,
		registry: registry,
		log:      log,
		layouts:  layouts,
		variants: variants,
		options:  options,
	}

	if len(variants) < len(layouts) {
		padded := make([]string, len(layouts))
		copy(padded, variants)
		if err := m.activate(layouts, padded, options); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// activate pushes a candidate configuration to the engine and adopts it only
// if the engine accepted it.
func (m *Manager) activate(layouts, variants, options []string) error {
	if err := m.engine.Activate(layouts, variants, options); err != nil {
		return &ActivationError{Layouts: zipLayouts(layouts, variants), Err: err}
	}

	m.layouts = layouts
	m.variants = variants
	m.options = options
	return nil
}

// IsValid reports whether name denotes a layout the registry knows.
func (m *Manager) IsValid(name string) bool {
	return m.registry.KnownName(name)
}

// ActiveLayouts returns the active set in canonical "layout (variant)" form.
func (m *Manager) ActiveLayouts() []string {
	return zipLayouts(m.layouts, m.variants)
}

// Add activates one more layout, given as "layout" or "layout (variant)".
// Adding a pair that is already active is a no-op.
func (m *Manager) Add(text string) error {
	spec := layoutspec.Parse(text)

	if m.indexOf(spec) != -1 {
		m.log.Debugf("layout %s already active, not adding", spec)
		return nil
	}

	layouts := append(append([]string{}, m.layouts...), spec.Layout)
	variants := append(append([]string{}, m.variants...), spec.Variant)

	return m.activate(layouts, variants, m.options)
}

// Remove deactivates the exact layout/variant pair given as "layout" or
// "layout (variant)". Returns ErrLayoutNotFound when the pair is not active.
func (m *Manager) Remove(text string) error {
	spec := layoutspec.Parse(text)

	idx := m.indexOf(spec)
	if idx == -1 {
		return fmt.Errorf("%q: %w", spec.String(), ErrLayoutNotFound)
	}

	layouts := make([]string, 0, len(m.layouts)-1)
	variants := make([]string, 0, len(m.variants)-1)
	layouts = append(layouts, m.layouts[:idx]...)
	layouts = append(layouts, m.layouts[idx+1:]...)
	variants = append(variants, m.variants[:idx]...)
	variants = append(variants, m.variants[idx+1:]...)

	return m.activate(layouts, variants, m.options)
}

// Replace swaps the whole active set for the given layouts. Any entry with an
// empty layout name fails the call before anything is touched.
func (m *Manager) Replace(texts []string) error {
	layouts := make([]string, 0, len(texts))
	variants := make([]string, 0, len(texts))

	for _, text := range texts {
		spec := layoutspec.Parse(text)
		if spec.Layout == "" {
			return fmt.Errorf("cannot parse layout from %q", text)
		}
		layouts = append(layouts, spec.Layout)
		variants = append(variants, spec.Variant)
	}

	return m.activate(layouts, variants, m.options)
}

// SetSwitchOptions replaces the layout switching options with the given ones.
// Options unrelated to layout switching (caps lock behaviour, compose key and
// the like) are preserved verbatim.
func (m *Manager) SetSwitchOptions(options []string) error {
	newOptions := make([]string, 0, len(m.options)+len(options))
	for _, opt := range m.options {
		if !strings.Contains(opt, "grp:") {
			newOptions = append(newOptions, opt)
		}
	}
	newOptions = append(newOptions, options...)

	return m.activate(m.layouts, m.variants, newOptions)
}

// CurrentLayoutName returns the display name of the currently active layout,
// e.g. "Czech (qwerty)". Read-only.
func (m *Manager) CurrentLayoutName() (string, error) {
	group, names, err := m.engine.ActiveGroup()
	if err != nil {
		return "", fmt.Errorf("query active group: %w", err)
	}
	if group < 0 || group >= len(names) {
		return "", fmt.Errorf("active group %d out of range (%d groups)", group, len(names))
	}

	return names[group], nil
}

func (m *Manager) indexOf(spec layoutspec.LayoutSpec) int {
	for i := range m.layouts {
		if m.layouts[i] == spec.Layout && m.variants[i] == spec.Variant {
			return i
		}
	}
	return -1
}

func zipLayouts(layouts, variants []string) []string {
	zipped := make([]string, 0, len(layouts))
	for i, layout := range layouts {
		variant := ""
		if i < len(variants) {
			variant = variants[i]
		}
		zipped = append(zipped, layoutspec.LayoutSpec{Layout: layout, Variant: variant}.String())
	}
	return zipped
}
