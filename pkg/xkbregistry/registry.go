// Package xkbregistry loads the XKB configuration registry (evdev.xml) once
// at startup and answers queries about known layouts, per-language and
// per-country layout lists, and layout switching options. The registry is
// immutable after Load.
package xkbregistry

import (
	"encoding/xml"
	"fmt"
	"os"
	"sort"

	"github.com/osinstall/kbdsetup/pkg/layoutspec"
)

// DefaultPath is where distributions ship the registry.
const DefaultPath = "/usr/share/X11/xkb/rules/evdev.xml"

// switchOptionGroup is the option group holding layout (group) switching
// options, e.g. "grp:alt_shift_toggle".
const switchOptionGroup = "grp"

// MalformedEntryError reports a registry entry that cannot be indexed.
// Not expected from a distribution-shipped registry file.
type MalformedEntryError struct {
	Kind string
	Desc string
}

func (e *MalformedEntryError) Error() string {
	return fmt.Sprintf("malformed %s entry in XKB registry (%q)", e.Kind, e.Desc)
}

// Registry is the loaded layout catalog.
type Registry struct {
	byLanguage map[string][]layoutspec.LayoutSpec
	byCountry  map[string][]layoutspec.LayoutSpec

	// canonical "layout (variant)" name -> display description
	descriptions map[string]string

	switchOptions     []string
	switchDescription map[string]string
}

// Load reads and indexes the registry file. Meant to be called once at
// process start; this can take a moment on a full evdev.xml.
func Load(path string) (*Registry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}
	defer file.Close()

	var parsed xkbConfigRegistry
	if err := xml.NewDecoder(file).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode registry xml: %w", err)
	}

	return build(&parsed)
}

func build(parsed *xkbConfigRegistry) (*Registry, error) {
	r := &Registry{
		byLanguage:        make(map[string][]layoutspec.LayoutSpec),
		byCountry:         make(map[string][]layoutspec.LayoutSpec),
		descriptions:      make(map[string]string),
		switchDescription: make(map[string]string),
	}

	for _, l := range parsed.LayoutList.Layout {
		if l.ConfigItem.Name == "" {
			return nil, &MalformedEntryError{Kind: "layout", Desc: l.ConfigItem.Description}
		}

		base := layoutspec.LayoutSpec{Layout: l.ConfigItem.Name}
		r.index(base, l.ConfigItem.Description, l.ConfigItem.LanguageList, l.ConfigItem.CountryList)

		for _, v := range l.VariantList.Variant {
			if v.ConfigItem.Name == "" {
				return nil, &MalformedEntryError{Kind: "variant", Desc: v.ConfigItem.Description}
			}

			spec := layoutspec.LayoutSpec{Layout: l.ConfigItem.Name, Variant: v.ConfigItem.Name}

			// a variant without its own language/country list inherits
			// the base layout's
			languages := v.ConfigItem.LanguageList
			if len(languages) == 0 {
				languages = l.ConfigItem.LanguageList
			}
			countries := v.ConfigItem.CountryList
			if len(countries) == 0 {
				countries = l.ConfigItem.CountryList
			}

			r.index(spec, v.ConfigItem.Description, languages, countries)
		}
	}

	for _, g := range parsed.OptionList.Group {
		if g.ConfigItem.Name != switchOptionGroup {
			continue
		}
		for _, o := range g.Option {
			r.switchOptions = append(r.switchOptions, o.ConfigItem.Name)
			r.switchDescription[o.ConfigItem.Name] = o.ConfigItem.Description
		}
	}

	return r, nil
}

func (r *Registry) index(spec layoutspec.LayoutSpec, description string, languages, countries []string) {
	r.descriptions[spec.String()] = description
	for _, lang := range languages {
		r.byLanguage[lang] = append(r.byLanguage[lang], spec)
	}
	for _, country := range countries {
		r.byCountry[country] = append(r.byCountry[country], spec)
	}
}

// KnownName reports whether name (in "layout" or "layout (variant)" form,
// whitespace-tolerant) is present in the registry.
func (r *Registry) KnownName(name string) bool {
	_, ok := r.descriptions[layoutspec.Parse(name).String()]
	return ok
}

// Description returns the display description for a known layout name, or ""
// when the registry does not know it.
func (r *Registry) Description(name string) string {
	return r.descriptions[layoutspec.Parse(name).String()]
}

// LayoutsForLanguage returns the layouts associated with an ISO 639 language
// code, in registry order.
func (r *Registry) LayoutsForLanguage(language string) []layoutspec.LayoutSpec {
	return r.byLanguage[language]
}

// LayoutsForCountry returns the layouts associated with an ISO 3166 country
// code, in registry order.
func (r *Registry) LayoutsForCountry(country string) []layoutspec.LayoutSpec {
	return r.byCountry[country]
}

// DefaultLayoutForLanguage returns the first (default) layout for a language,
// or false when the registry has none.
func (r *Registry) DefaultLayoutForLanguage(language string) (layoutspec.LayoutSpec, bool) {
	layouts := r.byLanguage[language]
	if len(layouts) == 0 {
		return layoutspec.LayoutSpec{}, false
	}
	return layouts[0], true
}

// DefaultLayoutForLangCountry returns the first layout matching both the
// language and the country, falling back to the language default when no
// layout matches both.
func (r *Registry) DefaultLayoutForLangCountry(language, country string) (layoutspec.LayoutSpec, bool) {
	languageLayouts := r.byLanguage[language]
	if len(languageLayouts) == 0 {
		return layoutspec.LayoutSpec{}, false
	}

	inCountry := make(map[layoutspec.LayoutSpec]bool, len(r.byCountry[country]))
	for _, spec := range r.byCountry[country] {
		inCountry[spec] = true
	}

	for _, spec := range languageLayouts {
		if inCountry[spec] {
			return spec, true
		}
	}

	return languageLayouts[0], true
}

// AllLayouts returns every known canonical layout name, sorted.
func (r *Registry) AllLayouts() []string {
	names := make([]string, 0, len(r.descriptions))
	for name := range r.descriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SwitchOptions returns the known layout switching options ("grp:..."), in
// registry order.
func (r *Registry) SwitchOptions() []string {
	return r.switchOptions
}

// SwitchOptionDescription returns the display description for a switching
// option, e.g. "Alt+Shift" for "grp:alt_shift_toggle".
func (r *Registry) SwitchOptionDescription(name string) string {
	return r.switchDescription[name]
}
