package keyboard

import (
	"strings"

	"github.com/osinstall/kbdsetup/pkg/layoutspec"
)

// XorgConfig renders the InputClass section the X server reads to pick up
// the configured layouts. The field order and the tab layout are fixed.
func XorgConfig(cfg *Config) string {
	layouts := make([]string, 0, len(cfg.XLayouts))
	variants := make([]string, 0, len(cfg.XLayouts))

	for _, text := range cfg.XLayouts {
		spec := layoutspec.Parse(text)
		layouts = append(layouts, spec.Layout)
		variants = append(variants, spec.Variant)
	}

	var b strings.Builder
	b.WriteString("#This file was generated by the Anaconda installer\n")
	b.WriteString("Section \"InputClass\"\n")
	b.WriteString("\tIdentifier\t\"anaconda-keyboard\"\n")
	b.WriteString("\tMatchIsKeyboard\t\"on\"\n")

	b.WriteString("\tOption\t\"XkbLayout\"\t\"" + strings.Join(layouts, ",") + "\"\n")

	// the variant line is written only when at least one layout has one
	if anyNonEmpty(variants) {
		b.WriteString("\tOption\t\"XkbVariant\"\t\"" + strings.Join(variants, ",") + "\"\n")
	}

	if anyNonEmpty(cfg.SwitchOptions) {
		b.WriteString("\tOption\t\"XkbOptions\"\t\"" + strings.Join(cfg.SwitchOptions, ",") + "\"\n")
	}

	b.WriteString("EndSection")

	return b.String()
}

func anyNonEmpty(values []string) bool {
	for _, v := range values {
		if v != "" {
			return true
		}
	}
	return false
}
