// Package layoutspec implements the textual "layout (variant)" notation used
// for X11 keyboard layouts throughout the keyboard configuration code.
package layoutspec

import "strings"

// LayoutSpec is one keyboard layout choice. Layout is never empty for a spec
// parsed from meaningful input; Variant may be empty.
type LayoutSpec struct {
	Layout  string
	Variant string
}

// Parse splits text of the form "layout" or "layout (variant)" into its
// parts. The variant is the substring between the first "(" and the last ")".
// No validation of the content is done here; whether the result names a real
// layout is checked against the registry by the caller.
func Parse(text string) LayoutSpec {
	lbracket := strings.Index(text, "(")
	if lbracket == -1 {
		return LayoutSpec{Layout: strings.TrimSpace(text)}
	}

	// a missing closing bracket swallows the last character, same as the
	// original behaviour this tooling's consumers grew up with
	rbracket := strings.LastIndex(text, ")")
	if rbracket == -1 {
		rbracket = len(text) - 1
	}

	variant := ""
	if rbracket > lbracket {
		variant = text[lbracket+1 : rbracket]
	}

	return LayoutSpec{
		Layout:  strings.TrimSpace(text[:lbracket]),
		Variant: variant,
	}
}

// String returns the canonical "layout (variant)" form, or just "layout" when
// the variant is empty. String and Parse are inverse as long as the variant
// contains no ")" and the layout no "(".
func (s LayoutSpec) String() string {
	if s.Variant != "" {
		return s.Layout + " (" + s.Variant + ")"
	}
	return s.Layout
}
