package layoutspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	assert.Equal(t, LayoutSpec{Layout: "us"}, Parse("us"))
	assert.Equal(t, LayoutSpec{Layout: "cz", Variant: "qwerty"}, Parse("cz (qwerty)"))
	assert.Equal(t, LayoutSpec{Layout: "cz", Variant: "qwerty"}, Parse("cz(qwerty)"))
	assert.Equal(t, LayoutSpec{Layout: "de", Variant: ""}, Parse("de ()"))
	assert.Equal(t, LayoutSpec{Layout: ""}, Parse(""))
	assert.Equal(t, LayoutSpec{Layout: "fi"}, Parse("  fi  "))
}

func TestString(t *testing.T) {
	assert.Equal(t, "us", LayoutSpec{Layout: "us"}.String())
	assert.Equal(t, "cz (qwerty)", LayoutSpec{Layout: "cz", Variant: "qwerty"}.String())
}

func TestRoundTrip(t *testing.T) {
	for _, text := range []string{"us", "cz (qwerty)", "ara (azerty)", "fr (oss)"} {
		assert.Equal(t, text, Parse(text).String())
	}
}

// A layout containing "(" does not survive a format/parse round trip: Parse
// splits on the first "(", so part of the layout leaks into the variant. This
// is a known limitation of the notation, pinned here so nobody "fixes" it by
// guessing a stricter grammar.
func TestStringParseAsymmetry(t *testing.T) {
	spec := LayoutSpec{Layout: "c(z", Variant: "q"}
	got := Parse(spec.String())
	assert.NotEqual(t, spec, got)
	assert.Equal(t, LayoutSpec{Layout: "c", Variant: "z (q"}, got)
}
