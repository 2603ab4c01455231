package xkbset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeEngine keeps its own authoritative configuration and only adopts a new
// one when the activation is not rejected, like a real input engine.
type fakeEngine struct {
	layouts  []string
	variants []string
	options  []string

	group      int
	groupNames []string

	rejectNext bool
	activated  int
}

func (e *fakeEngine) Configuration() ([]string, []string, []string, error) {
	return e.layouts, e.variants, e.options, nil
}

func (e *fakeEngine) Activate(layouts, variants, options []string) error {
	e.activated++
	if e.rejectNext {
		e.rejectNext = false
		return errors.New("too many layouts")
	}

	e.layouts = layouts
	e.variants = variants
	e.options = options
	return nil
}

func (e *fakeEngine) ActiveGroup() (int, []string, error) {
	return e.group, e.groupNames, nil
}

func newTestManager(t *testing.T, engine *fakeEngine) *Manager {
	t.Helper()

	m, err := NewManager(engine, testRegistry(t), zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	return m
}

func TestNewManagerPadsVariants(t *testing.T) {
	engine := &fakeEngine{layouts: []string{"us", "cz"}, variants: []string{"dvorak"}}
	m := newTestManager(t, engine)

	assert.Equal(t, []string{"us (dvorak)", "cz"}, m.ActiveLayouts())
	assert.Equal(t, []string{"dvorak", ""}, engine.variants)
	assert.Equal(t, 1, engine.activated)
}

func TestNewManagerAlignedListsNotReactivated(t *testing.T) {
	engine := &fakeEngine{layouts: []string{"us"}, variants: []string{""}}
	newTestManager(t, engine)

	assert.Equal(t, 0, engine.activated)
}

func TestAddIsIdempotent(t *testing.T) {
	engine := &fakeEngine{layouts: []string{"us"}, variants: []string{""}}
	m := newTestManager(t, engine)

	require.NoError(t, m.Add("cz (qwerty)"))
	require.NoError(t, m.Add("cz (qwerty)"))

	assert.Equal(t, []string{"us", "cz (qwerty)"}, m.ActiveLayouts())
	assert.Equal(t, []string{"us", "cz"}, engine.layouts)
	assert.Equal(t, []string{"", "qwerty"}, engine.variants)
}

func TestAddSameLayoutDifferentVariant(t *testing.T) {
	engine := &fakeEngine{layouts: []string{"cz"}, variants: []string{""}}
	m := newTestManager(t, engine)

	require.NoError(t, m.Add("cz (qwerty)"))
	assert.Equal(t, []string{"cz", "cz (qwerty)"}, m.ActiveLayouts())
}

func TestAddRollsBackOnRejectedActivation(t *testing.T) {
	engine := &fakeEngine{layouts: []string{"us"}, variants: []string{""}, rejectNext: true}
	m := newTestManager(t, engine)

	err := m.Add("cz")
	var actErr *ActivationError
	require.ErrorAs(t, err, &actErr)
	assert.Equal(t, []string{"us", "cz"}, actErr.Layouts)

	assert.Equal(t, []string{"us"}, m.ActiveLayouts())
	assert.Equal(t, []string{"us"}, engine.layouts)
}

func TestRemoveRestoresPriorState(t *testing.T) {
	engine := &fakeEngine{layouts: []string{"us", "fr"}, variants: []string{"", "oss"}}
	m := newTestManager(t, engine)

	require.NoError(t, m.Add("cz (qwerty)"))
	require.NoError(t, m.Remove("cz (qwerty)"))

	assert.Equal(t, []string{"us", "fr (oss)"}, m.ActiveLayouts())
}

func TestRemoveKeepsOrderOfRemaining(t *testing.T) {
	engine := &fakeEngine{
		layouts:  []string{"us", "cz", "fr"},
		variants: []string{"", "qwerty", ""},
	}
	m := newTestManager(t, engine)

	require.NoError(t, m.Remove("cz (qwerty)"))
	assert.Equal(t, []string{"us", "fr"}, m.ActiveLayouts())
}

func TestRemoveExactPairOnly(t *testing.T) {
	engine := &fakeEngine{layouts: []string{"cz"}, variants: []string{"qwerty"}}
	m := newTestManager(t, engine)

	// "cz" without the variant is not active, only "cz (qwerty)" is
	err := m.Remove("cz")
	assert.ErrorIs(t, err, ErrLayoutNotFound)
	assert.Equal(t, []string{"cz (qwerty)"}, m.ActiveLayouts())
	assert.Equal(t, []string{"cz"}, engine.layouts)
}

func TestReplace(t *testing.T) {
	engine := &fakeEngine{layouts: []string{"us"}, variants: []string{""}}
	m := newTestManager(t, engine)

	require.NoError(t, m.Replace([]string{"a", "b (v)"}))
	assert.Equal(t, []string{"a", "b (v)"}, m.ActiveLayouts())

	require.NoError(t, m.Replace(nil))
	assert.Empty(t, m.ActiveLayouts())
	assert.Empty(t, engine.layouts)
}

func TestReplaceAllOrNothing(t *testing.T) {
	engine := &fakeEngine{layouts: []string{"us"}, variants: []string{""}}
	m := newTestManager(t, engine)

	err := m.Replace([]string{"cz", ""})
	require.Error(t, err)

	assert.Equal(t, []string{"us"}, m.ActiveLayouts())
	assert.Equal(t, 0, engine.activated)
}

func TestSetSwitchOptionsPreservesNonSwitching(t *testing.T) {
	engine := &fakeEngine{
		layouts:  []string{"us"},
		variants: []string{""},
		options:  []string{"caps:escape", "grp:ctrl_shift_toggle", "compose:ralt"},
	}
	m := newTestManager(t, engine)

	require.NoError(t, m.SetSwitchOptions([]string{"grp:alt_shift_toggle"}))
	assert.Equal(t, []string{"caps:escape", "compose:ralt", "grp:alt_shift_toggle"}, engine.options)
}

func TestCurrentLayoutName(t *testing.T) {
	engine := &fakeEngine{
		layouts:    []string{"us", "cz"},
		variants:   []string{"", "qwerty"},
		group:      1,
		groupNames: []string{"English (US)", "Czech (qwerty)"},
	}
	m := newTestManager(t, engine)

	name, err := m.CurrentLayoutName()
	require.NoError(t, err)
	assert.Equal(t, "Czech (qwerty)", name)
}

func TestIsValid(t *testing.T) {
	engine := &fakeEngine{layouts: []string{"us"}, variants: []string{""}}
	m := newTestManager(t, engine)

	assert.True(t, m.IsValid("cz (qwerty)"))
	assert.False(t, m.IsValid("nope"))
}
