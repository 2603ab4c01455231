// Package localed talks to systemd-localed (org.freedesktop.locale1), the
// only authority for converting between console keymaps and X11 layouts.
//
// There is no pure query mode: localed converts by committing, so every
// conversion here also activates the given keymap or layout on the live
// system. Callers must treat SetAndConvertKeymap/SetAndConvertLayout as
// activations, not lookups.
package localed

import (
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/osinstall/kbdsetup/pkg/layoutspec"
)

const (
	service    = "org.freedesktop.locale1"
	objectPath = "/org/freedesktop/locale1"
	iface      = "org.freedesktop.locale1"
)

// ConversionError reports a failed exchange with localed, naming the call or
// property read that failed. A ConversionError means the request did not take
// effect.
type ConversionError struct {
	Step string
	Err  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("localed conversion failed at %s: %v", e.Step, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Client is a connected localed wrapper.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// Connect opens the system bus and binds the locale1 object.
func Connect() (*Client, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, &ConversionError{Step: "connect to system bus", Err: err}
	}

	return &Client{
		conn: conn,
		obj:  conn.Object(service, objectPath),
	}, nil
}

func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// SetAndConvertKeymap sets the console keymap on the live system and returns
// the X11 layout localed considers the best match for it.
func (c *Client) SetAndConvertKeymap(keymap string) (layoutspec.LayoutSpec, error) {
	// args: keymap, keymap_toggle, convert, user_interaction; convert makes
	// localed derive the matching X11 layout, user_interaction=false keeps
	// polkit from prompting
	call := c.obj.Call(iface+".SetVConsoleKeyboard", 0, keymap, "", true, false)
	if call.Err != nil {
		return layoutspec.LayoutSpec{}, &ConversionError{Step: "SetVConsoleKeyboard", Err: call.Err}
	}

	layout, err := c.stringProperty("X11Layout")
	if err != nil {
		return layoutspec.LayoutSpec{}, err
	}

	variant, err := c.stringProperty("X11Variant")
	if err != nil {
		return layoutspec.LayoutSpec{}, err
	}

	return layoutspec.LayoutSpec{Layout: layout, Variant: variant}, nil
}

// SetAndConvertLayout sets the X11 layout and variant for future X sessions
// and returns the console keymap localed considers the best match.
func (c *Client) SetAndConvertLayout(spec layoutspec.LayoutSpec) (string, error) {
	// args: layout, model, variant, options, convert, user_interaction
	call := c.obj.Call(iface+".SetX11Keyboard", 0, spec.Layout, "", spec.Variant, "", true, false)
	if call.Err != nil {
		return "", &ConversionError{Step: "SetX11Keyboard", Err: call.Err}
	}

	return c.stringProperty("VConsoleKeymap")
}

func (c *Client) stringProperty(name string) (string, error) {
	variant, err := c.obj.GetProperty(iface + "." + name)
	if err != nil {
		return "", &ConversionError{Step: "read " + name, Err: err}
	}

	value, ok := variant.Value().(string)
	if !ok {
		err := fmt.Errorf("unexpected type %T", variant.Value())
		return "", &ConversionError{Step: "read " + name, Err: err}
	}

	return value, nil
}
