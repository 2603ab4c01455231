package keyboard

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
)

// ErrLoadkeysUnavailable means the loadkeys command itself could not be run,
// so keymap strings cannot be probed on this platform at all. A string merely
// not being a keymap is not this error.
var ErrLoadkeysUnavailable = errors.New("loadkeys command not available")

// LoadkeysProber probes console keymaps with the loadkeys tool. A successful
// probe really loads the keymap; localed gives us no way to validate a keymap
// without activating it.
type LoadkeysProber struct {
	// Path overrides the loadkeys binary looked up on PATH.
	Path string
}

func (p *LoadkeysProber) TryLoad(keymap string) (bool, error) {
	var out bytes.Buffer

	path := p.Path
	if path == "" {
		path = "loadkeys"
	}

	cmd := exec.Command(path, keymap)
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	if err == nil {
		return true, nil
	}

	// non-zero exit: the string is not a keymap
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return false, nil
	}

	return false, fmt.Errorf("%w: %v", ErrLoadkeysUnavailable, err)
}
