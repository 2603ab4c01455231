package xkbset

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// SetxkbmapEngine drives the X server's keyboard configuration through the
// setxkbmap tool. It implements Engine except for active-group queries, which
// setxkbmap cannot answer.
type SetxkbmapEngine struct {
	// Path overrides the setxkbmap binary looked up on PATH.
	Path string
}

func (e *SetxkbmapEngine) runCommand(args ...string) (string, error) {
	var out bytes.Buffer

	path := e.Path
	if path == "" {
		path = "setxkbmap"
	}

	cmd := exec.Command(path, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	outStr := strings.TrimSpace(out.String())
	if err != nil {
		return "", fmt.Errorf("setxkbmap: %w, output: %s", err, outStr)
	}

	return outStr, nil
}

func (e *SetxkbmapEngine) Configuration() (layouts, variants, options []string, err error) {
	out, err := e.runCommand("-query")
	if err != nil {
		return nil, nil, nil, err
	}

	parsed := parseQuery(out)
	return parsed["layout"], parsed["variant"], parsed["options"], nil
}

func (e *SetxkbmapEngine) Activate(layouts, variants, options []string) error {
	args := make([]string, 0, 6+2*len(options))
	if len(layouts) > 0 {
		args = append(args,
			"-layout", strings.Join(layouts, ","),
			"-variant", strings.Join(variants, ","),
		)
	}

	// an empty -option clears options set earlier
	args = append(args, "-option", "")
	for _, opt := range options {
		args = append(args, "-option", opt)
	}

	_, err := e.runCommand(args...)
	return err
}

// ActiveGroup always fails: setxkbmap sets and queries the configuration but
// has no notion of which group is active right now.
func (e *SetxkbmapEngine) ActiveGroup() (int, []string, error) {
	return 0, nil, ErrGroupStateUnavailable
}

// parseQuery splits `setxkbmap -query` output, e.g.
//
//	rules:      evdev
//	layout:     cz,us
//	variant:    qwerty,
//	options:    grp:alt_shift_toggle
//
// into comma-separated value lists per key.
func parseQuery(out string) map[string][]string {
	parsed := make(map[string][]string)

	for _, line := range strings.Split(out, "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}

		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		parsed[strings.TrimSpace(key)] = strings.Split(trimmed, ",")
	}

	return parsed
}
