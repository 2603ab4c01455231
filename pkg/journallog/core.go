// Package journallog is a zapcore.Core that sends log entries to
// systemd-journald. Install phases usually run without a terminal worth
// looking at; the journal is where their output is expected.
package journallog

import (
	"fmt"
	"strings"

	"github.com/coreos/go-systemd/v22/journal"
	"go.uber.org/zap/zapcore"
)

// Available reports whether a journald socket is reachable.
func Available() bool {
	return journal.Enabled()
}

// Core forwards entries to journald with structured fields as journal
// variables.
type Core struct {
	zapcore.LevelEnabler
	fields []zapcore.Field
}

func NewCore(enab zapcore.LevelEnabler) *Core {
	return &Core{LevelEnabler: enab}
}

func (c *Core) With(fields []zapcore.Field) zapcore.Core {
	clone := &Core{LevelEnabler: c.LevelEnabler}
	clone.fields = append(append(clone.fields, c.fields...), fields...)
	return clone
}

func (c *Core) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *Core) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	vars := encodeFields(append(append([]zapcore.Field{}, c.fields...), fields...))
	if entry.LoggerName != "" {
		vars["LOGGER"] = entry.LoggerName
	}

	if err := journal.Send(entry.Message, priority(entry.Level), vars); err != nil {
		return fmt.Errorf("send to journal: %w", err)
	}
	return nil
}

func (c *Core) Sync() error {
	return nil
}

func priority(level zapcore.Level) journal.Priority {
	switch {
	case level >= zapcore.FatalLevel:
		return journal.PriAlert
	case level >= zapcore.DPanicLevel:
		return journal.PriCrit
	case level >= zapcore.ErrorLevel:
		return journal.PriErr
	case level >= zapcore.WarnLevel:
		return journal.PriWarning
	case level >= zapcore.InfoLevel:
		return journal.PriInfo
	default:
		return journal.PriDebug
	}
}

// encodeFields flattens zap fields into journal variables. Journal variable
// names must be uppercase ASCII with underscores.
func encodeFields(fields []zapcore.Field) map[string]string {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}

	vars := make(map[string]string, len(enc.Fields))
	for key, value := range enc.Fields {
		vars[variableName(key)] = fmt.Sprint(value)
	}
	return vars
}

func variableName(key string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, key)

	if mapped == "" || mapped[0] == '_' || (mapped[0] >= '0' && mapped[0] <= '9') {
		mapped = "X" + mapped
	}
	return mapped
}
