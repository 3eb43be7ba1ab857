package epw

import "fmt"

// Level classifies a diagnostic message.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
	LevelSuccess Level = "success"
)

// Diagnostic is one leveled status message emitted by a pipeline stage.
type Diagnostic struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Diagnostics accumulates status messages across pipeline stages in emission
// order. Messages are never discarded or reordered; the full sequence is
// returned to the caller alongside the parse result so a degraded success
// (dataset present, some fields missing) can be rendered faithfully.
type Diagnostics struct {
	messages []Diagnostic
}

// Infof appends an info-level message.
func (d *Diagnostics) Infof(format string, args ...any) { d.appendf(LevelInfo, format, args...) }

// Warningf appends a warning-level message.
func (d *Diagnostics) Warningf(format string, args ...any) { d.appendf(LevelWarning, format, args...) }

// Errorf appends an error-level message.
func (d *Diagnostics) Errorf(format string, args ...any) { d.appendf(LevelError, format, args...) }

// Successf appends a success-level message.
func (d *Diagnostics) Successf(format string, args ...any) { d.appendf(LevelSuccess, format, args...) }

func (d *Diagnostics) appendf(level Level, format string, args ...any) {
	d.messages = append(d.messages, Diagnostic{Level: level, Message: fmt.Sprintf(format, args...)})
}

// Messages returns the accumulated diagnostics in emission order.
func (d *Diagnostics) Messages() []Diagnostic { return d.messages }

// Count returns the number of messages at the given level.
func (d *Diagnostics) Count(level Level) int {
	n := 0
	for _, m := range d.messages {
		if m.Level == level {
			n++
		}
	}
	return n
}

// HasErrors reports whether any error-level message was emitted.
func (d *Diagnostics) HasErrors() bool { return d.Count(LevelError) > 0 }
