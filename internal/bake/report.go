package bake

import (
	"fmt"
	"log/slog"
)

// Severity grades report messages.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Message is one user-facing report line.
type Message struct {
	Severity Severity
	Text     string
}

// Reporter collects the user-facing messages of a run and mirrors each
// one to the structured log as it arrives. A nil logger falls back to
// slog.Default.
type Reporter struct {
	log      *slog.Logger
	messages []Message
}

func NewReporter(log *slog.Logger) *Reporter {
	if log == nil {
		log = slog.Default()
	}
	return &Reporter{log: log}
}

// Infof records an informational message.
func (r *Reporter) Infof(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	r.messages = append(r.messages, Message{Severity: SeverityInfo, Text: text})
	r.log.Info(text)
}

// Warnf records a warning. Warnings never stop a run.
func (r *Reporter) Warnf(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	r.messages = append(r.messages, Message{Severity: SeverityWarning, Text: text})
	r.log.Warn(text)
}

// Errorf records an error-grade message.
func (r *Reporter) Errorf(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	r.messages = append(r.messages, Message{Severity: SeverityError, Text: text})
	r.log.Error(text)
}

// Debugf logs without recording; progress chatter, not part of the
// user-facing report.
func (r *Reporter) Debugf(format string, args ...any) {
	r.log.Debug(fmt.Sprintf(format, args...))
}

// Messages returns the recorded report lines in order.
func (r *Reporter) Messages() []Message {
	return r.messages
}

// Warnings counts recorded warning lines.
func (r *Reporter) Warnings() int {
	n := 0
	for _, m := range r.messages {
		if m.Severity == SeverityWarning {
			n++
		}
	}
	return n
}
