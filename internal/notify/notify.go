// Package notify is the one place user-visible outcomes are reported.
// Errors are classified with apperr and turned into short inline messages;
// nothing blocks waiting for acknowledgement.
package notify

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/regdesk/internal/apperr"
)

// Level is the severity of a Message.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Message is one notification.
type Message struct {
	Level     Level
	Operation string
	Kind      apperr.Kind
	Text      string
}

// Notifier receives outcomes of user actions.
type Notifier interface {
	Info(op, text string)
	Error(op string, err error)
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Info(string, string) {}
func (Discard) Error(string, error) {}

// Log writes notifications as structured log entries.
type Log struct {
	Log logrus.FieldLogger
}

func (l Log) Info(op, text string) {
	l.Log.WithField("op", op).Info(text)
}

func (l Log) Error(op string, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindStale {
		return
	}
	entry := l.Log.WithFields(logrus.Fields{"op": op, "kind": string(kind)})
	var se *apperr.ServerError
	if errors.As(err, &se) {
		entry = entry.WithFields(logrus.Fields{"endpoint": se.Endpoint, "status": se.StatusCode})
	}
	var ne *apperr.NetworkError
	if errors.As(err, &ne) {
		entry = entry.WithField("endpoint", ne.Endpoint)
	}
	entry.WithError(err).Error("operation failed")
}

// Inline collects messages so they can be printed next to the result they
// belong to. Optionally it mirrors them to W as they arrive.
type Inline struct {
	W io.Writer

	mu   sync.Mutex
	msgs []Message
}

func (n *Inline) Info(op, text string) {
	n.add(Message{Level: LevelInfo, Operation: op, Text: text})
}

func (n *Inline) Error(op string, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindStale {
		return
	}
	n.add(Message{Level: LevelError, Operation: op, Kind: kind, Text: apperr.UserMessage(err)})
}

func (n *Inline) add(m Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, m)
	if n.W != nil {
		fmt.Fprintln(n.W, Format(m))
	}
}

// Messages returns the collected messages in arrival order.
func (n *Inline) Messages() []Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Message, len(n.msgs))
	copy(out, n.msgs)
	return out
}

// Errors returns only error messages.
func (n *Inline) Errors() []Message {
	var out []Message
	for _, m := range n.Messages() {
		if m.Level == LevelError {
			out = append(out, m)
		}
	}
	return out
}

// Format renders m as a single line.
func Format(m Message) string {
	if m.Level == LevelError {
		return fmt.Sprintf("error: %s: %s", m.Operation, m.Text)
	}
	return fmt.Sprintf("%s: %s", m.Operation, m.Text)
}

// Multi fans out to several notifiers.
type Multi []Notifier

func (m Multi) Info(op, text string) {
	for _, n := range m {
		n.Info(op, text)
	}
}

func (m Multi) Error(op string, err error) {
	for _, n := range m {
		n.Error(op, err)
	}
}
