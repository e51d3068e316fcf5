package logger

import "context"

// Logger is the minimal contract expected by go-novels services.
// Arguments after msg are alternating key/value pairs.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// FieldsLogger is implemented by loggers that can carry structured fields.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}

// With returns lgr enriched with fields when it supports them.
func With(lgr Logger, fields map[string]any) Logger {
	if lgr == nil {
		return &Nop{}
	}
	if fl, ok := lgr.(FieldsLogger); ok {
		return fl.WithFields(fields)
	}
	return lgr
}

// Nop is a no-op logger implementation useful for tests.
type Nop struct{}

// Ensure Nop satisfies Logger.
var _ Logger = (*Nop)(nil)

func (n *Nop) Trace(msg string, args ...any) {}
func (n *Nop) Debug(msg string, args ...any) {}
func (n *Nop) Info(msg string, args ...any) {}
func (n *Nop) Warn(msg string, args ...any) {}
func (n *Nop) Error(msg string, args ...any) {}
func (n *Nop) Fatal(msg string, args ...any) {}
func (n *Nop) WithContext(ctx context.Context) Logger { return n }
func (n *Nop) WithFields(fields map[string]any) Logger { return n }
