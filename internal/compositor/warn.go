package compositor

import (
	"log/slog"
	"sync"
)

// Warner emits each distinct render warning at most once.
type Warner struct {
	log  *slog.Logger
	seen sync.Map // cause -> struct{}
}

// NewWarner logs through l, or slog.Default when l is nil.
func NewWarner(l *slog.Logger) *Warner {
	return &Warner{log: l}
}

// Warn logs msg once per cause. Returns true if this call logged.
func (w *Warner) Warn(cause, msg string, args ...any) bool {
	if _, loaded := w.seen.LoadOrStore(cause, struct{}{}); loaded {
		return false
	}
	l := w.log
	if l == nil {
		l = slog.Default()
	}
	l.Warn(msg, append(args, "cause", cause)...)
	return true
}

// Seen reports whether cause was already warned about.
func (w *Warner) Seen(cause string) bool {
	_, ok := w.seen.Load(cause)
	return ok
}
