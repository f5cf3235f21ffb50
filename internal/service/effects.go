package service

import "log/slog"

// EffectLog records the outcome of best-effort side effects: the
// confirmation email, compensating asset deletes, RSVP row cleanup.
// Outcomes land here and only here; they never feed back into the
// primary result of the operation that triggered them.
type EffectLog struct {
	logger *slog.Logger
}

// NewEffectLog creates an effect log writing through the given logger
func NewEffectLog(logger *slog.Logger) *EffectLog {
	if logger == nil {
		logger = slog.Default()
	}
	return &EffectLog{logger: logger}
}

// Record logs one effect outcome. A nil err is a success.
func (l *EffectLog) Record(effect string, err error, args ...any) {
	if l == nil {
		return
	}
	if err != nil {
		l.logger.Warn("side effect failed", append([]any{"effect", effect, "error", err}, args...)...)
		return
	}
	l.logger.Info("side effect completed", append([]any{"effect", effect}, args...)...)
}
