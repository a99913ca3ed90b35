package notifiers

import "context"

// logNotifier writes the run summary to the application log. It is the
// fallback sink when no notifiers file is configured.
type logNotifier struct {
	id  string
	log Logger
}

func newLogNotifier(_ context.Context, cfg NotifierConfig, log Logger) (Notifier, error) {
	id := cfg.ID
	if id == "" {
		id = "log"
	}
	return &logNotifier{id: id, log: ensureLogger(log)}, nil
}

// NewLogNotifier exposes the log sink for callers wiring a default fanout.
func NewLogNotifier(log Logger) Notifier {
	return &logNotifier{id: "log", log: ensureLogger(log)}
}

func (l *logNotifier) ID() string   { return l.id }
func (l *logNotifier) Type() string { return TypeLog }

func (l *logNotifier) Notify(_ context.Context, evt Event) error {
	l.log.InfoObj("run summary", "run_summary", evt)
	return nil
}
