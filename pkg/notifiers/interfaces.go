package notifiers

import "context"

// Notifier delivers a run summary to a downstream sink (SQS, HTTP, etc).
type Notifier interface {
	ID() string
	Type() string
	Notify(ctx context.Context, evt Event) error
}
