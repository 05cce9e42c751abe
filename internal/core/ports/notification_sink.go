package ports

import "context"

// NotificationSink delivers status-change notices. Notify must not block the
// caller for long and never reports delivery failures back.
type NotificationSink interface {
	Notify(ctx context.Context, trackingID, recipient, status string)
}
