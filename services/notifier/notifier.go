// Package notifier delivers deal notifications. Delivery is best-effort
// and fire-and-forget: a failed dispatch is logged, never retried.
package notifier

import "context"

// Notification carries everything one outgoing message needs
type Notification struct {
	Title   string
	Link    string
	Reason  string
	Excerpt string
	Source  string
}

// Notifier represents a service for dispatching notifications
type Notifier interface {
	// Notify dispatches one notification
	Notify(ctx context.Context, n Notification) error

	// NotifyTest dispatches a synthetic message to verify delivery and
	// role-mention configuration
	NotifyTest(ctx context.Context) error
}
