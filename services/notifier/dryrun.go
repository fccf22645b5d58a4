package notifier

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// DryRunNotifier implements Notifier by printing would-be notifications
// instead of dispatching them. It records everything it sees so callers
// (and tests) can inspect the run's decisions.
type DryRunNotifier struct {
	mu   sync.Mutex
	out  io.Writer
	sent []Notification
}

// Ensure DryRunNotifier implements Notifier
var _ Notifier = (*DryRunNotifier)(nil)

// NewDryRunNotifier creates a dry-run notifier writing to out
func NewDryRunNotifier(out io.Writer) *DryRunNotifier {
	return &DryRunNotifier{out: out}
}

// Notify prints the notification and records it
func (d *DryRunNotifier) Notify(_ context.Context, n Notification) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.sent = append(d.sent, n)
	fmt.Fprintf(d.out, "%d. %s\n   Reason: %s\n   Link: %s\n", len(d.sent), n.Title, n.Reason, n.Link)
	return nil
}

// NotifyTest prints a marker line
func (d *DryRunNotifier) NotifyTest(_ context.Context) error {
	fmt.Fprintln(d.out, "DRY RUN: test notification suppressed")
	return nil
}

// Sent returns the notifications recorded so far
func (d *DryRunNotifier) Sent() []Notification {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]Notification, len(d.sent))
	copy(out, d.sent)
	return out
}
