package memory

import (
	"context"
	"sync"

	"leihbar/internal/app/policies"
)

// Notification is one recorded delivery attempt.
type Notification struct {
	SenderID    string
	RecipientID string
	OfferID     string
	Text        string
}

// Notifier records notifications instead of delivering them. Serves the
// self-contained storage mode and the handler tests.
type Notifier struct {
	mu   sync.Mutex
	sent []Notification
	Fail error
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) Notify(ctx context.Context, senderID, recipientID, offerID, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Fail != nil {
		return n.Fail
	}
	n.sent = append(n.sent, Notification{SenderID: senderID, RecipientID: recipientID, OfferID: offerID, Text: text})
	return nil
}

// Sent returns a snapshot of the recorded notifications.
func (n *Notifier) Sent() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notification, len(n.sent))
	copy(out, n.sent)
	return out
}

var _ policies.Notifier = (*Notifier)(nil)
