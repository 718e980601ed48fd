package policies

import "context"

// Notifier delivers a short message from one user to another in the context
// of an offer. Delivery is best-effort: callers log failures and move on,
// they never fail the surrounding operation on a notification error.
type Notifier interface {
	Notify(ctx context.Context, senderID, recipientID, offerID, text string) error
}
