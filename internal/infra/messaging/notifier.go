package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"leihbar/internal/app/policies"
)

// Producer is the broker surface the notifier publishes through.
type Producer interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

const notificationTopic = "notifications.v1"

var ErrProducerRequired = errors.New("messaging: producer required")

// KafkaNotifier publishes user notifications onto the broker, where the
// messaging service picks them up for delivery. Callers treat delivery as
// best-effort and must not fail their operation on a publish error.
type KafkaNotifier struct {
	producer    Producer
	topicPrefix string
}

func NewKafkaNotifier(producer Producer, topicPrefix string) (*KafkaNotifier, error) {
	if producer == nil {
		return nil, ErrProducerRequired
	}
	return &KafkaNotifier{producer: producer, topicPrefix: topicPrefix}, nil
}

type notificationMessage struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	OfferID     string    `json:"offer_id"`
	Text        string    `json:"text"`
	SentAt      time.Time `json:"sent_at"`
}

func (n *KafkaNotifier) Notify(ctx context.Context, senderID, recipientID, offerID, text string) error {
	msg := notificationMessage{
		ID:          uuid.NewString(),
		SenderID:    senderID,
		RecipientID: recipientID,
		OfferID:     offerID,
		Text:        text,
		SentAt:      time.Now().UTC(),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	headers := map[string]string{"content-type": "application/json"}
	return n.producer.Publish(ctx, n.topicPrefix+notificationTopic, recipientID, payload, headers)
}

var _ policies.Notifier = (*KafkaNotifier)(nil)
