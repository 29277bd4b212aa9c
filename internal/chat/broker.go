package chat

import (
	"context"
	"encoding/json"
	"log/slog"

	"compliance-portal/internal/domain"

	"github.com/redis/go-redis/v9"
)

func channelFor(userID string) string {
	return "chat:user:" + userID
}

// Broker fans chat messages out to every open stream of a user through Redis pub/sub.
type Broker struct {
	client *redis.Client
}

func NewBroker(client *redis.Client) *Broker {
	return &Broker{client: client}
}

// Publish delivers msg to the receiver's and the sender's channels.
func (b *Broker) Publish(ctx context.Context, msg *domain.ChatMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := b.client.Publish(ctx, channelFor(msg.ReceiverID), payload).Err(); err != nil {
		return err
	}
	if msg.SenderID != msg.ReceiverID {
		return b.client.Publish(ctx, channelFor(msg.SenderID), payload).Err()
	}
	return nil
}

// Subscribe streams messages addressed to or sent by userID until ctx ends.
// The returned channel is closed when the subscription stops.
func (b *Broker) Subscribe(ctx context.Context, userID string) (<-chan domain.ChatMessage, error) {
	sub := b.client.Subscribe(ctx, channelFor(userID))
	// wait for the subscription to be confirmed before reporting success
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	out := make(chan domain.ChatMessage, 16)
	go func() {
		defer close(out)
		defer sub.Close()

		in := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-in:
				if !ok {
					return
				}
				var msg domain.ChatMessage
				if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
					slog.Warn("dropping undecodable chat event", "channel", m.Channel, "error", err)
					continue
				}
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
