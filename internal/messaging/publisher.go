package messaging

import (
	"fmt"

	"github.com/benhook1013/fireengine/internal/game"
)

// PlayerSubject is the NATS subject a character's session listens on.
func PlayerSubject(charId string) string {
	return fmt.Sprintf("player-%s", charId)
}

// NatsPublisher publishes messages to individual player NATS channels.
type NatsPublisher struct {
	server *NatsServer
}

// NewNatsPublisher wraps a NatsServer for per-player message delivery.
func NewNatsPublisher(server *NatsServer) *NatsPublisher {
	return &NatsPublisher{server: server}
}

// Publish sends data to every listener of to, minus the excluded ids. Every
// recipient is attempted; the first failure is returned.
func (p *NatsPublisher) Publish(to game.Audience, exclude []string, data []byte) error {
	var firstErr error
	for _, id := range game.Recipients(to, exclude) {
		if err := p.server.Publish(PlayerSubject(id), data); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("publishing to %s: %w", id, err)
		}
	}
	return firstErr
}

// SubscribeCharacter delivers everything published to charId to handler.
func (p *NatsPublisher) SubscribeCharacter(charId string, handler func(data []byte)) (func(), error) {
	return p.server.Subscribe(PlayerSubject(charId), handler)
}
