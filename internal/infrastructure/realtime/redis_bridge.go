package realtime

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	goredis "github.com/go-redis/redis/v8"
	"github.com/riskibarqy/game-tracker/internal/domain/gameevent"
	"github.com/riskibarqy/game-tracker/internal/platform/logging"
)

const DefaultChannel = "game-tracker:events"

// RedisBridge publishes frames to a redis channel and relays every frame it
// receives into the local hub, so all instances share one event stream.
// Local delivery happens only through the relay.
type RedisBridge struct {
	client  *goredis.Client
	channel string
	hub     *Hub
	logger  *logging.Logger
}

func NewRedisBridge(client *goredis.Client, channel string, hub *Hub, logger *logging.Logger) *RedisBridge {
	if channel == "" {
		channel = DefaultChannel
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RedisBridge{client: client, channel: channel, hub: hub, logger: logger}
}

func (b *RedisBridge) Publish(ctx context.Context, event gameevent.Event) error {
	frame, err := EncodeFrame(event)
	if err != nil {
		return err
	}
	if err := b.client.Publish(ctx, b.channel, frame).Err(); err != nil {
		return crerr.Wrapf(err, "publish %s for game=%s", event.Type, event.GameID)
	}
	return nil
}

// Run relays until ctx is done.
func (b *RedisBridge) Run(ctx context.Context) error {
	pubsub := b.client.Subscribe(ctx, b.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return crerr.Wrapf(err, "subscribe to %s", b.channel)
	}
	b.logger.Info("realtime redis bridge subscribed", "channel", b.channel)

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			b.relay([]byte(msg.Payload))
		}
	}
}

func (b *RedisBridge) relay(raw []byte) {
	gameID, err := peekGameID(raw)
	if err != nil {
		b.logger.Warn("drop malformed realtime frame", "channel", b.channel, "error", err)
		return
	}
	if err := b.hub.Deliver(gameID, raw); err != nil && !crerr.Is(err, ErrHubClosed) {
		b.logger.Error("relay realtime frame failed", "game_id", gameID, "error", err)
	}
}
