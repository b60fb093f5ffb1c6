package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// NetworkOnlineChannel is the pub/sub channel the host publishes to when
// connectivity is regained. The worker uses it to trigger an outbox drain
// pass outside the regular poll interval.
const NetworkOnlineChannel = "schedpay:network:online"

// ConnectivitySignal exposes connectivity-regained notifications as a channel.
type ConnectivitySignal struct {
	pubsub *redis.PubSub
}

// NewConnectivitySignal subscribes to the network-online channel.
func NewConnectivitySignal(ctx context.Context, client *redis.Client) *ConnectivitySignal {
	return &ConnectivitySignal{
		pubsub: client.Subscribe(ctx, NetworkOnlineChannel),
	}
}

// Wait returns a channel that receives one value per online notification.
func (s *ConnectivitySignal) Wait() <-chan *redis.Message {
	return s.pubsub.Channel()
}

// Close unsubscribes and releases the pub/sub connection.
func (s *ConnectivitySignal) Close() error {
	return s.pubsub.Close()
}

// PublishNetworkOnline notifies all workers that connectivity is back.
func PublishNetworkOnline(ctx context.Context, client *redis.Client) error {
	return client.Publish(ctx, NetworkOnlineChannel, "online").Err()
}
