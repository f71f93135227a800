package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/brewtab/coffeehouse-backend/config"
	"github.com/brewtab/coffeehouse-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// OrderEventsChannel carries order status-change events between server
// instances. The websocket notifier subscribes to it.
const OrderEventsChannel = "coffeehouse:order-events"

var client *redis.Client

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// PublishOrderEvent publishes a serialized order event to the shared channel
func PublishOrderEvent(ctx context.Context, payload []byte) error {
	if client == nil {
		// Redis is optional in development; events still reach local
		// websocket clients directly.
		return nil
	}
	if err := client.Publish(ctx, OrderEventsChannel, payload).Err(); err != nil {
		logger.Error("Failed to publish order event", err, nil)
		return err
	}
	return nil
}

// SubscribeOrderEvents subscribes to the order-event channel and returns the
// subscription. Caller owns the channel lifecycle.
func SubscribeOrderEvents(ctx context.Context) *redis.PubSub {
	if client == nil {
		return nil
	}
	return client.Subscribe(ctx, OrderEventsChannel)
}
