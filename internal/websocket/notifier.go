package websocket

import (
	"context"
	"encoding/json"

	"github.com/brewtab/coffeehouse-backend/internal/app/service"
	"github.com/brewtab/coffeehouse-backend/pkg/logger"
	"github.com/brewtab/coffeehouse-backend/pkg/redis"
)

// Notifier bridges order events into the hub. With Redis configured, events
// travel through the shared pub/sub channel so every server instance's
// boards see them; without it, events go straight to local clients.
type Notifier struct {
	hub      *Hub
	useRedis bool
}

func NewNotifier(hub *Hub, useRedis bool) *Notifier {
	return &Notifier{hub: hub, useRedis: useRedis}
}

// NotifyOrderEvent implements service.OrderNotifier.
func (n *Notifier) NotifyOrderEvent(event service.OrderEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal order event", err, map[string]interface{}{
			"order_id": event.OrderID,
		})
		return
	}

	if n.useRedis {
		if err := redis.PublishOrderEvent(context.Background(), payload); err == nil {
			// Local boards receive it through the relay subscription
			return
		}
		// Publish failed, fall through to direct delivery
	}
	n.hub.Broadcast(payload)
}

// RunRedisRelay subscribes to the shared order-event channel and feeds every
// received event into the local hub. Blocks until ctx is cancelled; run it
// in a goroutine.
func (n *Notifier) RunRedisRelay(ctx context.Context) {
	sub := redis.SubscribeOrderEvents(ctx)
	if sub == nil {
		logger.Info("Redis not configured, order events stay in-process", nil)
		return
	}
	defer sub.Close()

	logger.Info("Relaying order events from Redis", map[string]interface{}{
		"channel": redis.OrderEventsChannel,
	})

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			n.hub.Broadcast([]byte(msg.Payload))
		}
	}
}
