package redisx

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Catalog entities carried by change notifications.
const (
	EntityShow        = "show"
	EntityPerformance = "performance"
	EntityVenue       = "venue"
	EntityLocation    = "location"
	EntityTicketType  = "ticket_type"
	EntityBooking     = "booking"
)

// CatalogChange tells every instance which cached catalog data went stale.
type CatalogChange struct {
	Entity string `json:"entity"`
	ID     int64  `json:"id"`
	ShowID int64  `json:"show_id,omitempty"`
	TsUnix int64  `json:"ts_unix"`
}

type CatalogPubSub struct {
	rdb     *redis.Client
	channel string
}

func NewCatalogPubSub(rdb *redis.Client) *CatalogPubSub {
	return &CatalogPubSub{
		rdb:     rdb,
		channel: ChannelCatalogChanged(),
	}
}

func (p *CatalogPubSub) PublishCatalogChanged(ctx context.Context, ch CatalogChange) error {
	if ch.TsUnix == 0 {
		ch.TsUnix = time.Now().Unix()
	}

	b, err := json.Marshal(ch)
	if err != nil {
		return err
	}

	return p.rdb.Publish(ctx, p.channel, b).Err()
}

func (p *CatalogPubSub) Subscribe(ctx context.Context, handler func(ctx context.Context, ch CatalogChange)) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	msgs := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-msgs:
			if !ok {
				return nil
			}
			var ch CatalogChange
			if err := json.Unmarshal([]byte(m.Payload), &ch); err == nil && ch.Entity != "" {
				handler(ctx, ch)
			}
		}
	}
}
