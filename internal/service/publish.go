package service

import (
	"context"
	"strconv"
	"time"

	"github.com/Skotchmaster/techstore/internal/events"
	"github.com/Skotchmaster/techstore/internal/logging"
)

const publishTimeout = 5 * time.Second

// publish never fails the caller; a lost event is only logged.
func publish(ctx context.Context, p events.Publisher, topic string, id uint, event map[string]any) {
	if p == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event["at"] = time.Now().UTC()
	if err := p.PublishEvent(ctx, topic, strconv.FormatUint(uint64(id), 10), event); err != nil {
		logging.FromContext(ctx).Error("publish_event_failed", "topic", topic, "type", event["type"], "error", err)
	}
}
