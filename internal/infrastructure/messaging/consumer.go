package messaging

import (
	"github.com/goccy/go-json"

	"github.com/xiebiao/dvdrental/internal/domain/rental"
	"github.com/xiebiao/dvdrental/pkg/logging"
)

// EventRoutingKeys binds a queue to every rental lifecycle event.
var EventRoutingKeys = []string{"rental.*"}

// LogEvent decodes a lifecycle event and writes it to the audit log.
// Undecodable bodies are logged and acknowledged; requeueing them would only
// redeliver the same bytes.
func LogEvent(routingKey string, body []byte) error {
	log := logging.WithComponent("rental-events")

	var ev rental.Event
	if err := json.Unmarshal(body, &ev); err != nil {
		log.Warn().Err(err).Str("routing_key", routingKey).Int("bytes", len(body)).Msg("dropping malformed event")
		return nil
	}
	if ev.Type != routingKey {
		log.Warn().Str("routing_key", routingKey).Str("type", ev.Type).Msg("event type does not match routing key")
	}

	entry := log.Info().
		Str("event_id", ev.ID).
		Str("type", ev.Type).
		Int64("rental_id", ev.RentalID).
		Time("occurred_at", ev.OccurredAt)
	if ev.CustomerID != 0 {
		entry = entry.Int64("customer_id", ev.CustomerID)
	}
	if ev.InventoryID != 0 {
		entry = entry.Int64("inventory_id", ev.InventoryID)
	}
	if ev.Amount != nil {
		entry = entry.Str("amount", ev.Amount.String())
	}
	entry.Msg("rental event")
	return nil
}
