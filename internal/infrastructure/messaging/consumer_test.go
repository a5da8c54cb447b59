package messaging

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/dvdrental/internal/domain/money"
	"github.com/xiebiao/dvdrental/internal/domain/rental"
	"github.com/xiebiao/dvdrental/pkg/logging"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	logging.Init(logging.Config{Level: "debug", Format: "json", Output: buf})
	t.Cleanup(func() { logging.Init(logging.Config{Level: "info"}) })
	return buf
}

func TestLogEvent_Returned(t *testing.T) {
	buf := captureLogs(t)
	amount := money.Amount(499)
	body, err := json.Marshal(rental.Event{
		ID:         "e1",
		Type:       rental.EventReturned,
		RentalID:   16050,
		CustomerID: 1,
		Amount:     &amount,
		OccurredAt: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.NoError(t, LogEvent(rental.EventReturned, body))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "rental event", line["message"])
	assert.Equal(t, "rental.returned", line["type"])
	assert.EqualValues(t, 16050, line["rental_id"])
	assert.Equal(t, "4.99", line["amount"])
	assert.NotContains(t, line, "inventory_id")
}

func TestLogEvent_MalformedIsAcked(t *testing.T) {
	buf := captureLogs(t)

	assert.NoError(t, LogEvent(rental.EventCreated, []byte("{not json")))
	assert.Contains(t, buf.String(), "dropping malformed event")
}

func TestLogEvent_TypeMismatchWarns(t *testing.T) {
	buf := captureLogs(t)
	body, _ := json.Marshal(rental.Event{Type: rental.EventCreated, RentalID: 1})

	require.NoError(t, LogEvent(rental.EventCancelled, body))
	assert.Contains(t, buf.String(), "does not match routing key")
	assert.Contains(t, buf.String(), `"message":"rental event"`)
}
