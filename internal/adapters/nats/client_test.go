package nats

import (
	"encoding/json"
	"testing"
	"time"

	"ethonode/internal/core/devices"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKVKey(t *testing.T) {
	assert.Equal(t, "0265ac", kvKey("0265ac"))
	assert.Equal(t, "a_b_c", kvKey("a.b c"))
	assert.Equal(t, "ETHO-01_x", kvKey("ETHO-01*x"))
}

func TestEncodeOutcome(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	subj, b, err := encodeOutcome("ethoscopes.outcomes", "DISPATCH", devices.ActionOutcome{
		DeviceID: "dev.1",
		Reason:   "transport failure: connection reset",
	}, at)
	require.NoError(t, err)
	assert.Equal(t, "ethoscopes.outcomes.dev_1", subj)

	var ev outcomeEvent
	require.NoError(t, json.Unmarshal(b, &ev))
	assert.Equal(t, "DISPATCH", ev.DispatchID)
	assert.Equal(t, "dev.1", ev.DeviceID)
	assert.False(t, ev.Succeeded)
	assert.Equal(t, "transport failure: connection reset", ev.Reason)
	assert.True(t, at.Equal(ev.At))
}
