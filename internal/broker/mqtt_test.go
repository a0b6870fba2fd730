package broker

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTopicPerDevice(t *testing.T) {
	assert.Equal(t, "bus/dev-12/commands", CommandTopic("dev-12"))
}

func TestCommandWireShapeOmitsEmptyFields(t *testing.T) {
	raw, err := json.Marshal(Command{Action: ActionTriggerCleared})
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"trigger_cleared"}`, string(raw))

	layoutID := 7
	raw, err = json.Marshal(Command{Action: ActionLayoutAssigned, LayoutID: &layoutID})
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"layout_assigned","layout_id":7}`, string(raw))
}

func TestNopPublisherNeverFails(t *testing.T) {
	assert.NoError(t, Nop{}.PublishBusCommand("dev-1", Command{Action: ActionTriggerRaised}))
}
