// Package broker pushes state changes to bus display devices over MQTT.
// Each device subscribes to bus/<device_id>/commands and reacts to
// layout_assigned / trigger_raised / trigger_cleared messages.
package broker

import (
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

// Publisher is the push surface the API layer and the player depend on.
type Publisher interface {
	PublishBusCommand(deviceID string, command Command) error
}

// Command is the wire shape sent to displays.
type Command struct {
	Action   string `json:"action"`
	LayoutID *int   `json:"layout_id,omitempty"`
	ItemID   string `json:"item_id,omitempty"`
}

const (
	ActionLayoutAssigned = "layout_assigned"
	ActionTriggerRaised  = "trigger_raised"
	ActionTriggerCleared = "trigger_cleared"
)

type mqttPublisher struct {
	client mqtt.Client
}

var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Info().Msg("connected to MQTT broker")
}

var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Error().Err(err).Msg("MQTT connection lost")
}

// NewPublisher connects to the broker and returns a ready Publisher.
func NewPublisher(brokerURL, clientID string) (Publisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return &mqttPublisher{client: client}, nil
}

func (p *mqttPublisher) PublishBusCommand(deviceID string, command Command) error {
	payload, err := json.Marshal(command)
	if err != nil {
		return fmt.Errorf("failed to encode bus command: %w", err)
	}

	topic := CommandTopic(deviceID)
	if token := p.client.Publish(topic, 1, false, payload); token.Wait() && token.Error() != nil {
		log.Error().Err(token.Error()).Str("topic", topic).Msg("failed to publish bus command")
		return token.Error()
	}
	return nil
}

// CommandTopic returns the per-device command topic.
func CommandTopic(deviceID string) string {
	return fmt.Sprintf("bus/%s/commands", deviceID)
}

// Nop is used when no broker is configured; publishes become no-ops.
type Nop struct{}

func (Nop) PublishBusCommand(string, Command) error { return nil }
