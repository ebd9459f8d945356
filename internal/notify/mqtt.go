package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
)

const publishTimeout = 10 * time.Second

// publisher is the part of mqtt.Client used to send alerts.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTOptions configures NewMQTT.
type MQTTOptions struct {
	Broker   string // e.g. tcp://localhost:1883
	ClientID string
	Topic    string
}

// MQTTNotifier publishes alerts as JSON to a topic.
type MQTTNotifier struct {
	client  mqtt.Client
	pub     publisher
	topic   string
	timeout time.Duration
}

// NewMQTT connects to the broker.
func NewMQTT(opts MQTTOptions, logger zerolog.Logger) (*MQTTNotifier, error) {
	o := mqtt.NewClientOptions()
	o.AddBroker(opts.Broker)
	o.SetClientID(opts.ClientID)
	o.SetAutoReconnect(true)
	o.OnConnect = func(mqtt.Client) {
		logger.Info().Str("broker", opts.Broker).Msg("connected to MQTT broker")
	}
	o.OnConnectionLost = func(_ mqtt.Client, err error) {
		logger.Warn().Err(err).Msg("MQTT connection lost")
	}

	client := mqtt.NewClient(o)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	n := newMQTTNotifier(client, opts.Topic)
	n.client = client
	return n, nil
}

func newMQTTNotifier(pub publisher, topic string) *MQTTNotifier {
	return &MQTTNotifier{pub: pub, topic: topic, timeout: publishTimeout}
}

// Notify publishes a with QoS 1.
func (n *MQTTNotifier) Notify(ctx context.Context, a Alert) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	token := n.pub.Publish(n.topic, 1, false, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(n.timeout):
		return fmt.Errorf("publish to %s timed out after %s", n.topic, n.timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", n.topic, err)
	}
	return nil
}

// Close disconnects from the broker.
func (n *MQTTNotifier) Close() error {
	if n.client != nil {
		n.client.Disconnect(250)
	}
	return nil
}
