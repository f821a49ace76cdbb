package mqtt

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"lautenbacher.net/gestureleds/config"
	"lautenbacher.net/gestureleds/controller"
)

// payload represents the JSON payload which is published
type payload struct {
	Kind    string
	Gesture string `json:",omitempty"`
	Mode    string
	Base    string
	Time    time.Time
}

// client is the part of mqtt.Client the publisher needs.
type client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// Publisher sends controller notifications to an MQTT broker. It
// implements controller.Publisher.
type Publisher struct {
	client client
	prefix string
}

// New connects to the configured MQTT broker.
func New(cfg config.MQTTConfig) (*Publisher, error) {
	options := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(5 * time.Second).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			slog.Warn("MQTT connection lost", "error", err)
		})
	c := mqtt.NewClient(options)
	t := c.Connect()
	_ = t.Wait()
	if t.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", cfg.Broker, t.Error())
	}
	slog.Info("Connected to MQTT broker", "broker", cfg.Broker, "prefix", cfg.TopicPrefix)
	return newPublisher(c, cfg.TopicPrefix), nil
}

func newPublisher(c client, prefix string) *Publisher {
	return &Publisher{client: c, prefix: strings.TrimSuffix(prefix, "/")}
}

// Topic returns the topic a notification kind is published on,
// e.g. gestureleds/gesture.
func (p *Publisher) Topic(kind controller.NotificationKind) string {
	return fmt.Sprintf("%s/%s", p.prefix, strings.ToLower(string(kind)))
}

// Publish publishes n as JSON. It does not wait for the broker.
func (p *Publisher) Publish(n controller.Notification) {
	pl := payload{
		Kind: string(n.Kind),
		Mode: n.Mode.String(),
		Base: n.Base.String(),
		Time: n.Time,
	}
	if n.Kind == controller.KindGesture {
		pl.Gesture = n.Gesture.String()
	}
	marshaledPayload, err := json.Marshal(pl)
	if err != nil {
		slog.Error("Error encoding MQTT payload", "error", err)
		return
	}

	// mode is retained so late subscribers see the current state
	retained := n.Kind == controller.KindMode
	t := p.client.Publish(p.Topic(n.Kind), 1, retained, marshaledPayload)

	// Check for errors asynchronously
	go func() {
		_ = t.Wait()
		if t.Error() != nil {
			slog.Error("MQTT publish failed", "error", t.Error())
		}
	}()
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
