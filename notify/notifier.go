package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// ImportEvent is published after every harvest run, one event per
// imported offering.
type ImportEvent struct {
	Offering string    `json:"offering"`
	Output   string    `json:"output"`
	Kind     string    `json:"kind"`
	Maps     int       `json:"maps"`
	Error    string    `json:"error,omitempty"`
	Time     time.Time `json:"time"`
}

// Notifier publishes import events to an MQTT broker.
type Notifier struct {
	client mqtt.Client
	topic  string
	logger *slog.Logger
}

func New(host string, port int16, username, password, topic string) *Notifier {
	logger := slog.Default().With("module", "notify")
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", host, port))
	opts.SetClientID("sos-harvester")
	opts.SetUsername(username)
	opts.SetPassword(password)
	opts.SetAutoReconnect(true)
	opts.OnConnect = func(client mqtt.Client) {
		logger.Info("MQTT connected")
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		logger.Warn("MQTT connection lost", slog.Any("error", err))
	}

	mqttLogger := slog.Default().With("module", "mqtt")
	mqtt.CRITICAL = newMqttLogger(mqttLogger, slog.LevelError)
	mqtt.ERROR = newMqttLogger(mqttLogger, slog.LevelError)
	mqtt.WARN = newMqttLogger(mqttLogger, slog.LevelWarn)

	return &Notifier{
		client: mqtt.NewClient(opts),
		topic:  topic,
		logger: logger,
	}
}

func (n *Notifier) Connect() error {
	if token := n.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connecting to MQTT broker: %w", token.Error())
	}
	return nil
}

// Publish sends one import event, retained so late subscribers see the
// last run.
func (n *Notifier) Publish(event ImportEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding import event: %w", err)
	}

	token := n.client.Publish(n.topic, 0, true, payload)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("publishing import event: %w", token.Error())
	}

	n.logger.Debug("import event published",
		slog.String("offering", event.Offering), slog.Int("maps", event.Maps))
	return nil
}

func (n *Notifier) Disconnect() {
	n.client.Disconnect(250)
}
