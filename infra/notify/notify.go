// Package notify publishes run summaries over MQTT so downstream consumers
// (planning dashboards, payroll exports) learn about fresh rosters without
// polling the run log.
package notify

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/transitops/rosterd/infra/logger"
)

// Config defines the connection parameters of the run notifier.
type Config struct {
	Enabled  bool   `json:"enabled"`
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Topic    string `json:"topic"`
	QoS      byte   `json:"qos"`
	// TimeoutMS bounds connect and publish waits.
	TimeoutMS int `json:"timeout_ms"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "rosterd"
	}
	if c.Topic == "" {
		c.Topic = "rosterd/runs"
	}
	if c.TimeoutMS <= 0 {
		c.TimeoutMS = 5000
	}
}

// RunSummary is the payload published after a completed run.
type RunSummary struct {
	RunID      string    `json:"run_id"`
	Location   string    `json:"location"`
	Start      string    `json:"start"`
	End        string    `json:"end"`
	Assigned   int       `json:"assigned"`
	Unassigned int       `json:"unassigned"`
	Warnings   int       `json:"warnings"`
	Timestamp  time.Time `json:"timestamp"`
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Notifier publishes run summaries to a single MQTT topic.
type Notifier struct {
	cli     pahoClient
	topic   string
	qos     byte
	timeout time.Duration
	log     logger.Logger
}

// New connects to the broker. A nil Notifier is returned with no error when
// the notifier is disabled.
func New(cfg Config) (*Notifier, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	cfg.SetDefaults()
	if cfg.Broker == "" {
		return nil, fmt.Errorf("notify: broker is required")
	}

	log := logger.New("notify")
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	opts.ConnectTimeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}

	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &Notifier{
		cli:     c,
		topic:   cfg.Topic,
		qos:     cfg.QoS,
		timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		log:     log,
	}, nil
}

// Publish sends one run summary. Failures are logged and returned; the caller
// treats them as non-fatal.
func (n *Notifier) Publish(sum RunSummary) error {
	payload, err := json.Marshal(sum)
	if err != nil {
		return err
	}
	token := n.cli.Publish(n.topic, n.qos, false, payload)
	if !token.WaitTimeout(n.timeout) {
		n.log.Errorf("publish to %s timed out", n.topic)
		return fmt.Errorf("notify: publish timeout on %s", n.topic)
	}
	if err := token.Error(); err != nil {
		n.log.Errorf("publish to %s failed: %v", n.topic, err)
		return err
	}
	n.log.Infof("published run %s to %s", sum.RunID, n.topic)
	return nil
}

// Close disconnects from the broker.
func (n *Notifier) Close() {
	if n != nil && n.cli != nil && n.cli.IsConnected() {
		n.cli.Disconnect(250)
	}
}
