package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/victorjacobs/go-qstream/logger"
)

// TopicPrefix is the root of all MQTT topics the bridge publishes under.
const TopicPrefix = "qstream"

const defaultListenAddress = ":8080"

type Configuration struct {
	Device        Device `json:"device"`
	Mqtt          Mqtt   `json:"mqtt"`
	ListenAddress string `json:"listen_address"`
}

type Device struct {
	Host           string `json:"host"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

type Mqtt struct {
	IpAddress string `json:"ip_address"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

func LoadConfiguration(filename string) (*Configuration, error) {
	var file *os.File
	var err error
	if file, err = os.Open(filename); err != nil {
		return nil, err
	}

	defer file.Close()
	decoder := json.NewDecoder(file)
	configuration := &Configuration{}
	if err := decoder.Decode(configuration); err != nil {
		return nil, err
	}

	if configuration.Device.Host == "" {
		return nil, fmt.Errorf("configuration is missing device host")
	}

	if configuration.ListenAddress == "" {
		configuration.ListenAddress = defaultListenAddress
	}

	return configuration, nil
}

// Timeout returns the per-call device timeout, defaulting to 10s when the
// configuration doesn't set one.
func (d *Device) Timeout() time.Duration {
	if d.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}

	return time.Duration(d.TimeoutSeconds) * time.Second
}

func (m *Mqtt) ClientOptions() *mqtt.ClientOptions {
	return mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%v:1883", m.IpAddress)).
		SetUsername(m.Username).
		SetPassword(m.Password).
		SetAutoReconnect(true).
		SetConnectionLostHandler(func(client mqtt.Client, err error) {
			logger.Get(logger.InfoLevel).Warnw("MQTT connection lost", "err", err)
		}).
		SetReconnectingHandler(func(client mqtt.Client, opts *mqtt.ClientOptions) {
			logger.Get(logger.InfoLevel).Infow("MQTT reconnecting")
		})
}
