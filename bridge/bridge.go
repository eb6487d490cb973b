package bridge

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/victorjacobs/go-qstream/config"
	"github.com/victorjacobs/go-qstream/logger"
	"github.com/victorjacobs/go-qstream/qstream"
)

// Bridge polls a QStream fan and republishes its readings over MQTT.
type Bridge struct {
	cfg       *config.Configuration
	client    *qstream.Client
	log       *logger.Logger
	lastState string
	lastFlow  int
}

func New(cfg *config.Configuration, log *logger.Logger) (*Bridge, error) {
	log.Infow("Connecting to device", "host", cfg.Device.Host)

	client, err := qstream.NewClient(cfg.Device.Host, qstream.WithTimeout(cfg.Device.Timeout()))
	if err != nil {
		return nil, err
	}

	status, err := client.GetStatus()
	if err != nil {
		return nil, err
	}
	log.Infow("Connected", "actualFlow", status.ActualFlow, "setFlow", status.SetFlow, "valveOpen", status.ValveOpen)

	deviceTime, err := client.GetDateTime()
	if err != nil {
		return nil, err
	}
	log.Infow("Device clock", "time", deviceTime)

	return &Bridge{
		cfg:      cfg,
		client:   client,
		log:      log,
		lastFlow: -1,
	}, nil
}

// Close releases the device client.
func (b *Bridge) Close() {
	b.client.Close()
}

// SubscribeToTimerCommands listens for "<minutes> <speed%>" payloads on the
// timer command topic. An empty or "0" payload cancels a running timer. Meant
// to be called from the MQTT on-connect handler so subscriptions survive
// reconnects.
func (b *Bridge) SubscribeToTimerCommands(mqttClient mqtt.Client) {
	if t := mqttClient.Subscribe(fmt.Sprintf("%v/fan/timer/cmd", config.TopicPrefix), 0, func(client mqtt.Client, msg mqtt.Message) {
		payload := strings.TrimSpace(string(msg.Payload()))

		minutes, speed, err := parseTimerCommand(payload)
		if err != nil {
			b.log.Errorw("Invalid timer command", "payload", payload, "err", err)
			return
		}

		if minutes == 0 {
			if err := b.client.CancelTimer(); err != nil {
				b.log.Errorw("Error cancelling timer", "err", err)
			}
			return
		}

		if err := b.client.SetTimer(minutes, speed, false, scheduleModeForTime(time.Now())); err != nil {
			b.log.Errorw("Error setting timer", "err", err)
		}
	}); t.Wait() && t.Error() != nil {
		b.log.Errorw("MQTT receive error", "err", t.Error())
	}
}

// PollSensors publishes one retained reading per sensor definition.
func (b *Bridge) PollSensors(mqttClient mqtt.Client) {
	status, err := b.client.GetStatus()
	if err != nil {
		b.log.Panicw("Failed to get status", "err", err)
	}

	airQuality, err := b.client.GetAirQuality()
	if err != nil {
		b.log.Panicw("Failed to get air quality", "err", err)
	}

	readings := &deviceReadings{
		status:     status,
		airQuality: airQuality,
	}

	for _, sensorConfig := range sensorDefinitions {
		value := fmt.Sprintf("%v", sensorConfig.get(readings))

		if t := mqttClient.Publish(sensorConfig.stateTopic(), 0, true, value); t.Wait() && t.Error() != nil {
			b.log.Errorw("MQTT publishing failed", "err", t.Error())
			continue
		}
	}
}

// PollFanState publishes the on/off state and actual flow, but only when they
// changed since the previous poll.
func (b *Bridge) PollFanState(mqttClient mqtt.Client) {
	status, err := b.client.GetStatus()
	if err != nil {
		b.log.Panicw("Retrieving fan status failed", "err", err)
	}

	stateMessage := "OFF"
	if status.ActualFlow > 0 {
		stateMessage = "ON"
	}

	if b.lastState != stateMessage {
		if t := mqttClient.Publish(config.TopicPrefix+"/fan/state", 0, true, stateMessage); t.Wait() && t.Error() != nil {
			b.log.Errorw("MQTT publishing failed", "err", t.Error())
			return
		}

		b.lastState = stateMessage
	}

	if b.lastFlow != status.ActualFlow {
		if t := mqttClient.Publish(config.TopicPrefix+"/fan/flow/state", 0, true, strconv.Itoa(status.ActualFlow)); t.Wait() && t.Error() != nil {
			b.log.Errorw("MQTT publishing failed", "err", t.Error())
			return
		}

		b.lastFlow = status.ActualFlow
	}
}

// GetStatus exposes the device status for the web routes.
func (b *Bridge) GetStatus() (*qstream.Status, error) {
	return b.client.GetStatus()
}

// GetAirQuality exposes the air quality index for the web routes.
func (b *Bridge) GetAirQuality() (int, error) {
	return b.client.GetAirQuality()
}

func parseTimerCommand(payload string) (int, int, error) {
	if payload == "" || payload == "0" {
		return 0, 0, nil
	}

	fields := strings.Fields(payload)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("expected \"<minutes> <speed>\", got %q", payload)
	}

	minutes, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid minutes %q", fields[0])
	}

	speed, err := strconv.Atoi(strings.TrimSuffix(fields[1], "%"))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid speed %q", fields[1])
	}

	return minutes, speed, nil
}

// scheduleModeForTime picks the day/night token for timer commands: 07:00 up
// to 22:00 counts as day.
func scheduleModeForTime(t time.Time) qstream.ScheduleMode {
	if h := t.Hour(); h >= 7 && h < 22 {
		return qstream.ScheduleModeDay
	}

	return qstream.ScheduleModeNight
}
