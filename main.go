package main

import (
	"net/http"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/julienschmidt/httprouter"

	"github.com/victorjacobs/go-qstream/bridge"
	"github.com/victorjacobs/go-qstream/config"
	"github.com/victorjacobs/go-qstream/logger"
	"github.com/victorjacobs/go-qstream/routes"
)

func main() {
	log := logger.Get(logger.InfoLevel)

	cfg, err := config.LoadConfiguration("qstream.json")
	if err != nil {
		log.Fatalw("Error loading configuration", "err", err)
	}

	b, err := bridge.New(cfg, log)
	if err != nil {
		log.Fatalw("Error setting up bridge", "err", err)
	}
	defer b.Close()

	mqttOpts := cfg.Mqtt.ClientOptions()
	// Configure MQTT subscriptions in the ConnectHandler to make sure they are set up after reconnect
	mqttOpts.SetOnConnectHandler(func(client mqtt.Client) {
		b.SubscribeToTimerCommands(client)
	})

	mqttClient := mqtt.NewClient(mqttOpts)
	if t := mqttClient.Connect(); t.Wait() && t.Error() != nil {
		log.Fatalw("MQTT connection error", "err", t.Error())
	}

	// Fan
	go loopSafely(func() {
		b.PollFanState(mqttClient)

		time.Sleep(1 * time.Second)
	})

	// Sensors
	go loopSafely(func() {
		b.PollSensors(mqttClient)

		time.Sleep(time.Minute)
	})

	// Start httprouter
	router := httprouter.New()
	router.GET("/state", routes.State(b, log))

	go loopSafely(func() {
		http.ListenAndServe(cfg.ListenAddress, router)
	})

	select {}
}
