package bridge

import (
	"fmt"

	"github.com/victorjacobs/go-qstream/config"
	"github.com/victorjacobs/go-qstream/qstream"
)

// deviceReadings bundles the two device queries the sensors draw from.
type deviceReadings struct {
	status     *qstream.Status
	airQuality int
}

type sensorConfiguration struct {
	name string
	unit string
	get  func(r *deviceReadings) interface{}
}

func (s *sensorConfiguration) stateTopic() string {
	return fmt.Sprintf("%v/sensor/%v", config.TopicPrefix, s.name)
}
