package bridge

var sensorDefinitions = [...]*sensorConfiguration{
	{
		name: "analog_flow",
		unit: "%",
		get:  func(r *deviceReadings) interface{} { return r.status.AnalogFlow },
	},
	{
		name: "set_flow",
		unit: "%",
		get:  func(r *deviceReadings) interface{} { return r.status.SetFlow },
	},
	{
		name: "actual_flow",
		unit: "%",
		get:  func(r *deviceReadings) interface{} { return r.status.ActualFlow },
	},
	{
		name: "air_quality",
		get:  func(r *deviceReadings) interface{} { return r.airQuality },
	},
	{
		name: "timer_remaining",
		unit: "min",
		get: func(r *deviceReadings) interface{} {
			if r.status.TimerRemainingMinutes == nil {
				return 0
			}
			return *r.status.TimerRemainingMinutes
		},
	},
	{
		name: "valve",
		get: func(r *deviceReadings) interface{} {
			if r.status.ValveOpen {
				return "OPEN"
			}
			return "CLOSED"
		},
	},
	{
		name: "demand_control",
		get: func(r *deviceReadings) interface{} {
			if r.status.DemandControlEnabled {
				return "ON"
			}
			return "OFF"
		},
	},
}
