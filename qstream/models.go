// Package qstream implements a client for the HTTP API of BUVO QStream 2.0
// ventilation fans.
package qstream

// ScheduleMode is the device's day/night operating mode.
type ScheduleMode string

const (
	ScheduleModeDay   ScheduleMode = "DAY"
	ScheduleModeNight ScheduleMode = "NIGHT"
)

// Status holds the decoded reply of the /Status endpoint. TimerRemainingMinutes
// is nil whenever TimerActive is false, ScheduleRemainingMinutes is nil
// whenever ScheduleEnabled is false. ScheduleMode is set whenever the device
// reports a DAY/NIGHT token, even with the schedule disabled.
type Status struct {
	TimerActive              bool         `json:"timer_active"`
	TimerRemainingMinutes    *int         `json:"timer_remaining_minutes,omitempty"`
	ScheduleEnabled          bool         `json:"schedule_enabled"`
	ScheduleRemainingMinutes *int         `json:"schedule_remaining_minutes,omitempty"`
	ScheduleMode             ScheduleMode `json:"schedule_mode,omitempty"`
	AnalogFlow               int          `json:"analog_flow"`
	SetFlow                  int          `json:"set_flow"`
	ActualFlow               int          `json:"actual_flow"`
	DemandControlEnabled     bool         `json:"demand_control_enabled"`
	ValveOpen                bool         `json:"valve_open"`

	// Raw keeps the original response string for diagnosing firmware quirks.
	Raw string `json:"-"`
}
