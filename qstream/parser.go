package qstream

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// The /Status sentence is anchored on keyword markers instead of token
// positions, since the firmware occasionally reshuffles or omits segments.
var (
	timerActivePattern = regexp.MustCompile(`\bTIMER ACTIVE (\d+) MIN\b`)
	scheduleOnPattern  = regexp.MustCompile(`\bSCHEDULE ON (\d+) MIN\b`)
	analogFlowPattern  = regexp.MustCompile(`\bQanalog (\d+)%`)
	setFlowPattern     = regexp.MustCompile(`\bQset (\d+)%`)
	actualFlowPattern  = regexp.MustCompile(`\bQactual (\d+)%`)
	modePattern        = regexp.MustCompile(`\b(DAY|NIGHT)\b`)
)

const dateTimeLayout = "02/01/2006 15:04:05"

// ParseStatus decodes the composite sentence returned by the /Status endpoint,
// e.g. "TIMER ACTIVE 2 MIN Qanalog 0% Qset 38% Qactual 38% DEMAND CONTROL OFF
// DAY VALVE CLOSED". Unknown trailing tokens are ignored so newer firmware
// doesn't break older clients.
func ParseStatus(raw string) (*Status, error) {
	for _, marker := range []string{"TIMER", "Qanalog", "Qset", "Qactual", "DEMAND CONTROL", "VALVE"} {
		if !strings.Contains(raw, marker) {
			return nil, newResponseError(raw, "status string is missing %v marker", marker)
		}
	}

	status := &Status{Raw: raw}

	switch {
	case timerActivePattern.MatchString(raw):
		minutes, err := strconv.Atoi(timerActivePattern.FindStringSubmatch(raw)[1])
		if err != nil {
			return nil, newResponseError(raw, "invalid timer minutes")
		}
		status.TimerActive = true
		status.TimerRemainingMinutes = &minutes
	case strings.Contains(raw, "TIMER INACTIVE"):
		// Inactive timer carries no remaining minutes.
	default:
		return nil, newResponseError(raw, "malformed TIMER segment")
	}

	var err error
	if status.AnalogFlow, err = matchFlow(raw, analogFlowPattern, "Qanalog"); err != nil {
		return nil, err
	}
	if status.SetFlow, err = matchFlow(raw, setFlowPattern, "Qset"); err != nil {
		return nil, err
	}
	if status.ActualFlow, err = matchFlow(raw, actualFlowPattern, "Qactual"); err != nil {
		return nil, err
	}

	switch {
	case strings.Contains(raw, "DEMAND CONTROL ON"):
		status.DemandControlEnabled = true
	case strings.Contains(raw, "DEMAND CONTROL OFF"):
	default:
		return nil, newResponseError(raw, "malformed DEMAND CONTROL segment")
	}

	// The schedule segment is optional. The mode token shows up on its own
	// after DEMAND CONTROL even when no SCHEDULE segment is present, so it is
	// picked up independently.
	if match := scheduleOnPattern.FindStringSubmatch(raw); match != nil {
		minutes, err := strconv.Atoi(match[1])
		if err != nil {
			return nil, newResponseError(raw, "invalid schedule minutes")
		}
		status.ScheduleEnabled = true
		status.ScheduleRemainingMinutes = &minutes
	} else if strings.Contains(raw, "SCHEDULE ON") {
		status.ScheduleEnabled = true
	}

	if match := modePattern.FindStringSubmatch(raw); match != nil {
		status.ScheduleMode = ScheduleMode(match[1])
	}

	switch {
	case strings.Contains(raw, "VALVE OPEN"):
		status.ValveOpen = true
	case strings.Contains(raw, "VALVE CLOSED"):
	default:
		return nil, newResponseError(raw, "malformed VALVE segment")
	}

	return status, nil
}

func matchFlow(raw string, pattern *regexp.Regexp, marker string) (int, error) {
	match := pattern.FindStringSubmatch(raw)
	if match == nil {
		return 0, newResponseError(raw, "malformed %v segment", marker)
	}

	flow, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, newResponseError(raw, "invalid %v value", marker)
	}

	if flow < 0 || flow > 100 {
		return 0, newResponseError(raw, "%v value %v%% out of range", marker, flow)
	}

	return flow, nil
}

// parsePercent converts a percentage string like "38%" to its integer value.
// The percent sign is optional, the 0-100 range is not.
func parsePercent(raw string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	if err != nil {
		return 0, newResponseError(raw, "value is not a percentage")
	}

	if value < 0 || value > 100 {
		return 0, newResponseError(raw, "percentage %v out of range", value)
	}

	return value, nil
}

// parseDateTime converts the device clock format, e.g. "24/10/2025 23:19:05".
func parseDateTime(raw string) (time.Time, error) {
	parsed, err := time.Parse(dateTimeLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, newResponseError(raw, "value is not a DD/MM/YYYY HH:MM:SS datetime")
	}

	return parsed, nil
}
