package qstream

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatusTimerActive(t *testing.T) {
	raw := "TIMER ACTIVE 2 MIN Qanalog 0% Qset 38% Qactual 38% DEMAND CONTROL OFF DAY VALVE CLOSED"

	status, err := ParseStatus(raw)
	require.NoError(t, err)

	assert.True(t, status.TimerActive)
	require.NotNil(t, status.TimerRemainingMinutes)
	assert.Equal(t, 2, *status.TimerRemainingMinutes)
	assert.False(t, status.ScheduleEnabled)
	assert.Nil(t, status.ScheduleRemainingMinutes)
	assert.Equal(t, ScheduleModeDay, status.ScheduleMode)
	assert.Equal(t, 0, status.AnalogFlow)
	assert.Equal(t, 38, status.SetFlow)
	assert.Equal(t, 38, status.ActualFlow)
	assert.False(t, status.DemandControlEnabled)
	assert.False(t, status.ValveOpen)
	assert.Equal(t, raw, status.Raw)
}

func TestParseStatusTimerInactive(t *testing.T) {
	raw := "TIMER INACTIVE Qanalog 10% Qset 50% Qactual 45% DEMAND CONTROL ON NIGHT VALVE OPEN"

	status, err := ParseStatus(raw)
	require.NoError(t, err)

	assert.False(t, status.TimerActive)
	assert.Nil(t, status.TimerRemainingMinutes)
	assert.Equal(t, 10, status.AnalogFlow)
	assert.Equal(t, 50, status.SetFlow)
	assert.Equal(t, 45, status.ActualFlow)
	assert.True(t, status.DemandControlEnabled)
	assert.Equal(t, ScheduleModeNight, status.ScheduleMode)
	assert.True(t, status.ValveOpen)
}

func TestParseStatusScheduleOn(t *testing.T) {
	raw := "TIMER INACTIVE SCHEDULE ON 25 MIN Qanalog 0% Qset 28% Qactual 28% DEMAND CONTROL ON NIGHT VALVE CLOSED"

	status, err := ParseStatus(raw)
	require.NoError(t, err)

	assert.False(t, status.TimerActive)
	assert.True(t, status.ScheduleEnabled)
	require.NotNil(t, status.ScheduleRemainingMinutes)
	assert.Equal(t, 25, *status.ScheduleRemainingMinutes)
	assert.Equal(t, ScheduleModeNight, status.ScheduleMode)
	assert.True(t, status.DemandControlEnabled)
}

func TestParseStatusScheduleOff(t *testing.T) {
	raw := "TIMER INACTIVE SCHEDULE OFF Qanalog 0% Qset 20% Qactual 20% DEMAND CONTROL ON DAY VALVE CLOSED"

	status, err := ParseStatus(raw)
	require.NoError(t, err)

	assert.False(t, status.ScheduleEnabled)
	assert.Nil(t, status.ScheduleRemainingMinutes)
	// The device still reports the mode token with the schedule off.
	assert.Equal(t, ScheduleModeDay, status.ScheduleMode)
}

func TestParseStatusMissingValveMarker(t *testing.T) {
	raw := "TIMER INACTIVE Qanalog 0% Qset 20% Qactual 20% DEMAND CONTROL ON DAY"

	_, err := ParseStatus(raw)

	var respErr *ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, raw, respErr.Raw)
	assert.True(t, errors.Is(err, Err))
}

func TestParseStatusGarbage(t *testing.T) {
	raw := "INVALID STATUS STRING"

	_, err := ParseStatus(raw)

	var respErr *ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, raw, respErr.Raw)
}

func TestParseStatusFlowOutOfRange(t *testing.T) {
	raw := "TIMER INACTIVE Qanalog 0% Qset 150% Qactual 20% DEMAND CONTROL ON DAY VALVE CLOSED"

	_, err := ParseStatus(raw)

	var respErr *ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, raw, respErr.Raw)
}

func TestParseStatusMalformedTimerSegment(t *testing.T) {
	raw := "TIMER BROKEN Qanalog 0% Qset 20% Qactual 20% DEMAND CONTROL ON DAY VALVE CLOSED"

	_, err := ParseStatus(raw)

	var respErr *ResponseError
	require.ErrorAs(t, err, &respErr)
}

func TestParseStatusIgnoresUnknownTrailingTokens(t *testing.T) {
	raw := "TIMER INACTIVE Qanalog 0% Qset 20% Qactual 20% DEMAND CONTROL ON DAY VALVE CLOSED FILTER OK BOOST READY"

	status, err := ParseStatus(raw)
	require.NoError(t, err)

	assert.Equal(t, 20, status.SetFlow)
	assert.False(t, status.ValveOpen)
}

func TestParsePercent(t *testing.T) {
	value, err := parsePercent("38%")
	require.NoError(t, err)
	assert.Equal(t, 38, value)

	value, err = parsePercent("70")
	require.NoError(t, err)
	assert.Equal(t, 70, value)
}

func TestParsePercentInvalid(t *testing.T) {
	_, err := parsePercent("high")

	var respErr *ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, "high", respErr.Raw)
}

func TestParsePercentOutOfRange(t *testing.T) {
	_, err := parsePercent("120%")

	var respErr *ResponseError
	require.ErrorAs(t, err, &respErr)
}

func TestParseDateTime(t *testing.T) {
	parsed, err := parseDateTime("24/10/2025 23:19:05")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, time.October, 24, 23, 19, 5, 0, time.UTC), parsed)
}

func TestParseDateTimeInvalid(t *testing.T) {
	_, err := parseDateTime("2025-10-24T23:19:05Z")

	var respErr *ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, "2025-10-24T23:19:05Z", respErr.Raw)
}
