package qstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Client talks to a single QStream device. It performs one HTTP round trip
// per call and keeps no state between calls, so it is safe for concurrent use
// as long as the underlying http.Client is.
type Client struct {
	host       string
	timeout    time.Duration
	httpClient *http.Client
	ownsClient bool
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithTimeout overrides the default 10s per-call timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHTTPClient makes the client issue requests through an externally owned
// http.Client. Close will not touch it; its lifecycle stays with the caller.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a client for the device at host, which may be a bare IP or
// hostname ("192.168.1.100") or a full URL.
func NewClient(host string, opts ...Option) (*Client, error) {
	if host == "" {
		return nil, fmt.Errorf("qstream: host must not be empty")
	}

	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}

	c := &Client{
		host:    strings.TrimSuffix(host, "/"),
		timeout: defaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{}
		c.ownsClient = true
	}

	return c, nil
}

// Close releases the transport if the client created it itself. Injected
// http.Clients are left alone.
func (c *Client) Close() {
	if c.ownsClient {
		c.httpClient.CloseIdleConnections()
	}
}

// GetStatus reads and decodes the composite /Status sentence.
func (c *Client) GetStatus() (*Status, error) {
	value, err := c.get("/Status")
	if err != nil {
		return nil, err
	}

	return ParseStatus(value)
}

// GetAirQuality reads the current air quality index from the /AQI endpoint.
func (c *Client) GetAirQuality() (int, error) {
	value, err := c.get("/AQI")
	if err != nil {
		return 0, err
	}

	aqi, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, newResponseError(value, "air quality index is not an integer")
	}

	return aqi, nil
}

// GetNominalFlow reads the nominal flow rate from /Qnom. The device already
// formats it ("70%"), so it is returned verbatim.
func (c *Client) GetNominalFlow() (string, error) {
	return c.get("/Qnom")
}

// GetDateTime reads the device clock.
func (c *Client) GetDateTime() (time.Time, error) {
	value, err := c.get("/DateTime")
	if err != nil {
		return time.Time{}, err
	}

	return parseDateTime(value)
}

// GetLevel reads the flow percentage of one of the four preset levels. The
// index is validated before any network call.
func (c *Client) GetLevel(index int) (int, error) {
	if index < 1 || index > 4 {
		return 0, fmt.Errorf("qstream: level index must be between 1 and 4, got %v", index)
	}

	value, err := c.get(fmt.Sprintf("/Levels?index=%v", index))
	if err != nil {
		return 0, err
	}

	return parsePercent(value)
}

// GetTimer reads the remaining timer minutes. Zero means no timer is running.
func (c *Client) GetTimer() (int, error) {
	value, err := c.get("/Timer")
	if err != nil {
		return 0, err
	}

	minutes, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, newResponseError(value, "timer minutes is not an integer")
	}

	return minutes, nil
}

// SetTimer overrides the fan speed for the given duration. The day/night mode
// follows whatever time-of-day convention the caller uses; the device resumes
// its previous settings when the timer runs out.
func (c *Client) SetTimer(minutes int, speedPercent int, demandControl bool, mode ScheduleMode) error {
	if minutes < 0 {
		return fmt.Errorf("qstream: timer minutes must not be negative, got %v", minutes)
	}
	if speedPercent < 0 || speedPercent > 100 {
		return fmt.Errorf("qstream: timer speed must be between 0 and 100, got %v", speedPercent)
	}
	if mode != ScheduleModeDay && mode != ScheduleModeNight {
		return fmt.Errorf("qstream: invalid schedule mode %q", mode)
	}

	demand := "OFF"
	if demandControl {
		demand = "ON"
	}

	_, err := c.post("/Timer", fmt.Sprintf("TIMER %v MIN %v%% DEMAND CONTROL %v %v", minutes, speedPercent, demand, mode))
	return err
}

// CancelTimer stops a running timer. A zero duration is the device's
// documented cancellation signal.
func (c *Client) CancelTimer() error {
	_, err := c.post("/Timer", "TIMER 0 MIN")
	return err
}

// valuePayload is the JSON envelope all endpoints use, both ways.
type valuePayload struct {
	Value *string `json:"Value"`
}

func (c *Client) get(path string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+path, nil)
	if err != nil {
		return "", fmt.Errorf("qstream: building request for %v: %w", path, err)
	}

	return c.do(req)
}

func (c *Client) post(path string, value string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	body, err := json.Marshal(valuePayload{Value: &value})
	if err != nil {
		return "", fmt.Errorf("qstream: encoding request for %v: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+path, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("qstream: building request for %v: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *Client) do(req *http.Request) (string, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", c.transportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", c.transportError(err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", newResponseError(string(raw), "unexpected status %v", resp.StatusCode)
	}

	var payload valuePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", newResponseError(string(raw), "response is not valid JSON")
	}

	if payload.Value == nil {
		return "", newResponseError(string(raw), "response is missing Value field")
	}

	return *payload.Value, nil
}

func (c *Client) transportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &TimeoutError{Host: c.host, Timeout: c.timeout}
	}

	return &ConnectionError{Host: c.host, Err: err}
}
