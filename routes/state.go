package routes

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/victorjacobs/go-qstream/bridge"
	"github.com/victorjacobs/go-qstream/logger"
	"github.com/victorjacobs/go-qstream/qstream"
)

type stateResponse struct {
	*qstream.Status
	AirQuality    int       `json:"air_quality"`
	LastRefreshed time.Time `json:"last_refreshed"`
}

type cache struct {
	lastRefreshed int64
	status        *qstream.Status
	airQuality    int
}

// State serves the latest device snapshot, re-reading the device at most once
// every 30 seconds.
func State(b *bridge.Bridge, log *logger.Logger) func(http.ResponseWriter, *http.Request, httprouter.Params) {
	c := &cache{}

	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		now := time.Now().UnixMilli()

		if c.lastRefreshed+30_000 < now || c.status == nil {
			status, err := b.GetStatus()
			if err != nil {
				log.Errorw("Failed to get status", "err", err)
				http.Error(w, "device unavailable", http.StatusBadGateway)

				return
			}

			airQuality, err := b.GetAirQuality()
			if err != nil {
				log.Errorw("Failed to get air quality", "err", err)
				http.Error(w, "device unavailable", http.StatusBadGateway)

				return
			}

			c.lastRefreshed = now
			c.status = status
			c.airQuality = airQuality

			log.Debugw("Refreshed web cache")
		}

		resp := stateResponse{
			Status:        c.status,
			AirQuality:    c.airQuality,
			LastRefreshed: time.Unix(0, c.lastRefreshed*int64(time.Millisecond)),
		}

		w.Header().Set("Content-Type", "application/json")
		if marshaled, err := json.Marshal(resp); err != nil {
			log.Errorw("Error marshaling state", "err", err)
		} else {
			w.Write(marshaled)
		}
	}
}
