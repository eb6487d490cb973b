package main

import (
	"time"

	"github.com/victorjacobs/go-qstream/logger"
)

func loopSafely(f func()) {
	defer func() {
		if v := recover(); v != nil {
			logger.Get(logger.InfoLevel).Errorw("Recovered from panic, restarting", "panic", v)
			time.Sleep(time.Second)
			go loopSafely(f)
		}
	}()

	for {
		f()
	}
}
