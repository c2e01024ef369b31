package main

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"retrotracker/pkg/gamestate"
)

// liveStats is the session snapshot the stats endpoint serves.
type liveStats struct {
	mu      sync.Mutex
	elapsed time.Duration
	exp     int
	gold    int
	events  []string
}

// keep the last few events for the endpoint; the full history is in sqlite
const liveEventCap = 50

func newLiveStats() *liveStats {
	return &liveStats{}
}

func (l *liveStats) record(ev *gamestate.Event, game *gamestate.Game, elapsed time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.elapsed = elapsed
	l.exp = game.Exp()
	l.gold = game.Gold()
	l.events = append(l.events, ev.String())
	if len(l.events) > liveEventCap {
		l.events = l.events[len(l.events)-liveEventCap:]
	}
}

func (l *liveStats) snapshot() gin.H {
	l.mu.Lock()
	defer l.mu.Unlock()
	hours := l.elapsed.Hours()
	expRate, goldRate := 0, 0
	if hours > 0 {
		expRate = int(float64(l.exp) / hours)
		goldRate = int(float64(l.gold) / hours)
	}
	events := make([]string, len(l.events))
	copy(events, l.events)
	return gin.H{
		"uptime_seconds": int(l.elapsed.Seconds()),
		"exp":            l.exp,
		"gold":           l.gold,
		"exp_per_hour":   expRate,
		"gold_per_hour":  goldRate,
		"events":         events,
	}
}

// serveStats exposes the live session on a local HTTP address.
func serveStats(addr string, live *liveStats) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/stats", func(c *gin.Context) {
		c.JSON(200, live.snapshot())
	})
	return r.Run(addr)
}
