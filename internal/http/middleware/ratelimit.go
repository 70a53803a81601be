package middleware

import (
	"sync"
	"time"
)

type clientInfo struct {
	start time.Time
	count int64
}

// localWindow is an in-process fixed-window counter used when Redis is not configured.
type localWindow struct {
	mu      sync.Mutex
	clients map[string]*clientInfo
	now     func() time.Time
	sweeps  int
}

func newLocalWindow() *localWindow {
	return &localWindow{clients: make(map[string]*clientInfo), now: time.Now}
}

// incr counts a hit for key and returns the count inside the current window.
func (w *localWindow) incr(key string, window time.Duration) int64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	w.sweeps++
	if w.sweeps >= 1024 {
		w.sweeps = 0
		for k, ci := range w.clients {
			if now.Sub(ci.start) > window {
				delete(w.clients, k)
			}
		}
	}

	ci, ok := w.clients[key]
	if !ok || now.Sub(ci.start) > window {
		w.clients[key] = &clientInfo{start: now, count: 1}
		return 1
	}
	ci.count++
	return ci.count
}
