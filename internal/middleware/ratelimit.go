// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// writeWindow holds the timestamps of one client's recent writes.
type writeWindow struct {
	mu         sync.Mutex
	timestamps []time.Time
}

// WriteLimiter caps how many mutating requests (POST, PUT, PATCH, DELETE)
// a client may send per sliding window. Reads are never limited, so a
// client that hit the limit can still refresh its table.
type WriteLimiter struct {
	mu      sync.RWMutex
	clients map[string]*writeWindow
	limit   int
	window  time.Duration
	now     func() time.Time
	stopCh  chan struct{}
}

// NewWriteLimiter allows limit writes per window and client. It starts a
// background goroutine that drops idle clients; call Stop to end it.
func NewWriteLimiter(limit int, window time.Duration) *WriteLimiter {
	wl := &WriteLimiter{
		clients: make(map[string]*writeWindow),
		limit:   limit,
		window:  window,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				wl.cleanup()
			case <-wl.stopCh:
				return
			}
		}
	}()

	return wl
}

// Stop terminates the background cleanup goroutine.
func (wl *WriteLimiter) Stop() {
	close(wl.stopCh)
}

// allow records a write for key. When the key is over the limit it
// returns false and how long until the oldest write leaves the window.
func (wl *WriteLimiter) allow(key string) (bool, time.Duration) {
	wl.mu.RLock()
	entry, exists := wl.clients[key]
	wl.mu.RUnlock()

	if !exists {
		wl.mu.Lock()
		entry, exists = wl.clients[key]
		if !exists {
			entry = &writeWindow{}
			wl.clients[key] = entry
		}
		wl.mu.Unlock()
	}

	now := wl.now()
	cutoff := now.Add(-wl.window)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	valid := entry.timestamps[:0]
	for _, ts := range entry.timestamps {
		if ts.After(cutoff) {
			valid = append(valid, ts)
		}
	}
	entry.timestamps = valid

	if len(entry.timestamps) >= wl.limit {
		return false, entry.timestamps[0].Add(wl.window).Sub(now)
	}
	entry.timestamps = append(entry.timestamps, now)
	return true, 0
}

// cleanup removes clients with no write inside the window.
func (wl *WriteLimiter) cleanup() {
	cutoff := wl.now().Add(-wl.window)

	wl.mu.Lock()
	defer wl.mu.Unlock()

	for key, entry := range wl.clients {
		entry.mu.Lock()
		idle := len(entry.timestamps) == 0 || !entry.timestamps[len(entry.timestamps)-1].After(cutoff)
		entry.mu.Unlock()

		if idle {
			delete(wl.clients, key)
		}
	}
}

// Middleware limits mutating requests by client IP and answers 429 with a
// Retry-After header once a client is over the limit.
func (wl *WriteLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isWrite(r.Method) {
			next.ServeHTTP(w, r)
			return
		}
		if ok, retry := wl.allow(clientIP(r)); !ok {
			secs := int(retry / time.Second)
			if retry%time.Second != 0 {
				secs++
			}
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			writeJSONError(w, http.StatusTooManyRequests, "Too many edits, slow down.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// clientIP extracts the client's IP address, checking X-Forwarded-For
// and X-Real-IP headers for proxied requests.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.IndexByte(xff, ','); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
