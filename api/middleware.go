package api

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pranav244872/skillgap/logger"
	"golang.org/x/time/rate"
)

////////////////////////////////////////////////////////////////////////
// Constants
////////////////////////////////////////////////////////////////////////

const (
	// Header carrying the request ID in both directions
	requestIDHeader = "X-Request-ID"

	// Gin context key holding the request ID
	requestIDKey = "request_id"

	// Longest accepted X-Request-ID, the urn:uuid: form
	maxRequestIDLength = 45
)

////////////////////////////////////////////////////////////////////////
// Request ID
////////////////////////////////////////////////////////////////////////

// requestIDMiddleware reuses the caller's X-Request-ID when it is a UUID and
// generates one otherwise, then stores it in both the gin context and the
// request context for slog.
func requestIDMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		requestID := sanitizeRequestID(ctx.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx.Set(requestIDKey, requestID)
		ctx.Request = ctx.Request.WithContext(logger.WithRequestID(ctx.Request.Context(), requestID))
		ctx.Header(requestIDHeader, requestID)

		ctx.Next()
	}
}

// sanitizeRequestID returns the canonical form of a caller-supplied UUID,
// or "" for anything else.
func sanitizeRequestID(raw string) string {
	if raw == "" || len(raw) > maxRequestIDLength {
		return ""
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return ""
	}
	return id.String()
}

////////////////////////////////////////////////////////////////////////
// Logging
////////////////////////////////////////////////////////////////////////

func loggingMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		status := ctx.Writer.Status()
		attrs := []any{
			"method", ctx.Request.Method,
			"path", ctx.Request.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", ctx.ClientIP(),
		}

		reqCtx := ctx.Request.Context()
		switch {
		case status >= http.StatusInternalServerError:
			slog.ErrorContext(reqCtx, "request failed with server error", attrs...)
		case status >= http.StatusBadRequest:
			slog.WarnContext(reqCtx, "request failed with client error", attrs...)
		default:
			slog.InfoContext(reqCtx, "request completed", attrs...)
		}
	}
}

////////////////////////////////////////////////////////////////////////
// Rate limiting
////////////////////////////////////////////////////////////////////////

var errRateLimited = errors.New("too many requests, please retry later")

// minLimiterIdleTTL is the shortest time a client's bucket survives without requests.
const minLimiterIdleTTL = 10 * time.Minute

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiter keeps one token bucket per client IP and sweeps idle ones.
// A nil *clientLimiter allows everything.
type clientLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientEntry
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// newClientLimiter returns nil when perMinute is 0, which disables limiting.
func newClientLimiter(perMinute, burst int) *clientLimiter {
	if perMinute <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}

	// A bucket idle for longer than its refill time is full again, so
	// evicting it is the same as keeping it.
	limit := rate.Limit(float64(perMinute) / 60.0)
	idleTTL := time.Duration(float64(burst) / float64(limit) * float64(time.Second))
	idleTTL = max(idleTTL, minLimiterIdleTTL)

	return &clientLimiter{
		clients:   make(map[string]*clientEntry),
		limit:     limit,
		burst:     burst,
		idleTTL:   idleTTL,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (l *clientLimiter) allow(clientID string) bool {
	if l == nil {
		return true
	}

	l.mu.Lock()
	now := l.now()
	if now.Sub(l.lastSweep) >= l.idleTTL {
		l.evictIdle(now)
		l.lastSweep = now
	}

	entry, ok := l.clients[clientID]
	if !ok {
		entry = &clientEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[clientID] = entry
	}
	entry.lastSeen = now
	l.mu.Unlock()

	return entry.limiter.AllowN(now, 1)
}

// evictIdle drops clients not seen for idleTTL. Callers hold l.mu.
func (l *clientLimiter) evictIdle(now time.Time) {
	cutoff := now.Add(-l.idleTTL)
	for id, entry := range l.clients {
		if entry.lastSeen.Before(cutoff) {
			delete(l.clients, id)
		}
	}
}

func rateLimitMiddleware(limiter *clientLimiter) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !limiter.allow(ctx.ClientIP()) {
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse(errRateLimited))
			return
		}
		ctx.Next()
	}
}
