package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pranav244872/skillgap/config"
	"github.com/pranav244872/skillgap/logger"
	"github.com/pranav244872/skillgap/skillz"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	server := newTestServer(t, config.Config{}, &mockProcessor{})

	request := httptest.NewRequest(http.MethodGet, "/health", nil)
	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.JSONEq(t, `{"status": "ok"}`, recorder.Body.String())
}

func TestRequestIDMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(requestIDMiddleware())
	router.GET("/", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, logger.GetRequestID(ctx.Request.Context()))
	})

	t.Run("Generated", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

		id := recorder.Header().Get(requestIDHeader)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		require.Equal(t, id, recorder.Body.String())
	})

	t.Run("Propagated", func(t *testing.T) {
		callerID := "0b9d7c4e-3f2a-4c1e-9a55-6f1d2e3c4b5a"
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set(requestIDHeader, callerID)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		require.Equal(t, callerID, recorder.Header().Get(requestIDHeader))
		require.Equal(t, callerID, recorder.Body.String())
	})

	rejected := map[string]string{
		"NotUUID":      "caller-supplied-id",
		"ControlChars": "id\x1b[31mred\x1b[0m",
		"TooLong":      strings.Repeat("a", 200),
	}
	for name, header := range rejected {
		t.Run(name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.Header.Set(requestIDHeader, header)
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)

			id := recorder.Header().Get(requestIDHeader)
			require.NotEqual(t, header, id)
			_, err := uuid.Parse(id)
			require.NoError(t, err)
			require.Equal(t, id, recorder.Body.String())
		})
	}
}

func TestSanitizeRequestID(t *testing.T) {
	require.Equal(t, "0b9d7c4e-3f2a-4c1e-9a55-6f1d2e3c4b5a", sanitizeRequestID("0B9D7C4E-3F2A-4C1E-9A55-6F1D2E3C4B5A"))
	require.Equal(t, "0b9d7c4e-3f2a-4c1e-9a55-6f1d2e3c4b5a", sanitizeRequestID("urn:uuid:0b9d7c4e-3f2a-4c1e-9a55-6f1d2e3c4b5a"))
	require.Empty(t, sanitizeRequestID(""))
	require.Empty(t, sanitizeRequestID("not-a-uuid"))
}

func TestRateLimitMiddleware(t *testing.T) {
	processor := &mockProcessor{result: skillz.Result{Success: true, MissingSkills: []string{}, ExistingSkills: []string{}}}
	cfg := config.Config{RateLimitPerMinute: 1, RateLimitBurst: 2}
	server := newTestServer(t, cfg, processor)

	body := map[string]string{
		"resumeText":     "Go developer with five years of experience",
		"jobDescription": "Cloud engineer, AWS and Terraform required",
	}

	require.Equal(t, http.StatusOK, postSkillGap(t, server, body).Code)
	require.Equal(t, http.StatusOK, postSkillGap(t, server, body).Code)

	recorder := postSkillGap(t, server, body)
	require.Equal(t, http.StatusTooManyRequests, recorder.Code)
	require.JSONEq(t, `{"error": "too many requests, please retry later"}`, recorder.Body.String())
	require.Equal(t, 2, processor.calls)

	// Health is outside the limited group.
	healthRecorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(healthRecorder, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, healthRecorder.Code)
}

func TestRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	processor := &mockProcessor{result: skillz.Result{Success: true, MissingSkills: []string{}, ExistingSkills: []string{}}}
	cfg := config.Config{RateLimitPerMinute: 1, RateLimitBurst: 1}
	server := newTestServer(t, cfg, processor)

	body := `{"resumeText": "Go developer with five years", "jobDescription": "Cloud engineer, AWS required"}`

	var codes []int
	for i := 0; i < 5; i++ {
		request := httptest.NewRequest(http.MethodPost, "/api/skill-gap", strings.NewReader(body))
		request.Header.Set("Content-Type", "application/json")
		request.RemoteAddr = "203.0.113.7:40000"
		request.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i+1))

		recorder := httptest.NewRecorder()
		server.Handler().ServeHTTP(recorder, request)
		codes = append(codes, recorder.Code)
	}

	require.Equal(t, []int{200, 429, 429, 429, 429}, codes)
	require.Equal(t, 1, processor.calls)
	require.Equal(t, 1, limiterSize(server.limiter))
}

func TestRateLimitHonoursTrustedProxy(t *testing.T) {
	processor := &mockProcessor{result: skillz.Result{Success: true, MissingSkills: []string{}, ExistingSkills: []string{}}}
	cfg := config.Config{RateLimitPerMinute: 1, RateLimitBurst: 1, TrustedProxies: []string{"10.0.0.0/8"}}
	server := newTestServer(t, cfg, processor)

	body := `{"resumeText": "Go developer with five years", "jobDescription": "Cloud engineer, AWS required"}`

	for i := 0; i < 3; i++ {
		request := httptest.NewRequest(http.MethodPost, "/api/skill-gap", strings.NewReader(body))
		request.Header.Set("Content-Type", "application/json")
		request.RemoteAddr = "10.1.2.3:40000"
		request.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i+1))

		recorder := httptest.NewRecorder()
		server.Handler().ServeHTTP(recorder, request)
		require.Equal(t, http.StatusOK, recorder.Code)
	}
	require.Equal(t, 3, limiterSize(server.limiter))
}

func TestNewServer_InvalidTrustedProxy(t *testing.T) {
	server, err := NewServer(config.Config{TrustedProxies: []string{"not-an-ip"}}, &mockProcessor{})
	require.ErrorContains(t, err, "invalid TRUSTED_PROXIES")
	require.Nil(t, server)
}

func limiterSize(l *clientLimiter) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

func TestClientLimiter(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		limiter := newClientLimiter(0, 5)
		require.Nil(t, limiter)
		for i := 0; i < 100; i++ {
			require.True(t, limiter.allow("10.0.0.1"))
		}
	})

	t.Run("PerClient", func(t *testing.T) {
		limiter := newClientLimiter(1, 1)
		require.True(t, limiter.allow("10.0.0.1"))
		require.False(t, limiter.allow("10.0.0.1"))
		require.True(t, limiter.allow("10.0.0.2"))
	})

	t.Run("IdleClientsEvicted", func(t *testing.T) {
		// --- ARRANGE ---
		now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
		limiter := newClientLimiter(60, 1)
		limiter.now = func() time.Time { return now }
		limiter.lastSweep = now

		for i := 0; i < 10000; i++ {
			limiter.allow(fmt.Sprintf("spoofed-%d", i))
		}
		require.Equal(t, 10000, limiterSize(limiter))

		// --- ACT ---
		now = now.Add(limiter.idleTTL + time.Second)
		require.True(t, limiter.allow("10.0.0.1"))

		// --- ASSERT ---
		require.Equal(t, 1, limiterSize(limiter))
	})

	t.Run("ActiveClientsKept", func(t *testing.T) {
		now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
		limiter := newClientLimiter(60, 1)
		limiter.now = func() time.Time { return now }
		limiter.lastSweep = now

		limiter.allow("10.0.0.1")
		now = now.Add(limiter.idleTTL / 2)
		limiter.allow("10.0.0.1")
		now = now.Add(limiter.idleTTL/2 + time.Second)
		limiter.allow("10.0.0.2")

		require.Equal(t, 2, limiterSize(limiter))
	})

	t.Run("IdleTTLCoversRefill", func(t *testing.T) {
		limiter := newClientLimiter(1, 30)
		require.Equal(t, 30*time.Minute, limiter.idleTTL)
		require.Equal(t, minLimiterIdleTTL, newClientLimiter(60, 5).idleTTL)
	})
}

func TestCORS(t *testing.T) {
	cfg := config.Config{FrontendURL: "http://localhost:3000"}
	server := newTestServer(t, cfg, &mockProcessor{})

	request := httptest.NewRequest(http.MethodOptions, "/api/skill-gap", nil)
	request.Header.Set("Origin", "http://localhost:3000")
	request.Header.Set("Access-Control-Request-Method", http.MethodPost)
	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, request)

	require.Equal(t, "http://localhost:3000", recorder.Header().Get("Access-Control-Allow-Origin"))
}
