package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pranav244872/skillgap/config"
	"github.com/pranav244872/skillgap/skillz"
)

// Server serves HTTP requests for the skill-gap service
type Server struct {
	config     config.Config
	processor  skillz.Processor
	limiter    *clientLimiter
	router     *gin.Engine
	httpServer *http.Server
}

// NewServer creates a new HTTP server and sets up routing
func NewServer(cfg config.Config, processor skillz.Processor) (*Server, error) {
	if processor == nil {
		return nil, errors.New("skill processor is required")
	}

	server := &Server{
		config:    cfg,
		processor: processor,
		limiter:   newClientLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst),
	}

	if err := server.setupRouter(); err != nil {
		return nil, err
	}
	return server, nil
}

func (server *Server) setupRouter() error {
	router := gin.New()

	// Only listed proxies may set X-Forwarded-For; with none, ClientIP is the socket peer.
	var trustedProxies []string
	if len(server.config.TrustedProxies) > 0 {
		trustedProxies = server.config.TrustedProxies
	}
	if err := router.SetTrustedProxies(trustedProxies); err != nil {
		return fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}

	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware())

	if server.config.FrontendURL != "" {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     []string{server.config.FrontendURL},
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", requestIDHeader},
			ExposeHeaders:    []string{requestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/health", server.health)

	apiRoutes := router.Group("/api")
	apiRoutes.Use(rateLimitMiddleware(server.limiter))
	apiRoutes.POST("/skill-gap", server.analyzeSkillGap)

	server.router = router
	return nil
}

// Handler exposes the router, mainly for tests
func (server *Server) Handler() http.Handler {
	return server.router
}

// Start runs the HTTP server on a specific address.
// It returns http.ErrServerClosed after Shutdown.
func (server *Server) Start(address string) error {
	server.httpServer = &http.Server{
		Addr:              address,
		Handler:           server.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server.httpServer.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests
func (server *Server) Shutdown(ctx context.Context) error {
	if server.httpServer == nil {
		return nil
	}
	return server.httpServer.Shutdown(ctx)
}

func (server *Server) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// errorResponse converts an error into the JSON body returned to clients
func errorResponse(err error) gin.H {
	return gin.H{"error": err.Error()}
}
