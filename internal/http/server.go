// Package http provides the HTTP server, router wiring and TLS setup.
package http

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	aclHttp "github.com/allisson/keywhiz/internal/acl/http"
	secretsHttp "github.com/allisson/keywhiz/internal/secrets/http"
	usersHttp "github.com/allisson/keywhiz/internal/users/http"
)

// Handlers bundles the request handlers wired into the router.
type Handlers struct {
	Secret *secretsHttp.SecretHandler
	Client *aclHttp.ClientHandler
	Group  *aclHttp.GroupHandler
	Acl    *aclHttp.AclHandler
	User   *usersHttp.UserHandler
}

// Options bundles the cross-cutting middleware wired into the router.
type Options struct {
	// ClientAuth authenticates mTLS clients and sets the automation principal.
	ClientAuth gin.HandlerFunc
	// OperatorAuth authenticates human operators with basic auth.
	OperatorAuth gin.HandlerFunc
	// RateLimit is applied to the secret delivery surface. Optional.
	RateLimit gin.HandlerFunc
	// Metrics records per-request HTTP metrics. Optional.
	Metrics gin.HandlerFunc

	CORSEnabled bool
	CORSOrigins string
}

// NewRouter builds the gin engine with all routes.
//
// The API splits into three surfaces:
//   - delivery (mTLS client): read-only secret retrieval, ACL enforced
//   - /admin (operator basic auth): full management API
//   - /automation (mTLS client with the automation flag): management API for machines
func NewRouter(handlers Handlers, opts Options, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(logger))

	if opts.Metrics != nil {
		router.Use(opts.Metrics)
	}
	if corsMiddleware := createCORSMiddleware(opts.CORSEnabled, opts.CORSOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	// Secret delivery for mTLS clients.
	delivery := router.Group("/")
	delivery.Use(opts.ClientAuth)
	if opts.RateLimit != nil {
		delivery.Use(opts.RateLimit)
	}
	delivery.GET("/secret/:name", handlers.Acl.DeliverSecretHandler)
	delivery.GET("/secrets", handlers.Acl.ListSecretsHandler)

	// Operator management API.
	admin := router.Group("/admin")
	admin.Use(opts.OperatorAuth)
	registerManagementRoutes(admin, handlers)
	admin.POST("/users", handlers.User.RegisterHandler)
	admin.GET("/users", handlers.User.ListHandler)
	admin.GET("/users/:username", handlers.User.GetHandler)
	admin.DELETE("/users/:username", handlers.User.DeleteHandler)

	// Automation management API for machines holding an automation client cert.
	automation := router.Group("/automation")
	automation.Use(opts.ClientAuth, aclHttp.RequireAutomation(logger))
	registerManagementRoutes(automation, handlers)

	return router
}

// registerManagementRoutes wires the secret/client/group/grant management
// handlers under the given group.
func registerManagementRoutes(g *gin.RouterGroup, handlers Handlers) {
	g.POST("/secrets", handlers.Secret.CreateHandler)
	g.GET("/secrets", handlers.Secret.ListHandler)
	g.GET("/secrets/:name", handlers.Secret.GetHandler)
	g.GET("/secrets/:name/versions", handlers.Secret.ListVersionsHandler)
	g.DELETE("/secrets/:name", handlers.Secret.DeleteHandler)
	g.GET("/secrets/:name/groups", handlers.Acl.GroupsForSecretHandler)
	g.GET("/secrets/:name/clients", handlers.Acl.ClientsForSecretHandler)

	g.POST("/clients", handlers.Client.CreateHandler)
	g.GET("/clients", handlers.Client.ListHandler)
	g.GET("/clients/:name", handlers.Client.GetHandler)
	g.DELETE("/clients/:name", handlers.Client.DeleteHandler)
	g.GET("/clients/:name/groups", handlers.Acl.GroupsForClientHandler)

	g.POST("/groups", handlers.Group.CreateHandler)
	g.GET("/groups", handlers.Group.ListHandler)
	g.GET("/groups/:name", handlers.Group.GetHandler)
	g.DELETE("/groups/:name", handlers.Group.DeleteHandler)
	g.GET("/groups/:name/clients", handlers.Acl.ClientsForGroupHandler)
	g.GET("/groups/:name/secrets", handlers.Acl.SecretsForGroupHandler)

	g.PUT("/memberships/:client/groups/:group", handlers.Acl.EnrollHandler)
	g.DELETE("/memberships/:client/groups/:group", handlers.Acl.EvictHandler)
	g.PUT("/grants/:group/secrets/:secret", handlers.Acl.AllowHandler)
	g.DELETE("/grants/:group/secrets/:secret", handlers.Acl.DisallowHandler)
}

// Server represents the API HTTP server.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer creates a new HTTP server. When tlsConfig is non-nil the server
// terminates TLS itself and requests client certificates for mTLS
// authentication.
func NewServer(
	host string,
	port int,
	handler http.Handler,
	tlsConfig *tls.Config,
	logger *slog.Logger,
) *Server {
	return &Server{
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			Handler:      handler,
			TLSConfig:    tlsConfig,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server, with TLS when configured.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server",
		slog.String("addr", s.server.Addr),
		slog.Bool("tls", s.server.TLSConfig != nil))

	var err error
	if s.server.TLSConfig != nil {
		// Certificates come from TLSConfig.
		err = s.server.ListenAndServeTLS("", "")
	} else {
		err = s.server.ListenAndServe()
	}
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
