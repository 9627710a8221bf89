package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	aclDomain "github.com/allisson/keywhiz/internal/acl/domain"
	aclUseCase "github.com/allisson/keywhiz/internal/acl/usecase"
	apperrors "github.com/allisson/keywhiz/internal/errors"
	"github.com/allisson/keywhiz/internal/httputil"
	usersUseCase "github.com/allisson/keywhiz/internal/users/usecase"
)

// ClientCertAuthMiddleware authenticates mTLS clients by the common name of
// their verified peer certificate. The TLS layer has already checked the
// certificate chain; this middleware only maps the identity to a registered
// client row.
//
// Error handling:
//   - No client certificate presented → 401 Unauthorized
//   - Certificate CN not registered as a client → 401 Unauthorized
func ClientCertAuthMiddleware(clientUseCase aclUseCase.ClientUseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tlsState := c.Request.TLS
		if tlsState == nil || len(tlsState.PeerCertificates) == 0 {
			logger.Debug("authentication failed: no client certificate")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		commonName := tlsState.PeerCertificates[0].Subject.CommonName
		if commonName == "" {
			logger.Debug("authentication failed: certificate has no common name")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		client, err := clientUseCase.Get(c.Request.Context(), commonName)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				logger.Debug("authentication failed: unknown client",
					slog.String("common_name", commonName))
				httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			} else {
				httputil.HandleErrorGin(c, err, logger)
			}
			c.Abort()
			return
		}

		principal := &aclDomain.AutomationClient{
			ClientID:   client.ID,
			Name:       client.Name,
			Automation: client.Automation,
		}
		c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), principal))

		logger.Debug("client authenticated", slog.String("client_name", client.Name))

		c.Next()
	}
}

// OperatorAuthMiddleware authenticates human operators with HTTP basic auth
// against the user store.
func OperatorAuthMiddleware(userUseCase usersUseCase.UserUseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			logger.Debug("authentication failed: missing basic auth credentials")
			c.Header("WWW-Authenticate", `Basic realm="keywhiz"`)
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		principal, err := userUseCase.Login(c.Request.Context(), username, password)
		if err != nil {
			logger.Debug("authentication failed", slog.String("username", username))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), principal))

		logger.Debug("operator authenticated", slog.String("username", username))

		c.Next()
	}
}

// RequireAutomation rejects principals that are not automation clients. Used
// to gate the mutation API surface reserved for automation.
func RequireAutomation(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c.Request.Context())
		if !ok {
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}
		if !principal.IsAutomation() {
			logger.Debug("automation endpoint denied",
				slog.String("principal", principal.PrincipalName()))
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
			c.Abort()
			return
		}
		c.Next()
	}
}
