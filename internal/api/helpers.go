package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/forum-tree-api/internal/apperror"
	"github.com/forum-tree-api/internal/models"
	"github.com/forum-tree-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	requestIDKey = "request_id"
	userKey      = "user"
)

// respondError writes the {"error", "message"} body for err.
// Errors outside the domain taxonomy are logged and reported opaquely.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	kind := apperror.KindOf(err)
	status := apperror.HTTPStatus(kind)

	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("request_id", c.GetString(requestIDKey)).Msg("Request failed")
	}

	// streaming handlers may have set these before failing
	c.Writer.Header().Del("Content-Type")
	c.Writer.Header().Del("Content-Disposition")

	c.AbortWithStatusJSON(status, gin.H{
		"error":   string(kind),
		"message": apperror.PublicMessage(err),
	})
}

// authMiddleware resolves the bearer token to a user and stores it on the context
func authMiddleware(users service.UserService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
			c.Header("WWW-Authenticate", "Bearer")
			respondError(c, log, apperror.Auth(nil))
			return
		}

		user, err := users.CurrentUser(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			respondError(c, log, err)
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// currentUser returns the user stored by authMiddleware
func currentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// idParam parses a positive integer path parameter
func idParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.Validation("%s must be a positive integer", name)
	}
	return id, nil
}

// intQuery parses an optional integer query parameter
func intQuery(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.Validation("%s must be an integer", name)
	}
	return n, nil
}

func bindError(err error) error {
	return apperror.Validation("invalid request body: %v", err)
}
