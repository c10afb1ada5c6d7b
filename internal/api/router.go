package api

import (
	"context"
	"net/http"
	"time"

	"github.com/forum-tree-api/internal/config"
	"github.com/forum-tree-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const requestIDHeader = "X-Request-ID"

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())
	router.Use(timeoutMiddleware(cfg.Server.RequestTimeout))

	// Handlers
	userHandler := NewUserHandler(services, log)
	boardHandler := NewBoardHandler(services, log)
	articleHandler := NewArticleHandler(services, log)
	commentHandler := NewCommentHandler(services, log)
	exportHandler := NewExportHandler(services, log)
	requireUser := authMiddleware(services.User, log.With().Str("component", "auth").Logger())

	// Health check
	router.GET("/health", healthCheck)
	router.GET("/metrics", metricsHandler(services))

	// API v1
	v1 := router.Group("/v1")
	{
		users := v1.Group("/users")
		{
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)
			users.GET("/me", requireUser, userHandler.Me)
			users.PUT("/me", requireUser, userHandler.UpdateMe)
			users.DELETE("/me", requireUser, userHandler.DeleteMe)
		}

		boards := v1.Group("/boards")
		{
			boards.POST("", requireUser, boardHandler.Create)
			boards.GET("", boardHandler.List)
			boards.GET("/slug/:slug", boardHandler.GetBySlug)
			boards.GET("/:board_id", boardHandler.Get)
			boards.PUT("/:board_id", requireUser, boardHandler.Update)
			boards.DELETE("/:board_id", requireUser, boardHandler.Delete)

			boards.GET("/:board_id/articles", articleHandler.ListByBoard)
			boards.POST("/:board_id/articles", requireUser, articleHandler.CreateRoot)
			boards.GET("/:board_id/tree", articleHandler.Tree)
			boards.GET("/:board_id/export", exportHandler.StreamExport)
			boards.GET("/:board_id/feed.xml", exportHandler.Feed)
		}

		articles := v1.Group("/articles")
		{
			articles.GET("/:article_id", articleHandler.Get)
			articles.PUT("/:article_id", requireUser, articleHandler.Update)
			articles.DELETE("/:article_id", requireUser, articleHandler.Delete)
			articles.GET("/:article_id/children", articleHandler.Children)
			articles.POST("/:article_id/children", requireUser, articleHandler.AppendChild)
			articles.GET("/:article_id/comments", commentHandler.ListByArticle)
			articles.POST("/:article_id/comments", requireUser, commentHandler.Create)
		}

		comments := v1.Group("/comments")
		{
			comments.GET("/:comment_id", commentHandler.Get)
			comments.PUT("/:comment_id", requireUser, commentHandler.Update)
			comments.DELETE("/:comment_id", requireUser, commentHandler.Delete)
		}
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "forum-tree-api",
	})
}

// metricsHandler returns row counts per table
func metricsHandler(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		usersCount, _ := services.Export.GetCount(ctx, "users")
		boardsCount, _ := services.Export.GetCount(ctx, "boards")
		articlesCount, _ := services.Export.GetCount(ctx, "articles")
		commentsCount, _ := services.Export.GetCount(ctx, "comments")

		c.JSON(http.StatusOK, gin.H{
			"database": gin.H{
				"users":    usersCount,
				"boards":   boardsCount,
				"articles": articlesCount,
				"comments": commentsCount,
			},
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Interface("error", err).
					Str("request_id", c.GetString(requestIDKey)).
					Msg("Panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":   "internal",
					"message": "internal server error",
				})
			}
		}()
		c.Next()
	}
}

// loggingMiddleware tags the request with an id and logs it on completion
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(requestIDHeader, requestID)

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, "+requestIDHeader)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// timeoutMiddleware bounds every request, so abandoned requests roll back their transaction
func timeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := contextWithTimeout(c, timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// contextWithTimeout creates a context with timeout for handlers
func contextWithTimeout(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), timeout)
}
