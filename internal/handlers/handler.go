package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"vision_runner/internal/events"
	"vision_runner/internal/logger"
	"vision_runner/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const defaultAuthorID = 1

// Options tune the HTTP layer. The zero value serves the plain API without CORS or live updates.
type Options struct {
	AllowedOrigins []string // "*" reflects any origin
	// RequireToken wraps the write routes in the Bearer-token middleware.
	RequireToken    bool
	DefaultAuthorID int
	Hub             *events.Hub // nil disables /ws
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	opts     Options
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts Options) *Handler {
	if opts.DefaultAuthorID <= 0 {
		opts.DefaultAuthorID = defaultAuthorID
	}
	return &Handler{services: services, log: log, opts: opts}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger)
	if mw, ok := corsMiddleware(h.opts.AllowedOrigins); ok {
		router.Use(mw)
	}

	router.GET("/", h.index)
	router.GET("/health", h.health)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Live activity stream (HTTP upgrade), same port
	router.GET("/ws", h.wsConnect)

	api := router.Group("/api")
	{
		h.registerAuthRoutes(api)
		h.registerReadRoutes(api)
		h.registerWriteRoutes(api)
	}

	return router
}

func (h *Handler) registerAuthRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
	}
}

func (h *Handler) registerReadRoutes(api *gin.RouterGroup) {
	api.GET("/posts", h.listPosts)
	api.GET("/futures", h.listFutures)
	api.GET("/activity", h.listActivity)
}

func (h *Handler) registerWriteRoutes(api *gin.RouterGroup) {
	var writes *gin.RouterGroup
	if h.opts.RequireToken {
		writes = api.Group("", h.userIdMiddleware)
	} else {
		writes = api.Group("")
	}
	{
		writes.POST("/future", h.createFuture)
		writes.PUT("/future/:id", h.updateFuture)
		writes.DELETE("/future/:id", h.deleteFuture)

		writes.POST("/post", h.createPost)
		writes.PUT("/post/:id", h.updatePost)
		writes.DELETE("/post/:id", h.deletePost)
	}
}

const indexHTML = "<h1>Vision Runner API server is running!</h1>"

// @Summary      Greeting page
// @Tags         system
// @Produce      html
// @Success      200  {string}  string
// @Router       / [get]
func (h *Handler) index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err, "request_id", c.GetString(requestIDKey)}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON with userMsg on failure.
// Returns false if the request was already handled, true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any, userMsg string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": userMsg})
		return false
	}
	return true
}

// parseIDOrBadRequest reads the positive integer :id path parameter.
func (h *Handler) parseIDOrBadRequest(c *gin.Context) (int, bool) {
	raw := c.Param("id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		if h.log != nil {
			h.log.Infow("bad_request_id", "path", c.FullPath(), "id", raw)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidID})
		return 0, false
	}
	return id, true
}

// isValidationErr reports service errors caused by the request itself.
func isValidationErr(err error) bool {
	return errors.Is(err, service.ErrEmptyContent) ||
		errors.Is(err, service.ErrInvalidAuthor) ||
		errors.Is(err, service.ErrMissingField) ||
		errors.Is(err, service.ErrEmptyPassword) ||
		errors.Is(err, service.ErrInvalidTimeRange)
}
