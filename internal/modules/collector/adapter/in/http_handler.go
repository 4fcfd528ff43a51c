package in

import (
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	collectordto "flowmodoro/internal/modules/collector/dto"
	collectorin "flowmodoro/internal/modules/collector/port/in"
	apperrors "flowmodoro/internal/platform/errors"
)

const maxBodySize = 64 << 10

type HTTPHandler struct {
	usecase collectorin.Usecase
	logger  *log.Logger
}

func NewHTTPHandler(usecase collectorin.Usecase, logger *log.Logger) *HTTPHandler {
	return &HTTPHandler{usecase: usecase, logger: logger}
}

// Router builds the gin engine with every collector route under /api.
func (h *HTTPHandler) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger(), allowAnyOrigin())

	api := router.Group("/api")
	{
		api.GET("/ping", h.handlePing)
		api.POST("/session", h.handleCreateSession)
		api.GET("/totals/:day", h.handleTotals)
	}
	return router
}

func (h *HTTPHandler) handlePing(c *gin.Context) {
	if err := h.usecase.Ping(c.Request.Context()); err != nil {
		h.logger.Error("ping failed", "err", err)
		c.JSON(http.StatusServiceUnavailable, collectordto.ErrorResponse{Error: "storage unavailable"})
		return
	}
	c.JSON(http.StatusOK, collectordto.PingResponse{OK: true})
}

func (h *HTTPHandler) handleCreateSession(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)
	var req collectordto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, collectordto.ErrorResponse{Error: "invalid"})
		return
	}
	created, err := h.usecase.CreateSession(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *HTTPHandler) handleTotals(c *gin.Context) {
	totals, err := h.usecase.Totals(c.Request.Context(), c.Param("day"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}

func (h *HTTPHandler) writeError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, collectordto.ErrorResponse{Error: err.Error()})
		return
	}
	h.logger.Error("request failed", "path", c.FullPath(), "err", err)
	c.JSON(http.StatusInternalServerError, collectordto.ErrorResponse{Error: err.Error()})
}

func (h *HTTPHandler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).Round(time.Microsecond),
		)
	}
}

func allowAnyOrigin() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.Writer.Header()
		header.Set("Access-Control-Allow-Origin", "*")
		header.Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		header.Set("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
