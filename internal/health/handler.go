package health

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Status is the body of a successful health check
type Status struct {
	Status string `json:"status"`
	Uptime int64  `json:"uptime"`
}

// Handler handles health check related endpoints
type Handler struct {
	responseHandler ResponseHandler
	db              Pinger
	started         time.Time
}

// NewHandler creates a new health check handler
func NewHandler(responseHandler ResponseHandler, db Pinger) *Handler {
	return &Handler{
		responseHandler: responseHandler,
		db:              db,
		started:         time.Now(),
	}
}

// HandleHealthCheck reports healthy when the database answers a ping.
func (h *Handler) HandleHealthCheck(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		h.responseHandler.ServiceUnavailableResponse(c, "Database is unreachable", err)
		return
	}
	h.responseHandler.SuccessResponse(c, Status{
		Status: "healthy",
		Uptime: int64(time.Since(h.started).Seconds()),
	}, "Health check successful")
}
