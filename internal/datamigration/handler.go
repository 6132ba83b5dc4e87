package datamigration

import (
	"context"

	"github.com/gin-gonic/gin"
)

// ResponseHandler defines the interface for handling HTTP responses
type ResponseHandler interface {
	SuccessResponse(c *gin.Context, data interface{}, message string)
	InternalErrorResponse(c *gin.Context, message string, err error)
}

// StatusReporter reports data migration state
type StatusReporter interface {
	Status(ctx context.Context) (*Status, error)
}

// Handler serves data migration status over HTTP
type Handler struct {
	reporter        StatusReporter
	responseHandler ResponseHandler
}

// NewHandler creates a new data migration status handler
func NewHandler(reporter StatusReporter, responseHandler ResponseHandler) *Handler {
	return &Handler{
		reporter:        reporter,
		responseHandler: responseHandler,
	}
}

// RegisterRoutes registers the status route on group
func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/data-migrations", h.HandleStatus)
}

// HandleStatus lists every registered data migration with its ledger state
// and the current gate index.
func (h *Handler) HandleStatus(c *gin.Context) {
	status, err := h.reporter.Status(c.Request.Context())
	if err != nil {
		h.responseHandler.InternalErrorResponse(c, "Failed to read data migration status", err)
		return
	}
	h.responseHandler.SuccessResponse(c, status, "")
}
