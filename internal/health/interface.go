package health

import (
	"context"

	"github.com/gin-gonic/gin"
)

// ResponseHandler defines the interface for handling HTTP responses
type ResponseHandler interface {
	SuccessResponse(c *gin.Context, data interface{}, message string)
	ServiceUnavailableResponse(c *gin.Context, message string, err error)
}

// Pinger checks that a dependency is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}
