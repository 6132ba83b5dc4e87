package middleware

import (
	"github.com/consensuslabs/pavilion-network/datamigrate/internal/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const loggerKey = "logger"

// GetLogger retrieves the request scoped logger from the gin context. Outside
// RequestLoggerMiddleware it returns a logger that discards everything.
func GetLogger(c *gin.Context) logger.Logger {
	if log, exists := c.Get(loggerKey); exists {
		if contextLogger, ok := log.(logger.Logger); ok {
			return contextLogger
		}
	}
	return logger.NewFromZap(zap.NewNop())
}
