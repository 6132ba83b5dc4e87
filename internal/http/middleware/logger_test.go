package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/consensuslabs/pavilion-network/datamigrate/testhelper"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(log *testhelper.TestLogger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestLoggerMiddleware(log))
	return router
}

func doGet(router *gin.Engine, path string, header http.Header) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	router.ServeHTTP(w, req)
	return w
}

func TestRequestLoggerMiddleware(t *testing.T) {
	t.Run("Basic Request Logging", func(t *testing.T) {
		log := testhelper.NewTestLogger(true)
		router := setupTestRouter(log)
		router.GET("/test", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := doGet(router, "/test", nil)

		entries := log.GetDebugMessages()
		require.Len(t, entries, 1)
		fields := entries[0].Fields
		assert.Equal(t, "GET", fields["method"])
		assert.Equal(t, "/test", fields["path"])
		assert.Equal(t, http.StatusOK, fields["status"])
		assert.NotEmpty(t, fields["request_id"])
		assert.Equal(t, fields["request_id"], w.Header().Get(RequestIDHeader))
	})

	t.Run("Incoming Request ID Is Kept", func(t *testing.T) {
		log := testhelper.NewTestLogger(true)
		router := setupTestRouter(log)
		router.GET("/test", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := doGet(router, "/test", http.Header{RequestIDHeader: []string{"abc-123"}})

		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
		require.Len(t, log.GetDebugMessages(), 1)
		assert.Equal(t, "abc-123", log.GetDebugMessages()[0].Fields["request_id"])
	})

	t.Run("Error Status Code Logging", func(t *testing.T) {
		log := testhelper.NewTestLogger(false)
		router := setupTestRouter(log)
		router.GET("/error", func(c *gin.Context) {
			c.Status(http.StatusInternalServerError)
		})

		doGet(router, "/error", nil)

		errs := log.GetErrorMessages()
		require.Len(t, errs, 1)
		assert.Equal(t, "/error", errs[0].Fields["path"])
	})

	t.Run("Warning Status Code Logging", func(t *testing.T) {
		log := testhelper.NewTestLogger(false)
		router := setupTestRouter(log)
		router.GET("/warning", func(c *gin.Context) {
			c.Status(http.StatusBadRequest)
		})

		doGet(router, "/warning", nil)

		assert.Len(t, log.GetWarnMessages(), 1)
	})

	t.Run("Context Logger Injection", func(t *testing.T) {
		log := testhelper.NewTestLogger(false)
		router := setupTestRouter(log)
		router.GET("/context", func(c *gin.Context) {
			GetLogger(c).LogInfo("inside handler", nil)
			c.Status(http.StatusOK)
		})

		doGet(router, "/context", nil)

		infos := log.GetInfoMessages()
		require.Len(t, infos, 1)
		assert.NotEmpty(t, infos[0].Fields["request_id"])
	})

	t.Run("Fallback Logger Outside Middleware", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.GET("/plain", func(c *gin.Context) {
			assert.NotNil(t, GetLogger(c))
			c.Status(http.StatusOK)
		})
		w := doGet(router, "/plain", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Latency Tracking", func(t *testing.T) {
		log := testhelper.NewTestLogger(true)
		router := setupTestRouter(log)
		router.GET("/latency", func(c *gin.Context) {
			time.Sleep(10 * time.Millisecond)
			c.Status(http.StatusOK)
		})

		doGet(router, "/latency", nil)

		require.Len(t, log.GetDebugMessages(), 1)
		latency, ok := log.GetDebugMessages()[0].Fields["latency"].(time.Duration)
		require.True(t, ok)
		assert.GreaterOrEqual(t, latency, 10*time.Millisecond)
	})
}
