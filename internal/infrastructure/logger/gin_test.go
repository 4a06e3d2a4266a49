package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestRouter(t *testing.T, level zapcore.Level) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(level)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(string(RequestIDKey), "req-123")
		c.Next()
	})
	router.Use(GinMiddleware(zap.New(core)))
	return router, recorded
}

func requestLog(t *testing.T, recorded *observer.ObservedLogs) observer.LoggedEntry {
	t.Helper()
	entries := recorded.FilterMessage("HTTP Request").All()
	require.Len(t, entries, 1)
	return entries[0]
}

func TestGinMiddleware_LevelByStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  zapcore.Level
	}{
		{"ok", http.StatusOK, zapcore.InfoLevel},
		{"client error", http.StatusConflict, zapcore.WarnLevel},
		{"server error", http.StatusInternalServerError, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, recorded := newTestRouter(t, zapcore.DebugLevel)
			router.GET("/cart", func(c *gin.Context) {
				c.Status(tt.status)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cart?debug=1", nil))

			entry := requestLog(t, recorded)
			assert.Equal(t, tt.level, entry.Level)
			fields := entry.ContextMap()
			assert.Equal(t, int64(tt.status), fields["status"])
			assert.Equal(t, "req-123", fields["request_id"])
			assert.Equal(t, "/cart", fields["path"])
			assert.Equal(t, "debug=1", fields["query"])
		})
	}
}

func TestGinMiddleware_RequestContextCarriesLoggerAndActor(t *testing.T) {
	router, recorded := newTestRouter(t, zapcore.InfoLevel)
	router.POST("/orders", func(c *gin.Context) {
		ctx, _ := WithActor(c.Request.Context(), zap.NewNop(), Actor{Role: "customer", ID: "cust-1"})
		c.Request = c.Request.WithContext(ctx)

		L(c.Request.Context()).Info("checkout started")
		GetGinLogger(c).Info("from gin logger")
		c.Status(http.StatusCreated)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/orders", nil))
	assert.Equal(t, http.StatusCreated, w.Code)

	started := recorded.FilterMessage("checkout started").All()
	require.Len(t, started, 1)
	assert.Equal(t, "req-123", started[0].ContextMap()["request_id"])
	assert.Equal(t, "cust-1", started[0].ContextMap()["customer_id"])

	assert.Equal(t, 1, recorded.FilterMessage("from gin logger").Len())
	assert.Equal(t, "cust-1", requestLog(t, recorded).ContextMap()["customer_id"])
}

func TestGinMiddleware_RecordsGinErrors(t *testing.T) {
	router, recorded := newTestRouter(t, zapcore.InfoLevel)
	router.GET("/fail", func(c *gin.Context) {
		_ = c.Error(assert.AnError)
		c.Status(http.StatusBadRequest)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

	fields := requestLog(t, recorded).ContextMap()
	assert.Contains(t, fields, "errors")
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":{"code":"INTERNAL_ERROR","message":"An unexpected error occurred"}}`, w.Body.String())
	assert.Equal(t, 1, recorded.FilterMessage("Panic recovered").Len())
}

func TestGetGinLogger_NotSet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.NotNil(t, GetGinLogger(c))
}
