package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	provider, err := NewProvider("keywhiz")
	require.NoError(t, err)

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "keywhiz"))
	router.GET("/secret/:name", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secret/DB_Pass", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// Unmatched routes are labeled "unknown".
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/nope", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)

	scrape := httptest.NewRecorder()
	provider.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	output := scrape.Body.String()

	assertMetricLine(t, output, `keywhiz_http_requests_total`, `path="/secret/:name".*status_code="200"`, `1`)
	assertMetricLine(t, output, `keywhiz_http_requests_total`, `path="unknown".*status_code="404"`, `1`)
	assert.Contains(t, output, "keywhiz_http_request_duration_seconds")
}
