package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := New()
	c.Mutated("like_resource")
	c.Mutated("like_resource")
	c.PersistFailed("reviews")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.mutations.WithLabelValues("like_resource")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.persistErrors.WithLabelValues("reviews")))

	r := gin.New()
	r.Use(c.Middleware())
	r.GET("/ping", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })
	r.GET("/metrics", c.Handler())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `campusshare_store_mutations_total{op="like_resource"} 2`)
	assert.Contains(t, body, `campusshare_http_request_duration_seconds_count{method="GET",route="/ping",status="200"} 1`)
}
