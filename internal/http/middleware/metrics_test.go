package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_CountsByRouteAndStatus(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/things/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/things/:id", "200"))

	serve(r, httptest.NewRequest(http.MethodGet, "/things/42", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/things/43", nil))

	after := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/things/:id", "200"))
	if after-before != 2 {
		t.Fatalf("counter delta = %v; want 2", after-before)
	}
}

func TestMetrics_UnmatchedRouteUsesRawPath(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())

	before := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/nowhere", "404"))
	serve(r, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	after := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/nowhere", "404"))

	if after-before != 1 {
		t.Fatalf("counter delta = %v; want 1", after-before)
	}
}

func TestMetrics_InflightReturnsToZeroDelta(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(httpInflight)
	serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	after := testutil.ToFloat64(httpInflight)

	if before != after {
		t.Fatalf("inflight gauge leaked: before=%v after=%v", before, after)
	}
}
