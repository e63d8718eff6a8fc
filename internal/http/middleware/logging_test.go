package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func init() {
	gin.SetMode(gin.TestMode)
	zerolog.SetGlobalLevel(zerolog.Disabled)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID_Generates(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	var inCtx string
	r.GET("/", func(c *gin.Context) {
		inCtx = c.GetString(requestIDKey)
		c.Status(http.StatusNoContent)
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))

	rid := w.Header().Get(requestIDHeader)
	if rid == "" {
		t.Fatal("no X-Request-ID on response")
	}
	if _, err := uuid.Parse(rid); err != nil {
		t.Fatalf("generated id %q is not a UUID: %v", rid, err)
	}
	if inCtx != rid {
		t.Fatalf("context id %q != header id %q", inCtx, rid)
	}
}

func TestRequestID_PropagatesIncoming(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "client-supplied-id")
	w := serve(r, req)

	if got := w.Header().Get(requestIDHeader); got != "client-supplied-id" {
		t.Fatalf("id = %q; want the incoming one reused", got)
	}
}

func TestLogger_StoresRequestScopedLogger(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Logger())
	var sawLogger bool
	r.GET("/", func(c *gin.Context) {
		_, sawLogger = c.Get("logger")
		c.Status(http.StatusOK)
	})

	serve(r, httptest.NewRequest(http.MethodGet, "/", nil))

	if !sawLogger {
		t.Fatal("request-scoped logger missing from context")
	}
}

func TestLoggerFrom_FallbackWithoutMiddleware(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	if lg := LoggerFrom(c); lg == nil {
		t.Fatal("LoggerFrom returned nil without middleware")
	}
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d; want 500", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"success":false`) ||
		!strings.Contains(body, "An unexpected error occurred") {
		t.Fatalf("body = %q; want JSON failure envelope", body)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 3); got != "abc…" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("abc", 10); got != "abc" {
		t.Fatalf("truncate = %q; want unchanged", got)
	}
	if got := truncate("abc", 0); got != "abc" {
		t.Fatalf("truncate = %q; want disabled", got)
	}
}

func TestTruncate_RuneBoundary(t *testing.T) {
	// A cut inside a multi-byte rune must back up to the previous boundary
	// instead of emitting invalid UTF-8.
	if got := truncate("héllo", 2); got != "h…" {
		t.Fatalf("truncate = %q; want %q", got, "h…")
	}
	in := strings.Repeat("日", 10)
	got := truncate(in, 7) // 7 bytes lands mid-rune (each rune is 3 bytes)
	if !utf8.ValidString(got) {
		t.Fatalf("truncate produced invalid UTF-8: %q", got)
	}
	if got != strings.Repeat("日", 2)+"…" {
		t.Fatalf("truncate = %q", got)
	}
}

func TestAsString(t *testing.T) {
	if got := asString("x"); got != "x" {
		t.Fatalf("asString = %q", got)
	}
	if got := asString(42); got != "" {
		t.Fatalf("asString(non-string) = %q; want empty", got)
	}
}
