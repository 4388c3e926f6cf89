package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/school-workshop/movie-review-challenge/internal/config"
	"github.com/school-workshop/movie-review-challenge/internal/metrics"
)

func newContext(method, path, route string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.7")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath(route)
	return c
}

func TestBuildRateKey(t *testing.T) {
	c := newContext(http.MethodPost, "/movie/3/review", "/movie/:id/review")

	tests := []struct {
		strategy string
		want     string
	}{
		{"ip", "rl:ip:10.0.0.7"},
		{"route", "rl:route:POST /movie/:id/review"},
		{"ip_route", "rl:ip:10.0.0.7:route:POST /movie/:id/review"},
		{"IP_ROUTE", "rl:ip:10.0.0.7:route:POST /movie/:id/review"},
		{"bogus", "rl:ip:10.0.0.7:route:POST /movie/:id/review"},
	}
	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: tt.strategy}
			assert.Equal(t, tt.want, buildRateKey(cfg, c))
		})
	}
}

func TestTokenBucketPassThrough(t *testing.T) {
	ok := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }

	t.Run("disabled", func(t *testing.T) {
		c := newContext(http.MethodPost, "/api/movies/1/reviews", "/api/movies/:id/reviews")
		mw := NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil)
		assert.NoError(t, mw(ok)(c))
		assert.Equal(t, http.StatusOK, c.Response().Status)
	})

	t.Run("no client", func(t *testing.T) {
		c := newContext(http.MethodPost, "/api/movies/1/reviews", "/api/movies/:id/reviews")
		mw := NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil)
		assert.NoError(t, mw(ok)(c))
		assert.Equal(t, http.StatusOK, c.Response().Status)
	})

	t.Run("redis unreachable fails open", func(t *testing.T) {
		rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
		t.Cleanup(func() { _ = rdb.Close() })
		cfg := config.RateLimitConfig{Enabled: true, Capacity: 1, RefillTokens: 1, RefillInterval: time.Second, TTL: time.Minute, Prefix: "rl"}

		c := newContext(http.MethodPost, "/movie/1/review", "/movie/:id/review")
		assert.NoError(t, NewTokenBucket(cfg, rdb)(ok)(c))
		assert.Equal(t, http.StatusOK, c.Response().Status)
	})
}

func TestTooManyRequestsShape(t *testing.T) {
	api := newContext(http.MethodPost, "/api/movies/1/reviews", "/api/movies/:id/reviews")
	assert.NoError(t, tooManyRequests(api, 4))
	rec := api.Response().Writer.(*httptest.ResponseRecorder)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"too_many_requests","message":"rate limit exceeded","retry_after":4}`, rec.Body.String())

	html := newContext(http.MethodPost, "/movie/1/review", "/movie/:id/review")
	assert.NoError(t, tooManyRequests(html, 4))
	rec = html.Response().Writer.(*httptest.ResponseRecorder)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "4 seconds")
}

func TestAsInt64(t *testing.T) {
	assert.Equal(t, int64(3), asInt64(int64(3)))
	assert.Equal(t, int64(3), asInt64("3"))
	assert.Equal(t, int64(2), asInt64(2.9))
	assert.Zero(t, asInt64(nil))
}

func TestMetricsRecordsRouteTemplate(t *testing.T) {
	e := echo.New()
	e.Use(Metrics())
	e.GET("/movie/:id", func(c echo.Context) error { return c.NoContent(http.StatusTeapot) })

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/movie/:id", "418")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/movie/42", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
