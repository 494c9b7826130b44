package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestRateLimiterAllowsBurstThenBlocks(t *testing.T) {
	defer goleak.VerifyNone(t)

	rl := NewRateLimiter(1, 3, time.Minute)
	defer rl.Stop()

	now := time.Now()
	for i := range 3 {
		assert.True(t, rl.allowAt("1.2.3.4", now), "request %d within burst", i)
	}
	assert.False(t, rl.allowAt("1.2.3.4", now))

	// Buckets are per IP.
	assert.True(t, rl.allowAt("5.6.7.8", now))

	// One token refills after a second.
	assert.True(t, rl.allowAt("1.2.3.4", now.Add(time.Second)))
}

func TestRateLimiterMinimumBurst(t *testing.T) {
	defer goleak.VerifyNone(t)

	rl := NewRateLimiter(1, 0, time.Minute)
	defer rl.Stop()

	assert.True(t, rl.Allow("1.2.3.4"))
}

func TestRateLimiterSweepDropsIdleVisitors(t *testing.T) {
	defer goleak.VerifyNone(t)

	rl := NewRateLimiter(1, 1, time.Minute)
	defer rl.Stop()

	now := time.Now()
	rl.allowAt("1.1.1.1", now)
	rl.allowAt("2.2.2.2", now.Add(50*time.Second))
	assert.Equal(t, 2, rl.Len())

	rl.sweep(now.Add(90 * time.Second))
	assert.Equal(t, 1, rl.Len())

	rl.sweep(now.Add(5 * time.Minute))
	assert.Equal(t, 0, rl.Len())
}

func TestRateLimiterStopIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	rl := NewRateLimiter(1, 1, time.Minute)
	rl.Stop()
	rl.Stop()
}

func TestGetRealIP(t *testing.T) {
	cloudflare := map[string]string{"CF-Connecting-IP": "203.0.113.5", "X-Real-IP": "10.0.0.1"}
	forwarded := map[string]string{"X-Forwarded-For": "198.51.100.7, 10.0.0.2"}

	tests := []struct {
		name       string
		trusted    []string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{"remote addr", nil, nil, "192.0.2.1:1234", "192.0.2.1"},
		{"ipv6 with port", nil, nil, "[2001:db8::1]:443", "2001:db8::1"},
		{"untrusted peer cannot spoof cloudflare", nil, cloudflare, "192.0.2.1:1234", "192.0.2.1"},
		{"untrusted peer cannot spoof forwarded for", nil, forwarded, "192.0.2.1:1234", "192.0.2.1"},
		{"peer outside trusted range", []string{"10.0.0.0/8"}, cloudflare, "192.0.2.1:1234", "192.0.2.1"},
		{"cloudflare via trusted proxy", []string{"192.0.2.1"}, cloudflare, "192.0.2.1:1234", "203.0.113.5"},
		{"true client ip via trusted proxy", []string{"192.0.2.1"}, map[string]string{"True-Client-IP": "203.0.113.6"}, "192.0.2.1:1234", "203.0.113.6"},
		{"x-real-ip via trusted proxy", []string{"192.0.2.0/24"}, map[string]string{"X-Real-IP": "10.0.0.1"}, "192.0.2.1:1234", "10.0.0.1"},
		{"forwarded rightmost untrusted hop", []string{"192.0.2.1"}, forwarded, "192.0.2.1:1234", "10.0.0.2"},
		{"forwarded skips trusted hops", []string{"192.0.2.1", "10.0.0.0/8"}, forwarded, "192.0.2.1:1234", "198.51.100.7"},
		{"invalid header ignored", []string{"192.0.2.1"}, map[string]string{"X-Real-IP": "not-an-ip"}, "192.0.2.1:1234", "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			require.NoError(t, configureClientIP(router, tt.trusted))
			router.GET("/", func(c *gin.Context) {
				c.String(http.StatusOK, GetRealIP(c))
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}

func TestConfigureClientIPRejectsInvalidProxy(t *testing.T) {
	assert.Error(t, configureClientIP(gin.New(), []string{"not-a-cidr"}))
}

func TestParseIP(t *testing.T) {
	assert.Equal(t, "", parseIP(""))
	assert.Equal(t, "", parseIP("   "))
	assert.Equal(t, "", parseIP("example.com"))
	assert.Equal(t, "10.0.0.1", parseIP(" 10.0.0.1 "))
	assert.Equal(t, "10.0.0.1", parseIP("10.0.0.1:8080"))
}
