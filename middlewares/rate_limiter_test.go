package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joy095/salon/middlewares/auth"
)

func TestParseCustomRate(t *testing.T) {
	cases := []struct {
		in     string
		limit  int64
		period time.Duration
	}{
		{"10-2m", 10, 2 * time.Minute},
		{"5-1m", 5, time.Minute},
		{"20-10s", 20, 10 * time.Second},
		{"100-1h", 100, time.Hour},
	}
	for _, tc := range cases {
		rate, err := ParseCustomRate(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.limit, rate.Limit, tc.in)
		assert.Equal(t, tc.period, rate.Period, tc.in)
	}
}

func TestParseCustomRateRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "10", "10-2d", "x-2m", "10-xm", "10-2m-1s"} {
		_, err := ParseCustomRate(in)
		assert.Error(t, err, in)
	}
}

func TestLimiterKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// An authenticated caller is bucketed by the id the guard stored.
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)
	c.Set(auth.ContextUserID, "user-1")
	assert.Equal(t, "user-1", limiterKey(c))

	// Anonymous callers fall back to the client IP.
	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)
	c.Request.RemoteAddr = "203.0.113.9:4242"
	assert.Equal(t, "203.0.113.9", limiterKey(c))
}
