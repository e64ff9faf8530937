package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func limitedHandler(client *redis.Client, limit int) http.Handler {
	cfg := RateLimitConfig{RequestsPerWindow: limit, Window: time.Minute, KeyPrefix: "chat_send"}
	return RateLimitMiddleware(client, cfg, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
}

func send(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/chat/messages", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestProperty_RateLimitAllowsExactlyTheLimit(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("limit requests pass, the excess gets 429", prop.ForAll(
		func(limit, excess int) bool {
			mr, err := miniredis.Run()
			if err != nil {
				t.Fatalf("Failed to start miniredis: %v", err)
			}
			defer mr.Close()
			client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			defer client.Close()

			h := limitedHandler(client, limit)
			passed, blocked := 0, 0
			for i := 0; i < limit+excess; i++ {
				// the source port changes per connection and must not matter
				switch send(h, "10.0.0.7:"+string(rune('1'+i%9))+"000").Code {
				case http.StatusAccepted:
					passed++
				case http.StatusTooManyRequests:
					blocked++
				}
			}
			return passed == limit && blocked == excess
		},
		gen.IntRange(1, 15),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRateLimit_HeadersAndWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	h := limitedHandler(client, 2)

	w := send(h, "10.0.0.1:5000")
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	send(h, "10.0.0.1:5000")
	w = send(h, "10.0.0.1:5000")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.True(t, decodeError(t, w).Retryable)

	assert.Equal(t, http.StatusAccepted, send(h, "10.0.0.2:5000").Code, "clients are counted separately")

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusAccepted, send(h, "10.0.0.1:5000").Code)
}

func TestRateLimit_FailsOpenWithoutRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { client.Close() })
	mr.Close()

	h := limitedHandler(client, 1)
	assert.Equal(t, http.StatusAccepted, send(h, "10.0.0.1:5000").Code)
	assert.Equal(t, http.StatusAccepted, send(h, "10.0.0.1:5000").Code)
}
