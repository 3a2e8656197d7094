package http

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yanqian/faq-admin/internal/infra/config"
)

const requestIDHeader = "X-Request-ID"

// requestLogger tags every request with an id and logs it once the handler
// chain has run, so the actor set by authMiddleware is visible.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		c.Next()

		attrs := []any{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"actor", actor(c),
		}
		if id := c.Param("id"); id != "" {
			attrs = append(attrs, "faq_id", id)
		}
		logger.Info("http request", attrs...)
	}
}

func errorHandlingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		httpErr := asHTTPError(c.Errors.Last().Err)
		message := httpErr.Message
		if message == "" {
			message = httpErr.Error()
		}

		if httpErr.Status >= http.StatusInternalServerError {
			logger.Error("request failed", "code", httpErr.Code, "status", httpErr.Status, "path", c.Request.URL.Path, "error", httpErr.Err)
		} else {
			logger.Warn("request failed", "code", httpErr.Code, "status", httpErr.Status, "path", c.Request.URL.Path, "error", httpErr.Err)
		}

		c.JSON(httpErr.Status, gin.H{
			"error": gin.H{
				"code":    httpErr.Code,
				"message": message,
			},
		})
	}
}

// Rate limit classes. Model-backed endpoints get their own bucket per client.
const (
	classAPI     = "api"
	classEnhance = "enhance"
)

func rateLimitMiddleware(cfg config.RateLimitConfig, logger *slog.Logger) gin.HandlerFunc {
	if !cfg.Enabled || cfg.RequestsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := newIPRateLimiter(cfg)
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Next()
			return
		}
		ip := c.ClientIP()
		class := rateClass(c.Request.URL.Path)
		allowed, wait := limiter.allow(class, ip)
		if allowed {
			c.Next()
			return
		}
		logger.Warn("rate limit exceeded", "ip", ip, "class", class, "path", c.Request.URL.Path)
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		abortWithError(c, NewHTTPError(http.StatusTooManyRequests, "rate_limit_exceeded", "too many requests", nil))
	}
}

func rateClass(path string) string {
	if strings.HasPrefix(path, "/api/v1/enhance/") || strings.HasPrefix(path, "/api/v1/session/suggestions") {
		return classEnhance
	}
	return classAPI
}

type ipRateLimiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	rates    map[string]float64
	burst    float64
	ttl      time.Duration
	now      func() time.Time
}

type visitor struct {
	tokens   float64
	lastSeen time.Time
}

func newIPRateLimiter(cfg config.RateLimitConfig) *ipRateLimiter {
	enhance := cfg.EnhanceRequestsPerMinute
	if enhance <= 0 {
		enhance = cfg.RequestsPerMinute
	}
	return &ipRateLimiter{
		visitors: make(map[string]*visitor),
		rates: map[string]float64{
			classAPI:     float64(cfg.RequestsPerMinute),
			classEnhance: float64(enhance),
		},
		burst: float64(cfg.Burst),
		ttl:   5 * time.Minute,
		now:   time.Now,
	}
}

// allow spends one token from the client's bucket for class. When the bucket
// is empty it reports how long until the next token.
func (l *ipRateLimiter) allow(class, ip string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	rate := l.rates[class]
	if rate <= 0 {
		rate = l.rates[classAPI]
	}
	key := class + "|" + ip
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{tokens: l.burst, lastSeen: now}
		l.visitors[key] = v
	} else {
		elapsed := now.Sub(v.lastSeen).Minutes()
		if elapsed > 0 {
			v.tokens = math.Min(l.burst, v.tokens+elapsed*rate)
		}
		v.lastSeen = now
	}
	l.cleanupLocked(now)
	if v.tokens < 1 {
		missing := 1 - v.tokens
		return false, time.Duration(missing / rate * float64(time.Minute))
	}
	v.tokens--
	return true, 0
}

func (l *ipRateLimiter) cleanupLocked(now time.Time) {
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.ttl {
			delete(l.visitors, key)
		}
	}
}
