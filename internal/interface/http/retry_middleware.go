package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/faq-admin/internal/infra/config"
)

const retryBodyLimit = 1 << 20 // 1 MiB

var errBodyTooLarge = errors.New("request body exceeds retry limit")

const retryAttemptsHeader = "X-Retry-Attempts"

// retrier replays idempotent enhancer POSTs when the model provider fails
// transiently. FAQ mutations are never listed and so never replayed.
type retrier struct {
	next        http.Handler
	maxAttempts int
	backoff     time.Duration
	include     map[string]struct{}
	logger      *slog.Logger
}

func withRetry(handler http.Handler, cfg config.RetryConfig, logger *slog.Logger) http.Handler {
	if !cfg.Enabled || cfg.MaxAttempts <= 1 || len(cfg.Include) == 0 {
		return handler
	}
	include := make(map[string]struct{}, len(cfg.Include))
	for _, path := range cfg.Include {
		include[strings.TrimSuffix(path, "/")] = struct{}{}
	}
	return &retrier{
		next:        handler,
		maxAttempts: cfg.MaxAttempts,
		backoff:     cfg.BaseBackoff,
		include:     include,
		logger:      logger.With("component", "http.retry"),
	}
}

func (rt *retrier) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !rt.applies(r) {
		rt.next.ServeHTTP(w, r)
		return
	}
	bodyBytes, err := readRequestBody(r)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errBodyTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		http.Error(w, err.Error(), status)
		return
	}

	for attempt := 1; ; attempt++ {
		recorder := newRetryResponseRecorder(w)
		reqCopy := r.Clone(r.Context())
		reqCopy.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		reqCopy.ContentLength = int64(len(bodyBytes))

		rt.next.ServeHTTP(recorder, reqCopy)
		if !recorder.retryable() || attempt == rt.maxAttempts || !rt.wait(r.Context(), attempt) {
			if attempt > 1 {
				recorder.header.Set(retryAttemptsHeader, strconv.Itoa(attempt))
			}
			recorder.Commit()
			return
		}
		rt.logger.Warn("model provider failure, retrying request", "path", r.URL.Path, "status", recorder.statusCode, "attempt", attempt)
	}
}

func (rt *retrier) applies(r *http.Request) bool {
	if r.Method != http.MethodPost {
		return false
	}
	_, ok := rt.include[strings.TrimSuffix(r.URL.Path, "/")]
	return ok
}

// wait sleeps for the exponential backoff after attempt. It returns false when
// the client went away first.
func (rt *retrier) wait(ctx context.Context, attempt int) bool {
	delay := rt.backoff * time.Duration(1<<(attempt-1))
	if delay <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func readRequestBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	defer r.Body.Close()
	reader := io.LimitReader(r.Body, retryBodyLimit+1)
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if len(data) > retryBodyLimit {
		return nil, errBodyTooLarge
	}
	return data, nil
}

type retryResponseRecorder struct {
	dst        http.ResponseWriter
	header     http.Header
	body       bytes.Buffer
	statusCode int
	wroteHead  bool
}

func newRetryResponseRecorder(dst http.ResponseWriter) *retryResponseRecorder {
	return &retryResponseRecorder{
		dst:        dst,
		header:     make(http.Header),
		statusCode: http.StatusOK,
	}
}

func (r *retryResponseRecorder) Header() http.Header {
	return r.header
}

func (r *retryResponseRecorder) WriteHeader(status int) {
	if r.wroteHead {
		return
	}
	r.statusCode = status
	r.wroteHead = true
}

func (r *retryResponseRecorder) Write(b []byte) (int, error) {
	return r.body.Write(b)
}

func (r *retryResponseRecorder) Commit() {
	dstHeader := r.dst.Header()
	for k := range dstHeader {
		dstHeader.Del(k)
	}
	for k, values := range r.header {
		copied := make([]string, len(values))
		copy(copied, values)
		dstHeader[k] = copied
	}
	if !r.wroteHead {
		r.statusCode = http.StatusOK
	}
	r.dst.WriteHeader(r.statusCode)
	if r.body.Len() > 0 {
		_, _ = r.dst.Write(r.body.Bytes())
	}
}

// retryable covers upstream model failures. A 500 means the handler itself
// failed and replaying it would not help.
func (r *retryResponseRecorder) retryable() bool {
	switch r.statusCode {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func (r *retryResponseRecorder) Flush() {}
