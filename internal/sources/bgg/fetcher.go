package bgg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/MrSnakeDoc/bgr/internal/domain"
	"github.com/MrSnakeDoc/bgr/internal/logger"
	"github.com/MrSnakeDoc/bgr/internal/metrics"
	"github.com/MrSnakeDoc/bgr/internal/utils"
)

// maxPayloadSize bounds a single remote response.
const maxPayloadSize = 8 << 20

// FetcherConfig configures a Fetcher.
type FetcherConfig struct {
	BaseURL   string
	UserAgent string

	// Timeout bounds a single request, including reading the body.
	Timeout time.Duration

	// Limiter is shared by every request of the fetcher. Nil means DefaultRequestInterval.
	Limiter *RateLimiter

	// BreakerThreshold consecutive failures open the breaker for BreakerTimeout.
	BreakerThreshold uint32
	BreakerTimeout   time.Duration

	// Transport overrides http.DefaultTransport.
	Transport http.RoundTripper
}

// Fetcher performs rate limited GETs against the remote catalog.
type Fetcher struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	http      *http.Client
	limiter   *RateLimiter
	breaker   *gobreaker.CircuitBreaker[[]byte]
	log       logger.Logger
}

// NewFetcher builds a Fetcher.
func NewFetcher(cfg FetcherConfig, log logger.Logger) *Fetcher {
	if cfg.Limiter == nil {
		cfg.Limiter = NewRateLimiter(DefaultRequestInterval)
	}
	if cfg.BreakerThreshold == 0 {
		cfg.BreakerThreshold = 5
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = time.Minute
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	f := &Fetcher{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		timeout:   cfg.Timeout,
		http:      &http.Client{Transport: transport},
		limiter:   cfg.Limiter,
		log:       log,
	}

	threshold := cfg.BreakerThreshold
	f.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "bgg",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= threshold
		},
		// 404 is an answer, not an outage.
		IsSuccessful: func(err error) bool {
			var remote *domain.RemoteAPIError
			return err == nil || (errors.As(err, &remote) && remote.NotFound())
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
			metrics.BreakerState.WithLabelValues(name).Set(breakerGauge(to))
		},
	})
	metrics.BreakerState.WithLabelValues("bgg").Set(0)

	return f
}

// BreakerState reports the breaker state ("closed", "half-open", "open").
func (f *Fetcher) BreakerState() string {
	return f.breaker.State().String()
}

// Fetch GETs {base}/{endpoint}?{params} and returns the body.
// Non-2xx answers and transport failures are *domain.RemoteAPIError.
func (f *Fetcher) Fetch(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	target := f.baseURL + "/" + endpoint
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	body, err := f.breaker.Execute(func() ([]byte, error) {
		return f.do(ctx, endpoint, target)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.RemoteRequests.WithLabelValues(endpoint, metrics.OutcomeRejected).Inc()
		return nil, &domain.RemoteAPIError{URL: target, Err: err}
	}
	return body, err
}

func (f *Fetcher) do(ctx context.Context, endpoint, target string) ([]byte, error) {
	waited, err := f.limiter.Wait(ctx)
	metrics.RemoteRateLimitWait.Observe(waited.Seconds())
	if err != nil {
		return nil, &domain.RemoteAPIError{URL: target, Err: err}
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/xml, text/xml")

	start := time.Now()
	resp, err := f.http.Do(req)
	metrics.RemoteRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RemoteRequests.WithLabelValues(endpoint, metrics.OutcomeError).Inc()
		return nil, &domain.RemoteAPIError{URL: target, Err: err}
	}
	defer utils.DrainAndClose(resp.Body, f.log)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		outcome := metrics.OutcomeError
		if resp.StatusCode == http.StatusNotFound {
			outcome = metrics.OutcomeNotFound
		}
		metrics.RemoteRequests.WithLabelValues(endpoint, outcome).Inc()
		return nil, &domain.RemoteAPIError{StatusCode: resp.StatusCode, URL: target}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadSize))
	if err != nil {
		metrics.RemoteRequests.WithLabelValues(endpoint, metrics.OutcomeError).Inc()
		return nil, &domain.RemoteAPIError{StatusCode: resp.StatusCode, URL: target, Err: err}
	}

	metrics.RemoteRequests.WithLabelValues(endpoint, metrics.OutcomeOK).Inc()
	f.log.Debug("remote catalog request",
		logger.String("endpoint", endpoint),
		logger.Int("status", resp.StatusCode),
		logger.Int("bytes", len(body)),
		logger.Duration("waited", waited),
		logger.Duration("duration", time.Since(start)),
	)
	return body, nil
}

func breakerGauge(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
