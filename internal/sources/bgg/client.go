// Package bgg is the BoardGameGeek xmlapi2 client: a rate limited fetcher,
// a retry policy shared by every endpoint and a pure XML parser.
package bgg

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/bgr/internal/domain"
	"github.com/MrSnakeDoc/bgr/internal/logger"
	"github.com/MrSnakeDoc/bgr/internal/metrics"
)

// Remote endpoints.
const (
	EndpointThing  = "thing"
	EndpointSearch = "search"
	EndpointHot    = "hot"
)

// PayloadCache stores raw payloads keyed by endpoint and query.
type PayloadCache interface {
	GetPayload(ctx context.Context, key string) ([]byte, bool, error)
	SetPayload(ctx context.Context, key string, payload []byte) error
}

// Client exposes the remote catalog operations.
type Client struct {
	fetcher *Fetcher
	retry   RetryPolicy
	cache   PayloadCache
	log     logger.Logger
}

// NewClient builds a Client. cache may be nil.
func NewClient(fetcher *Fetcher, retry RetryPolicy, cache PayloadCache, log logger.Logger) *Client {
	return &Client{
		fetcher: fetcher,
		retry:   retry,
		cache:   cache,
		log:     log,
	}
}

// BreakerState reports the fetcher's circuit breaker state.
func (c *Client) BreakerState() string { return c.fetcher.BreakerState() }

// Thing fetches one record. withVersions also asks for its regional editions.
// It returns (nil, nil) when the remote does not know the id.
func (c *Client) Thing(ctx context.Context, id int64, withVersions bool) (*domain.CatalogRecord, error) {
	if id <= 0 {
		return nil, &domain.MalformedCatalogDataError{ExternalID: strconv.FormatInt(id, 10), Reason: "external id must be a positive integer"}
	}

	params := url.Values{}
	params.Set("id", strconv.FormatInt(id, 10))
	params.Set("stats", "1")
	if withVersions {
		params.Set("versions", "1")
	}

	payload, err := c.get(ctx, EndpointThing, params)
	if err != nil || payload == nil {
		return nil, err
	}

	rec, err := ParseThing(payload)
	if err != nil {
		return nil, err
	}
	if rec != nil && rec.ExternalID != id {
		return nil, &domain.MalformedCatalogDataError{
			ExternalID: strconv.FormatInt(id, 10),
			Reason:     "remote answered with id " + strconv.FormatInt(rec.ExternalID, 10),
		}
	}
	return rec, nil
}

// Search runs a board game name search.
func (c *Client) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.SearchResult{}, nil
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("type", "boardgame")

	payload, err := c.get(ctx, EndpointSearch, params)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return []domain.SearchResult{}, nil
	}
	return ParseSearch(payload)
}

// Hot fetches the current board game hot list.
func (c *Client) Hot(ctx context.Context) ([]domain.HotListEntry, error) {
	params := url.Values{}
	params.Set("type", "boardgame")

	payload, err := c.get(ctx, EndpointHot, params)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return []domain.HotListEntry{}, nil
	}
	return ParseHot(payload)
}

// get is the single path every endpoint goes through: cache, then retry around the fetcher.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	key := endpoint + "?" + params.Encode()

	if c.cache != nil {
		payload, ok, err := c.cache.GetPayload(ctx, key)
		switch {
		case err != nil:
			metrics.PayloadCache.WithLabelValues("error").Inc()
			c.log.Warn("payload cache read failed", logger.String("key", key), logger.Error(err))
		case ok:
			metrics.PayloadCache.WithLabelValues("hit").Inc()
			return payload, nil
		default:
			metrics.PayloadCache.WithLabelValues("miss").Inc()
		}
	}

	payload, err := c.retry.Do(ctx, endpoint, c.log, func(ctx context.Context) ([]byte, error) {
		return c.fetcher.Fetch(ctx, endpoint, params)
	})
	if err != nil || payload == nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.SetPayload(ctx, key, payload); err != nil {
			c.log.Warn("payload cache write failed", logger.String("key", key), logger.Error(err))
		}
	}
	return payload, nil
}
