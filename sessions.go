package insights

import (
	"context"
	"fmt"
	"net/url"
)

// SessionsClient handles session-related API operations.
type SessionsClient struct {
	client *Client
}

// SessionsListParams represents parameters for listing sessions.
type SessionsListParams struct {
	PaginationParams
	FromTimestamp string
	ToTimestamp   string
}

// SessionsListResponse represents the response from listing sessions.
type SessionsListResponse struct {
	Data []Session    `json:"data"`
	Meta MetaResponse `json:"meta"`
}

// List retrieves one page of sessions.
func (c *SessionsClient) List(ctx context.Context, params *SessionsListParams) (*SessionsListResponse, error) {
	query := url.Values{}
	if params != nil {
		query = params.PaginationParams.ToQuery()
		if params.FromTimestamp != "" {
			query.Set("fromTimestamp", params.FromTimestamp)
		}
		if params.ToTimestamp != "" {
			query.Set("toTimestamp", params.ToTimestamp)
		}
	}

	var result SessionsListResponse
	err := c.client.http.get(ctx, endpoints.Sessions, query, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListAll retrieves every session by paging until a short page is returned.
func (c *SessionsClient) ListAll(ctx context.Context) ([]Session, error) {
	cfg := c.client.config
	return fetchAllPages(ctx, func(ctx context.Context, page, limit int) ([]Session, error) {
		resp, err := c.List(ctx, &SessionsListParams{
			PaginationParams: PaginationParams{Page: page, Limit: limit},
		})
		if err != nil {
			return nil, err
		}
		cfg.Metrics.IncrementCounter(MetricPagesFetched, 1)
		return resp.Data, nil
	}, cfg.PageSize, cfg.PageDelay)
}

// Get retrieves a session by ID.
func (c *SessionsClient) Get(ctx context.Context, sessionID string) (*Session, error) {
	var result Session
	err := c.client.http.get(ctx, fmt.Sprintf("%s/%s", endpoints.Sessions, sessionID), nil, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
