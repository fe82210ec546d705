package insights

import (
	"context"
	"fmt"
	"net/url"
)

// TracesClient handles trace-related API operations.
type TracesClient struct {
	client *Client
}

// TracesListParams represents parameters for listing traces.
type TracesListParams struct {
	PaginationParams
	FilterParams
}

// TracesListResponse represents the response from listing traces.
type TracesListResponse struct {
	Data []Trace      `json:"data"`
	Meta MetaResponse `json:"meta"`
}

// List retrieves one page of traces.
func (c *TracesClient) List(ctx context.Context, params *TracesListParams) (*TracesListResponse, error) {
	query := url.Values{}
	if params != nil {
		query = mergeQuery(params.PaginationParams.ToQuery(), params.FilterParams.ToQuery())
	}

	var result TracesListResponse
	err := c.client.http.get(ctx, endpoints.Traces, query, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListAll retrieves every trace by paging until a short page is returned.
func (c *TracesClient) ListAll(ctx context.Context) ([]Trace, error) {
	cfg := c.client.config
	return fetchAllPages(ctx, func(ctx context.Context, page, limit int) ([]Trace, error) {
		resp, err := c.List(ctx, &TracesListParams{
			PaginationParams: PaginationParams{Page: page, Limit: limit},
		})
		if err != nil {
			return nil, err
		}
		cfg.Metrics.IncrementCounter(MetricPagesFetched, 1)
		return resp.Data, nil
	}, cfg.PageSize, cfg.PageDelay)
}

// ListBySession retrieves every trace belonging to a session.
func (c *TracesClient) ListBySession(ctx context.Context, sessionID string) ([]Trace, error) {
	cfg := c.client.config
	return fetchAllPages(ctx, func(ctx context.Context, page, limit int) ([]Trace, error) {
		resp, err := c.List(ctx, &TracesListParams{
			PaginationParams: PaginationParams{Page: page, Limit: limit},
			FilterParams:     FilterParams{SessionID: sessionID},
		})
		if err != nil {
			return nil, err
		}
		return resp.Data, nil
	}, cfg.PageSize, cfg.PageDelay)
}

// Get retrieves a single trace with its full observation subtree.
func (c *TracesClient) Get(ctx context.Context, traceID string) (*TraceWithObservations, error) {
	var result TraceWithObservations
	err := c.client.http.get(ctx, fmt.Sprintf("%s/%s", endpoints.Traces, traceID), nil, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
