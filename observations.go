package insights

import (
	"context"
	"fmt"
	"net/url"
)

// ObservationsClient handles observation-related API operations.
type ObservationsClient struct {
	client *Client
}

// ObservationsListParams represents parameters for listing observations.
type ObservationsListParams struct {
	PaginationParams
	FilterParams
	ParentObservationID string
}

// ObservationsListResponse represents the response from listing observations.
type ObservationsListResponse struct {
	Data []Observation `json:"data"`
	Meta MetaResponse  `json:"meta"`
}

// List retrieves one page of observations.
func (c *ObservationsClient) List(ctx context.Context, params *ObservationsListParams) (*ObservationsListResponse, error) {
	query := url.Values{}
	if params != nil {
		query = mergeQuery(params.PaginationParams.ToQuery(), params.FilterParams.ToQuery())
		if params.ParentObservationID != "" {
			query.Set("parentObservationId", params.ParentObservationID)
		}
	}

	var result ObservationsListResponse
	err := c.client.http.get(ctx, endpoints.Observations, query, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListAll retrieves every observation by paging until a short page is
// returned.
func (c *ObservationsClient) ListAll(ctx context.Context) ([]Observation, error) {
	cfg := c.client.config
	return fetchAllPages(ctx, func(ctx context.Context, page, limit int) ([]Observation, error) {
		resp, err := c.List(ctx, &ObservationsListParams{
			PaginationParams: PaginationParams{Page: page, Limit: limit},
		})
		if err != nil {
			return nil, err
		}
		cfg.Metrics.IncrementCounter(MetricPagesFetched, 1)
		return resp.Data, nil
	}, cfg.PageSize, cfg.PageDelay)
}

// ListByTrace retrieves every observation belonging to a trace.
func (c *ObservationsClient) ListByTrace(ctx context.Context, traceID string) ([]Observation, error) {
	cfg := c.client.config
	return fetchAllPages(ctx, func(ctx context.Context, page, limit int) ([]Observation, error) {
		resp, err := c.List(ctx, &ObservationsListParams{
			PaginationParams: PaginationParams{Page: page, Limit: limit},
			FilterParams:     FilterParams{TraceID: traceID},
		})
		if err != nil {
			return nil, err
		}
		return resp.Data, nil
	}, cfg.PageSize, cfg.PageDelay)
}

// Get retrieves a single observation by ID.
func (c *ObservationsClient) Get(ctx context.Context, observationID string) (*Observation, error) {
	var result Observation
	err := c.client.http.get(ctx, fmt.Sprintf("%s/%s", endpoints.Observations, observationID), nil, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
