package insights

import (
	"context"
)

// Client is a read-only Langfuse API client scoped to the endpoints this
// package derives its views from: sessions, traces, and observations.
type Client struct {
	config *Config
	http   *httpClient

	sessions     *SessionsClient
	traces       *TracesClient
	observations *ObservationsClient
}

// New creates a new client.
func New(publicKey, secretKey string, opts ...ConfigOption) (*Client, error) {
	cfg := &Config{
		PublicKey: publicKey,
		SecretKey: secretKey,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return NewWithConfig(cfg)
}

// NewWithConfig creates a new client from a Config struct.
// This is useful when you want to configure the client using a struct rather
// than functional options.
//
// Example:
//
//	client, err := insights.NewWithConfig(&insights.Config{
//	    PublicKey: os.Getenv("LANGFUSE_PUBLIC_KEY"),
//	    SecretKey: os.Getenv("LANGFUSE_SECRET_KEY"),
//	    Region:    insights.RegionUS,
//	    PageSize:  100,
//	})
func NewWithConfig(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	// Make a copy to avoid modifying the original.
	cfgCopy := *cfg

	cfgCopy.applyDefaults()

	if err := cfgCopy.validate(); err != nil {
		return nil, err
	}

	c := &Client{
		config: &cfgCopy,
		http:   newHTTPClient(&cfgCopy),
	}

	c.sessions = &SessionsClient{client: c}
	c.traces = &TracesClient{client: c}
	c.observations = &ObservationsClient{client: c}

	return c, nil
}

// Sessions returns the sessions subclient.
func (c *Client) Sessions() *SessionsClient {
	return c.sessions
}

// Traces returns the traces subclient.
func (c *Client) Traces() *TracesClient {
	return c.traces
}

// Observations returns the observations subclient.
func (c *Client) Observations() *ObservationsClient {
	return c.observations
}

// Config returns a copy of the client configuration.
func (c *Client) Config() Config {
	return *c.config
}

// Health checks connectivity and credentials against the upstream API.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var result HealthStatus
	if err := c.http.get(ctx, endpoints.Health, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
