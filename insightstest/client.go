package insightstest

import (
	insights "github.com/cupidlabs/insights-go"
)

// TestingT is an interface that matches *testing.T and *testing.B.
type TestingT interface {
	Fatalf(format string, args ...any)
	Cleanup(func())
	Helper()
}

// TestPublicKey is the default test public key.
const TestPublicKey = "pk-lf-test-key"

// TestSecretKey is the default test secret key.
const TestSecretKey = "sk-lf-test-key"

// NewTestClient creates a client wired to a fresh mock server. Retry and
// pacing delays are zeroed so retry paths run instantly in tests. Both are
// cleaned up when the test ends.
func NewTestClient(t TestingT, opts ...insights.ConfigOption) (*insights.Client, *MockServer) {
	t.Helper()

	server := NewMockServer()

	baseOpts := []insights.ConfigOption{
		insights.WithBaseURL(server.URL),
		insights.WithRetryDelay(1),
		insights.WithRateLimitBase(1),
		insights.WithPageDelay(-1),
		insights.WithTraceDetailDelay(-1),
	}
	allOpts := append(baseOpts, opts...)

	client, err := insights.New(TestPublicKey, TestSecretKey, allOpts...)
	if err != nil {
		t.Fatalf("Failed to create test client: %v", err)
	}

	t.Cleanup(server.Close)
	return client, server
}
