// Package insightstest provides testing utilities for applications using
// the insights-go engine.
//
// # Mock Server
//
// MockServer speaks the telemetry provider's read API over a canned
// Dataset, with pagination, per-trace detail, and scriptable failures:
//
//	server := insightstest.NewMockServerWithDataset(insightstest.NewPlaythrough())
//	defer server.Close()
//
//	client, _ := insights.New("pk", "sk", insights.WithBaseURL(server.URL))
//	snapshot, _ := insights.NewDownloader(client).FetchSnapshot(ctx)
//
// # Test Client
//
// NewTestClient wires a client to a fresh mock server with all pacing
// delays zeroed, and cleans both up when the test ends:
//
//	func TestMyFeature(t *testing.T) {
//	    client, server := insightstest.NewTestClient(t)
//	    server.SetDataset(insightstest.NewPlaythrough(insightstest.WithChapters(6)))
//	    // ...
//	}
//
// # Fixtures
//
// NewPlaythrough generates a self-consistent session: one trace per chapter,
// each with a root span, an agent step, and a generation underneath.
//
// # Mocks
//
// MockMetrics and MockLogger capture metrics and log output for assertions.
package insightstest
