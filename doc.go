// Package insights reconstructs analytical views from the flat telemetry a
// Langfuse-instrumented agentic chat application emits: traces, their nested
// observations, and the sessions that own them.
//
// The package has two halves. The ingestion half is a read-only Langfuse API
// client that pages through /sessions, /traces, and /observations with
// rate-limit aware retries, and can capture everything into a Snapshot, a
// single JSON document usable as a read-through cache. The derivation half is
// a set of pure functions over already-fetched records:
//
//   - ComputeAgentStats groups observations by the sub-agent that really
//     produced them (recovered from the parent-pointer forest) and derives
//     per-agent execution, latency, cost, token, and success-rate figures.
//   - BuildTranscript reconstructs a chronological conversation for one
//     session, normalizing the many payload shapes generations carry into
//     plain text.
//   - Classify derives a completion/progress state for a session from its
//     transcript and chapter tags.
//
// # Quick Start
//
//	client, err := insights.New(
//	    os.Getenv("LANGFUSE_PUBLIC_KEY"),
//	    os.Getenv("LANGFUSE_SECRET_KEY"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	snap, err := insights.NewDownloader(client).FetchSnapshot(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, agent := range insights.ComputeAgentStats(snap.Observations) {
//	    fmt.Printf("%s: %d executions, $%.4f\n", agent.Name, agent.Executions, agent.TotalCost)
//	}
//
// # Tolerating partial data
//
// The derivation functions never fail on malformed upstream data. An
// observation whose lineage is broken (its parent was not returned by the
// API) is excluded from agent aggregates rather than guessed at; a generation
// payload in an unrecognized shape degrades to a stringified value instead of
// aborting the reconstruction. Only a fully failed ingestion run surfaces as
// an error, so callers can fall back to their last good Snapshot.
//
// # Thread Safety
//
// Client and Store are safe for concurrent use. The derivation functions are
// pure and operate on caller-owned slices.
package insights
