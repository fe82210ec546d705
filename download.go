package insights

import (
	"context"
	"time"
)

// Downloader captures the complete state of the upstream project into a
// Snapshot: every session, trace, and observation, plus per-trace detail
// (the nested observation subtree GET /traces/{id} returns).
//
// Trace details are fetched serially with a fixed inter-request delay rather
// than concurrently; the upstream rate limiter is the binding constraint, so
// parallelism only buys 429s. An individual trace-detail failure is logged
// and skipped (the flat observation list still covers that trace), while a
// failure of any of the three list endpoints aborts the whole run with a
// terminal IngestionError.
type Downloader struct {
	client *Client
	logger StructuredLogger
}

// NewDownloader creates a Downloader over an existing client.
func NewDownloader(client *Client) *Downloader {
	return &Downloader{
		client: client,
		logger: client.config.Logger,
	}
}

// FetchSnapshot downloads everything and assembles a Snapshot.
// Re-running against unchanged upstream state yields an identical snapshot
// apart from DownloadedAt: pages are fetched in order and appended, never
// reordered.
func (d *Downloader) FetchSnapshot(ctx context.Context) (*Snapshot, error) {
	sessions, err := d.client.Sessions().ListAll(ctx)
	if err != nil {
		return nil, err
	}
	d.logger.Info("fetched sessions", "count", len(sessions))

	traces, err := d.client.Traces().ListAll(ctx)
	if err != nil {
		return nil, err
	}
	d.logger.Info("fetched traces", "count", len(traces))

	observations, err := d.client.Observations().ListAll(ctx)
	if err != nil {
		return nil, err
	}
	d.logger.Info("fetched observations", "count", len(observations))

	details := make(map[string]TraceWithObservations, len(traces))
	delay := d.client.config.TraceDetailDelay
	for i, trace := range traces {
		detail, err := d.client.Traces().Get(ctx, trace.ID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			d.logger.Warn("could not fetch trace detail, skipping",
				"traceId", trace.ID, "error", err)
		} else {
			details[trace.ID] = *detail
		}

		if delay > 0 && i < len(traces)-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	d.logger.Info("fetched trace details", "count", len(details), "traces", len(traces))

	return &Snapshot{
		Sessions:     sessions,
		Traces:       traces,
		Observations: observations,
		TraceDetails: details,
		DownloadedAt: Now(),
	}, nil
}
