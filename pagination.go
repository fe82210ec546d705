package insights

import (
	"context"
	"time"
)

// fetchPage fetches one page of records. Implementations are provided by the
// per-resource subclients.
type fetchPage[T any] func(ctx context.Context, page, limit int) ([]T, error)

// fetchAllPages accumulates every page of a list endpoint, starting at page 1.
//
// Termination relies solely on page length: a page shorter than the requested
// limit signals the end of the data, including the degenerate case of a short
// (or empty) first page. The provider's reported totals are ignored because
// they have been observed to disagree with the data actually returned, and a
// loop keyed on them could spin forever.
//
// A fixed delay is inserted after every page, successful or not, to stay
// under the provider's rate limits. Any page failure is terminal: the partial
// accumulation is discarded rather than returned, so callers never mistake a
// truncated corpus for a complete one.
func fetchAllPages[T any](ctx context.Context, fetch fetchPage[T], limit int, delay time.Duration) ([]T, error) {
	all := make([]T, 0, limit)

	for page := 1; ; page++ {
		batch, err := fetch(ctx, page, limit)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)

		if len(batch) < limit {
			return all, nil
		}

		if delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
}
