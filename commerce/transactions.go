package commerce

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// FetchTransactions returns every transaction in the [since, until) window,
// following the pagination cursor until exhausted. The window is bounded by
// the sync schedule, so accumulating pages in memory is fine.
func (c *Client) FetchTransactions(ctx context.Context, since, until time.Time) ([]Transaction, error) {
	endpoint := fmt.Sprintf("%s/1.0/commerce/transactions?modifiedAfter=%s&modifiedBefore=%s",
		c.BaseURL,
		url.QueryEscape(since.UTC().Format(time.RFC3339)),
		url.QueryEscape(until.UTC().Format(time.RFC3339)))

	var all []Transaction

	for endpoint != "" {
		var page transactionsResponse
		if err := c.getJSON(ctx, endpoint, "fetch_transactions", &page); err != nil {
			return nil, fmt.Errorf("failed to fetch transactions: %w", err)
		}

		all = append(all, page.Documents...)

		endpoint = ""
		if page.Pagination.HasNextPage {
			endpoint = page.Pagination.NextPageURL
		}
	}

	return all, nil
}
