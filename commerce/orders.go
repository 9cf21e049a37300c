package commerce

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// FetchOrder returns the full order detail for one order id. A gateway 404
// maps to ErrOrderNotFound so callers can record it as a recoverable issue.
func (c *Client) FetchOrder(ctx context.Context, orderID string) (*Order, error) {
	endpoint := fmt.Sprintf("%s/1.0/commerce/orders/%s", c.BaseURL, orderID)

	var order Order
	if err := c.getJSON(ctx, endpoint, "fetch_order", &order); err != nil {
		var reqErr *RequestError
		if errors.As(err, &reqErr) && reqErr.Status == http.StatusNotFound {
			return nil, fmt.Errorf("order %s: %w", orderID, ErrOrderNotFound)
		}
		return nil, fmt.Errorf("failed to fetch order %s: %w", orderID, err)
	}

	return &order, nil
}
