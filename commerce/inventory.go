package commerce

import (
	"context"
	"fmt"
)

// FetchInventory returns the full product catalog, following the pagination
// cursor until exhausted.
func (c *Client) FetchInventory(ctx context.Context) ([]InventoryItem, error) {
	endpoint := fmt.Sprintf("%s/1.0/commerce/inventory", c.BaseURL)

	var all []InventoryItem

	for endpoint != "" {
		var page inventoryResponse
		if err := c.getJSON(ctx, endpoint, "fetch_inventory", &page); err != nil {
			return nil, fmt.Errorf("failed to fetch inventory: %w", err)
		}

		all = append(all, page.Inventory...)

		endpoint = ""
		if page.Pagination.HasNextPage {
			endpoint = page.Pagination.NextPageURL
		}
	}

	return all, nil
}
