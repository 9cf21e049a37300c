package commerce

import (
	"strconv"
	"time"
)

// Money is the gateway's decimal-string money shape
type Money struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// Float parses the decimal string; malformed values come back as 0
func (m Money) Float() float64 {
	f, err := strconv.ParseFloat(m.Value, 64)
	if err != nil {
		return 0
	}
	return f
}

// Pagination is the cursor block every list response carries
type Pagination struct {
	HasNextPage bool   `json:"hasNextPage"`
	NextPageURL string `json:"nextPageUrl"`
}

// Payment identifies the processor that took the money
type Payment struct {
	Provider string `json:"provider"`
	Amount   Money  `json:"amount"`
}

// Transaction is one raw money movement from the transactions endpoint.
// SalesOrderID is empty for donations, which have no order behind them.
type Transaction struct {
	ID              string    `json:"id"`
	CreatedOn       time.Time `json:"createdOn"`
	CustomerEmail   string    `json:"customerEmail"`
	SalesOrderID    string    `json:"salesOrderId"`
	Total           Money     `json:"total"`
	TotalNetPayment Money     `json:"totalNetPayment"`
	Payments        []Payment `json:"payments"`
}

// transactionsResponse is one page of the transactions endpoint
type transactionsResponse struct {
	Documents  []Transaction `json:"documents"`
	Pagination Pagination    `json:"pagination"`
}

// Customization is one label/value pair from an order form
type Customization struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// OrderLineItem is one purchasable unit within an order
type OrderLineItem struct {
	ID             string          `json:"id"`
	SKU            string          `json:"sku"`
	ProductName    string          `json:"productName"`
	Quantity       int             `json:"quantity"`
	UnitPricePaid  Money           `json:"unitPricePaid"`
	Customizations []Customization `json:"customizations"`
}

// Order is the full order detail behind an order-kind transaction
type Order struct {
	ID          string          `json:"id"`
	OrderNumber string          `json:"orderNumber"`
	CreatedOn   time.Time       `json:"createdOn"`
	LineItems   []OrderLineItem `json:"lineItems"`
	GrandTotal  Money           `json:"grandTotal"`
}

// InventoryItem is one catalog entry from the inventory endpoint
type InventoryItem struct {
	SKU        string `json:"sku"`
	Descriptor string `json:"descriptor"`
}

// inventoryResponse is one page of the inventory endpoint
type inventoryResponse struct {
	Inventory  []InventoryItem `json:"inventory"`
	Pagination Pagination      `json:"pagination"`
}

// Profile is a customer profile looked up by email
type Profile struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// profilesResponse is the profile lookup response
type profilesResponse struct {
	Profiles []Profile `json:"profiles"`
}
