package services

import (
	"context"
	"time"

	"github.com/clubstack/backoffice/commerce"
)

// CommerceGateway is the slice of the commerce client the pipeline consumes.
// Declared here so tests can substitute a fake gateway.
type CommerceGateway interface {
	FetchTransactions(ctx context.Context, since, until time.Time) ([]commerce.Transaction, error)
	FetchOrder(ctx context.Context, orderID string) (*commerce.Order, error)
	FetchInventory(ctx context.Context) ([]commerce.InventoryItem, error)
	FetchProfile(ctx context.Context, email string) (*commerce.Profile, error)
}
