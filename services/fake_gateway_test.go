package services

import (
	"context"
	"time"

	"github.com/clubstack/backoffice/commerce"
)

// fakeGateway is a canned-response commerce gateway for service tests
type fakeGateway struct {
	transactions []commerce.Transaction
	orders       map[string]*commerce.Order
	inventory    []commerce.InventoryItem
	profiles     map[string]*commerce.Profile

	transactionsErr error
	inventoryErr    error

	fetchTransactionCalls int
}

func (f *fakeGateway) FetchTransactions(ctx context.Context, since, until time.Time) ([]commerce.Transaction, error) {
	f.fetchTransactionCalls++
	if f.transactionsErr != nil {
		return nil, f.transactionsErr
	}
	return f.transactions, nil
}

func (f *fakeGateway) FetchOrder(ctx context.Context, orderID string) (*commerce.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, commerce.ErrOrderNotFound
	}
	return order, nil
}

func (f *fakeGateway) FetchInventory(ctx context.Context) ([]commerce.InventoryItem, error) {
	if f.inventoryErr != nil {
		return nil, f.inventoryErr
	}
	return f.inventory, nil
}

func (f *fakeGateway) FetchProfile(ctx context.Context, email string) (*commerce.Profile, error) {
	profile, ok := f.profiles[email]
	if !ok {
		return nil, commerce.ErrProfileNotFound
	}
	return profile, nil
}
