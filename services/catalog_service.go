package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/clubstack/backoffice/models"
)

// CatalogService owns the idempotent upserts of products and transactions.
// Both are keyed on natural keys, so re-running ingestion over an overlapping
// window stores the same rows instead of duplicating them.
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a new catalog service
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// UpsertProducts writes catalog products keyed on sku
func (s *CatalogService) UpsertProducts(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}

	// type, group_id and year are assigned by admins after the product first
	// appears; a re-sync only refreshes the descriptor.
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sku"}},
		DoUpdates: clause.AssignmentColumns([]string{"descriptor", "updated_at"}),
	}).Create(&products).Error
	if err != nil {
		return fmt.Errorf("failed to upsert products: %w", err)
	}

	return nil
}

// UpsertTransactions writes transactions keyed on external_id and returns the
// stored rows, with internal ids populated, in input order.
func (s *CatalogService) UpsertTransactions(ctx context.Context, txns []models.Transaction) ([]models.Transaction, error) {
	if len(txns) == 0 {
		return nil, nil
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"date", "amount", "fee", "platform",
			"skus", "parsed_form_data", "raw_form_data", "issues",
			"updated_at",
		}),
	}).Create(&txns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert transactions: %w", err)
	}

	// Re-read by external id: on conflict-update the driver does not hand
	// back the existing row's primary key.
	externalIDs := make([]string, len(txns))
	for i, txn := range txns {
		externalIDs[i] = txn.ExternalID
	}

	var stored []models.Transaction
	if err := s.db.WithContext(ctx).Where("external_id IN ?", externalIDs).Find(&stored).Error; err != nil {
		return nil, fmt.Errorf("failed to load upserted transactions: %w", err)
	}

	byExternalID := make(map[string]models.Transaction, len(stored))
	for _, txn := range stored {
		byExternalID[txn.ExternalID] = txn
	}

	ordered := make([]models.Transaction, 0, len(txns))
	for _, txn := range txns {
		if row, ok := byExternalID[txn.ExternalID]; ok {
			ordered = append(ordered, row)
		}
	}

	return ordered, nil
}

// ProductsBySKU loads the whole catalog as a sku-keyed lookup map
func (s *CatalogService) ProductsBySKU(ctx context.Context) (map[string]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	bySKU := make(map[string]models.Product, len(products))
	for _, p := range products {
		bySKU[p.SKU] = p
	}

	return bySKU, nil
}

// UpdateIssues persists a transaction's issue trail after reconciliation
// appended to it.
func (s *CatalogService) UpdateIssues(ctx context.Context, txn *models.Transaction) error {
	err := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ?", txn.ID).
		Update("issues", txn.Issues).Error
	if err != nil {
		return fmt.Errorf("failed to update issues for transaction %s: %w", txn.ExternalID, err)
	}
	return nil
}

// TransactionsWithIssues returns the stored transactions carrying at least
// one issue, newest first, for the operator triage view.
func (s *CatalogService) TransactionsWithIssues(ctx context.Context) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := s.db.WithContext(ctx).
		Where("issues IS NOT NULL AND issues != ? AND issues != ?", "[]", "null").
		Order("date DESC").
		Find(&txns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions with issues: %w", err)
	}

	return txns, nil
}
