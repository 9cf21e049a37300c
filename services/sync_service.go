package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/clubstack/backoffice/commerce"
	"github.com/clubstack/backoffice/models"
	apperrors "github.com/clubstack/backoffice/pkg/errors"
	"github.com/clubstack/backoffice/pkg/monitoring"
)

const (
	defaultBatchSize  = 5
	defaultBatchDelay = 200 * time.Millisecond
	defaultLookback   = 30 * 24 * time.Hour
)

// SyncService orchestrates one commerce ingestion run: fetch, convert,
// upsert, reconcile, then advance the watermark.
type SyncService struct {
	db         *gorm.DB
	gateway    CommerceGateway
	catalog    *CatalogService
	converter  *ConverterService
	reconciler *ReconcileService
	conflicts  *ConflictService
	batchSize  int
	batchDelay time.Duration
	lookback   time.Duration
}

// NewSyncService creates a new sync service with default pacing
func NewSyncService(db *gorm.DB, gateway CommerceGateway, catalog *CatalogService, converter *ConverterService, reconciler *ReconcileService, conflicts *ConflictService) *SyncService {
	return &SyncService{
		db:         db,
		gateway:    gateway,
		catalog:    catalog,
		converter:  converter,
		reconciler: reconciler,
		conflicts:  conflicts,
		batchSize:  defaultBatchSize,
		batchDelay: defaultBatchDelay,
		lookback:   defaultLookback,
	}
}

// RunCommerceSync executes one full ingestion run from the stored
// watermark up to now. Gateway failures on the transaction list or the
// catalog abort the run; everything downstream degrades into issues on
// individual transactions. The watermark only advances after the run
// completed, so a failed run's window is retried in full next time.
func (s *SyncService) RunCommerceSync(ctx context.Context) (*models.SyncSummary, error) {
	start := time.Now()
	until := start.UTC()
	since, err := s.watermark(ctx, until)
	if err != nil {
		return nil, err
	}
	slog.Info("Starting commerce sync", "since", since, "until", until)

	raw, err := s.gateway.FetchTransactions(ctx, since, until)
	if err != nil {
		return nil, apperrors.UpstreamError("failed to fetch transactions", err)
	}

	inventory, err := s.gateway.FetchInventory(ctx)
	if err != nil {
		return nil, apperrors.UpstreamError("failed to fetch inventory", err)
	}
	catalogRows := make([]models.Product, len(inventory))
	for i, item := range inventory {
		catalogRows[i] = models.Product{SKU: item.SKU, Descriptor: item.Descriptor}
	}
	if err := s.catalog.UpsertProducts(ctx, catalogRows); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	converted := s.convertAll(ctx, raw)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	txns, err := s.catalog.UpsertTransactions(ctx, converted)
	if err != nil {
		return nil, err
	}

	products, err := s.catalog.ProductsBySKU(ctx)
	if err != nil {
		return nil, err
	}

	newMembers, err := s.reconciler.Reconcile(ctx, txns, products)
	if err != nil {
		return nil, err
	}

	// The audit pass is advisory. A failure here must not fail the run;
	// the next run recomputes the same pairs anyway.
	if _, err := s.conflicts.CalculateMemberConflicts(ctx); err != nil {
		slog.Error("Member conflict audit failed", "error", err)
	}

	if err := s.advanceWatermark(ctx, until); err != nil {
		return nil, err
	}

	summary := buildSummary(txns, newMembers)
	monitoring.RecordWorkflowDuration(ctx, "commerce_sync", time.Since(start))
	monitoring.RecordBusinessEvent(ctx, "commerce_sync", true)
	slog.Info("Commerce sync completed",
		"transactions", len(txns),
		"warnings", len(summary.Warnings),
		"newMembers", len(newMembers),
		"duration", time.Since(start))
	return summary, nil
}

// convertAll converts raw transactions in small concurrent batches with a
// pause in between, keeping pressure on the gateway's detail endpoints low.
func (s *SyncService) convertAll(ctx context.Context, raw []commerce.Transaction) []models.Transaction {
	results := make([]models.Transaction, len(raw))
	for offset := 0; offset < len(raw); offset += s.batchSize {
		end := offset + s.batchSize
		if end > len(raw) {
			end = len(raw)
		}

		var wg sync.WaitGroup
		for i := offset; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = s.converter.Convert(ctx, raw[i])
			}(i)
		}
		wg.Wait()

		if end < len(raw) {
			select {
			case <-ctx.Done():
				return results
			case <-time.After(s.batchDelay):
			}
		}
	}
	return results
}

// watermark returns the start of the sync window, falling back to the
// lookback horizon on the very first run.
func (s *SyncService) watermark(ctx context.Context, now time.Time) (time.Time, error) {
	var mark models.SyncWatermark
	err := s.db.WithContext(ctx).First(&mark, "stream = ?", models.StreamCommerce).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return now.Add(-s.lookback), nil
		}
		return time.Time{}, apperrors.DatabaseError("failed to load sync watermark", err)
	}
	return mark.RanAt, nil
}

func (s *SyncService) advanceWatermark(ctx context.Context, ranAt time.Time) error {
	mark := models.SyncWatermark{Stream: models.StreamCommerce, RanAt: ranAt}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stream"}},
		DoUpdates: clause.AssignmentColumns([]string{"ran_at", "updated_at"}),
	}).Create(&mark).Error
	if err != nil {
		return apperrors.DatabaseError("failed to advance sync watermark", err)
	}
	return nil
}

func buildSummary(txns []models.Transaction, newMembers []models.Member) *models.SyncSummary {
	summary := &models.SyncSummary{
		Message:    fmt.Sprintf("processed %d transactions", len(txns)),
		Warnings:   []models.SyncWarning{},
		NewMembers: []models.NewMemberSummary{},
	}
	for _, txn := range txns {
		if txn.HasIssues() {
			summary.Warnings = append(summary.Warnings, models.SyncWarning{
				ID:         txn.ID,
				ExternalID: txn.ExternalID,
				Issues:     txn.Issues,
				Date:       txn.Date,
			})
		}
	}
	for _, m := range newMembers {
		summary.NewMembers = append(summary.NewMembers, models.NewMemberSummary{
			ID:        m.ID,
			FirstName: m.FirstName,
			LastName:  m.LastName,
			Email:     m.Email,
			Phone:     m.Phone,
		})
	}
	return summary
}
