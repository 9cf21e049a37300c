package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubstack/backoffice/models"
)

func membershipProducts() map[string]models.Product {
	return map[string]models.Product{
		"SQMEM2026":   {SKU: "SQMEM2026", Type: models.ProductTypeMembership},
		"SQFORUM2026": {SKU: "SQFORUM2026", Type: models.ProductTypeForum},
		"SQDONATION":  {SKU: "SQDONATION", Type: models.ProductTypeDonation},
	}
}

func TestReconcile(t *testing.T) {
	ctx := context.Background()

	t.Run("Reconcile_CreatesMemberAndLink", func(t *testing.T) {
		db := SetupSQLiteTestDB(t)
		reconciler := NewReconcileService(db, NewCatalogService(db))

		txn := models.Transaction{
			ExternalID:     "txn_1",
			SKUs:           models.StringSlice{"SQMEM2026"},
			ParsedFormData: models.LineItemList{{SKU: "SQMEM2026", Amount: 100, FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Phone: "5551234567"}},
		}
		require.NoError(t, db.Create(&txn).Error)

		newMembers, err := reconciler.Reconcile(ctx, []models.Transaction{txn}, membershipProducts())
		require.NoError(t, err)
		require.Len(t, newMembers, 1)
		assert.Equal(t, "Ann", newMembers[0].FirstName)
		assert.Equal(t, "active", newMembers[0].MemberStatus)

		var link models.MemberTransaction
		require.NoError(t, db.First(&link).Error)
		assert.Equal(t, newMembers[0].ID, link.MemberID)
		assert.Equal(t, txn.ID, link.TransactionID)
		assert.Equal(t, 0, link.LineItemIndex)
		assert.Equal(t, 100.0, link.Amount)
	})

	t.Run("Reconcile_SubsetMatchLinksExistingMember", func(t *testing.T) {
		db := SetupSQLiteTestDB(t)
		reconciler := NewReconcileService(db, NewCatalogService(db))

		existing := models.Member{FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", City: "Springfield"}
		require.NoError(t, db.Create(&existing).Error)

		// Line item has no city; absence on one side is not a mismatch
		txn := models.Transaction{
			ExternalID:     "txn_2",
			SKUs:           models.StringSlice{"SQMEM2026"},
			ParsedFormData: models.LineItemList{{SKU: "SQMEM2026", Amount: 100, FirstName: "ann", LastName: "LEE", Email: "Ann@Example.com"}},
		}
		require.NoError(t, db.Create(&txn).Error)

		newMembers, err := reconciler.Reconcile(ctx, []models.Transaction{txn}, membershipProducts())
		require.NoError(t, err)
		assert.Empty(t, newMembers)

		var link models.MemberTransaction
		require.NoError(t, db.First(&link).Error)
		assert.Equal(t, existing.ID, link.MemberID)
	})

	t.Run("Reconcile_ConflictingFieldRejectsCandidate", func(t *testing.T) {
		db := SetupSQLiteTestDB(t)
		reconciler := NewReconcileService(db, NewCatalogService(db))

		existing := models.Member{FirstName: "Ann", LastName: "Lee", Email: "other@example.com"}
		require.NoError(t, db.Create(&existing).Error)

		txn := models.Transaction{
			ExternalID:     "txn_3",
			SKUs:           models.StringSlice{"SQMEM2026"},
			ParsedFormData: models.LineItemList{{SKU: "SQMEM2026", FirstName: "Ann", LastName: "Lee", Email: "ann@example.com"}},
		}
		require.NoError(t, db.Create(&txn).Error)

		newMembers, err := reconciler.Reconcile(ctx, []models.Transaction{txn}, membershipProducts())
		require.NoError(t, err)
		// Same name but a different email is a different person
		require.Len(t, newMembers, 1)
		assert.NotEqual(t, existing.ID, newMembers[0].ID)
	})

	t.Run("Reconcile_AmbiguityPicksLowestIDAndFlagsConflict", func(t *testing.T) {
		db := SetupSQLiteTestDB(t)
		catalog := NewCatalogService(db)
		reconciler := NewReconcileService(db, catalog)

		first := models.Member{FirstName: "Ann", LastName: "Lee"}
		second := models.Member{FirstName: "Ann", LastName: "Lee", Email: "ann@example.com"}
		require.NoError(t, db.Create(&first).Error)
		require.NoError(t, db.Create(&second).Error)

		txn := models.Transaction{
			ExternalID:     "txn_4",
			SKUs:           models.StringSlice{"SQMEM2026"},
			ParsedFormData: models.LineItemList{{SKU: "SQMEM2026", FirstName: "Ann", LastName: "Lee"}},
		}
		require.NoError(t, db.Create(&txn).Error)

		newMembers, err := reconciler.Reconcile(ctx, []models.Transaction{txn}, membershipProducts())
		require.NoError(t, err)
		assert.Empty(t, newMembers)

		var link models.MemberTransaction
		require.NoError(t, db.First(&link).Error)
		assert.Equal(t, first.ID, link.MemberID)

		var reloaded models.Transaction
		require.NoError(t, db.First(&reloaded, txn.ID).Error)
		require.Len(t, reloaded.Issues, 1)
		assert.Equal(t, models.IssueMemberConflict, reloaded.Issues[0].Code)
	})

	t.Run("Reconcile_SkipsNonMembershipLineItems", func(t *testing.T) {
		db := SetupSQLiteTestDB(t)
		reconciler := NewReconcileService(db, NewCatalogService(db))

		txn := models.Transaction{
			ExternalID: "txn_5",
			SKUs:       models.StringSlice{"SQFORUM2026", "SQDONATION", "SQMEM2026"},
			ParsedFormData: models.LineItemList{
				{SKU: "SQFORUM2026", FirstName: "Bob", LastName: "Ray"},
				{SKU: "SQDONATION", FirstName: "Bob", LastName: "Ray"},
				{SKU: "SQMEM2026", FirstName: "Bob", LastName: "Ray"},
			},
		}
		require.NoError(t, db.Create(&txn).Error)

		newMembers, err := reconciler.Reconcile(ctx, []models.Transaction{txn}, membershipProducts())
		require.NoError(t, err)
		require.Len(t, newMembers, 1)

		var links []models.MemberTransaction
		require.NoError(t, db.Find(&links).Error)
		require.Len(t, links, 1)
		assert.Equal(t, 2, links[0].LineItemIndex)
		assert.Equal(t, "SQMEM2026", links[0].SKU)
	})

	t.Run("Reconcile_RerunIsIdempotent", func(t *testing.T) {
		db := SetupSQLiteTestDB(t)
		reconciler := NewReconcileService(db, NewCatalogService(db))

		txn := models.Transaction{
			ExternalID:     "txn_6",
			SKUs:           models.StringSlice{"SQMEM2026"},
			ParsedFormData: models.LineItemList{{SKU: "SQMEM2026", FirstName: "Cara", LastName: "Diaz", Email: "cara@example.com"}},
		}
		require.NoError(t, db.Create(&txn).Error)

		firstRun, err := reconciler.Reconcile(ctx, []models.Transaction{txn}, membershipProducts())
		require.NoError(t, err)
		require.Len(t, firstRun, 1)

		secondRun, err := reconciler.Reconcile(ctx, []models.Transaction{txn}, membershipProducts())
		require.NoError(t, err)
		assert.Empty(t, secondRun)

		var memberCount, linkCount int64
		db.Model(&models.Member{}).Count(&memberCount)
		db.Model(&models.MemberTransaction{}).Count(&linkCount)
		assert.Equal(t, int64(1), memberCount)
		assert.Equal(t, int64(1), linkCount)
	})
}

func TestSubsetMatch(t *testing.T) {
	member := models.Member{FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", City: "Springfield"}

	t.Run("SubsetMatch_AbsentFieldsIgnored", func(t *testing.T) {
		assert.True(t, subsetMatch(member, models.LineItemData{FirstName: "ann", LastName: "lee"}))
	})

	t.Run("SubsetMatch_PresentMismatchRejects", func(t *testing.T) {
		assert.False(t, subsetMatch(member, models.LineItemData{FirstName: "Ann", LastName: "Lee", City: "Shelbyville"}))
	})

	t.Run("SubsetMatch_CaseInsensitive", func(t *testing.T) {
		assert.True(t, subsetMatch(member, models.LineItemData{Email: "ANN@EXAMPLE.COM"}))
	})
}
