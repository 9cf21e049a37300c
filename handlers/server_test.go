package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/clubstack/backoffice/commerce"
	"github.com/clubstack/backoffice/models"
	"github.com/clubstack/backoffice/services"
)

// stubGateway serves one canned membership order for end to end tests
type stubGateway struct{}

func (stubGateway) FetchTransactions(ctx context.Context, since, until time.Time) ([]commerce.Transaction, error) {
	return []commerce.Transaction{{
		ID:              "txn_mem",
		CreatedOn:       time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		SalesOrderID:    "order_1",
		Total:           commerce.Money{Value: "100.00"},
		TotalNetPayment: commerce.Money{Value: "96.80"},
		Payments:        []commerce.Payment{{Provider: "STRIPE"}},
	}}, nil
}

func (stubGateway) FetchOrder(ctx context.Context, orderID string) (*commerce.Order, error) {
	return &commerce.Order{ID: orderID, LineItems: []commerce.OrderLineItem{{
		SKU:           "SQMEM2026",
		UnitPricePaid: commerce.Money{Value: "100.00"},
		Customizations: []commerce.Customization{
			{Label: "First Name", Value: "Ann"},
			{Label: "Last Name", Value: "Lee"},
			{Label: "Email", Value: "ann@example.com"},
			{Label: "Phone", Value: "555-123-4567"},
		},
	}}}, nil
}

func (stubGateway) FetchInventory(ctx context.Context) ([]commerce.InventoryItem, error) {
	return []commerce.InventoryItem{{SKU: "SQMEM2026", Descriptor: "2026 Membership"}}, nil
}

func (stubGateway) FetchProfile(ctx context.Context, email string) (*commerce.Profile, error) {
	return nil, commerce.ErrProfileNotFound
}

func setupTestServer(t *testing.T) (*http.ServeMux, *gorm.DB) {
	t.Helper()
	db := services.SetupSQLiteTestDB(t)
	mux := http.NewServeMux()
	NewAPIServer(db, stubGateway{}).SetupRoutes(mux)
	return mux, db
}

func TestCommerceSyncEndpoint(t *testing.T) {
	mux, db := setupTestServer(t)
	require.NoError(t, db.Create(&models.Product{SKU: "SQMEM2026", Type: models.ProductTypeMembership}).Error)

	t.Run("Sync_POSTRunsPipeline", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sync/commerce", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var summary models.SyncSummary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
		require.Len(t, summary.NewMembers, 1)
		assert.Equal(t, "Ann", summary.NewMembers[0].FirstName)
		assert.Empty(t, summary.Warnings)
	})

	t.Run("Sync_GETRejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sync/commerce", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
	})
}

func TestMemberEndpoints(t *testing.T) {
	mux, db := setupTestServer(t)

	member := models.Member{FirstName: "Ann", LastName: "Lee", Email: "ann@example.com"}
	require.NoError(t, db.Create(&member).Error)

	t.Run("Members_List", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/members", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var members []models.Member
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &members))
		require.Len(t, members, 1)
		assert.Equal(t, "Ann", members[0].FirstName)
	})

	t.Run("Members_GetByID", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/members/%d", member.ID), nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var got models.Member
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, member.ID, got.ID)
	})

	t.Run("Members_PaymentLinks", func(t *testing.T) {
		require.NoError(t, db.Create(&models.MemberTransaction{
			MemberID: member.ID, TransactionID: 7, LineItemIndex: 0, SKU: "SQMEM2026", Amount: 100,
		}).Error)

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
			fmt.Sprintf("/api/members/%d/transactions", member.ID), nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var links []models.MemberTransaction
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &links))
		require.Len(t, links, 1)
		assert.Equal(t, "SQMEM2026", links[0].SKU)
	})

	t.Run("Members_GetUnknownID", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/members/999", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Members_BadID", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/members/abc", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Members_UpdatePartial", func(t *testing.T) {
		body, _ := json.Marshal(map[string]interface{}{"phone": "5559876543", "public": true})
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPut,
			fmt.Sprintf("/api/members/%d", member.ID), bytes.NewReader(body)))

		require.Equal(t, http.StatusOK, rec.Code)

		var reloaded models.Member
		require.NoError(t, db.First(&reloaded, member.ID).Error)
		assert.Equal(t, "5559876543", reloaded.Phone)
		assert.True(t, reloaded.Public)
		assert.Equal(t, "ann@example.com", reloaded.Email)
	})
}

func TestConflictEndpoints(t *testing.T) {
	mux, db := setupTestServer(t)

	a := models.Member{FirstName: "Cara", LastName: "Diaz"}
	b := models.Member{FirstName: "Cara", LastName: "Diaz", Email: "cara@example.com"}
	require.NoError(t, db.Create(&a).Error)
	require.NoError(t, db.Create(&b).Error)

	t.Run("Conflicts_AuditThenListThenResolve", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sync/conflicts", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var audit struct {
			Message string `json:"message"`
			Found   int    `json:"found"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &audit))
		assert.Equal(t, 1, audit.Found)

		rec = httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/conflicts?resolved=false", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var conflicts []models.MemberConflict
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conflicts))
		require.Len(t, conflicts, 1)

		rec = httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost,
			fmt.Sprintf("/api/conflicts/%d/resolve", conflicts[0].ID), nil))
		require.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/conflicts?resolved=false", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conflicts))
		assert.Empty(t, conflicts)
	})

	t.Run("Conflicts_BadResolvedFilter", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/conflicts?resolved=maybe", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Conflicts_ResolveWithoutSuffix", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/conflicts/1", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestTransactionIssuesEndpoint(t *testing.T) {
	mux, db := setupTestServer(t)

	require.NoError(t, db.Create(&models.Transaction{ExternalID: "txn_clean"}).Error)
	require.NoError(t, db.Create(&models.Transaction{
		ExternalID: "txn_degraded",
		Issues:     models.IssueList{{Message: "order detail not found", Code: models.IssueOrderNotFound}},
	}).Error)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/transactions/issues", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var txns []models.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &txns))
	require.Len(t, txns, 1)
	assert.Equal(t, "txn_degraded", txns[0].ExternalID)
}
