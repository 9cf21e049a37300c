package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/clubstack/backoffice/models"
	apperrors "github.com/clubstack/backoffice/pkg/errors"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return db, mock
}

func TestMemberServiceQueries(t *testing.T) {
	t.Run("GetAllMembers_OrdersByName", func(t *testing.T) {
		db, mock := setupMockDB(t)
		service := NewMemberService(db)

		rows := sqlmock.NewRows([]string{"id", "first_name", "last_name"}).
			AddRow(2, "Ann", "Diaz").
			AddRow(1, "Bob", "Lee")
		mock.ExpectQuery(`SELECT \* FROM "members" ORDER BY LOWER\(last_name\) ASC, LOWER\(first_name\) ASC, id ASC`).
			WillReturnRows(rows)

		members, err := service.GetAllMembers(context.Background())
		require.NoError(t, err)
		require.Len(t, members, 2)
		assert.Equal(t, "Diaz", members[0].LastName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetMember_NotFound", func(t *testing.T) {
		db, mock := setupMockDB(t)
		service := NewMemberService(db)

		mock.ExpectQuery(`SELECT \* FROM "members"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name"}))

		_, err := service.GetMember(context.Background(), 42)
		require.Error(t, err)
		apiErr := apperrors.GetAPIError(err)
		require.NotNil(t, apiErr)
		assert.Equal(t, 404, apiErr.HTTPStatus)
		assert.Equal(t, "member 42 not found", apiErr.Message)
	})
}

func TestUpdateMember(t *testing.T) {
	t.Run("UpdateMember_PartialFields", func(t *testing.T) {
		db := SetupSQLiteTestDB(t)
		service := NewMemberService(db)

		member := models.Member{FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Public: false}
		require.NoError(t, db.Create(&member).Error)

		email := "ann.lee@example.com"
		public := true
		_, err := service.UpdateMember(context.Background(), member.ID, models.UpdateMemberRequest{
			Email:  &email,
			Public: &public,
		})
		require.NoError(t, err)

		var reloaded models.Member
		require.NoError(t, db.First(&reloaded, member.ID).Error)
		assert.Equal(t, "ann.lee@example.com", reloaded.Email)
		assert.True(t, reloaded.Public)
		// Untouched fields survive
		assert.Equal(t, "Ann", reloaded.FirstName)
	})

	t.Run("UpdateMember_EmptyRequestIsNoOp", func(t *testing.T) {
		db := SetupSQLiteTestDB(t)
		service := NewMemberService(db)

		member := models.Member{FirstName: "Bob", LastName: "Ray"}
		require.NoError(t, db.Create(&member).Error)

		updated, err := service.UpdateMember(context.Background(), member.ID, models.UpdateMemberRequest{})
		require.NoError(t, err)
		assert.Equal(t, "Bob", updated.FirstName)
	})

	t.Run("UpdateMember_UnknownID", func(t *testing.T) {
		db := SetupSQLiteTestDB(t)
		service := NewMemberService(db)

		_, err := service.UpdateMember(context.Background(), 999, models.UpdateMemberRequest{})
		require.Error(t, err)
	})
}

func TestGetMemberTransactions(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewMemberService(db)

	member := models.Member{FirstName: "Ann", LastName: "Lee"}
	require.NoError(t, db.Create(&member).Error)
	require.NoError(t, db.Create(&models.MemberTransaction{
		MemberID: member.ID, TransactionID: 10, LineItemIndex: 0, SKU: "SQMEM2026", Amount: 100,
	}).Error)
	require.NoError(t, db.Create(&models.MemberTransaction{
		MemberID: member.ID, TransactionID: 12, LineItemIndex: 1, SKU: "SQMEM2027", Amount: 110,
	}).Error)

	links, err := service.GetMemberTransactions(context.Background(), member.ID)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, uint(12), links[0].TransactionID)
}
