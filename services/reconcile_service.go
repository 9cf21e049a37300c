package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/clubstack/backoffice/models"
	"github.com/clubstack/backoffice/pkg/monitoring"
)

// ReconcileService resolves membership line items to member records. It links
// optimistically: money must be tracked the moment it is ingested, and the
// separate conflict pass audits questionable matches later.
type ReconcileService struct {
	db      *gorm.DB
	catalog *CatalogService
}

// NewReconcileService creates a new reconcile service
func NewReconcileService(db *gorm.DB, catalog *CatalogService) *ReconcileService {
	return &ReconcileService{db: db, catalog: catalog}
}

// Reconcile processes every membership line item of the upserted
// transactions and returns the members it created. Line items reconcile
// independently: a failure affects only that line item's issue trail.
func (s *ReconcileService) Reconcile(ctx context.Context, txns []models.Transaction, products map[string]models.Product) ([]models.Member, error) {
	var newMembers []models.Member

	for i := range txns {
		txn := &txns[i]
		issuesBefore := len(txn.Issues)

		for idx, sku := range txn.SKUs {
			product, ok := products[sku]
			if !ok || product.Type != models.ProductTypeMembership {
				continue
			}
			if idx >= len(txn.ParsedFormData) {
				continue
			}

			created, err := s.reconcileLineItem(ctx, txn, idx, sku, txn.ParsedFormData[idx])
			if err != nil {
				slog.Error("Failed to reconcile line item",
					"externalId", txn.ExternalID,
					"lineItemIndex", idx,
					"error", err)
				txn.AddIssue(models.IssueMemberConflict, "failed to link line item to a member",
					map[string]interface{}{"line_item_index": idx, "error": err.Error()})
				monitoring.RecordBusinessEvent(ctx, "member_reconcile", false)
				continue
			}

			if created != nil {
				newMembers = append(newMembers, *created)
			}
			monitoring.RecordBusinessEvent(ctx, "member_reconcile", true)
		}

		if len(txn.Issues) > issuesBefore {
			if err := s.catalog.UpdateIssues(ctx, txn); err != nil {
				slog.Error("Failed to persist reconciliation issues", "externalId", txn.ExternalID, "error", err)
			}
		}
	}

	return newMembers, nil
}

// reconcileLineItem finds or creates the member for one line item and links
// it. Returns the member only when it was newly created.
func (s *ReconcileService) reconcileLineItem(ctx context.Context, txn *models.Transaction, index int, sku string, data models.LineItemData) (*models.Member, error) {
	candidates, err := s.findCandidates(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("candidate lookup failed: %w", err)
	}

	var matches []models.Member
	for _, candidate := range candidates {
		if subsetMatch(candidate, data) {
			matches = append(matches, candidate)
		}
	}

	var member models.Member
	var created *models.Member

	switch {
	case len(matches) > 0:
		// Candidates come back ordered by id, so the oldest record wins
		// deterministically. More than one acceptable match is worth a
		// human look, but the payment still gets linked now.
		member = matches[0]
		if len(matches) > 1 {
			ids := make([]uint, len(matches))
			for i, m := range matches {
				ids[i] = m.ID
			}
			txn.AddIssue(models.IssueMemberConflict, "multiple members matched line item",
				map[string]interface{}{"line_item_index": index, "member_ids": ids, "linked_member_id": member.ID})
		}
	default:
		member = models.Member{
			FirstName:             data.FirstName,
			LastName:              data.LastName,
			Email:                 data.Email,
			Phone:                 data.Phone,
			StreetAddress:         data.StreetAddress,
			City:                  data.City,
			State:                 data.State,
			ZipCode:               data.ZipCode,
			EmergencyContact:      data.EmergencyContact,
			EmergencyContactPhone: data.EmergencyContactPhone,
			MemberStatus:          "active",
		}
		if err := s.db.WithContext(ctx).Create(&member).Error; err != nil {
			return nil, fmt.Errorf("failed to create member: %w", err)
		}
		created = &member
		slog.Info("Created member from line item",
			"memberId", member.ID,
			"externalId", txn.ExternalID,
			"lineItemIndex", index)
	}

	link := models.MemberTransaction{
		MemberID:      member.ID,
		TransactionID: txn.ID,
		LineItemIndex: index,
		SKU:           sku,
		Amount:        data.Amount,
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "member_id"}, {Name: "transaction_id"}, {Name: "line_item_index"}},
		DoNothing: true,
	}).Create(&link).Error
	if err != nil {
		return created, fmt.Errorf("failed to link member %d: %w", member.ID, err)
	}

	return created, nil
}

// findCandidates runs the normalized fuzzy lookup: case-insensitive name
// match, or an email/phone hit when the line item has one. Ordered by
// ascending id so ties break the same way on every run.
func (s *ReconcileService) findCandidates(ctx context.Context, data models.LineItemData) ([]models.Member, error) {
	cond := s.db.Where("LOWER(first_name) = ? AND LOWER(last_name) = ?",
		strings.ToLower(data.FirstName), strings.ToLower(data.LastName))
	if data.Email != "" {
		cond = cond.Or("LOWER(email) = ?", strings.ToLower(data.Email))
	}
	if data.Phone != "" {
		cond = cond.Or("phone = ?", data.Phone)
	}

	var candidates []models.Member
	err := s.db.WithContext(ctx).
		Where(cond).
		Order("id ASC").
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	return candidates, nil
}

// subsetMatch implements the subset rule: two records agree when every field
// present on both sides matches case-insensitively. Absence on either side
// is never a mismatch.
func subsetMatch(member models.Member, data models.LineItemData) bool {
	pairs := [][2]string{
		{member.FirstName, data.FirstName},
		{member.LastName, data.LastName},
		{member.Email, data.Email},
		{member.Phone, data.Phone},
		{member.StreetAddress, data.StreetAddress},
		{member.City, data.City},
		{member.State, data.State},
		{member.ZipCode, data.ZipCode},
		{member.EmergencyContact, data.EmergencyContact},
		{member.EmergencyContactPhone, data.EmergencyContactPhone},
	}

	for _, pair := range pairs {
		if pair[0] == "" || pair[1] == "" {
			continue
		}
		if !strings.EqualFold(pair[0], pair[1]) {
			return false
		}
	}

	return true
}
