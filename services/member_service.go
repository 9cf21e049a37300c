package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/clubstack/backoffice/models"
	apperrors "github.com/clubstack/backoffice/pkg/errors"
)

// MemberService serves the admin UI's roster views and edits.
type MemberService struct {
	db *gorm.DB
}

// NewMemberService creates a new member service
func NewMemberService(db *gorm.DB) *MemberService {
	return &MemberService{db: db}
}

// GetAllMembers returns the full roster ordered by last then first name.
func (s *MemberService) GetAllMembers(ctx context.Context) ([]models.Member, error) {
	var members []models.Member
	err := s.db.WithContext(ctx).
		Order("LOWER(last_name) ASC, LOWER(first_name) ASC, id ASC").
		Find(&members).Error
	if err != nil {
		return nil, apperrors.DatabaseError("failed to list members", err)
	}
	return members, nil
}

// GetMember returns one member by id.
func (s *MemberService) GetMember(ctx context.Context, id uint) (*models.Member, error) {
	var member models.Member
	err := s.db.WithContext(ctx).First(&member, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFoundError(fmt.Sprintf("member %d", id))
		}
		return nil, apperrors.DatabaseError("failed to load member", err)
	}
	return &member, nil
}

// UpdateMember applies a partial update. Only fields present in the
// request change; reconciliation identity edits go through here so the
// admin stays the source of truth for corrections.
func (s *MemberService) UpdateMember(ctx context.Context, id uint, req models.UpdateMemberRequest) (*models.Member, error) {
	member, err := s.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	setString := func(column string, value *string) {
		if value != nil {
			updates[column] = *value
		}
	}
	setString("first_name", req.FirstName)
	setString("last_name", req.LastName)
	setString("email", req.Email)
	setString("phone", req.Phone)
	setString("street_address", req.StreetAddress)
	setString("city", req.City)
	setString("state", req.State)
	setString("zip_code", req.ZipCode)
	setString("member_status", req.MemberStatus)
	setString("partner", req.Partner)
	setString("emergency_contact", req.EmergencyContact)
	setString("emergency_contact_phone", req.EmergencyContactPhone)
	if req.Public != nil {
		updates["public"] = *req.Public
	}

	if len(updates) == 0 {
		return member, nil
	}

	if err := s.db.WithContext(ctx).Model(member).Updates(updates).Error; err != nil {
		return nil, apperrors.DatabaseError("failed to update member", err)
	}
	return member, nil
}

// GetMemberTransactions returns the payment links for one member, newest
// transaction first.
func (s *MemberService) GetMemberTransactions(ctx context.Context, id uint) ([]models.MemberTransaction, error) {
	if _, err := s.GetMember(ctx, id); err != nil {
		return nil, err
	}
	var links []models.MemberTransaction
	err := s.db.WithContext(ctx).
		Where("member_id = ?", id).
		Order("transaction_id DESC, line_item_index ASC").
		Find(&links).Error
	if err != nil {
		return nil, apperrors.DatabaseError("failed to list member transactions", err)
	}
	return links, nil
}
