package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/clubstack/backoffice/models"
	apperrors "github.com/clubstack/backoffice/pkg/errors"
)

// ConflictService audits the member roster for pairs that look like the
// same person. It only records suspicions; merging is a human decision.
type ConflictService struct {
	db *gorm.DB
}

// NewConflictService creates a new conflict service
func NewConflictService(db *gorm.DB) *ConflictService {
	return &ConflictService{db: db}
}

// CalculateMemberConflicts scans all members pairwise within name, email
// and phone buckets and records each suspicious pair once. Returns the
// number of newly recorded conflicts. Re-running never duplicates pairs
// and never touches resolved ones.
func (s *ConflictService) CalculateMemberConflicts(ctx context.Context) (int, error) {
	var members []models.Member
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&members).Error; err != nil {
		return 0, apperrors.DatabaseError("failed to load members", err)
	}

	buckets := map[string][]models.Member{}
	add := func(key string, m models.Member) {
		buckets[key] = append(buckets[key], m)
	}
	for _, m := range members {
		add("n:"+strings.ToLower(m.FirstName)+"|"+strings.ToLower(m.LastName), m)
		if m.Email != "" {
			add("e:"+strings.ToLower(m.Email), m)
		}
		if m.Phone != "" {
			add("p:"+m.Phone, m)
		}
	}

	seen := map[[2]uint]bool{}
	recorded := 0
	for key, bucket := range buckets {
		// Within a name bucket a differing email or phone is not a
		// disqualifier, it is the conflict itself: reconciliation splits one
		// person across two records exactly when a secondary field diverges.
		// Email/phone buckets still require name agreement, so a shared
		// family email does not flag the whole household.
		nameBucket := strings.HasPrefix(key, "n:")
		for i := 0; i < len(bucket); i++ {
			for j := i + 1; j < len(bucket); j++ {
				if !nameBucket && !sameName(bucket[i], bucket[j]) {
					continue
				}

				first, second := bucket[i].ID, bucket[j].ID
				if first > second {
					first, second = second, first
				}
				pairKey := [2]uint{first, second}
				if seen[pairKey] {
					continue
				}
				seen[pairKey] = true

				conflict := models.MemberConflict{FirstMemberID: first, SecondMemberID: second}
				result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "first_member_id"}, {Name: "second_member_id"}},
					DoNothing: true,
				}).Create(&conflict)
				if result.Error != nil {
					slog.Error("Failed to record member conflict",
						"firstMemberId", first,
						"secondMemberId", second,
						"error", result.Error)
					continue
				}
				if result.RowsAffected > 0 {
					recorded++
				}
			}
		}
	}

	slog.Info("Member conflict audit completed", "candidatePairs", len(seen), "newConflicts", recorded)
	return recorded, nil
}

// ListConflicts returns conflicts, optionally filtered by resolved state.
func (s *ConflictService) ListConflicts(ctx context.Context, resolved *bool) ([]models.MemberConflict, error) {
	query := s.db.WithContext(ctx).Order("id ASC")
	if resolved != nil {
		query = query.Where("resolved = ?", *resolved)
	}

	var conflicts []models.MemberConflict
	if err := query.Find(&conflicts).Error; err != nil {
		return nil, apperrors.DatabaseError("failed to list conflicts", err)
	}
	return conflicts, nil
}

// ResolveConflict marks one conflict as handled. This is the only path
// that flips the resolved flag.
func (s *ConflictService) ResolveConflict(ctx context.Context, id uint) (*models.MemberConflict, error) {
	var conflict models.MemberConflict
	err := s.db.WithContext(ctx).First(&conflict, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFoundError(fmt.Sprintf("conflict %d", id))
		}
		return nil, apperrors.DatabaseError("failed to load conflict", err)
	}

	if !conflict.Resolved {
		conflict.Resolved = true
		if err := s.db.WithContext(ctx).Model(&conflict).Update("resolved", true).Error; err != nil {
			return nil, apperrors.DatabaseError("failed to resolve conflict", err)
		}
	}

	return &conflict, nil
}

// sameName reports whether two member records carry the same person name,
// ignoring case.
func sameName(a, b models.Member) bool {
	return strings.EqualFold(a.FirstName, b.FirstName) &&
		strings.EqualFold(a.LastName, b.LastName)
}
