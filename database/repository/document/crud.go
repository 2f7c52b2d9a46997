package documentRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sailsmart/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type documentRepo struct {
	db *gorm.DB
}

func NewDocumentRepo(db *gorm.DB) DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) Create(ctx context.Context, doc *models.IdentityDocument) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

func (r *documentRepo) SetVerification(ctx context.Context, id string, v Verification) error {
	err := r.db.WithContext(ctx).
		Model(&models.IdentityDocument{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"verification_status":       v.Status,
			"photo_verification_passed": v.PhotoPassed,
			"photo_confidence_score":    v.PhotoConfidence,
			"verification_notes":        v.Notes,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to record verification for document %s: %w", id, err)
	}
	return nil
}

func (r *documentRepo) CreateGrant(ctx context.Context, grant *models.DocumentGrant, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []models.DocumentGrant
		if err := tx.Where("document_id = ? AND grantee_id = ? AND purpose = ?",
			grant.DocumentID, grant.GranteeID, grant.Purpose).
			Limit(1).
			Find(&existing).Error; err != nil {
			return fmt.Errorf("failed to look up grant: %w", err)
		}

		if len(existing) > 0 {
			prev := existing[0]
			if prev.Active(now) {
				return ErrDuplicateGrant
			}
			grant.ID = prev.ID
			grant.CreatedAt = prev.CreatedAt
			if err := tx.Model(&models.DocumentGrant{}).
				Where("id = ?", prev.ID).
				Updates(map[string]interface{}{
					"granted_by": grant.GrantedBy,
					"expires_at": grant.ExpiresAt,
					"revoked_at": nil,
				}).Error; err != nil {
				return fmt.Errorf("failed to renew grant: %w", err)
			}
			return nil
		}

		if grant.ID == "" {
			grant.ID = uuid.NewString()
		}
		if err := tx.Create(grant).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateGrant
			}
			return fmt.Errorf("failed to create grant: %w", err)
		}
		return nil
	})
}

func (r *documentRepo) RevokeGrant(ctx context.Context, documentID, grantID string, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.DocumentGrant{}).
		Where("id = ? AND document_id = ? AND revoked_at IS NULL", grantID, documentID).
		Update("revoked_at", now)
	if res.Error != nil {
		return false, fmt.Errorf("failed to revoke grant %s: %w", grantID, res.Error)
	}
	return res.RowsAffected > 0, nil
}
