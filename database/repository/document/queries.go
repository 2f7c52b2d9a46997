package documentRepo

import (
	"context"
	"fmt"
	"time"

	"sailsmart/models"
)

func (r *documentRepo) Get(ctx context.Context, id string) (*models.IdentityDocument, error) {
	var docs []models.IdentityDocument
	if err := r.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch document %s: %w", id, err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return &docs[0], nil
}

func (r *documentRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.IdentityDocument, error) {
	var docs []models.IdentityDocument
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

func (r *documentRepo) ListByOwnerAndType(ctx context.Context, ownerID string, docType models.DocumentType) ([]models.IdentityDocument, error) {
	var docs []models.IdentityDocument
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND document_type = ?", ownerID, docType).
		Order("created_at DESC").
		Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s documents: %w", docType, err)
	}
	return docs, nil
}

func (r *documentRepo) ActiveGrant(ctx context.Context, documentID, granteeID string, now time.Time) (*models.DocumentGrant, error) {
	var grants []models.DocumentGrant
	if err := r.db.WithContext(ctx).
		Where("document_id = ? AND grantee_id = ?", documentID, granteeID).
		Where("revoked_at IS NULL AND expires_at > ?", now).
		Limit(1).
		Find(&grants).Error; err != nil {
		return nil, fmt.Errorf("failed to look up grant: %w", err)
	}
	if len(grants) == 0 {
		return nil, nil
	}
	return &grants[0], nil
}
