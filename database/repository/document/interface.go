package documentRepo

import (
	"context"
	"errors"
	"time"

	"sailsmart/models"
)

// ErrDuplicateGrant is returned when an active grant already covers the document, grantee and purpose.
var ErrDuplicateGrant = errors.New("an active grant already exists")

// Verification is the outcome of checking an uploaded document.
type Verification struct {
	Status          models.VerificationStatus
	PhotoPassed     bool
	PhotoConfidence *float64
	Notes           string
}

// DocumentRepository stores vault documents and the grants that expose them.
type DocumentRepository interface {
	Create(ctx context.Context, doc *models.IdentityDocument) error
	Get(ctx context.Context, id string) (*models.IdentityDocument, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.IdentityDocument, error)
	ListByOwnerAndType(ctx context.Context, ownerID string, docType models.DocumentType) ([]models.IdentityDocument, error)
	SetVerification(ctx context.Context, id string, v Verification) error

	// CreateGrant inserts a grant, reviving an expired or revoked one for the same
	// document, grantee and purpose.
	CreateGrant(ctx context.Context, grant *models.DocumentGrant, now time.Time) error
	ActiveGrant(ctx context.Context, documentID, granteeID string, now time.Time) (*models.DocumentGrant, error)
	RevokeGrant(ctx context.Context, documentID, grantID string, now time.Time) (bool, error)
}
