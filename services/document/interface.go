package document

import (
	"context"
	"time"

	documentRepo "sailsmart/database/repository/document"
	"sailsmart/models"
	"sailsmart/services/storage"
)

// AccessURLTTL bounds how long a signed document URL stays valid.
const AccessURLTTL = 15 * time.Minute

// FileInput is one uploaded file, already read from the request.
type FileInput struct {
	Name     string
	MimeType string
	Data     []byte
}

// DocumentService is the user's identity document vault.
type DocumentService interface {
	Upload(ctx context.Context, ownerID string, docType models.DocumentType, file FileInput) (*models.IdentityDocument, error)
	List(ctx context.Context, ownerID string) ([]models.IdentityDocument, error)
	Grant(ctx context.Context, ownerID, documentID string, in models.GrantInput) (*models.DocumentGrant, error)
	Revoke(ctx context.Context, ownerID, documentID, grantID string) error
	AccessURL(ctx context.Context, callerID, documentID string) (string, error)
}

// PhotoVerifier checks a passport photo page.
type PhotoVerifier interface {
	VerifyPassportPhoto(ctx context.Context, image []byte, mimeType string) (models.PhotoVerdict, error)
}

// DefaultDocumentService is the production implementation.
type DefaultDocumentService struct {
	Repo     documentRepo.DocumentRepository
	Storage  storage.StorageService
	Verifier PhotoVerifier
	Now      func() time.Time
}

func (s *DefaultDocumentService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now()
}
