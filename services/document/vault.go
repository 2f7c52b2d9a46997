package document

import (
	"bytes"
	"context"
	"strings"

	documentRepo "sailsmart/database/repository/document"
	"sailsmart/models"
	"sailsmart/services/storage"
	"sailsmart/utils"

	"go.uber.org/zap"
)

// Upload stores the file and records it. If the record cannot be written the stored file
// is destroyed before the error is returned. Passport images are then checked by the
// photo verifier; a verifier failure leaves the document unverified.
func (s *DefaultDocumentService) Upload(ctx context.Context, ownerID string, docType models.DocumentType, file FileInput) (*models.IdentityDocument, error) {
	if !docType.Valid() {
		return nil, utils.Validation("unknown document type " + string(docType))
	}
	mimeType := strings.ToLower(strings.TrimSpace(file.MimeType))
	if !models.AllowedDocumentMimeTypes[mimeType] {
		return nil, utils.Validation("unsupported file type " + file.MimeType)
	}
	if len(file.Data) == 0 {
		return nil, utils.Validation("file is empty")
	}
	if len(file.Data) > models.MaxDocumentBytes {
		return nil, utils.Validation("file is larger than 10 MB")
	}

	logger := utils.GetLogger()
	stored, err := s.Storage.Upload(ctx, bytes.NewReader(file.Data), "vault/"+ownerID)
	if err != nil {
		return nil, utils.UpstreamUnavailable("document storage unavailable", err)
	}

	doc := &models.IdentityDocument{
		OwnerID:             ownerID,
		DocumentType:        docType,
		StoragePublicID:     stored.PublicID,
		StorageResourceType: stored.ResourceType,
		FileName:            file.Name,
		MimeType:            mimeType,
		VerificationStatus:  models.VerificationPending,
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		if delErr := s.Storage.Delete(ctx, *stored); delErr != nil {
			logger.Error("Orphaned vault file after failed insert",
				zap.String("publicId", stored.PublicID), zap.Error(delErr))
		} else {
			logger.Info("Removed vault file after failed insert", zap.String("publicId", stored.PublicID))
		}
		return nil, err
	}

	if docType == models.DocumentPassport && strings.HasPrefix(mimeType, "image/") && s.Verifier != nil {
		s.verifyPassport(ctx, doc, file.Data)
	}
	return doc, nil
}

func (s *DefaultDocumentService) verifyPassport(ctx context.Context, doc *models.IdentityDocument, image []byte) {
	v := documentRepo.Verification{Status: models.VerificationUnverified}

	verdict, err := s.Verifier.VerifyPassportPhoto(ctx, image, doc.MimeType)
	if err != nil {
		utils.GetLogger().Warn("Passport photo verification failed",
			zap.String("documentId", doc.ID), zap.Error(err))
		v.Notes = "photo verification unavailable"
	} else {
		confidence := verdict.Confidence
		v.PhotoPassed = verdict.Passed
		v.PhotoConfidence = &confidence
		v.Notes = verdict.Notes
		if verdict.Passed {
			v.Status = models.VerificationVerified
		} else {
			v.Status = models.VerificationRejected
		}
	}

	if err := s.Repo.SetVerification(ctx, doc.ID, v); err != nil {
		utils.GetLogger().Error("Failed to record passport verification",
			zap.String("documentId", doc.ID), zap.Error(err))
		return
	}
	doc.VerificationStatus = v.Status
	doc.PhotoVerificationPassed = v.PhotoPassed
	doc.PhotoConfidenceScore = v.PhotoConfidence
	doc.VerificationNotes = v.Notes
}

func (s *DefaultDocumentService) List(ctx context.Context, ownerID string) ([]models.IdentityDocument, error) {
	return s.Repo.ListByOwner(ctx, ownerID)
}

func storedFile(doc *models.IdentityDocument) storage.StoredFile {
	return storage.StoredFile{PublicID: doc.StoragePublicID, ResourceType: doc.StorageResourceType}
}
