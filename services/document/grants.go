package document

import (
	"context"
	"errors"
	"strings"
	"time"

	documentRepo "sailsmart/database/repository/document"
	"sailsmart/models"
	"sailsmart/utils"
)

// Grant lets granteeID view the document for one purpose until the grant expires.
func (s *DefaultDocumentService) Grant(ctx context.Context, ownerID, documentID string, in models.GrantInput) (*models.DocumentGrant, error) {
	purpose := strings.TrimSpace(in.Purpose)
	if purpose == "" || in.GranteeID == "" {
		return nil, utils.Validation("granteeId and purpose are required")
	}
	if in.ExpiresInHours < 1 || in.ExpiresInHours > 720 {
		return nil, utils.Validation("expiresInHours must be between 1 and 720")
	}
	if _, err := s.owned(ctx, ownerID, documentID); err != nil {
		return nil, err
	}
	if in.GranteeID == ownerID {
		return nil, utils.Validation("cannot grant access to yourself")
	}

	now := s.now()
	grant := &models.DocumentGrant{
		DocumentID: documentID,
		GranteeID:  in.GranteeID,
		Purpose:    purpose,
		GrantedBy:  ownerID,
		ExpiresAt:  now.Add(time.Duration(in.ExpiresInHours) * time.Hour),
	}
	if err := s.Repo.CreateGrant(ctx, grant, now); err != nil {
		if errors.Is(err, documentRepo.ErrDuplicateGrant) {
			return nil, utils.Conflict("an active grant for this purpose already exists")
		}
		return nil, err
	}
	return grant, nil
}

func (s *DefaultDocumentService) Revoke(ctx context.Context, ownerID, documentID, grantID string) error {
	if _, err := s.owned(ctx, ownerID, documentID); err != nil {
		return err
	}
	ok, err := s.Repo.RevokeGrant(ctx, documentID, grantID, s.now())
	if err != nil {
		return err
	}
	if !ok {
		return utils.NotFound("grant not found")
	}
	return nil
}

// AccessURL returns a signed URL for the owner or an active grantee.
func (s *DefaultDocumentService) AccessURL(ctx context.Context, callerID, documentID string) (string, error) {
	doc, err := s.Repo.Get(ctx, documentID)
	if err != nil {
		return "", err
	}
	if doc == nil {
		return "", utils.NotFound("document not found")
	}

	ttl := AccessURLTTL
	if doc.OwnerID != callerID {
		now := s.now()
		grant, err := s.Repo.ActiveGrant(ctx, documentID, callerID, now)
		if err != nil {
			return "", err
		}
		if grant == nil {
			return "", utils.Forbidden("no active grant for this document")
		}
		if remaining := grant.ExpiresAt.Sub(now); remaining < ttl {
			ttl = remaining
		}
	}

	url, err := s.Storage.SignedURL(storedFile(doc), ttl)
	if err != nil {
		return "", utils.Internal("failed to sign document URL", err)
	}
	return url, nil
}

func (s *DefaultDocumentService) owned(ctx context.Context, ownerID, documentID string) (*models.IdentityDocument, error) {
	doc, err := s.Repo.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, utils.NotFound("document not found")
	}
	if doc.OwnerID != ownerID {
		return nil, utils.Forbidden("only the document owner can manage grants")
	}
	return doc, nil
}
