package documentRepo

import (
	"context"
	"testing"
	"time"

	"sailsmart/database/repository/testutil"
	"sailsmart/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedDocument(t *testing.T, repo DocumentRepository) *models.IdentityDocument {
	t.Helper()
	doc := &models.IdentityDocument{
		OwnerID:            "crew-1",
		DocumentType:       models.DocumentPassport,
		StoragePublicID:    "vault/crew-1/passport",
		FileName:           "passport.jpg",
		MimeType:           "image/jpeg",
		VerificationStatus: models.VerificationPending,
	}
	require.NoError(t, repo.Create(context.Background(), doc))
	return doc
}

func TestSetVerification(t *testing.T) {
	repo := NewDocumentRepo(testutil.DB(t))
	ctx := context.Background()
	doc := seedDocument(t, repo)

	conf := 0.92
	require.NoError(t, repo.SetVerification(ctx, doc.ID, Verification{
		Status:          models.VerificationVerified,
		PhotoPassed:     true,
		PhotoConfidence: &conf,
	}))

	docs, err := repo.ListByOwnerAndType(ctx, "crew-1", models.DocumentPassport)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, models.VerificationVerified, docs[0].VerificationStatus)
	assert.True(t, docs[0].PhotoVerificationPassed)
	assert.InDelta(t, 0.92, *docs[0].PhotoConfidenceScore, 1e-9)
}

func TestDuplicateActiveGrantConflicts(t *testing.T) {
	repo := NewDocumentRepo(testutil.DB(t))
	ctx := context.Background()
	doc := seedDocument(t, repo)
	now := time.Now()

	first := &models.DocumentGrant{DocumentID: doc.ID, GranteeID: "owner-1", Purpose: "crew_review", GrantedBy: "crew-1", ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, repo.CreateGrant(ctx, first, now))

	dup := &models.DocumentGrant{DocumentID: doc.ID, GranteeID: "owner-1", Purpose: "crew_review", GrantedBy: "crew-1", ExpiresAt: now.Add(2 * time.Hour)}
	assert.ErrorIs(t, repo.CreateGrant(ctx, dup, now), ErrDuplicateGrant)

	other := &models.DocumentGrant{DocumentID: doc.ID, GranteeID: "owner-1", Purpose: "insurance", GrantedBy: "crew-1", ExpiresAt: now.Add(time.Hour)}
	assert.NoError(t, repo.CreateGrant(ctx, other, now))
}

func TestRevokedGrantCanBeRenewed(t *testing.T) {
	repo := NewDocumentRepo(testutil.DB(t))
	ctx := context.Background()
	doc := seedDocument(t, repo)
	now := time.Now()

	g := &models.DocumentGrant{DocumentID: doc.ID, GranteeID: "owner-1", Purpose: "crew_review", GrantedBy: "crew-1", ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, repo.CreateGrant(ctx, g, now))

	active, err := repo.ActiveGrant(ctx, doc.ID, "owner-1", now)
	require.NoError(t, err)
	require.NotNil(t, active)

	ok, err := repo.RevokeGrant(ctx, doc.ID, g.ID, now)
	require.NoError(t, err)
	require.True(t, ok)

	active, err = repo.ActiveGrant(ctx, doc.ID, "owner-1", now)
	require.NoError(t, err)
	assert.Nil(t, active)

	renewed := &models.DocumentGrant{DocumentID: doc.ID, GranteeID: "owner-1", Purpose: "crew_review", GrantedBy: "crew-1", ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, repo.CreateGrant(ctx, renewed, now))
	assert.Equal(t, g.ID, renewed.ID)

	active, err = repo.ActiveGrant(ctx, doc.ID, "owner-1", now)
	require.NoError(t, err)
	assert.NotNil(t, active)
}

func TestExpiredGrantIsInactive(t *testing.T) {
	repo := NewDocumentRepo(testutil.DB(t))
	ctx := context.Background()
	doc := seedDocument(t, repo)
	now := time.Now()

	g := &models.DocumentGrant{DocumentID: doc.ID, GranteeID: "owner-1", Purpose: "crew_review", GrantedBy: "crew-1", ExpiresAt: now.Add(-time.Minute)}
	require.NoError(t, repo.CreateGrant(ctx, g, now.Add(-time.Hour)))

	active, err := repo.ActiveGrant(ctx, doc.ID, "owner-1", now)
	require.NoError(t, err)
	assert.Nil(t, active)
}
