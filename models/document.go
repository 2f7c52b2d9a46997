package models

import "time"

type DocumentType string

const (
	DocumentPassport       DocumentType = "passport"
	DocumentSailingLicense DocumentType = "sailing_license"
	DocumentMedicalCert    DocumentType = "medical_certificate"
)

func (t DocumentType) Valid() bool {
	switch t {
	case DocumentPassport, DocumentSailingLicense, DocumentMedicalCert:
		return true
	}
	return false
}

type VerificationStatus string

const (
	VerificationPending    VerificationStatus = "pending"
	VerificationVerified   VerificationStatus = "verified"
	VerificationRejected   VerificationStatus = "rejected"
	VerificationUnverified VerificationStatus = "unverified"
)

// IdentityDocument is a file in a user's document vault.
type IdentityDocument struct {
	ID                      string             `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OwnerID                 string             `json:"ownerId" gorm:"index;not null"`
	DocumentType            DocumentType       `json:"documentType" gorm:"type:varchar(32);not null"`
	StoragePublicID         string             `json:"-" gorm:"not null"`
	StorageResourceType     string             `json:"-" gorm:"type:varchar(16)"`
	FileName                string             `json:"fileName"`
	MimeType                string             `json:"mimeType"`
	VerificationStatus      VerificationStatus `json:"verificationStatus" gorm:"type:varchar(16);not null"`
	PhotoVerificationPassed bool               `json:"photoVerificationPassed" gorm:"not null;default:false"`
	PhotoConfidenceScore    *float64           `json:"photoConfidenceScore,omitempty"`
	VerificationNotes       string             `json:"verificationNotes,omitempty"`
	CreatedAt               time.Time          `json:"createdAt"`
	UpdatedAt               time.Time          `json:"updatedAt"`
}

// DocumentGrant is a time-bounded, purpose-scoped permission for one user to view
// another user's document.
type DocumentGrant struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	DocumentID string     `json:"documentId" gorm:"uniqueIndex:idx_grant_doc_grantee_purpose;not null"`
	GranteeID  string     `json:"granteeId" gorm:"uniqueIndex:idx_grant_doc_grantee_purpose;index;not null"`
	Purpose    string     `json:"purpose" gorm:"uniqueIndex:idx_grant_doc_grantee_purpose;not null"`
	GrantedBy  string     `json:"grantedBy" gorm:"not null"`
	ExpiresAt  time.Time  `json:"expiresAt" gorm:"not null"`
	RevokedAt  *time.Time `json:"revokedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Active reports whether the grant is usable at the given instant.
func (g *DocumentGrant) Active(now time.Time) bool {
	return g.RevokedAt == nil && g.ExpiresAt.After(now)
}

// AllowedDocumentMimeTypes lists what the vault accepts.
var AllowedDocumentMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// MaxDocumentBytes caps a single vault upload.
const MaxDocumentBytes = 10 << 20

type GrantInput struct {
	GranteeID      string `json:"granteeId" binding:"required"`
	Purpose        string `json:"purpose" binding:"required"`
	ExpiresInHours int    `json:"expiresInHours" binding:"required,min=1,max=720"`
}
