package storage

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"sailsmart/utils"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const deliveryType = "authenticated"

// CloudinaryStorage keeps vault files as authenticated Cloudinary assets.
type CloudinaryStorage struct {
	cld       *cloudinary.Cloudinary
	cloudName string
	apiSecret string
	now       func() time.Time
}

func NewStorageService(cld *cloudinary.Cloudinary, cloudName, apiSecret string) *CloudinaryStorage {
	utils.GetLogger().Debug("Initializing Cloudinary storage", zap.String("cloudName", cloudName))
	return &CloudinaryStorage{cld: cld, cloudName: cloudName, apiSecret: apiSecret, now: time.Now}
}

func (s *CloudinaryStorage) Upload(ctx context.Context, content io.Reader, folder string) (*StoredFile, error) {
	result, err := s.cld.Upload.Upload(ctx, content, uploader.UploadParams{
		Folder:       folder,
		PublicID:     uuid.NewString(),
		Type:         deliveryType,
		ResourceType: "auto",
	})
	if err != nil {
		return nil, fmt.Errorf("CloudinaryStorage: failed to upload file: %w", err)
	}
	if result.Error.Message != "" {
		return nil, fmt.Errorf("CloudinaryStorage: upload rejected: %s", result.Error.Message)
	}
	if result.PublicID == "" {
		return nil, fmt.Errorf("CloudinaryStorage: no public ID returned")
	}
	return &StoredFile{PublicID: result.PublicID, ResourceType: result.ResourceType, Bytes: result.Bytes}, nil
}

func (s *CloudinaryStorage) Delete(ctx context.Context, file StoredFile) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     file.PublicID,
		Type:         deliveryType,
		ResourceType: resourceType(file),
	})
	if err != nil {
		return fmt.Errorf("CloudinaryStorage: failed to delete file: %w", err)
	}
	return nil
}

// SignedURL builds a short-lived authenticated delivery URL. The signature is SHA-1 over
// "expires_at" and "public_id" followed by the API secret.
func (s *CloudinaryStorage) SignedURL(file StoredFile, ttl time.Duration) (string, error) {
	if file.PublicID == "" {
		return "", fmt.Errorf("CloudinaryStorage: empty public ID")
	}
	expiresAt := s.now().Add(ttl).Unix()
	stringToSign := fmt.Sprintf("expires_at=%d&public_id=%s%s", expiresAt, file.PublicID, s.apiSecret)
	signature := computeSHA1(stringToSign)
	return fmt.Sprintf("https://res.cloudinary.com/%s/%s/%s/s--%s--/expires_%d/%s",
		s.cloudName, resourceType(file), deliveryType, signature, expiresAt, file.PublicID), nil
}

func resourceType(file StoredFile) string {
	if file.ResourceType == "" {
		return "image"
	}
	return file.ResourceType
}

// computeSHA1 computes the SHA-1 hash of the input and returns its hex encoding.
func computeSHA1(input string) string {
	h := sha1.New()
	h.Write([]byte(input))
	return hex.EncodeToString(h.Sum(nil))
}
