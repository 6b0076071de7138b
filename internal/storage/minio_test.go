package storage

import (
	"context"
	"mime/multipart"
	"testing"
	"time"

	"storefront_back_end/internal/errs"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *ImageStore {
	t.Helper()
	client, err := minio.New("localhost:9000", &minio.Options{
		Creds:  credentials.NewStaticV4("access", "secret", ""),
		Region: "us-east-1",
	})
	require.NoError(t, err)
	return NewImageStore(client, "storefront-images", 24*time.Hour)
}

func TestSignedURL(t *testing.T) {
	s := newTestStore(t)

	u, err := s.SignedURL(context.Background(), "products/robe.jpg")
	require.NoError(t, err)
	assert.Contains(t, u, "/storefront-images/products/robe.jpg")
	assert.Contains(t, u, "X-Amz-Expires=86400")

	u, err = s.SignedURL(context.Background(), "https://cdn.example.com/robe.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/robe.jpg", u)
}

func TestValidateImage(t *testing.T) {
	contentType, err := ValidateImage(&multipart.FileHeader{Filename: "Robe.JPG", Size: 1024})
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)

	_, err = ValidateImage(&multipart.FileHeader{Filename: "script.exe", Size: 10})
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = ValidateImage(&multipart.FileHeader{Filename: "big.png", Size: MaxImageSize + 1})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestUploadRejectsBeforeSending(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Upload(context.Background(), "products", &multipart.FileHeader{Filename: "notes.txt", Size: 10})
	assert.ErrorIs(t, err, errs.ErrValidation)
}
