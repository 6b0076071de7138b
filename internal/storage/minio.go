package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"storefront_back_end/internal/errs"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/rs/zerolog/log"
)

const MaxImageSize = 5 << 20

var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// ImageStore stocke les images catalogue dans un bucket MinIO.
// La base ne garde que la clé de l'objet ; les URLs sont signées à la lecture.
type ImageStore struct {
	client *minio.Client
	bucket string
	expiry time.Duration
}

func NewImageStore(client *minio.Client, bucket string, expiry time.Duration) *ImageStore {
	return &ImageStore{client: client, bucket: bucket, expiry: expiry}
}

func (s *ImageStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("création du bucket %s: %w", s.bucket, err)
	}
	log.Info().Str("bucket", s.bucket).Msg("✅ Bucket MinIO créé")
	return nil
}

// ValidateImage vérifie l'extension et la taille avant tout envoi.
func ValidateImage(fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	contentType, ok := allowedExtensions[ext]
	if !ok {
		return "", errs.Validation("Format d'image non supporté (%s)", ext)
	}
	if fh.Size <= 0 || fh.Size > MaxImageSize {
		return "", errs.Validation("L'image doit faire au plus %d Mo", MaxImageSize>>20)
	}
	return contentType, nil
}

// Upload envoie l'image sous <folder>/<uuid><ext> et renvoie la clé.
func (s *ImageStore) Upload(ctx context.Context, folder string, fh *multipart.FileHeader) (string, error) {
	contentType, err := ValidateImage(fh)
	if err != nil {
		return "", err
	}

	file, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	key := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), strings.ToLower(filepath.Ext(fh.Filename)))
	_, err = s.client.PutObject(ctx, s.bucket, key, file, fh.Size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("upload MinIO: %w", err)
	}

	log.Ctx(ctx).Info().Str("key", key).Int64("size", fh.Size).Msg("✅ Image uploadée")
	return key, nil
}

// SignedURL génère une URL GET présignée ; une URL absolue est renvoyée telle quelle.
func (s *ImageStore) SignedURL(ctx context.Context, key string) (string, error) {
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key, nil
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.expiry, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
