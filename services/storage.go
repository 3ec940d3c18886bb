package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/qiniu/go-sdk/v7/auth/qbox"
	"github.com/qiniu/go-sdk/v7/storage"
)

// ResumeStore is the narrow contract the resume endpoints need from object
// storage: put bytes under a key, get back a retrievable URL.
type ResumeStore interface {
	Upload(ctx context.Context, fileName string, data []byte) (string, error)
}

// KodoStore uploads resumes to a Kodo (S3-compatible) bucket and serves them
// from the configured download domain.
type KodoStore struct {
	mac    *qbox.Mac
	bucket string
	domain string
}

func NewKodoStore(cfg StorageConfig) *KodoStore {
	return &KodoStore{
		mac:    qbox.NewMac(cfg.AccessKey, cfg.SecretKey),
		bucket: cfg.Bucket,
		domain: strings.TrimRight(cfg.Domain, "/"),
	}
}

func (s *KodoStore) Upload(ctx context.Context, fileName string, data []byte) (string, error) {
	putPolicy := storage.PutPolicy{
		Scope:   s.bucket,
		Expires: uint64(time.Now().Add(time.Hour).Unix()),
	}
	upToken := putPolicy.UploadToken(s.mac)

	cfg := storage.Config{
		UseHTTPS:      true,
		UseCdnDomains: false,
	}
	uploader := storage.NewFormUploader(&cfg)

	// Prefix with a uuid so distinct uploads of the same file never collide
	fileKey := fmt.Sprintf("resumes/%s-%s", uuid.New().String(), fileName)

	var ret storage.PutRet
	if err := uploader.Put(ctx, &ret, upToken, fileKey, bytes.NewReader(data), int64(len(data)), nil); err != nil {
		slog.Error("Failed to upload resume to object storage", "error", err, "file_key", fileKey)
		return "", fmt.Errorf("%w: storage upload failed", ErrUpstream)
	}

	fileURL := s.domain + "/" + fileKey
	slog.Info("Resume uploaded to object storage", "file_key", fileKey)
	return fileURL, nil
}
