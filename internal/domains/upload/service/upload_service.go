package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"kinex-backend/internal/domains/upload"
)

var extPattern = regexp.MustCompile(`^\.[a-z0-9]{1,10}$`)

type uploadService struct {
	presigner upload.Presigner // nil khi storage chưa cấu hình
	repo      upload.Repository
	now       func() time.Time
	random    io.Reader
}

// NewUploadService; presigner nil -> mọi request trả ErrStorageNotConfigured
func NewUploadService(presigner upload.Presigner, repo upload.Repository) upload.Service {
	return &uploadService{
		presigner: presigner,
		repo:      repo,
		now:       time.Now,
		random:    rand.Reader,
	}
}

func (s *uploadService) GetSignedURL(ctx context.Context, ownerID uuid.UUID, req upload.SignedURLRequest) (*upload.SignedURLResponse, error) {
	// STEP 1: VALIDATE
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// STEP 2: STORAGE PHẢI ĐƯỢC CẤU HÌNH
	if s.presigner == nil {
		return nil, upload.ErrStorageNotConfigured
	}

	// STEP 3: BUILD KEY
	key, err := s.buildKey(req.Folder, req.FileName)
	if err != nil {
		return nil, err
	}

	// STEP 4: PRESIGN
	uploadURL, err := s.presigner.PresignPut(ctx, key, req.FileType, upload.PresignExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	// STEP 5: GHI NHẬN OWNER CỦA KEY
	fileURL := s.presigner.PublicURL(key)
	if err := s.repo.Record(ctx, &upload.Upload{
		Key:       key,
		OwnerID:   ownerID,
		FileURL:   fileURL,
		CreatedAt: s.now().UTC(),
	}); err != nil {
		return nil, fmt.Errorf("record upload: %w", err)
	}

	log.Debug().Str("key", key).Str("owner_id", ownerID.String()).Str("content_type", req.FileType).Msg("issued presigned upload url")

	return &upload.SignedURLResponse{
		UploadURL: uploadURL,
		FileURL:   fileURL,
		Key:       key,
	}, nil
}

// buildKey: <folder|uploads>/<unixMillis>-<12 hex><.ext>
func (s *uploadService) buildKey(folder, fileName string) (string, error) {
	if folder == "" {
		folder = upload.DefaultFolder
	}

	suffix := make([]byte, 6)
	if _, err := io.ReadFull(s.random, suffix); err != nil {
		return "", fmt.Errorf("generate key suffix: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if !extPattern.MatchString(ext) {
		ext = ""
	}

	return folder + "/" + strconv.FormatInt(s.now().UnixMilli(), 10) + "-" + hex.EncodeToString(suffix) + ext, nil
}
