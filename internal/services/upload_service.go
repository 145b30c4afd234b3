package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/yukikurage/chrono-planner-api/internal/models"
	"github.com/yukikurage/chrono-planner-api/internal/repository"
	"github.com/yukikurage/chrono-planner-api/internal/storage"
	"github.com/yukikurage/chrono-planner-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrFileRequired     = errors.New("file is required")
	ErrUploadNotFound   = errors.New("upload not found")
	ErrUploadForbidden  = errors.New("upload belongs to another user")
	ErrTaskForbidden    = errors.New("task does not belong to the user")
	ErrRemoteStoreWrite = errors.New("failed to store file")
	ErrRemoteStoreDrop  = errors.New("failed to delete stored file")
)

// sniffLen is how many leading bytes are inspected when the client sent no usable type.
const sniffLen = 3072

// UploadService relays files to the object store and records them.
type UploadService struct {
	uploadRepo repository.UploadRepository
	taskRepo   repository.TaskRepository
	store      storage.ObjectStore
}

// NewUploadService creates a new UploadService
func NewUploadService(uploadRepo repository.UploadRepository, taskRepo repository.TaskRepository, store storage.ObjectStore) *UploadService {
	return &UploadService{
		uploadRepo: uploadRepo,
		taskRepo:   taskRepo,
		store:      store,
	}
}

// CreateUploadInput describes a file received from a client
type CreateUploadInput struct {
	UserID      uint64
	TaskID      *uint64
	Filename    string
	ContentType string
	Body        io.Reader
}

// ListUploads returns the user's uploads, newest first
func (s *UploadService) ListUploads(ctx context.Context, userID uint64, page *utils.PaginationParams) ([]models.Upload, error) {
	uploads, err := s.uploadRepo.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	return uploads, nil
}

// CreateUpload stores the file remotely and then records it. If recording
// fails the remote object is left in place.
func (s *UploadService) CreateUpload(ctx context.Context, input CreateUploadInput) (*models.Upload, error) {
	if input.Body == nil {
		return nil, ErrFileRequired
	}

	if input.TaskID != nil {
		if _, err := s.taskRepo.FindOwned(ctx, *input.TaskID, input.UserID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTaskForbidden
			}
			return nil, fmt.Errorf("failed to verify task: %w", err)
		}
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(input.Body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return nil, ErrFileRequired
	}

	detected := mimetype.Detect(head)
	contentType := declaredType(input.ContentType)
	if contentType == "" {
		contentType = detected.String()
	}

	filename := input.Filename
	if filepath.Ext(filename) == "" {
		filename += detected.Extension()
	}
	name := utils.NewObjectName(filename)

	obj, err := s.store.Put(ctx, name, contentType, io.MultiReader(bytes.NewReader(head), input.Body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRemoteStoreWrite, err)
	}

	upload := &models.Upload{
		UserID:   input.UserID,
		TaskID:   input.TaskID,
		URL:      obj.URL,
		Type:     contentType,
		ObjectID: obj.ID,
	}
	if err := s.uploadRepo.Create(ctx, upload); err != nil {
		slog.Warn("upload stored but not recorded", "object_id", obj.ID, "error", err)
		return nil, fmt.Errorf("failed to record upload: %w", err)
	}

	return upload, nil
}

// DeleteUpload removes the remote object and then the record. The record is
// kept when the remote delete fails.
func (s *UploadService) DeleteUpload(ctx context.Context, uploadID, userID uint64) error {
	upload, err := s.uploadRepo.FindByID(ctx, uploadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUploadNotFound
		}
		return fmt.Errorf("failed to find upload: %w", err)
	}

	if upload.UserID != userID {
		return ErrUploadForbidden
	}

	// Rows attached through task creation reference external URLs only.
	if upload.ObjectID != "" {
		if err := s.store.Delete(ctx, upload.ObjectID); err != nil {
			return fmt.Errorf("%w: %w", ErrRemoteStoreDrop, err)
		}
	}

	if err := s.uploadRepo.Delete(ctx, upload.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUploadNotFound
		}
		return fmt.Errorf("failed to delete upload: %w", err)
	}

	return nil
}

// declaredType returns the client supplied media type unless it is missing
// or the generic binary type.
func declaredType(raw string) string {
	t := strings.TrimSpace(raw)
	if t == "" || strings.HasPrefix(t, "application/octet-stream") {
		return ""
	}
	return t
}
