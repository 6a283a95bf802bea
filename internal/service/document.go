package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"schemeagent/internal/model"
	"schemeagent/internal/repository"
	"schemeagent/internal/rules"
	"schemeagent/internal/storage"
)

// DownloadURLExpiry is the lifetime of presigned document download links.
const DownloadURLExpiry = 15 * time.Minute

// DocumentView is a document with a temporary download link.
type DocumentView struct {
	model.Document
	DownloadURL string `json:"download_url,omitempty"`
}

// UploadInput describes one uploaded file.
type UploadInput struct {
	// Name is the document label, e.g. "Aadhaar Card". Defaults to Filename.
	Name        string
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// DocumentService defines the use cases for handling user documents.
type DocumentService interface {
	// Upload stores the file, extracts and verifies it against the profile,
	// and saves the record. The stored object is removed if the DB save fails.
	Upload(ctx context.Context, userID string, in UploadInput) (*model.Document, error)

	// List returns every document of the user.
	List(ctx context.Context, userID string) ([]model.Document, error)

	// Get returns one document with a download link.
	Get(ctx context.Context, userID, id string) (*DocumentView, error)

	// Update applies a manual correction and re-checks it with the deterministic rules.
	Update(ctx context.Context, userID, id string, upd model.DocumentUpdate) (*model.Document, error)

	// Reprocess runs extraction and verification again on the stored file.
	Reprocess(ctx context.Context, userID, id string) (*model.Document, error)

	// Delete removes a document from both storage and repository.
	Delete(ctx context.Context, userID, id string) error
}

type documentService struct {
	store     storage.Storage
	repo      repository.DocumentRepository
	profiles  repository.ProfileRepository
	extractor Extractor
	verifier  Verifier
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(
	store storage.Storage,
	repo repository.DocumentRepository,
	profiles repository.ProfileRepository,
	extractor Extractor,
	verifier Verifier,
) DocumentService {
	return &documentService{
		store:     store,
		repo:      repo,
		profiles:  profiles,
		extractor: extractor,
		verifier:  verifier,
	}
}

// documentText decodes the upload as UTF-8 text, or describes it as binary.
func documentText(content []byte, filename string) string {
	if utf8.Valid(content) {
		return string(content)
	}
	return fmt.Sprintf("[Binary File: %s]", filename)
}

func (s *documentService) Upload(ctx context.Context, userID string, in UploadInput) (*model.Document, error) {
	if in.Reader == nil {
		return nil, ErrReaderNil
	}
	if userID == "" {
		return nil, ErrIDRequired
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = in.Filename
	}
	if name == "" {
		return nil, fmt.Errorf("%w: document name is required", ErrInvalidInput)
	}

	profile, err := loadProfile(ctx, s.profiles, userID)
	if err != nil {
		return nil, err
	}

	content, err := io.ReadAll(in.Reader)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	id := uuid.New().String()
	key := storage.DocumentKey(userID, id, in.Filename)
	objInfo, err := s.store.Put(ctx, key, bytes.NewReader(content), storage.PutObjectOptions{
		Size:        int64(len(content)),
		ContentType: in.ContentType,
		Metadata: map[string]string{
			storage.MetaOriginalFilename: in.Filename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	ext := s.extractor.Extract(ctx, documentText(content, in.Filename), name)
	status, message := s.verifier.Verify(ctx, profile, ext, name)

	now := time.Now().UTC()
	doc := &model.Document{
		ID:                id,
		UserID:            userID,
		Name:              name,
		StoragePath:       objInfo.Key,
		ContentType:       in.ContentType,
		Size:              objInfo.Size,
		Status:            status,
		ValidationMessage: message,
		ExtractedData:     ext,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func (s *documentService) List(ctx context.Context, userID string) ([]model.Document, error) {
	if userID == "" {
		return nil, ErrIDRequired
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *documentService) find(ctx context.Context, userID, id string) (*model.Document, error) {
	if userID == "" || id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) Get(ctx context.Context, userID, id string) (*DocumentView, error) {
	doc, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	url, err := s.store.PresignGet(ctx, doc.StoragePath, DownloadURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign download: %w", err)
	}
	return &DocumentView{Document: *doc, DownloadURL: url}, nil
}

func (s *documentService) Update(ctx context.Context, userID, id string, upd model.DocumentUpdate) (*model.Document, error) {
	doc, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	profile, err := loadProfile(ctx, s.profiles, userID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil && strings.TrimSpace(*upd.Name) != "" {
		doc.Name = strings.TrimSpace(*upd.Name)
	}
	if fields := upd.Fields(); len(fields) > 0 {
		doc.ExtractedData = doc.ExtractedData.Overlay(fields)
	}
	doc.Status, doc.ValidationMessage = rules.ValidateDocument(profile, doc.ExtractedData, doc.Name)
	doc.UpdatedAt = time.Now().UTC()

	stored, err := s.repo.Update(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("update document: %w", err)
	}
	return stored, nil
}

func (s *documentService) Reprocess(ctx context.Context, userID, id string) (*model.Document, error) {
	doc, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	profile, err := loadProfile(ctx, s.profiles, userID)
	if err != nil {
		return nil, err
	}

	rc, info, err := s.store.Get(ctx, doc.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("fetch stored file: %w", err)
	}
	defer rc.Close()
	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read stored file: %w", err)
	}

	filename := info.MetadataValue(storage.MetaOriginalFilename)
	if filename == "" {
		filename = doc.Name
	}
	doc.ExtractedData = s.extractor.Extract(ctx, documentText(content, filename), doc.Name)
	doc.Status, doc.ValidationMessage = s.verifier.Verify(ctx, profile, doc.ExtractedData, doc.Name)
	doc.UpdatedAt = time.Now().UTC()

	stored, err := s.repo.Update(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("update document: %w", err)
	}
	return stored, nil
}

// Delete removes the stored object first so a failure keeps the row pointing at it.
func (s *documentService) Delete(ctx context.Context, userID, id string) error {
	doc, err := s.find(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, doc.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	return s.repo.Delete(ctx, userID, id)
}
