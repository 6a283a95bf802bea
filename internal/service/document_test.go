package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"schemeagent/internal/model"
	repoMocks "schemeagent/internal/repository/mocks"
	"schemeagent/internal/storage"
	storeMocks "schemeagent/internal/storage/mocks"
)

type documentMocks struct {
	store     *storeMocks.MockStorage
	repo      *repoMocks.MockDocumentRepository
	profiles  *repoMocks.MockProfileRepository
	extractor *mockExtractor
	verifier  *mockVerifier
}

func newDocumentMocks() documentMocks {
	return documentMocks{
		store:     new(storeMocks.MockStorage),
		repo:      new(repoMocks.MockDocumentRepository),
		profiles:  new(repoMocks.MockProfileRepository),
		extractor: new(mockExtractor),
		verifier:  new(mockVerifier),
	}
}

func (m documentMocks) service() DocumentService {
	return NewDocumentService(m.store, m.repo, m.profiles, m.extractor, m.verifier)
}

func (m documentMocks) assertExpectations(t *testing.T) {
	m.store.AssertExpectations(t)
	m.repo.AssertExpectations(t)
	m.profiles.AssertExpectations(t)
	m.extractor.AssertExpectations(t)
	m.verifier.AssertExpectations(t)
}

func TestDocumentText(t *testing.T) {
	assert.Equal(t, "Name: Asha", documentText([]byte("Name: Asha"), "a.txt"))
	assert.Equal(t, "[Binary File: scan.pdf]", documentText([]byte{0xff, 0xfe, 0x00}, "scan.pdf"))
}

func TestDocumentService_Upload(t *testing.T) {
	ctx := context.Background()
	profile := &model.Profile{UserID: "u1", FullName: "Asha Devi"}
	ext := model.Extraction{model.FieldFullName: "Asha Devi"}

	tests := []struct {
		name       string
		in         UploadInput
		setupMocks func(m documentMocks)
		wantErr    error
		wantErrMsg string
		checkDoc   func(t *testing.T, doc *model.Document)
	}{
		{
			name: "happy path",
			in:   UploadInput{Name: "Aadhaar Card", Filename: "Scan.TXT", ContentType: "text/plain", Reader: strings.NewReader("Name: Asha Devi")},
			setupMocks: func(m documentMocks) {
				m.profiles.On("FindByUserID", ctx, "u1").Return(profile, nil)
				m.store.On("Put", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "documents/u1/") && strings.HasSuffix(key, ".txt")
				}), mock.Anything, mock.MatchedBy(func(opt storage.PutObjectOptions) bool {
					return opt.Size == 15 && opt.ContentType == "text/plain" &&
						opt.Metadata[storage.MetaOriginalFilename] == "Scan.TXT"
				})).Return(storage.ObjectInfo{Key: "documents/u1/x.txt", Size: 15}, nil)
				m.extractor.On("Extract", ctx, "Name: Asha Devi", "Aadhaar Card").Return(ext)
				m.verifier.On("Verify", ctx, profile, ext, "Aadhaar Card").Return(model.StatusValid, "Verified")
				m.repo.On("Create", ctx, mock.MatchedBy(func(doc *model.Document) bool {
					return doc.ID != "" && doc.UserID == "u1" && doc.Name == "Aadhaar Card" &&
						doc.StoragePath == "documents/u1/x.txt" && doc.Status == model.StatusValid &&
						doc.ValidationMessage == "Verified"
				})).Return(func(_ context.Context, doc *model.Document) *model.Document {
					return doc
				}, nil)
			},
			checkDoc: func(t *testing.T, doc *model.Document) {
				assert.Equal(t, model.StatusValid, doc.Status)
				assert.Equal(t, int64(15), doc.Size)
			},
		},
		{
			name: "binary file falls back to placeholder text and filename as name",
			in:   UploadInput{Filename: "scan.pdf", Reader: strings.NewReader("\xff\xfe")},
			setupMocks: func(m documentMocks) {
				m.profiles.On("FindByUserID", ctx, "u1").Return(profile, nil)
				m.store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{Key: "k", Size: 2}, nil)
				m.extractor.On("Extract", ctx, "[Binary File: scan.pdf]", "scan.pdf").
					Return(model.FailedExtraction(model.ReasonExtractionUnavailable))
				m.verifier.On("Verify", ctx, profile, mock.Anything, "scan.pdf").
					Return(model.StatusPending, model.ReasonVerificationSkipped)
				m.repo.On("Create", ctx, mock.Anything).Return(func(_ context.Context, doc *model.Document) *model.Document {
					return doc
				}, nil)
			},
			checkDoc: func(t *testing.T, doc *model.Document) {
				assert.Equal(t, model.StatusPending, doc.Status)
				assert.True(t, doc.ExtractedData.Failed())
			},
		},
		{
			name:       "validation error - nil reader",
			in:         UploadInput{Filename: "a.txt"},
			setupMocks: func(m documentMocks) {},
			wantErr:    ErrReaderNil,
		},
		{
			name:       "validation error - no name",
			in:         UploadInput{Reader: strings.NewReader("x")},
			setupMocks: func(m documentMocks) {},
			wantErr:    ErrInvalidInput,
		},
		{
			name: "profile required",
			in:   UploadInput{Filename: "a.txt", Reader: strings.NewReader("x")},
			setupMocks: func(m documentMocks) {
				m.profiles.On("FindByUserID", ctx, "u1").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrProfileRequired,
		},
		{
			name: "storage error",
			in:   UploadInput{Filename: "a.txt", Reader: strings.NewReader("hello")},
			setupMocks: func(m documentMocks) {
				m.profiles.On("FindByUserID", ctx, "u1").Return(profile, nil)
				m.store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{}, errors.New("storage fail"))
			},
			wantErrMsg: "upload to storage: storage fail",
		},
		{
			name: "repository error with successful rollback",
			in:   UploadInput{Filename: "a.txt", Reader: strings.NewReader("hello")},
			setupMocks: func(m documentMocks) {
				m.profiles.On("FindByUserID", ctx, "u1").Return(profile, nil)
				m.store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{Key: "k"}, nil)
				m.extractor.On("Extract", ctx, "hello", "a.txt").Return(model.Extraction{})
				m.verifier.On("Verify", ctx, profile, model.Extraction{}, "a.txt").Return(model.StatusValid, "Verified")
				m.repo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
				m.store.On("Delete", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "documents/u1/")
				})).Return(nil)
			},
			wantErrMsg: "db save failed: db fail",
		},
		{
			name: "repository error with failed rollback",
			in:   UploadInput{Filename: "a.txt", Reader: strings.NewReader("hello")},
			setupMocks: func(m documentMocks) {
				m.profiles.On("FindByUserID", ctx, "u1").Return(profile, nil)
				m.store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{Key: "k"}, nil)
				m.extractor.On("Extract", ctx, "hello", "a.txt").Return(model.Extraction{})
				m.verifier.On("Verify", ctx, profile, model.Extraction{}, "a.txt").Return(model.StatusValid, "Verified")
				m.repo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
				m.store.On("Delete", ctx, mock.Anything).Return(errors.New("delete fail"))
			},
			wantErrMsg: "rollback delete failed: delete fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newDocumentMocks()
			tt.setupMocks(m)

			doc, err := m.service().Upload(ctx, "u1", tt.in)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, doc)
			case tt.wantErrMsg != "":
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
			default:
				require.NoError(t, err)
				require.NotNil(t, doc)
				if tt.checkDoc != nil {
					tt.checkDoc(t, doc)
				}
			}
			m.assertExpectations(t)
		})
	}
}

func TestDocumentService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		m := newDocumentMocks()
		m.repo.On("ListByUser", ctx, "u1").Return([]model.Document{{ID: "1"}, {ID: "2"}}, nil)

		docs, err := m.service().List(ctx, "u1")

		assert.NoError(t, err)
		assert.Len(t, docs, 2)
		m.assertExpectations(t)
	})

	t.Run("validation - empty id", func(t *testing.T) {
		_, err := newDocumentMocks().service().List(ctx, "")
		assert.ErrorIs(t, err, ErrIDRequired)
	})
}

func TestDocumentService_Get(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		setupMocks func(m documentMocks)
		wantErr    error
		wantURL    string
	}{
		{
			name: "happy path with download url",
			id:   "d1",
			setupMocks: func(m documentMocks) {
				m.repo.On("FindByID", ctx, "u1", "d1").Return(&model.Document{ID: "d1", StoragePath: "documents/u1/d1.txt"}, nil)
				m.store.On("PresignGet", ctx, "documents/u1/d1.txt", DownloadURLExpiry).Return("http://minio/signed", nil)
			},
			wantURL: "http://minio/signed",
		},
		{
			name:       "validation - empty id",
			setupMocks: func(m documentMocks) {},
			wantErr:    ErrIDRequired,
		},
		{
			name: "not found - mapping sql.ErrNoRows",
			id:   "missing",
			setupMocks: func(m documentMocks) {
				m.repo.On("FindByID", ctx, "u1", "missing").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newDocumentMocks()
			tt.setupMocks(m)

			view, err := m.service().Get(ctx, "u1", tt.id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, view)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.id, view.ID)
				assert.Equal(t, tt.wantURL, view.DownloadURL)
			}
			m.assertExpectations(t)
		})
	}

	t.Run("presign error", func(t *testing.T) {
		m := newDocumentMocks()
		m.repo.On("FindByID", ctx, "u1", "d1").Return(&model.Document{ID: "d1", StoragePath: "p"}, nil)
		m.store.On("PresignGet", ctx, "p", DownloadURLExpiry).Return("", errors.New("boom"))

		_, err := m.service().Get(ctx, "u1", "d1")
		assert.EqualError(t, err, "presign download: boom")
	})
}

func TestDocumentService_Update(t *testing.T) {
	ctx := context.Background()
	profile := &model.Profile{UserID: "u1", FullName: "Asha Devi", DOB: "1990-01-01"}
	str := func(s string) *string { return &s }

	tests := []struct {
		name        string
		stored      *model.Document
		upd         model.DocumentUpdate
		wantStatus  model.DocumentStatus
		wantMessage string
		wantName    string
	}{
		{
			name:        "corrected name becomes valid",
			stored:      &model.Document{ID: "d1", Name: "Income Certificate", Status: model.StatusInvalid, ExtractedData: model.Extraction{model.FieldFullName: "A. Kumar"}},
			upd:         model.DocumentUpdate{FullName: str("Asha Devi")},
			wantStatus:  model.StatusValid,
			wantMessage: "Verified",
			wantName:    "Income Certificate",
		},
		{
			name:        "wrong dob is invalid",
			stored:      &model.Document{ID: "d1", Name: "Birth Certificate", ExtractedData: model.Extraction{model.FieldFullName: "Asha Devi"}},
			upd:         model.DocumentUpdate{DOB: str("1991-01-01")},
			wantStatus:  model.StatusInvalid,
			wantMessage: "DOB mismatch",
			wantName:    "Birth Certificate",
		},
		{
			name:        "rename only on failed extraction stays pending",
			stored:      &model.Document{ID: "d1", Name: "old", ExtractedData: model.FailedExtraction(model.ReasonExtractionUnavailable)},
			upd:         model.DocumentUpdate{Name: str(" Ration Card ")},
			wantStatus:  model.StatusPending,
			wantMessage: model.ReasonVerificationSkipped,
			wantName:    "Ration Card",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newDocumentMocks()
			m.repo.On("FindByID", ctx, "u1", "d1").Return(tt.stored, nil)
			m.profiles.On("FindByUserID", ctx, "u1").Return(profile, nil)
			m.repo.On("Update", ctx, mock.Anything).Return(func(_ context.Context, doc *model.Document) *model.Document {
				return doc
			}, nil)

			doc, err := m.service().Update(ctx, "u1", "d1", tt.upd)

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, doc.Status)
			assert.Contains(t, doc.ValidationMessage, tt.wantMessage)
			assert.Equal(t, tt.wantName, doc.Name)
			assert.False(t, doc.UpdatedAt.IsZero())
			m.assertExpectations(t)
		})
	}

	t.Run("not found", func(t *testing.T) {
		m := newDocumentMocks()
		m.repo.On("FindByID", ctx, "u1", "nope").Return(nil, sql.ErrNoRows)

		_, err := m.service().Update(ctx, "u1", "nope", model.DocumentUpdate{})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("profile required", func(t *testing.T) {
		m := newDocumentMocks()
		m.repo.On("FindByID", ctx, "u1", "d1").Return(&model.Document{ID: "d1"}, nil)
		m.profiles.On("FindByUserID", ctx, "u1").Return(nil, sql.ErrNoRows)

		_, err := m.service().Update(ctx, "u1", "d1", model.DocumentUpdate{})
		assert.ErrorIs(t, err, ErrProfileRequired)
	})
}

func TestDocumentService_Reprocess(t *testing.T) {
	ctx := context.Background()
	profile := &model.Profile{UserID: "u1", FullName: "Asha Devi"}
	ext := model.Extraction{model.FieldFullName: "Asha Devi"}

	t.Run("happy path", func(t *testing.T) {
		m := newDocumentMocks()
		m.repo.On("FindByID", ctx, "u1", "d1").Return(&model.Document{
			ID: "d1", Name: "PAN Card", StoragePath: "p", Status: model.StatusPending,
			ExtractedData: model.FailedExtraction(model.ReasonExtractionUnavailable),
		}, nil)
		m.profiles.On("FindByUserID", ctx, "u1").Return(profile, nil)
		m.store.On("Get", ctx, "p").Return(io.NopCloser(strings.NewReader("PAN: Asha Devi")),
			storage.ObjectInfo{Metadata: map[string]string{storage.MetaOriginalFilename: "pan.txt"}}, nil)
		m.extractor.On("Extract", ctx, "PAN: Asha Devi", "PAN Card").Return(ext)
		m.verifier.On("Verify", ctx, profile, ext, "PAN Card").Return(model.StatusValid, "Verified")
		m.repo.On("Update", ctx, mock.Anything).Return(func(_ context.Context, doc *model.Document) *model.Document {
			return doc
		}, nil)

		doc, err := m.service().Reprocess(ctx, "u1", "d1")

		require.NoError(t, err)
		assert.Equal(t, model.StatusValid, doc.Status)
		assert.Equal(t, ext, doc.ExtractedData)
		m.assertExpectations(t)
	})

	t.Run("binary file keeps uploaded filename", func(t *testing.T) {
		m := newDocumentMocks()
		m.repo.On("FindByID", ctx, "u1", "d1").Return(&model.Document{
			ID: "d1", Name: "PAN Card", StoragePath: "p", Status: model.StatusPending,
		}, nil)
		m.profiles.On("FindByUserID", ctx, "u1").Return(profile, nil)
		m.store.On("Get", ctx, "p").Return(io.NopCloser(strings.NewReader("\xff\xfe\x00")),
			storage.ObjectInfo{Metadata: map[string]string{"Original-Filename": "pan-scan.pdf"}}, nil)
		m.extractor.On("Extract", ctx, "[Binary File: pan-scan.pdf]", "PAN Card").Return(ext)
		m.verifier.On("Verify", ctx, profile, ext, "PAN Card").Return(model.StatusValid, "Verified")
		m.repo.On("Update", ctx, mock.Anything).Return(func(_ context.Context, doc *model.Document) *model.Document {
			return doc
		}, nil)

		_, err := m.service().Reprocess(ctx, "u1", "d1")

		require.NoError(t, err)
		m.assertExpectations(t)
	})

	t.Run("storage error", func(t *testing.T) {
		m := newDocumentMocks()
		m.repo.On("FindByID", ctx, "u1", "d1").Return(&model.Document{ID: "d1", StoragePath: "p"}, nil)
		m.profiles.On("FindByUserID", ctx, "u1").Return(profile, nil)
		m.store.On("Get", ctx, "p").Return(nil, storage.ObjectInfo{}, errors.New("gone"))

		_, err := m.service().Reprocess(ctx, "u1", "d1")
		assert.EqualError(t, err, "fetch stored file: gone")
		m.assertExpectations(t)
	})
}

func TestDocumentService_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		setupMocks func(m documentMocks)
		wantErr    error
		wantErrMsg string
	}{
		{
			name: "happy path",
			id:   "d1",
			setupMocks: func(m documentMocks) {
				m.repo.On("FindByID", ctx, "u1", "d1").Return(&model.Document{ID: "d1", StoragePath: "path/to/obj"}, nil)
				m.store.On("Delete", ctx, "path/to/obj").Return(nil)
				m.repo.On("Delete", ctx, "u1", "d1").Return(nil)
			},
		},
		{
			name:       "validation - empty id",
			setupMocks: func(m documentMocks) {},
			wantErr:    ErrIDRequired,
		},
		{
			name: "not found",
			id:   "missing",
			setupMocks: func(m documentMocks) {
				m.repo.On("FindByID", ctx, "u1", "missing").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "storage delete error keeps the row",
			id:   "d1",
			setupMocks: func(m documentMocks) {
				m.repo.On("FindByID", ctx, "u1", "d1").Return(&model.Document{ID: "d1", StoragePath: "path"}, nil)
				m.store.On("Delete", ctx, "path").Return(errors.New("storage fail"))
			},
			wantErrMsg: "delete storage: storage fail",
		},
		{
			name: "repository delete error",
			id:   "d1",
			setupMocks: func(m documentMocks) {
				m.repo.On("FindByID", ctx, "u1", "d1").Return(&model.Document{ID: "d1", StoragePath: "path"}, nil)
				m.store.On("Delete", ctx, "path").Return(nil)
				m.repo.On("Delete", ctx, "u1", "d1").Return(errors.New("db fail"))
			},
			wantErrMsg: "db fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newDocumentMocks()
			tt.setupMocks(m)

			err := m.service().Delete(ctx, "u1", tt.id)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantErrMsg != "":
				assert.EqualError(t, err, tt.wantErrMsg)
			default:
				assert.NoError(t, err)
			}
			m.assertExpectations(t)
		})
	}
}
