package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"schemeagent/internal/model"
	"schemeagent/internal/rules"
	"schemeagent/internal/service"
	serviceMocks "schemeagent/internal/service/mocks"
)

func TestListSchemes(t *testing.T) {
	mockSvc := new(serviceMocks.MockSchemeService)
	app := fiber.New()
	app.Get("/schemes", ListSchemes(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, 10, 0).Return(&service.SchemeListResult{
			Items: []model.Scheme{{ID: uuid.NewString(), Name: "PM-KISAN"}},
			Total: 1,
			Limit: 10,
		}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/schemes?limit=10&offset=0", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result service.SchemeListResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Len(t, result.Items, 1)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/schemes?limit=abc", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_LIMIT", decodeError(t, resp).Error.Code)
	})

	t.Run("invalid offset", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/schemes?offset=x", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_OFFSET", decodeError(t, resp).Error.Code)
	})
}

func TestDiscoverSchemes(t *testing.T) {
	mockSvc := new(serviceMocks.MockSchemeService)
	app := fiber.New()
	app.Post("/schemes/discover", DiscoverSchemes(mockSvc))

	post := func(body string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/schemes/discover", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return req
	}

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Discover", mock.Anything, "https://gov.example", "page").
			Return(&service.DiscoverResult{Found: 1, Created: []model.Scheme{{Name: "NSP"}}, Skipped: []string{}}, nil).Once()

		resp, _ := app.Test(post(`{"source_url":"https://gov.example","text":"page"}`))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("empty text", func(t *testing.T) {
		mockSvc.On("Discover", mock.Anything, "", "").
			Return(nil, fmt.Errorf("%w: text is required", service.ErrInvalidInput)).Once()

		resp, _ := app.Test(post(`{}`))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", decodeError(t, resp).Error.Code)
	})
}

func TestListUserSchemes(t *testing.T) {
	mockSvc := new(serviceMocks.MockSchemeService)
	app := fiber.New()
	app.Get("/users/:userID/schemes", ListUserSchemes(mockSvc))

	mockSvc.On("ListForUser", mock.Anything, "u1").Return([]service.SchemeVerdict{{
		Scheme:  model.Scheme{Name: "PM-KISAN"},
		Verdict: model.NewVerdict(false, service.ReasonProfileMissing, nil),
	}}, nil).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/users/u1/schemes", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 1)
	assert.Equal(t, false, body[0]["eligible"])
	assert.Equal(t, "Profile missing", body[0]["reason"])
	assert.Equal(t, []any{}, body[0]["missing_documents"])
	mockSvc.AssertExpectations(t)
}

func TestEvaluateScheme(t *testing.T) {
	mockSvc := new(serviceMocks.MockSchemeService)
	app := fiber.New()
	app.Get("/users/:userID/schemes/:schemeID/eligibility", EvaluateScheme(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("Evaluate", mock.Anything, "u1", id).Return(&service.SchemeVerdict{
			Verdict: model.NewVerdict(false, rules.ReasonMissingDocuments, []string{"Land Record"}),
		}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/users/u1/schemes/"+id+"/eligibility", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var v service.SchemeVerdict
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
		assert.Equal(t, []string{"Land Record"}, v.MissingDocuments)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/users/u1/schemes/nope/eligibility", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("Evaluate", mock.Anything, "u1", id).Return(nil, service.ErrNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/users/u1/schemes/"+id+"/eligibility", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "scheme not found", decodeError(t, resp).Error.Message)
	})
}

func TestApplicationKit(t *testing.T) {
	mockSvc := new(serviceMocks.MockSchemeService)
	app := fiber.New()
	app.Get("/users/:userID/schemes/:schemeID/kit", ApplicationKit(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("Kit", mock.Anything, "u1", id).Return(&service.ApplicationKit{
			CoverLetter: "To,\nThe Authority",
			Checklist:   []rules.ChecklistItem{{Document: "Aadhaar", Satisfied: true}},
			NextSteps:   []string{"Visit https://pmkisan.gov.in to submit the application."},
		}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/users/u1/schemes/"+id+"/kit", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var kit service.ApplicationKit
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&kit))
		assert.Equal(t, "To,\nThe Authority", kit.CoverLetter)
		mockSvc.AssertExpectations(t)
	})

	t.Run("profile required", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("Kit", mock.Anything, "u2", id).Return(nil, service.ErrProfileRequired).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/users/u2/schemes/"+id+"/kit", nil))

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})
}
