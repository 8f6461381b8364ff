package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHandler(t *testing.T) *Handler {
	t.Helper()

	validate := validator.New(validator.WithRequiredStructEnabled())
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	require.NoError(t, en_translations.RegisterDefaultTranslations(validate, trans))

	return &Handler{validate: validate, translator: trans}
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestSuccessResponse(t *testing.T) {
	h := testHandler(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	h.successResponse(rec, req, "done", map[string]int{"n": 3})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "done", resp.Message)
}

func TestErrorResponseKeepsStatusOK(t *testing.T) {
	h := testHandler(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	h.errorResponse(rec, req, "employee not found")

	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "employee not found", resp.Message)
}

func TestBadRequestTranslatesValidationErrors(t *testing.T) {
	h := testHandler(t)

	var req struct {
		Email string `json:"email" validate:"required,email"`
	}
	err := h.validate.Struct(req)
	require.Error(t, err)

	rec := httptest.NewRecorder()
	h.badRequest(rec, httptest.NewRequest(http.MethodPost, "/", nil), err)

	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	// The translated message names the field, not the Go struct path.
	assert.Contains(t, resp.Message, "Email")
}

func TestBadRequestPlainError(t *testing.T) {
	h := testHandler(t)

	rec := httptest.NewRecorder()
	h.badRequest(rec, httptest.NewRequest(http.MethodPost, "/", nil), errors.New("invalid start time"))

	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "invalid start time", resp.Message)
}
