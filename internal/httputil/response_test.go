package httputil

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/keywhiz/internal/errors"
)

func performWithError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleErrorGin(c, err, nil)
	return recorder
}

func TestHandleErrorGin(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		statusCode int
	}{
		{"not found", apperrors.ErrNotFound, http.StatusNotFound},
		{"forbidden reads as not found", apperrors.ErrForbidden, http.StatusNotFound},
		{"conflict", apperrors.ErrConflict, http.StatusConflict},
		{"invalid input", apperrors.ErrInvalidInput, http.StatusUnprocessableEntity},
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized},
		{"integrity failure", apperrors.ErrCryptoIntegrity, http.StatusInternalServerError},
		{"store failure", apperrors.ErrStore, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := performWithError(t, apperrors.Wrap(tc.err, "operation failed"))
			assert.Equal(t, tc.statusCode, recorder.Code)
		})
	}
}

func TestHandleErrorGin_DoesNotLeakInternals(t *testing.T) {
	recorder := performWithError(t, apperrors.Wrap(apperrors.ErrStore, "pq: connection refused"))
	assert.NotContains(t, recorder.Body.String(), "connection refused")
}

func TestHandleBadRequestGin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	HandleBadRequestGin(c, errors.New("invalid json"), nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "bad_request")
}
