package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "gamelens/internal/errors"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func newQueryValidator() *QueryParamValidator {
	logger := testLogger()
	return NewQueryParamValidator(logger, apierrors.NewErrorHandler(logger, false))
}

func TestValidateInt(t *testing.T) {
	v := newQueryValidator()

	tests := []struct {
		name     string
		query    string
		want     int
		wantOK   bool
		wantCode int
	}{
		{"empty uses default", "", 20, true, 0},
		{"valid value", "top=5", 5, true, 0},
		{"not an integer", "top=abc", 0, false, http.StatusBadRequest},
		{"below minimum", "top=0", 0, false, http.StatusBadRequest},
		{"above maximum", "top=9999", 0, false, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/overlap?"+tt.query, nil)
			rec := httptest.NewRecorder()

			got, ok := v.ValidateInt(rec, req, "top", 1, 1000, 20)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			} else {
				assert.Equal(t, tt.wantCode, rec.Code)
			}
		})
	}
}

func TestValidateEnum(t *testing.T) {
	v := newQueryValidator()
	allowed := []string{"revenue", "sales", "equal"}

	t.Run("empty uses default", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/countries", nil)
		got, ok := v.ValidateEnum(httptest.NewRecorder(), req, "weight_by", allowed, "revenue")
		require.True(t, ok)
		assert.Equal(t, "revenue", got)
	})

	t.Run("allowed value", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/countries?weight_by=sales", nil)
		got, ok := v.ValidateEnum(httptest.NewRecorder(), req, "weight_by", allowed, "revenue")
		require.True(t, ok)
		assert.Equal(t, "sales", got)
	})

	t.Run("disallowed value", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/countries?weight_by=downloads", nil)
		rec := httptest.NewRecorder()
		_, ok := v.ValidateEnum(rec, req, "weight_by", allowed, "revenue")
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestContentTypeValidator(t *testing.T) {
	handler := ContentTypeValidator("application/json")(okHandler())

	t.Run("bodyless post passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/dataset/reload", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("json body passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/dataset/reload", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing content type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/dataset/reload", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unsupported content type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/dataset/reload", strings.NewReader("a,b"))
		req.Header.Set("Content-Type", "text/csv")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})

	t.Run("get skipped", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/games", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestValidateRequest(t *testing.T) {
	logger := testLogger()
	m := NewValidationMiddleware(logger, apierrors.NewErrorHandler(logger, false))
	handler := m.ValidateRequest(okHandler())

	t.Run("get passes through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/games", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("valid json body passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/dataset/reload", strings.NewReader(`{"force": true}`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("malformed json rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/dataset/reload", strings.NewReader(`{"force":`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestValidateStruct(t *testing.T) {
	logger := testLogger()
	m := NewValidationMiddleware(logger, apierrors.NewErrorHandler(logger, false))

	type exportRequest struct {
		GameID   string `json:"game_id" validate:"required,gameid"`
		Date     string `json:"date" validate:"omitempty,iso8601"`
		Filename string `json:"filename" validate:"omitempty,filename"`
	}

	tests := []struct {
		name    string
		req     exportRequest
		wantErr bool
	}{
		{"valid", exportRequest{GameID: "620980", Date: "2024-01-15", Filename: "report.xlsx"}, false},
		{"missing game id", exportRequest{}, true},
		{"non numeric game id", exportRequest{GameID: "abc123"}, true},
		{"game id too long", exportRequest{GameID: "1234567890123"}, true},
		{"bad date", exportRequest{GameID: "620980", Date: "15/01/2024"}, true},
		{"traversal filename", exportRequest{GameID: "620980", Filename: "../etc/passwd"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.ValidateStruct(tt.req)
			if tt.wantErr {
				require.Error(t, err)
				var apiErr *apierrors.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
