package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"facturas/internal/domain"
	"facturas/internal/handler"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{domain.ErrInvoiceNotFound, http.StatusNotFound, "INVOICE_NOT_FOUND"},
		{fmt.Errorf("loading draft: %w", domain.ErrDraftNotFound), http.StatusNotFound, "DRAFT_NOT_FOUND"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{domain.ErrDuplicateCUIT, http.StatusConflict, "DUPLICATE_CUIT"},
		{domain.ErrQueueFull, http.StatusServiceUnavailable, "QUEUE_FULL"},
		{domain.ErrExtractionFailed, http.StatusBadGateway, "EXTRACTION_FAILED"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			status, code, _ := handler.MapDomainError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestMapDomainError_FilterMessageIsKept(t *testing.T) {
	err := fmt.Errorf("%w: unknown status %q", domain.ErrInvalidFilter, "lost")

	status, code, msg := handler.MapDomainError(err)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_FILTER", code)
	assert.Contains(t, msg, `"lost"`)
}

func TestHandleError_FieldErrors(t *testing.T) {
	c, w := newContext(http.MethodPost, "/", nil)

	handler.HandleError(c, fmt.Errorf("submit: %w", domain.FieldErrors{"date": "is required"}))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "is required", resp.Error.Fields["date"])
}
