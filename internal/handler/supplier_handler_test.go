package handler_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"facturas/internal/domain"
	"facturas/internal/handler"
	"facturas/internal/service"
	"facturas/mocks"
)

func TestSupplierHandler_List(t *testing.T) {
	svc := new(mocks.MockSupplierService)
	h := handler.NewSupplierHandler(svc)
	svc.On("List", mock.Anything, "acme").Return([]domain.Supplier{{ID: 1, Name: "ACME S.A."}}, nil)

	c, w := newContext(http.MethodGet, "/api/v1/suppliers?q=acme", nil)
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.([]interface{})
	assert.Len(t, data, 1)
	svc.AssertExpectations(t)
}

func TestSupplierHandler_Create(t *testing.T) {
	svc := new(mocks.MockSupplierService)
	h := handler.NewSupplierHandler(svc)

	cuit := "30-11111111-1"
	term := 30
	svc.On("Create", mock.Anything, service.SupplierInput{Name: "ACME S.A.", CUIT: &cuit, PaymentTerm: &term}).
		Return(&domain.Supplier{ID: 1, Name: "ACME S.A.", CUIT: &cuit}, nil)

	c, w := newContext(http.MethodPost, "/api/v1/suppliers", gin.H{
		"name":        "ACME S.A.",
		"cuit":        cuit,
		"paymentTerm": 30,
	})
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestSupplierHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		call       func(h *handler.SupplierHandler, c *gin.Context)
		setup      func(m *mocks.MockSupplierService)
		method     string
		body       interface{}
		wantStatus int
		wantCode   string
	}{
		{
			name:       "create without name",
			call:       (*handler.SupplierHandler).Create,
			method:     http.MethodPost,
			body:       gin.H{"name": ""},
			setup:      func(m *mocks.MockSupplierService) { m.On("Create", mock.Anything, mock.Anything).Return(nil, domain.FieldErrors{"name": "is required"}) },
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "duplicate cuit",
			call:       (*handler.SupplierHandler).Create,
			method:     http.MethodPost,
			body:       gin.H{"name": "ACME", "cuit": "30-1"},
			setup:      func(m *mocks.MockSupplierService) { m.On("Create", mock.Anything, mock.Anything).Return(nil, domain.ErrDuplicateCUIT) },
			wantStatus: http.StatusConflict,
			wantCode:   "DUPLICATE_CUIT",
		},
		{
			name:       "update missing",
			call:       (*handler.SupplierHandler).Update,
			method:     http.MethodPut,
			body:       gin.H{"name": "ACME"},
			setup:      func(m *mocks.MockSupplierService) { m.On("Update", mock.Anything, int64(7), mock.Anything).Return(nil, domain.ErrSupplierNotFound) },
			wantStatus: http.StatusNotFound,
			wantCode:   "SUPPLIER_NOT_FOUND",
		},
		{
			name:       "delete in use",
			call:       (*handler.SupplierHandler).Delete,
			method:     http.MethodDelete,
			setup:      func(m *mocks.MockSupplierService) { m.On("Delete", mock.Anything, int64(7)).Return(domain.ErrSupplierInUse) },
			wantStatus: http.StatusConflict,
			wantCode:   "SUPPLIER_IN_USE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mocks.MockSupplierService)
			tt.setup(svc)
			h := handler.NewSupplierHandler(svc)

			c, w := newContext(tt.method, "/api/v1/suppliers/7", tt.body)
			c.Params = gin.Params{{Key: "id", Value: "7"}}
			tt.call(h, c)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, decodeResponse(t, w).Error.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestSupplierHandler_GetByID(t *testing.T) {
	svc := new(mocks.MockSupplierService)
	h := handler.NewSupplierHandler(svc)
	svc.On("Get", mock.Anything, int64(7)).Return(&domain.Supplier{ID: 7, Name: "Globex"}, nil)

	c, w := newContext(http.MethodGet, "/api/v1/suppliers/7", nil)
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	h.GetByID(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = newContext(http.MethodGet, "/api/v1/suppliers/0", nil)
	c.Params = gin.Params{{Key: "id", Value: "0"}}
	h.GetByID(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", decodeResponse(t, w).Error.Code)
}
