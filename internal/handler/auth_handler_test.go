package handler_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"facturas/internal/domain"
	"facturas/internal/handler"
	"facturas/internal/service"
	"facturas/mocks"
)

func TestAuthHandler_Login_Success(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)
	h := handler.NewAuthHandler(mockAuth)

	tokenPair := &service.TokenPair{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    time.Now().Add(15 * time.Minute),
	}
	mockAuth.On("Login", mock.Anything, service.LoginInput{
		Email:    "contable@example.com",
		Password: "password123",
	}).Return(tokenPair, nil)

	c, w := newContext(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "contable@example.com",
		"password": "password123",
	})
	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	mockAuth.AssertExpectations(t)
}

func TestAuthHandler_Login_NormalizesEmail(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)
	h := handler.NewAuthHandler(mockAuth)

	mockAuth.On("Login", mock.Anything, service.LoginInput{
		Email:    "contable@example.com",
		Password: "password123",
	}).Return(&service.TokenPair{AccessToken: "access-token"}, nil)

	c, w := newContext(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "Contable@Example.COM",
		"password": "password123",
	})
	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockAuth.AssertExpectations(t)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)
	h := handler.NewAuthHandler(mockAuth)

	mockAuth.On("Login", mock.Anything, mock.AnythingOfType("service.LoginInput")).
		Return(nil, domain.ErrInvalidCredentials)

	c, w := newContext(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "contable@example.com",
		"password": "wrongpassword",
	})
	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeResponse(t, w).Error.Code)
}

func TestAuthHandler_Login_ValidationError(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)
	h := handler.NewAuthHandler(mockAuth)

	c, w := newContext(http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "not-an-email"})
	h.Login(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "email válido")
	mockAuth.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	tests := []struct {
		name       string
		body       gin.H
		setup      func(m *mocks.MockAuthService)
		wantStatus int
	}{
		{
			name: "success",
			body: gin.H{"refresh_token": "valid-refresh-token"},
			setup: func(m *mocks.MockAuthService) {
				m.On("RefreshToken", mock.Anything, "valid-refresh-token").
					Return(&service.TokenPair{AccessToken: "new"}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "expired",
			body: gin.H{"refresh_token": "old"},
			setup: func(m *mocks.MockAuthService) {
				m.On("RefreshToken", mock.Anything, "old").Return(nil, domain.ErrUnauthorized)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing token",
			body:       gin.H{},
			setup:      func(*mocks.MockAuthService) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAuth := new(mocks.MockAuthService)
			tt.setup(mockAuth)
			h := handler.NewAuthHandler(mockAuth)

			c, w := newContext(http.MethodPost, "/api/v1/auth/refresh", tt.body)
			h.RefreshToken(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			mockAuth.AssertExpectations(t)
		})
	}
}
