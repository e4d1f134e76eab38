package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pe4924/ReserveEase/internal/models"
	"github.com/pe4924/ReserveEase/internal/service"
	appErrors "github.com/pe4924/ReserveEase/pkg/errors"
)

type userServiceMock struct {
	registerErr error
	registered  *service.RegisterUserRequest
}

func (m *userServiceMock) Register(ctx context.Context, req service.RegisterUserRequest) (*models.UserProfile, error) {
	if m.registerErr != nil {
		return nil, m.registerErr
	}
	m.registered = &req
	return &models.UserProfile{SupabaseID: req.SupabaseID, LastName: req.LastName}, nil
}

func registerBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(service.RegisterUserRequest{
		SupabaseID:  "c0ffee",
		FirstName:   "太郎",
		LastName:    "山田",
		Email:       "taro@example.com",
		PhoneNumber: "090-0000-0000",
	})
	require.NoError(t, err)
	return body
}

func TestUserHandlerRegister(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &userServiceMock{}
	handler := NewUserHandler(mock)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/register-user-info", bytes.NewReader(registerBody(t)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Register(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, mock.registered)
	assert.Equal(t, "c0ffee", mock.registered.SupabaseID)
}

func TestUserHandlerRegisterConflictUsesMessageBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &userServiceMock{registerErr: appErrors.Clone(appErrors.ErrConflict, "user already registered")}
	handler := NewUserHandler(mock)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/register-user-info", bytes.NewReader(registerBody(t)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Register(c)

	require.Equal(t, http.StatusConflict, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "user already registered", body["message"])
}

func TestUserHandlerRegisterInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewUserHandler(&userServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/register-user-info", bytes.NewReader([]byte(`nope`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Register(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["message"])
}
