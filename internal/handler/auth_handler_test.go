package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"contact_manager/internal/middleware"
	"contact_manager/internal/model"
	"contact_manager/internal/service"
	"contact_manager/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthService struct {
	registerErr error
	loginErr    error
	profileErr  error
	user        model.User
	token       string
}

func (f *fakeAuthService) Register(_ context.Context, name, email, _ string) (*model.User, string, error) {
	if f.registerErr != nil {
		return nil, "", f.registerErr
	}
	u := f.user
	u.Name, u.Email = name, email
	return &u, f.token, nil
}

func (f *fakeAuthService) Login(_ context.Context, email, _ string) (*model.User, string, error) {
	if f.loginErr != nil {
		return nil, "", f.loginErr
	}
	u := f.user
	u.Email = email
	return &u, f.token, nil
}

func (f *fakeAuthService) GetProfile(_ context.Context, _ int) (*model.User, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	u := f.user
	return &u, nil
}

func setupAuthRouter(svc service.AuthService) (*gin.Engine, *utils.JWTUtil) {
	gin.SetMode(gin.TestMode)
	jwtUtil := utils.NewJWTUtil("secret", 1)
	r := gin.New()
	api := r.Group("/api")
	NewAuthHandler(svc).RegisterAuthRoutes(api, middleware.JWTAuthMiddleware(jwtUtil))
	return r, jwtUtil
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterHandler(t *testing.T) {
	svc := &fakeAuthService{user: model.User{ID: 3}, token: "tok"}
	r, _ := setupAuthRouter(svc)

	w := postJSON(t, r, "/api/auth/register", gin.H{"name": "Jo", "email": "jo@x.com", "password": "secret1"})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "tok", resp["token"])
	assert.Equal(t, float64(3), resp["user_id"])
	assert.Equal(t, "jo@x.com", resp["email"])
}

func TestRegisterHandler_MissingFields(t *testing.T) {
	r, _ := setupAuthRouter(&fakeAuthService{})

	w := postJSON(t, r, "/api/auth/register", gin.H{"name": "Jo"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterHandler_DuplicateEmail(t *testing.T) {
	r, _ := setupAuthRouter(&fakeAuthService{registerErr: service.ErrUserAlreadyExists})

	w := postJSON(t, r, "/api/auth/register", gin.H{"name": "Jo", "email": "jo@x.com", "password": "secret1"})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	r, _ := setupAuthRouter(&fakeAuthService{loginErr: service.ErrInvalidCredentials})

	w := postJSON(t, r, "/api/auth/login", gin.H{"email": "jo@x.com", "password": "wrong"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMeHandler(t *testing.T) {
	svc := &fakeAuthService{user: model.User{ID: 3, Name: "Jo", Email: "jo@x.com"}}
	r, jwtUtil := setupAuthRouter(svc)

	token, _ := jwtUtil.GenerateToken(3)
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"jo@x.com"`)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestMeHandler_NoToken(t *testing.T) {
	r, _ := setupAuthRouter(&fakeAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
