package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/verification-backend/internal/app/domain"
	"github.com/ikkim/verification-backend/internal/app/repository"
	"github.com/ikkim/verification-backend/internal/app/service"
	"github.com/ikkim/verification-backend/internal/cache"
	"github.com/ikkim/verification-backend/internal/db"
	"github.com/ikkim/verification-backend/internal/metrics"
	"github.com/ikkim/verification-backend/internal/middleware"
	"github.com/ikkim/verification-backend/internal/storage"
	"github.com/ikkim/verification-backend/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type testServer struct {
	router       *gin.Engine
	users        repository.UserRepository
	verification service.VerificationService
}

func setupControllerTest(t *testing.T) testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	users := repository.NewUserRepository(testDB)
	policy := storage.Policy{MaxFileSize: 1024, AllowedContentTypes: []string{"image/jpeg", "image/png"}}
	verificationService := service.NewVerificationService(
		users,
		repository.NewVerificationImageRepository(testDB),
		repository.NewVerificationRequestRepository(testDB),
		storage.NewInlineStorage(),
		policy,
		cache.NewNoopImageURLCache(),
		metrics.New(prometheus.NewRegistry()),
	)
	authService := service.NewAuthService(users, nil, testSecret, 15*time.Minute, 24*time.Hour)

	verificationCtrl := NewVerificationController(verificationService, policy.MaxRequestBytes())
	imageCtrl := NewImageController(verificationService, policy.MaxRequestBytes())
	authCtrl := NewAuthController(authService)
	userCtrl := NewUserController(service.NewUserService(users))
	auth := middleware.NewAuthMiddleware(testSecret, nil).WithRoleSource(users)

	router := gin.New()
	router.Use(middleware.LoggingMiddleware())
	router.POST("/api/auth/login", authCtrl.Login)
	router.POST("/api/auth/logout", auth.Authenticate(), authCtrl.Logout)
	router.GET("/api/user/current", auth.Authenticate(), authCtrl.GetCurrentUser)
	router.PUT("/api/user/name", auth.Authenticate(), userCtrl.UpdateName)
	router.GET("/api/admin/users", auth.Authenticate(), auth.RequireRole(domain.RoleAdmin), userCtrl.ListUsers)
	router.PUT("/api/admin/users/:id/role", auth.Authenticate(), auth.RequireRole(domain.RoleAdmin), userCtrl.ChangeRole)
	router.POST("/api/verification/images", verificationCtrl.SubmitImage)
	router.POST("/api/verification/requests", verificationCtrl.CreateRequest)
	router.GET("/api/verification/requests", verificationCtrl.ListRequests)
	router.GET("/api/verification/requests/:id", verificationCtrl.GetRequest)
	router.PUT("/api/verification/requests/:id", auth.Authenticate(), verificationCtrl.UpdateRequest)
	router.GET("/api/verification/export", auth.Authenticate(), auth.RequireRole(domain.RoleAdmin), verificationCtrl.ExportRequests)
	router.POST("/api/images", imageCtrl.UploadImage)
	router.GET("/api/images", imageCtrl.ListImages)
	router.GET("/api/images/:id", imageCtrl.GetImage)

	return testServer{router: router, users: users, verification: verificationService}
}

func (s testServer) createUser(t *testing.T, email string, role domain.UserRole, password string) domain.User {
	t.Helper()
	addr, err := domain.NewEmail(email)
	require.NoError(t, err)
	now := domain.Now()
	user, err := domain.NewUser(domain.UserProps{
		ID:        domain.UnsavedUserID(),
		Email:     addr,
		Name:      "Test User",
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)

	hash, err := util.HashPassword(password)
	require.NoError(t, err)
	created, err := s.users.Create(context.Background(), user, hash)
	require.NoError(t, err)
	return created
}

func (s testServer) tokenFor(t *testing.T, u domain.User) string {
	t.Helper()
	pair, err := util.GenerateTokenPair(u.ID().String(), u.Email().String(), u.Role().String(), testSecret, 15*time.Minute, time.Hour)
	require.NoError(t, err)
	return pair.AccessToken
}

func (s testServer) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) (string, string) {
	t.Helper()
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	decode(t, w, &body)
	return body.Error, body.Message
}

// jpegDataURL is a tiny payload that passes the test upload policy.
const jpegDataURL = "data:image/jpeg;base64,/9j/4AAQSkZJRg=="
