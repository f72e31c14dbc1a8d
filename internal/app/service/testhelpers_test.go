package service

import (
	"context"
	"testing"

	"github.com/ikkim/verification-backend/internal/app/domain"
	"github.com/ikkim/verification-backend/internal/app/repository"
	"github.com/ikkim/verification-backend/internal/cache"
	"github.com/ikkim/verification-backend/internal/db"
	"github.com/ikkim/verification-backend/internal/metrics"
	"github.com/ikkim/verification-backend/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	users    repository.UserRepository
	images   domain.VerificationImageRepository
	requests domain.VerificationRequestRepository
	metrics  *metrics.Metrics
	svc      VerificationService
}

var testPolicy = storage.Policy{
	MaxFileSize:         1024,
	AllowedContentTypes: []string{"image/jpeg", "image/png"},
}

func setupVerificationServiceTest(t *testing.T) testEnv {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	env := testEnv{
		users:    repository.NewUserRepository(testDB),
		images:   repository.NewVerificationImageRepository(testDB),
		requests: repository.NewVerificationRequestRepository(testDB),
		metrics:  metrics.New(prometheus.NewRegistry()),
	}
	env.svc = NewVerificationService(
		env.users,
		env.images,
		env.requests,
		storage.NewInlineStorage(),
		testPolicy,
		cache.NewNoopImageURLCache(),
		env.metrics,
	)
	return env
}

func createTestUser(t *testing.T, users repository.UserRepository, email string, role domain.UserRole) domain.User {
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

	created, err := users.Create(context.Background(), user, "hash")
	require.NoError(t, err)
	return created
}
