package repository

import (
	"context"
	"testing"

	"github.com/ikkim/verification-backend/internal/app/domain"
	"github.com/ikkim/verification-backend/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testRepos struct {
	db       *gorm.DB
	users    UserRepository
	images   domain.VerificationImageRepository
	requests domain.VerificationRequestRepository
}

func setupRepos(t *testing.T) testRepos {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return testRepos{
		db:       testDB,
		users:    NewUserRepository(testDB),
		images:   NewVerificationImageRepository(testDB),
		requests: NewVerificationRequestRepository(testDB),
	}
}

func ts(t *testing.T, s string) domain.DateTime {
	t.Helper()
	d, err := domain.ParseDateTime(s)
	require.NoError(t, err)
	return d
}

func newUser(t *testing.T, email string, role domain.UserRole) domain.User {
	t.Helper()
	e, err := domain.NewEmail(email)
	require.NoError(t, err)
	now := ts(t, "2024-01-01T00:00:00Z")
	u, err := domain.NewUser(domain.UserProps{
		ID:        domain.UnsavedUserID(),
		Email:     e,
		Name:      "Test User",
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)
	return u
}

func createUser(t *testing.T, repos testRepos, email string, role domain.UserRole) domain.User {
	t.Helper()
	saved, err := repos.users.Create(context.Background(), newUser(t, email, role), "hash")
	require.NoError(t, err)
	return saved
}

func createImage(t *testing.T, repos testRepos, owner domain.UserID, at string) domain.VerificationImage {
	t.Helper()
	img, err := domain.NewVerificationImage(domain.VerificationImageProps{
		ID:        domain.UnsavedImageID(),
		UserID:    owner,
		ImageURL:  "https://cdn.example.com/verification/" + owner.String() + ".jpg",
		CreatedAt: ts(t, at),
	})
	require.NoError(t, err)
	saved, err := repos.images.Save(context.Background(), img)
	require.NoError(t, err)
	return saved
}

func createPending(t *testing.T, repos testRepos, owner domain.UserID, image domain.ImageID, at string) domain.VerificationRequest {
	t.Helper()
	req, err := domain.NewPendingRequest(owner, image, ts(t, at))
	require.NoError(t, err)
	saved, err := repos.requests.Save(context.Background(), req)
	require.NoError(t, err)
	return saved
}

