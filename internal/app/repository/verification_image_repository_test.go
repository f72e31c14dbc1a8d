package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/ikkim/verification-backend/internal/app/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerificationImageRepository_SaveAndFind(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	user := createUser(t, repos, "img@example.com", domain.RoleUser)

	saved := createImage(t, repos, user.ID(), "2024-01-01T00:00:00Z")
	assert.NotEqual(t, domain.UnsavedImageID(), saved.ID())

	found, err := repos.images.FindByID(ctx, saved.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, saved.ImageURL(), found.ImageURL())
	assert.Equal(t, user.ID(), found.UserID())

	missing, _ := domain.NewImageID("12345")
	found, err = repos.images.FindByID(ctx, missing)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestVerificationImageRepository_FindByUserID(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	alice := createUser(t, repos, "alice@example.com", domain.RoleUser)
	bob := createUser(t, repos, "bob@example.com", domain.RoleUser)

	older := createImage(t, repos, alice.ID(), "2024-01-01T00:00:00Z")
	newer := createImage(t, repos, alice.ID(), "2024-01-02T00:00:00Z")
	createImage(t, repos, bob.ID(), "2024-01-03T00:00:00Z")

	images, err := repos.images.FindByUserID(ctx, alice.ID())
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, newer.ID(), images[0].ID())
	assert.Equal(t, older.ID(), images[1].ID())
}

func TestVerificationImageRepository_InvalidID(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "letters", raw: "abc"},
		{name: "fraction", raw: "1.5"},
		{name: "negative", raw: "-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := domain.NewImageID(tt.raw)
			require.NoError(t, err)

			_, err = repos.images.FindByID(ctx, id)
			assert.True(t, errors.Is(err, domain.ErrInvalidIDFormat))
		})
	}
}
