package main

import (
	"path/filepath"
	"testing"

	"github.com/ikkim/verification-backend/internal/app/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeSheet(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "users.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadUsersFromXLSX(t *testing.T) {
	path := writeSheet(t, [][]interface{}{
		{"email", "name", "role", "password"},
		{"Admin@Example.com", "Admin", "admin", "secret123"},
		{"user@example.com", "User", "USER", "secret123"},
		{"admin@example.com", "Duplicate", "ADMIN", "secret123"},
		{"broken@example.com", "Broken", "ROOT", "secret123"},
		{"short@example.com", "Short"},
	})

	users, err := readUsersFromXLSX(path)
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.Equal(t, "admin@example.com", users[0].Email)
	assert.Equal(t, domain.RoleAdmin, users[0].Role)
	assert.Equal(t, "user@example.com", users[1].Email)
	assert.Equal(t, domain.RoleUser, users[1].Role)
}

func TestReadUsersFromXLSX_MissingFile(t *testing.T) {
	_, err := readUsersFromXLSX(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}
