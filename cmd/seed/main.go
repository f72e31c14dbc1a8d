package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ikkim/verification-backend/config"
	"github.com/ikkim/verification-backend/internal/app/domain"
	"github.com/ikkim/verification-backend/internal/app/repository"
	"github.com/ikkim/verification-backend/internal/app/service"
	"github.com/ikkim/verification-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// seedUser is one row of the account sheet: email, name, role, password.
type seedUser struct {
	Email    string
	Name     string
	Role     domain.UserRole
	Password string
}

func main() {
	// 명령줄 인자 확인
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path> [--yes]")
	}

	filePath := os.Args[1]
	assumeYes := len(os.Args) > 2 && os.Args[2] == "--yes"

	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// DB 연결
	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	authService := service.NewAuthService(
		repository.NewUserRepository(db.GetDB()),
		nil,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	// XLSX 파일 읽기
	fmt.Printf("Reading XLSX file: %s\n", filePath)
	users, err := readUsersFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total accounts to import: %d\n", len(users))

	// 사용자 확인
	if !assumeYes {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	ctx := context.Background()
	created, existing := 0, 0
	for _, u := range users {
		_, err := authService.Register(ctx, u.Email, u.Password, u.Name, u.Role)
		switch {
		case err == nil:
			created++
		case errors.Is(err, service.ErrEmailAlreadyExists):
			existing++
		default:
			log.Fatalf("Failed to register %s: %v", u.Email, err)
		}
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("  Created: %d\n", created)
	fmt.Printf("  Already present: %d\n", existing)
}

func readUsersFromXLSX(filePath string) ([]seedUser, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	// 첫 번째 시트 이름 가져오기
	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var users []seedUser
	seen := make(map[string]bool) // 중복 제거용
	skipped := 0

	// 첫 행은 헤더이므로 스킵
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < 4 {
			skipped++
			continue
		}

		email := strings.ToLower(strings.TrimSpace(row[0]))
		name := strings.TrimSpace(row[1])
		password := row[3]

		role, err := domain.NewUserRole(strings.ToUpper(strings.TrimSpace(row[2])))
		if err != nil || email == "" || name == "" || password == "" {
			fmt.Printf("Skipping row %d: incomplete or invalid\n", i+1)
			skipped++
			continue
		}
		if seen[email] {
			skipped++
			continue
		}
		seen[email] = true

		users = append(users, seedUser{Email: email, Name: name, Role: role, Password: password})
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid accounts: %d\n", len(users))
	fmt.Printf("  Skipped rows: %d\n", skipped)

	return users, nil
}
