// file: internals/testutil/db.go
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	database "kantorku_backend/internals/databases"
	userModel "kantorku_backend/internals/features/users/user/model"
)

// OpenTestDB membuka sqlite in-memory dengan skema lengkap. Nama DSN unik
// per test supaya antar test tidak saling lihat data; cache=shared +
// MaxOpenConns(1) mencegah tiap koneksi pool dapat memory DB kosong sendiri.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Discard,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// NewEmployee insert user + employee aktif, balikin employee ID.
func NewEmployee(t *testing.T, db *gorm.DB, fullName string) uuid.UUID {
	t.Helper()

	slug := strings.ToLower(strings.ReplaceAll(fullName, " ", "."))
	user := userModel.UserModel{
		UserName: slug,
		Email:    slug + "@kantorku.test",
		Password: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		Role:     "employee",
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}

	emp := userModel.EmployeeModel{
		EmployeeUserID:   user.ID,
		EmployeeFullName: fullName,
		EmployeePosition: "Staff",
		EmployeeIsActive: true,
	}
	if err := db.Create(&emp).Error; err != nil {
		t.Fatalf("create test employee: %v", err)
	}
	return emp.EmployeeID
}
