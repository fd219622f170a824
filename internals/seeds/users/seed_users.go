package user

import (
	"encoding/json"
	"log"
	"os"

	authHelper "kantorku_backend/internals/features/users/auth/helper"
	"kantorku_backend/internals/features/users/user/model"

	"gorm.io/gorm"
)

type UserSeed struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	// FullName kosong berarti user tanpa baris employee (admin murni).
	FullName string `json:"full_name"`
	Position string `json:"position"`
}

func SeedUsersFromJSON(db *gorm.DB, filePath string) {
	log.Println("📥 Membaca file user:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatalf("❌ Gagal membaca file JSON: %v", err)
	}

	var inputs []UserSeed
	if err := json.Unmarshal(file, &inputs); err != nil {
		log.Fatalf("❌ Gagal decode JSON: %v", err)
	}

	for _, data := range inputs {
		var existing model.UserModel
		if err := db.Where("email = ?", data.Email).First(&existing).Error; err == nil {
			log.Printf("ℹ️ User dengan email '%s' sudah ada, dilewati.", data.Email)
			continue
		}

		// 🔐 Hash password sebelum disimpan
		hashedPassword, err := authHelper.HashPassword(data.Password)
		if err != nil {
			log.Printf("❌ Gagal hash password untuk '%s': %v", data.Email, err)
			continue
		}

		newUser := model.UserModel{
			UserName: data.UserName,
			Email:    data.Email,
			Password: hashedPassword,
			Role:     data.Role,
			IsActive: true,
		}

		if err := db.Create(&newUser).Error; err != nil {
			log.Printf("❌ Gagal insert user '%s': %v", data.Email, err)
			continue
		}
		log.Printf("✅ Berhasil insert user '%s'", data.Email)

		if data.FullName == "" {
			continue
		}

		emp := model.EmployeeModel{
			EmployeeUserID:   newUser.ID,
			EmployeeFullName: data.FullName,
			EmployeePosition: data.Position,
			EmployeeIsActive: true,
		}
		if err := db.Create(&emp).Error; err != nil {
			log.Printf("❌ Gagal insert employee '%s': %v", data.FullName, err)
		} else {
			log.Printf("✅ Berhasil insert employee '%s'", data.FullName)
		}
	}
}
