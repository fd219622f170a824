package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kantorku_backend/internals/apperr"
	authModel "kantorku_backend/internals/features/users/auth/model"
	userModel "kantorku_backend/internals/features/users/user/model"
	helper "kantorku_backend/internals/helpers"
)

/* ====================== USER ====================== */

func FindUserByEmailOrUsername(db *gorm.DB, identifier string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.Where("email = ? OR user_name = ?", identifier, identifier).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByID(db *gorm.DB, userID uuid.UUID) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func UpdateUserPassword(db *gorm.DB, userID uuid.UUID, hashed string) error {
	return db.Model(&userModel.UserModel{}).Where("id = ?", userID).Update("password", hashed).Error
}

/* ====================== EMPLOYEE ====================== */

// FindEmployeeByUserID resolve identitas kepegawaian dari user login.
// Admin murni boleh tidak punya baris employee.
func FindEmployeeByUserID(db *gorm.DB, userID uuid.UUID) (*userModel.EmployeeModel, error) {
	var emp userModel.EmployeeModel
	err := db.Where("employee_user_id = ?", userID).First(&emp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

/* ====================== REFRESH TOKEN ====================== */

// CreateRefreshToken menolak hash ganda lewat unique index; tabrakan
// diterjemahkan ke apperr.ErrDuplicate, bukan error driver mentah.
func CreateRefreshToken(db *gorm.DB, token *authModel.RefreshTokenModel) error {
	return helper.TranslateDBError(db.Create(token).Error)
}

func RefreshTokenHashExists(db *gorm.DB, hash []byte) (bool, error) {
	var n int64
	err := db.Model(&authModel.RefreshTokenModel{}).
		Where("token_hash = ? AND revoked_at IS NULL", hash).
		Count(&n).Error
	return n > 0, err
}

func DeleteRefreshTokenByHash(db *gorm.DB, hash []byte) error {
	return db.Where("token_hash = ?", hash).Delete(&authModel.RefreshTokenModel{}).Error
}

func DeleteRefreshTokensByUser(db *gorm.DB, userID uuid.UUID) error {
	return db.Where("user_id = ?", userID).Delete(&authModel.RefreshTokenModel{}).Error
}
