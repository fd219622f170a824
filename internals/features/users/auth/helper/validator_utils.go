package helpers

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

func isAlphaNumeric(s string) bool {
	hasLetter := regexp.MustCompile(`[A-Za-z]`).MatchString(s)
	hasNumber := regexp.MustCompile(`[0-9]`).MatchString(s)
	return hasLetter && hasNumber
}

// Validasi Email (regex simple)
func isValidEmail(email string) bool {
	re := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	return re.MatchString(email)
}

// ValidateLoginInput: identifier boleh email atau username, password minimal isi.
func ValidateLoginInput(identifier, password string) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return errors.New("identifier wajib diisi")
	}
	if !isValidEmail(identifier) && len(identifier) < 3 {
		return errors.New("identifier minimal 3 karakter")
	}
	if password == "" {
		return errors.New("password wajib diisi")
	}
	return nil
}

// ValidateNewPassword: aturan minimal untuk ganti password.
func ValidateNewPassword(password string) error {
	if len(password) < 8 {
		return errors.New("password minimal 8 karakter")
	}
	if !isAlphaNumeric(password) {
		return errors.New("password harus mengandung huruf dan angka")
	}
	return nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPasswordHash(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
