package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"kantorku_backend/internals/configs"
	authHelper "kantorku_backend/internals/features/users/auth/helper"
	authModel "kantorku_backend/internals/features/users/auth/model"
	authRepo "kantorku_backend/internals/features/users/auth/repository"
	userModel "kantorku_backend/internals/features/users/user/model"
	helpers "kantorku_backend/internals/helpers"
)

const (
	accessTTLDefault  = 24 * time.Hour
	refreshTTLDefault = 7 * 24 * time.Hour
)

func nowUTC() time.Time { return time.Now().UTC() }

func getJWTSecret() (string, error) {
	if configs.JWTSecret == "" {
		return "", errors.New("JWT_SECRET belum diset")
	}
	return configs.JWTSecret, nil
}

func getRefreshSecret() (string, error) {
	if configs.JWTRefreshSecret == "" {
		return "", errors.New("JWT_REFRESH_SECRET belum diset")
	}
	return configs.JWTRefreshSecret, nil
}

func strptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Refresh token disimpan sebagai HMAC, bukan plaintext.
func computeRefreshHash(token, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(token))
	return mac.Sum(nil)
}

/* ==========================
   LOGIN (username/email + password)
========================== */

func Login(db *gorm.DB, c *fiber.Ctx) error {
	var input struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid input format")
	}
	input.Identifier = strings.TrimSpace(input.Identifier)

	if err := authHelper.ValidateLoginInput(input.Identifier, input.Password); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	user, err := authRepo.FindUserByEmailOrUsername(db, input.Identifier)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Identifier atau Password salah")
	}
	if !user.IsActive {
		return helpers.JsonError(c, fiber.StatusForbidden, "Akun Anda telah dinonaktifkan. Hubungi admin.")
	}
	if err := authHelper.CheckPasswordHash(user.Password, input.Password); err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Identifier atau Password salah")
	}

	return issueTokens(c, db, *user)
}

/* ==========================
   JWT claims & response
========================== */

// Tiap access token membawa jti unik di claim "id"; revocation bekerja
// per jti, bukan per raw token.
func buildAccessClaims(user userModel.UserModel, employee *userModel.EmployeeModel, jti string, now time.Time) jwt.MapClaims {
	claims := jwt.MapClaims{
		"typ":       "access",
		"sub":       user.ID.String(),
		"id":        jti,
		"user_name": user.UserName,
		"role":      user.Role,
		"iat":       now.Unix(),
		"exp":       now.Add(accessTTLDefault).Unix(),
	}
	if employee != nil {
		claims["employee_id"] = employee.EmployeeID.String()
	}
	return claims
}

func buildRefreshClaims(userID uuid.UUID, now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"typ": "refresh",
		"sub": userID.String(),
		"id":  uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(refreshTTLDefault).Unix(),
	}
}

func buildLoginResponseUser(user userModel.UserModel, employee *userModel.EmployeeModel) fiber.Map {
	resp := fiber.Map{
		"id":        user.ID,
		"user_name": user.UserName,
		"email":     user.Email,
		"role":      user.Role,
	}
	if employee != nil {
		resp["employee_id"] = employee.EmployeeID
		resp["full_name"] = employee.EmployeeFullName
		resp["position"] = employee.EmployeePosition
	}
	return resp
}

/* ==========================
   ISSUE TOKENS
========================== */

func issueTokens(c *fiber.Ctx, db *gorm.DB, user userModel.UserModel) error {
	jwtSecret, err := getJWTSecret()
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	refreshSecret, err := getRefreshSecret()
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	now := nowUTC()

	// Admin murni boleh tanpa baris employee; claim employee_id dilewati.
	employee, err := authRepo.FindEmployeeByUserID(db, user.ID)
	if err != nil {
		employee = nil
	}

	jti := uuid.NewString()
	accessClaims := buildAccessClaims(user, employee, jti, now)
	refreshClaims := buildRefreshClaims(user.ID, now)

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString([]byte(jwtSecret))
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat access token")
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString([]byte(refreshSecret))
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat refresh token")
	}

	tokenHash := computeRefreshHash(refreshToken, refreshSecret)
	ua, ip := c.Get("User-Agent"), c.IP()
	if err := createRefreshTokenFast(db, &authModel.RefreshTokenModel{
		UserID:    user.ID,
		TokenHash: tokenHash,
		ExpiresAt: now.Add(refreshTTLDefault),
		UserAgent: strptr(ua),
		IP:        strptr(ip),
	}); err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan refresh token")
	}

	setAuthCookies(c, accessToken, refreshToken, now)

	return helpers.JsonOK(c, "Login berhasil", fiber.Map{
		"user":         buildLoginResponseUser(user, employee),
		"access_token": accessToken,
	})
}

// Insert refresh_token dengan latency lebih rendah.
// Aman untuk token (konsekuensi: kemungkinan kecil lose jika crash tepat sesudah commit).
func createRefreshTokenFast(db *gorm.DB, rt *authModel.RefreshTokenModel) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`SET LOCAL synchronous_commit = OFF`).Error; err != nil {
			log.Printf("[WARN] set synchronous_commit=OFF failed: %v", err)
		}
		return authRepo.CreateRefreshToken(tx, rt)
	})
}

func setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string, now time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
		Expires:  now.Add(accessTTLDefault),
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
		Expires:  now.Add(refreshTTLDefault),
	})
	// Double-submit CSRF: boleh dibaca JS, dikirim balik via header.
	c.Cookie(&fiber.Cookie{
		Name:     "csrf_token",
		Value:    uuid.NewString(),
		HTTPOnly: false,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
		Expires:  now.Add(refreshTTLDefault),
	})
}

/* ==========================
   LOGOUT
========================== */

// Logout mencabut jti access token sampai expiry alaminya lewat registry,
// menghapus refresh token, lalu membersihkan cookies. Idempotent: logout
// dobel atau tanpa token tetap 200.
func Logout(db *gorm.DB, reg *RevocationRegistry, c *fiber.Ctx) error {
	cookieAT := strings.TrimSpace(c.Cookies("access_token"))
	authHeader := strings.TrimSpace(c.Get("Authorization"))
	usesCookieAuth := cookieAT != "" && !strings.HasPrefix(authHeader, "Bearer ")

	if usesCookieAuth {
		if err := helpers.CheckCSRFCookieHeader(c); err != nil {
			return helpers.JsonError(c, fiber.StatusForbidden, err.Error())
		}
	}

	accessToken := helpers.GetRawAccessToken(c)
	if accessToken != "" {
		if jti, userID, exp, ok := parseRevocableClaims(accessToken); ok {
			if err := reg.Revoke(c.Context(), jti, userID, exp, "logout"); err != nil {
				log.Printf("[WARN] revoke jti saat logout gagal: %v", err)
			}
		}
	} else {
		log.Println("[INFO] Logout tanpa access token; lanjut clear cookies (idempotent)")
	}

	if rt := helpers.GetRefreshTokenFromCookie(c); rt != "" {
		if refreshSecret, err := getRefreshSecret(); err == nil {
			_ = authRepo.DeleteRefreshTokenByHash(db, computeRefreshHash(rt, refreshSecret))
		}
	}

	clearAuthCookies(c)
	return helpers.JsonOK(c, "Logout successful", nil)
}

func clearAuthCookies(c *fiber.Ctx) {
	expired := nowUTC().Add(-time.Hour)
	for _, name := range []string{"access_token", "refresh_token", "csrf_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			HTTPOnly: name != "csrf_token",
			Secure:   true,
			SameSite: "None",
			Path:     "/",
			Expires:  expired,
			MaxAge:   -1,
		})
	}
}

// parseRevocableClaims membaca jti, sub, exp dari access token untuk
// kebutuhan revoke. Signature tetap diverifikasi; validasi exp dilewati
// supaya logout dengan token kadaluarsa tidak meledak.
func parseRevocableClaims(raw string) (jti string, userID uuid.UUID, exp time.Time, ok bool) {
	secret, err := getJWTSecret()
	if err != nil {
		return "", uuid.Nil, time.Time{}, false
	}

	parser := jwt.Parser{SkipClaimsValidation: true}
	tok, err := parser.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, isHMAC := t.Method.(*jwt.SigningMethodHMAC); !isHMAC {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || tok == nil {
		return "", uuid.Nil, time.Time{}, false
	}
	claims, okClaims := tok.Claims.(jwt.MapClaims)
	if !okClaims {
		return "", uuid.Nil, time.Time{}, false
	}

	jti, _ = claims["id"].(string)
	if jti == "" {
		return "", uuid.Nil, time.Time{}, false
	}
	if sub, _ := claims["sub"].(string); sub != "" {
		userID, _ = uuid.Parse(sub)
	}
	if expFloat, okExp := claims["exp"].(float64); okExp {
		exp = time.Unix(int64(expFloat), 0).UTC()
	}
	return jti, userID, exp, true
}
