package configs

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

// Default di deklarasi supaya package yang baca sebelum LoadEnv (termasuk
// test) tetap dapat nilai waras; LoadEnv menimpa dari environment.
var (
	JWTSecret        string
	JWTRefreshSecret string

	// Zona kalender perusahaan. Semua batas hari (rollover, apportionment,
	// arsip) dihitung di zona ini, bukan UTC.
	CompanyTimezone = "Asia/Kolkata"

	// Ambang kerja penuh per hari (jam) untuk status complete/partial.
	FullDayHours = 8

	// Retensi tier panas/dingin (hari).
	HotRetentionDays  = 30
	ColdRetentionDays = 365

	// Interval sweep token_blacklist.
	BlacklistSweepMinutes = 5
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			log.Println("✅ .env file berhasil dimuat!")
		}
	} else {
		log.Println("🚀 Running in Railway, menggunakan ENV dari sistem")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	JWTRefreshSecret = GetEnv("JWT_REFRESH_SECRET")
	CompanyTimezone = GetEnv("COMPANY_TIMEZONE", "Asia/Kolkata")
	FullDayHours = GetEnvInt("ATTENDANCE_FULL_DAY_HOURS", 8)
	HotRetentionDays = GetEnvInt("ATTENDANCE_HOT_RETENTION_DAYS", 30)
	ColdRetentionDays = GetEnvInt("ATTENDANCE_COLD_RETENTION_DAYS", 365)
	BlacklistSweepMinutes = GetEnvInt("TOKEN_BLACKLIST_SWEEP_MINUTES", 5)

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET belum diset!")
	} else {
		log.Println("✅ JWT_SECRET berhasil dimuat.")
	}

	if JWTRefreshSecret == "" {
		log.Println("❌ JWT_REFRESH_SECRET belum diset!")
	} else {
		log.Println("✅ JWT_REFRESH_SECRET berhasil dimuat.")
	}

	log.Printf("✅ Company timezone: %s | full day: %dh | retention: hot %dd / cold %dd",
		CompanyTimezone, FullDayHours, HotRetentionDays, ColdRetentionDays)
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
		log.Printf("⚠️ %s bukan angka, pakai default %d", key, defaultValue)
	}
	return defaultValue
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      gormLogger.Warn,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	l.LogLevel = level
	return l
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[INFO] "+msg, data...)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[WARN] "+msg, data...)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[ERROR] "+msg, data...)
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	if err != nil {
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	} else if elapsed > l.SlowThreshold {
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}
