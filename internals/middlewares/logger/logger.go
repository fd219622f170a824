package logger

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"kantorku_backend/internals/configs"
)

// LoggerMiddleware untuk mencatat semua request. Timestamp pakai zona
// perusahaan supaya nyambung dengan batas hari absensi di log lain.
func LoggerMiddleware() fiber.Handler {
	return logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   configs.CompanyTimezone,
		Format:     "[${time}] ${ip} - ${method} ${path} - ${status} - ${latency}\n",
	})
}
