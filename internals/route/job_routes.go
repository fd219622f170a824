// file: internals/route/job_routes.go
package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	helper "kantorku_backend/internals/helpers"
	"kantorku_backend/internals/scheduler"
	jobModel "kantorku_backend/internals/scheduler/model"
)

// JobRoutes mendaftarkan endpoint operasional job background untuk admin.
// Base: /api/a/jobs
func JobRoutes(admin fiber.Router, db *gorm.DB, runner *scheduler.Runner) {
	jobs := admin.Group("/jobs")

	// 📋 Daftar job + watermark & stats terakhir, langsung dari job_states.
	jobs.Get("/", func(c *fiber.Ctx) error {
		var states []jobModel.JobStateModel
		if err := db.WithContext(c.UserContext()).
			Order("job_state_name ASC").
			Find(&states).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil daftar job")
		}
		return helper.JsonOK(c, "ok", fiber.Map{"jobs": states})
	})

	// ▶️ Paksa satu job jalan sekarang, tanpa menunggu jadwal.
	jobs.Post("/:name/run", func(c *fiber.Ctx) error {
		name := c.Params("name")
		if err := runner.RunNow(c.UserContext(), name); err != nil {
			if errors.Is(err, scheduler.ErrJobBusy) {
				return helper.JsonError(c, fiber.StatusConflict, "Job sedang berjalan, coba lagi nanti")
			}
			return helper.JsonError(c, fiber.StatusNotFound, err.Error())
		}
		return helper.JsonOK(c, "Job selesai dijalankan", fiber.Map{"job": name})
	})
}
