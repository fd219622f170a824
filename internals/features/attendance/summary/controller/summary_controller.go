package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"kantorku_backend/internals/features/attendance/summary/service"
	helper "kantorku_backend/internals/helpers"
	"kantorku_backend/internals/helpers/timezone"
)

type SummaryController struct {
	Archive *service.ArchiveService
}

func NewSummaryController(archive *service.ArchiveService) *SummaryController {
	return &SummaryController{Archive: archive}
}

func employeeID(c *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := c.Locals("employee_id").(string)
	if !ok || strings.TrimSpace(raw) == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusForbidden, "Akun Anda tidak terhubung ke data karyawan")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusForbidden, "employee_id di token tidak valid")
	}
	return id, nil
}

// parseRange baca ?from=YYYY-MM-DD&to=YYYY-MM-DD; default 14 hari terakhir.
func parseRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	today := timezone.Today(time.Now())
	from := timezone.AddDays(today, -13)
	to := today

	if raw := strings.TrimSpace(c.Query("from")); raw != "" {
		parsed, err := timezone.ParseDate(raw)
		if err != nil {
			return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "from harus berformat YYYY-MM-DD")
		}
		from = parsed
	}
	if raw := strings.TrimSpace(c.Query("to")); raw != "" {
		parsed, err := timezone.ParseDate(raw)
		if err != nil {
			return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "to harus berformat YYYY-MM-DD")
		}
		to = parsed
	}
	return from, to, nil
}

// MySummary: rekap harian milik karyawan yang login, hot + cold digabung.
func (ctrl *SummaryController) MySummary(c *fiber.Ctx) error {
	empID, err := employeeID(c)
	if err != nil {
		return err
	}
	from, to, err := parseRange(c)
	if err != nil {
		return err
	}

	summary, err := ctrl.Archive.GetSummary(c.UserContext(), empID, from, to)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "ok", summary)
}

// EmployeeSummary: versi admin, karyawan dipilih lewat path param.
func (ctrl *SummaryController) EmployeeSummary(c *fiber.Ctx) error {
	empID, err := uuid.Parse(c.Params("employee_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "employee_id tidak valid")
	}
	from, to, err := parseRange(c)
	if err != nil {
		return err
	}

	summary, err := ctrl.Archive.GetSummary(c.UserContext(), empID, from, to)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "ok", summary)
}
