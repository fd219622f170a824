package controller

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"kantorku_backend/internals/features/attendance/sessions/dto"
	"kantorku_backend/internals/features/attendance/sessions/service"
	helper "kantorku_backend/internals/helpers"
)

type AttendanceController struct {
	Ledger *service.SessionService
}

func NewAttendanceController(ledger *service.SessionService) *AttendanceController {
	return &AttendanceController{Ledger: ledger}
}

// employeeID baca locals "employee_id" yang diisi auth middleware dari
// klaim token. User tanpa baris employee (admin murni) ditolak di sini.
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

// =============================
// ⏱ Clock In
// =============================
func (ctrl *AttendanceController) ClockIn(c *fiber.Ctx) error {
	empID, err := employeeID(c)
	if err != nil {
		return err
	}

	session, err := ctrl.Ledger.ClockIn(c.UserContext(), empID, time.Now().UTC())
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "Clock-in berhasil", dto.ToSessionResponse(*session))
}

// =============================
// ⏱ Clock Out
// =============================
func (ctrl *AttendanceController) ClockOut(c *fiber.Ctx) error {
	empID, err := employeeID(c)
	if err != nil {
		return err
	}

	session, err := ctrl.Ledger.ClockOut(c.UserContext(), empID, time.Now().UTC())
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "Clock-out berhasil", dto.ToSessionResponse(*session))
}

// =============================
// ☕ Break
// =============================
func (ctrl *AttendanceController) StartBreak(c *fiber.Ctx) error {
	empID, err := employeeID(c)
	if err != nil {
		return err
	}

	brk, err := ctrl.Ledger.StartBreak(c.UserContext(), empID, time.Now().UTC())
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "Break dimulai", dto.ToBreakResponse(*brk))
}

func (ctrl *AttendanceController) StopBreak(c *fiber.Ctx) error {
	empID, err := employeeID(c)
	if err != nil {
		return err
	}

	brk, err := ctrl.Ledger.StopBreak(c.UserContext(), empID, time.Now().UTC())
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "Break selesai", dto.ToBreakResponse(*brk))
}

// =============================
// 📊 State & riwayat
// =============================
func (ctrl *AttendanceController) State(c *fiber.Ctx) error {
	empID, err := employeeID(c)
	if err != nil {
		return err
	}

	state, err := ctrl.Ledger.State(c.UserContext(), empID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "ok", state)
}

func (ctrl *AttendanceController) Sessions(c *fiber.Ctx) error {
	empID, err := employeeID(c)
	if err != nil {
		return err
	}

	days, _ := strconv.Atoi(c.Query("days", "7"))
	if days < 1 {
		days = 7
	}
	if days > 31 {
		days = 31
	}

	sessions, err := ctrl.Ledger.SessionsLastDays(c.UserContext(), empID, days)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonList(c, "ok", dto.ToSessionResponses(sessions), nil)
}

// Realtime: papan pantau admin, siapa yang sedang di kantor sekarang.
func (ctrl *AttendanceController) Realtime(c *fiber.Ctx) error {
	snapshot, err := ctrl.Ledger.Realtime(c.UserContext())
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "ok", snapshot)
}
