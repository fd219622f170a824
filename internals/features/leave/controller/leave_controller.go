package controller

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"kantorku_backend/internals/features/leave/dto"
	"kantorku_backend/internals/features/leave/service"
	helper "kantorku_backend/internals/helpers"
	"kantorku_backend/internals/helpers/timezone"
)

var validateLeave = validator.New()

type LeaveController struct {
	Leave *service.LeaveService
	Coins *service.LeaveCoinService
}

func NewLeaveController(leave *service.LeaveService, coins *service.LeaveCoinService) *LeaveController {
	return &LeaveController{Leave: leave, Coins: coins}
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

// =============================
// 📝 Pengajuan (sisi karyawan)
// =============================
func (ctrl *LeaveController) Request(c *fiber.Ctx) error {
	empID, err := employeeID(c)
	if err != nil {
		return err
	}

	var req dto.CreateLeaveRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateLeave.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	date, err := timezone.ParseDate(strings.TrimSpace(req.Date))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "date harus berformat YYYY-MM-DD")
	}

	created, err := ctrl.Leave.Request(c.UserContext(), empID, date, req.Type, req.Reason)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "Pengajuan cuti dibuat", dto.ToLeaveResponse(*created))
}

func (ctrl *LeaveController) Cancel(c *fiber.Ctx) error {
	empID, err := employeeID(c)
	if err != nil {
		return err
	}
	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id pengajuan tidak valid")
	}

	cancelled, err := ctrl.Leave.Cancel(c.UserContext(), requestID, empID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "Pengajuan cuti dibatalkan", dto.ToLeaveResponse(*cancelled))
}

func (ctrl *LeaveController) MyLeaves(c *fiber.Ctx) error {
	empID, err := employeeID(c)
	if err != nil {
		return err
	}

	limit, _ := strconv.Atoi(c.Query("limit", "30"))
	leaves, err := ctrl.Leave.ListByEmployee(c.UserContext(), empID, limit)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonList(c, "ok", dto.ToLeaveResponses(leaves), nil)
}

// Wallet: saldo koin + expiry terdekat + jurnal terakhir.
func (ctrl *LeaveController) Wallet(c *fiber.Ctx) error {
	empID, err := employeeID(c)
	if err != nil {
		return err
	}

	wallet, err := ctrl.Coins.Wallet(c.UserContext(), empID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "ok", wallet)
}

// =============================
// ✅ Keputusan (sisi admin)
// =============================
func (ctrl *LeaveController) Pending(c *fiber.Ctx) error {
	pending, err := ctrl.Leave.ListPending(c.UserContext())
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonList(c, "ok", dto.ToLeaveResponses(pending), nil)
}

func (ctrl *LeaveController) Approve(c *fiber.Ctx) error {
	adminID, ok := helper.GetUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID in context")
	}
	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id pengajuan tidak valid")
	}

	var req dto.DecideLeaveRequest
	// body kosong sah, note opsional
	_ = c.BodyParser(&req)
	if err := validateLeave.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	approved, err := ctrl.Leave.Approve(c.UserContext(), requestID, adminID, req.Note)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "Pengajuan cuti disetujui", dto.ToLeaveResponse(*approved))
}

func (ctrl *LeaveController) Reject(c *fiber.Ctx) error {
	adminID, ok := helper.GetUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID in context")
	}
	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id pengajuan tidak valid")
	}

	var req dto.DecideLeaveRequest
	_ = c.BodyParser(&req)
	if err := validateLeave.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	rejected, err := ctrl.Leave.Reject(c.UserContext(), requestID, adminID, req.Note)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "Pengajuan cuti ditolak", dto.ToLeaveResponse(*rejected))
}
