package controller

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"kantorku_backend/internals/features/home/quotes/dto"
	"kantorku_backend/internals/features/home/quotes/model"
	"kantorku_backend/internals/features/home/quotes/service"
	helper "kantorku_backend/internals/helpers"
)

var validateQuote = validator.New()

type QuoteController struct {
	DB     *gorm.DB
	Quotes *service.QuoteService
}

func NewQuoteController(db *gorm.DB, quotes *service.QuoteService) *QuoteController {
	return &QuoteController{DB: db, Quotes: quotes}
}

// =============================
// 🌅 Quote hari ini (user)
// =============================
func (ctrl *QuoteController) TodayQuote(c *fiber.Ctx) error {
	view, err := ctrl.Quotes.TodayQuote(c.UserContext())
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "ok", view)
}

// =============================
// ➕ Create Quote (admin)
// =============================
func (ctrl *QuoteController) CreateQuote(c *fiber.Ctx) error {
	var req dto.CreateQuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateQuote.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	// Cari DisplayOrder tertinggi
	var maxOrder int
	if err := ctrl.DB.Model(&model.QuoteModel{}).Select("COALESCE(MAX(display_order), 0)").Scan(&maxOrder).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to get max display order")
	}

	quote := req.ToModel()
	quote.DisplayOrder = maxOrder + 1

	if err := ctrl.DB.Create(quote).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create quote")
	}

	return helper.JsonCreated(c, "Quote dibuat", dto.ToQuoteDTO(*quote))
}

// =============================
// ➕ Create Multiple Quotes (admin)
// =============================
func (ctrl *QuoteController) CreateQuotes(c *fiber.Ctx) error {
	var reqs []dto.CreateQuoteRequest
	if err := c.BodyParser(&reqs); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	// Validasi setiap item
	for i, req := range reqs {
		if err := validateQuote.Struct(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Error in item "+fmt.Sprint(i+1)+": "+err.Error())
		}
	}

	var maxOrder int
	if err := ctrl.DB.Model(&model.QuoteModel{}).Select("COALESCE(MAX(display_order), 0)").Scan(&maxOrder).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to get max display order")
	}

	quotes := make([]model.QuoteModel, 0, len(reqs))
	for i, req := range reqs {
		quote := req.ToModel()
		quote.DisplayOrder = maxOrder + i + 1
		quotes = append(quotes, *quote)
	}

	if err := ctrl.DB.Create(&quotes).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create quotes")
	}

	return helper.JsonCreated(c, "Quotes dibuat", dto.ToQuoteDTOs(quotes))
}

// =============================
// 📃 List & hapus (admin)
// =============================
func (ctrl *QuoteController) ListQuotes(c *fiber.Ctx) error {
	pg := helper.ResolvePaging(c, 25, 200)

	var total int64
	if err := ctrl.DB.Model(&model.QuoteModel{}).Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch quotes")
	}

	var quotes []model.QuoteModel
	if err := ctrl.DB.Order("display_order ASC").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&quotes).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch quotes")
	}

	pagination := helper.BuildPagination(total, pg.Page, pg.PerPage)
	return helper.JsonList(c, "ok", dto.ToQuoteDTOs(quotes), &pagination)
}

func (ctrl *QuoteController) DeleteQuote(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id quote tidak valid")
	}

	res := ctrl.DB.Delete(&model.QuoteModel{}, "quote_id = ?", id)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete quote")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Quote tidak ditemukan")
	}
	return helper.JsonDeleted(c, "Quote dihapus", fiber.Map{"quote_id": id})
}
