package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kantorku_backend/internals/apperr"
	"kantorku_backend/internals/features/home/quotes/model"
	"kantorku_backend/internals/helpers/timezone"
	jobModel "kantorku_backend/internals/scheduler/model"
)

// RotationJobName dipakai juga sebagai nama job di scheduler supaya cursor
// rotasi dan watermark job tinggal di satu baris job_states.
const RotationJobName = "daily_quote_rotation"

type QuoteService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewQuoteService(db *gorm.DB) *QuoteService {
	return &QuoteService{DB: db, Now: time.Now}
}

/* =========================================================
   ROTASI HARIAN
   ========================================================= */

// RotateDaily memasang satu kutipan untuk tanggal lokal hari ini. Idempotent:
// kalau tanggalnya sudah punya kutipan, baris lama yang dikembalikan. Pool
// kosong bukan error, job cukup lewat.
func (s *QuoteService) RotateDaily(ctx context.Context) (*model.DailyQuoteModel, error) {
	now := s.Now().UTC()
	today := timezone.Today(now)

	var existing model.DailyQuoteModel
	err := s.DB.WithContext(ctx).
		First(&existing, "daily_quote_date = ?", today).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var pool []model.QuoteModel
	if err := s.DB.WithContext(ctx).
		Where("is_published = ?", true).
		Order("display_order ASC, created_at ASC").
		Find(&pool).Error; err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		log.Println("[QUOTE] pool kutipan kosong, rotasi dilewati")
		return nil, nil
	}

	state := jobModel.JobStateModel{JobStateName: RotationJobName}
	if err := s.DB.WithContext(ctx).
		Where("job_state_name = ?", RotationJobName).
		FirstOrCreate(&state).Error; err != nil {
		return nil, err
	}

	pick := pool[int(state.JobStateCursor%int64(len(pool)))]
	row := model.DailyQuoteModel{
		DailyQuoteDate:    today,
		DailyQuoteQuoteID: pick.QuoteID,
	}
	res := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "daily_quote_date"}},
			DoNothing: true,
		}).
		Create(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Kalah balapan dengan instance lain; pakai baris pemenang.
		if err := s.DB.WithContext(ctx).
			First(&existing, "daily_quote_date = ?", today).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}

	// Cursor maju hanya waktu insert benar-benar terjadi, supaya rerun di
	// hari yang sama tidak melompati kutipan.
	if err := s.DB.WithContext(ctx).Model(&jobModel.JobStateModel{}).
		Where("job_state_name = ?", RotationJobName).
		UpdateColumn("job_state_cursor", gorm.Expr("job_state_cursor + 1")).Error; err != nil {
		log.Printf("[QUOTE] gagal memajukan cursor rotasi: %v", err)
	}
	return &row, nil
}

/* =========================================================
   PEMBACAAN
   ========================================================= */

type QuoteView struct {
	Date   string `json:"date"`
	Text   string `json:"text"`
	Author string `json:"author,omitempty"`
}

// TodayQuote mengembalikan kutipan hari ini, merotasi dulu kalau job harian
// belum sempat jalan (boot pertama, pool baru diisi).
func (s *QuoteService) TodayQuote(ctx context.Context) (*QuoteView, error) {
	daily, err := s.RotateDaily(ctx)
	if err != nil {
		return nil, err
	}
	if daily == nil {
		return nil, fmt.Errorf("belum ada kutipan untuk hari ini: %w", apperr.ErrNotFound)
	}

	var quote model.QuoteModel
	if err := s.DB.WithContext(ctx).
		First(&quote, "quote_id = ?", daily.DailyQuoteQuoteID).Error; err != nil {
		return nil, err
	}
	return &QuoteView{
		Date:   timezone.FormatDate(daily.DailyQuoteDate),
		Text:   quote.QuoteText,
		Author: quote.QuoteAuthor,
	}, nil
}
