package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kantorku_backend/internals/apperr"
	sessionModel "kantorku_backend/internals/features/attendance/sessions/model"
	summaryModel "kantorku_backend/internals/features/attendance/summary/model"
	userModel "kantorku_backend/internals/features/users/user/model"
	"kantorku_backend/internals/helpers/timezone"
)

/* =========================================================
   SESSION LEDGER
   =========================================================
   Sumber kebenaran clock-in/clock-out. Invariant: maksimal satu sesi
   terbuka per karyawan; clock_out >= clock_in. Setiap tulis sesi memicu
   recompute summary untuk tanggal lokal yang tersentuh (sesi lintas
   midnight menyentuh dua tanggal).
*/

// Recomputer dipenuhi oleh aggregation service; interface supaya ledger
// bisa dites tanpa menarik seluruh aggregator.
type Recomputer interface {
	Recompute(ctx context.Context, employeeID uuid.UUID, date time.Time) error
}

type SessionService struct {
	DB  *gorm.DB
	Agg Recomputer
	Now func() time.Time
}

func NewSessionService(db *gorm.DB, agg Recomputer) *SessionService {
	return &SessionService{DB: db, Agg: agg, Now: time.Now}
}

/* =========================================================
   CLOCK IN / CLOCK OUT
   ========================================================= */

// ClockIn membuka sesi kerja baru. Conflict kalau masih ada sesi terbuka;
// sesi lama tidak disentuh.
func (s *SessionService) ClockIn(ctx context.Context, employeeID uuid.UUID, at time.Time) (*sessionModel.WorkSessionModel, error) {
	at = at.UTC()

	if err := s.ensureEmployeeActive(ctx, employeeID); err != nil {
		return nil, err
	}

	var session sessionModel.WorkSessionModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var open sessionModel.WorkSessionModel
		err := tx.Where("work_session_employee_id = ? AND work_session_clock_out IS NULL", employeeID).
			First(&open).Error
		if err == nil {
			return fmt.Errorf("already clocked in since %s: %w",
				open.WorkSessionClockIn.In(timezone.Location()).Format("15:04"), apperr.ErrConflict)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		session = sessionModel.WorkSessionModel{
			WorkSessionEmployeeID: employeeID,
			WorkSessionClockIn:    at,
		}
		return tx.Create(&session).Error
	})
	if err != nil {
		return nil, err
	}

	// Row summary untuk tanggal ini dibuat lazy di tulisan sesi pertama.
	s.notifyRecompute(ctx, employeeID, timezone.DateOf(at))
	return &session, nil
}

// ClockOut menutup sesi terbuka. Break yang masih menggantung ikut
// ditutup di at. Net work = gross span - total break.
func (s *SessionService) ClockOut(ctx context.Context, employeeID uuid.UUID, at time.Time) (*sessionModel.WorkSessionModel, error) {
	at = at.UTC()

	var session sessionModel.WorkSessionModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("work_session_employee_id = ? AND work_session_clock_out IS NULL", employeeID).
			First(&session).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("no open session to clock out: %w", apperr.ErrNotFound)
		}
		if err != nil {
			return err
		}
		if at.Before(session.WorkSessionClockIn) {
			return fmt.Errorf("clock-out %s precedes clock-in %s: %w",
				at.Format(time.RFC3339), session.WorkSessionClockIn.Format(time.RFC3339), apperr.ErrInvalidRange)
		}

		// Tutup break menggantung; end tidak boleh sebelum start-nya.
		var openBreak sessionModel.BreakIntervalModel
		err = tx.Where("break_interval_session_id = ? AND break_interval_end IS NULL", session.WorkSessionID).
			First(&openBreak).Error
		if err == nil {
			end := at
			if end.Before(openBreak.BreakIntervalStart) {
				end = openBreak.BreakIntervalStart
			}
			if err := tx.Model(&openBreak).Update("break_interval_end", end).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		breakSeconds, err := sumBreakSeconds(tx, session.WorkSessionID)
		if err != nil {
			return err
		}

		gross := int64(at.Sub(session.WorkSessionClockIn) / time.Second)
		net := gross - breakSeconds
		if net < 0 {
			net = 0
		}

		session.WorkSessionClockOut = &at
		session.WorkSessionWorkSeconds = net
		session.WorkSessionBreakSeconds = breakSeconds
		return tx.Model(&session).Updates(map[string]any{
			"work_session_clock_out":     at,
			"work_session_work_seconds":  net,
			"work_session_break_seconds": breakSeconds,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	// Sesi lintas midnight menyentuh dua tanggal; dua-duanya di-recompute.
	for _, span := range timezone.SplitByLocalDay(session.WorkSessionClockIn, at) {
		s.notifyRecompute(ctx, employeeID, span.Date)
	}
	return &session, nil
}

/* =========================================================
   BREAK START / STOP
   ========================================================= */

func (s *SessionService) StartBreak(ctx context.Context, employeeID uuid.UUID, at time.Time) (*sessionModel.BreakIntervalModel, error) {
	at = at.UTC()

	var brk sessionModel.BreakIntervalModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, err := findOpenSession(tx, employeeID)
		if err != nil {
			return err
		}
		if at.Before(session.WorkSessionClockIn) {
			return fmt.Errorf("break start precedes clock-in: %w", apperr.ErrInvalidRange)
		}

		var open sessionModel.BreakIntervalModel
		err = tx.Where("break_interval_session_id = ? AND break_interval_end IS NULL", session.WorkSessionID).
			First(&open).Error
		if err == nil {
			return fmt.Errorf("break already running: %w", apperr.ErrConflict)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		brk = sessionModel.BreakIntervalModel{
			BreakIntervalSessionID: session.WorkSessionID,
			BreakIntervalStart:     at,
		}
		return tx.Create(&brk).Error
	})
	if err != nil {
		return nil, err
	}
	return &brk, nil
}

func (s *SessionService) StopBreak(ctx context.Context, employeeID uuid.UUID, at time.Time) (*sessionModel.BreakIntervalModel, error) {
	at = at.UTC()

	var brk sessionModel.BreakIntervalModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, err := findOpenSession(tx, employeeID)
		if err != nil {
			return err
		}

		err = tx.Where("break_interval_session_id = ? AND break_interval_end IS NULL", session.WorkSessionID).
			First(&brk).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("no break running: %w", apperr.ErrNotFound)
		}
		if err != nil {
			return err
		}
		if at.Before(brk.BreakIntervalStart) {
			return fmt.Errorf("break end precedes its start: %w", apperr.ErrInvalidRange)
		}

		brk.BreakIntervalEnd = &at
		return tx.Model(&brk).Update("break_interval_end", at).Error
	})
	if err != nil {
		return nil, err
	}
	return &brk, nil
}

/* =========================================================
   READ SIDE (state, history, realtime)
   ========================================================= */

type SessionState struct {
	OpenSession      *sessionModel.WorkSessionModel   `json:"open_session,omitempty"`
	OpenBreak        *sessionModel.BreakIntervalModel `json:"open_break,omitempty"`
	OnBreak          bool                             `json:"on_break"`
	TodayWorkSeconds int64                            `json:"today_work_seconds"`
}

// State snapshot kondisi karyawan sekarang: sesi terbuka, break terbuka,
// dan total kerja hari ini (baris summary + elapsed sesi live).
func (s *SessionService) State(ctx context.Context, employeeID uuid.UUID) (*SessionState, error) {
	now := s.Now().UTC()
	out := &SessionState{}

	var open sessionModel.WorkSessionModel
	err := s.DB.WithContext(ctx).
		Where("work_session_employee_id = ? AND work_session_clock_out IS NULL", employeeID).
		First(&open).Error
	if err == nil {
		out.OpenSession = &open

		var openBreak sessionModel.BreakIntervalModel
		berr := s.DB.WithContext(ctx).
			Where("break_interval_session_id = ? AND break_interval_end IS NULL", open.WorkSessionID).
			First(&openBreak).Error
		if berr == nil {
			out.OpenBreak = &openBreak
			out.OnBreak = true
		} else if !errors.Is(berr, gorm.ErrRecordNotFound) {
			return nil, berr
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	today := timezone.Today(now)
	var daily summaryModel.DailyAttendanceModel
	err = s.DB.WithContext(ctx).
		Where("daily_attendance_employee_id = ? AND daily_attendance_date = ?", employeeID, today).
		First(&daily).Error
	if err == nil {
		out.TodayWorkSeconds = daily.DailyAttendanceTotalWorkSeconds
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if out.OpenSession != nil {
		out.TodayWorkSeconds += s.liveSeconds(ctx, out.OpenSession, out.OpenBreak, now, today)
	}
	return out, nil
}

// liveSeconds: porsi sesi terbuka yang jatuh di hari ini, dikurangi break.
func (s *SessionService) liveSeconds(ctx context.Context, open *sessionModel.WorkSessionModel, openBreak *sessionModel.BreakIntervalModel, now, today time.Time) int64 {
	live := timezone.OverlapSeconds(today, open.WorkSessionClockIn, now)

	var breaks []sessionModel.BreakIntervalModel
	if err := s.DB.WithContext(ctx).
		Where("break_interval_session_id = ?", open.WorkSessionID).
		Find(&breaks).Error; err != nil {
		log.Printf("[LEDGER] gagal baca breaks utk live state: %v", err)
		return live
	}
	for _, b := range breaks {
		end := now
		if b.BreakIntervalEnd != nil {
			end = *b.BreakIntervalEnd
		}
		live -= timezone.OverlapSeconds(today, b.BreakIntervalStart, end)
	}
	if live < 0 {
		live = 0
	}
	return live
}

// SessionsLastDays: riwayat sesi beberapa hari terakhir, terbaru dulu.
func (s *SessionService) SessionsLastDays(ctx context.Context, employeeID uuid.UUID, days int) ([]sessionModel.WorkSessionModel, error) {
	if days <= 0 {
		days = 7
	}
	since := s.Now().UTC().AddDate(0, 0, -days)
	var sessions []sessionModel.WorkSessionModel
	err := s.DB.WithContext(ctx).
		Where("work_session_employee_id = ? AND work_session_clock_in >= ?", employeeID, since).
		Order("work_session_clock_in DESC").
		Find(&sessions).Error
	return sessions, err
}

type OpenSessionView struct {
	WorkSessionID    uuid.UUID `json:"work_session_id" gorm:"column:work_session_id"`
	EmployeeID       uuid.UUID `json:"employee_id" gorm:"column:work_session_employee_id"`
	EmployeeFullName string    `json:"employee_full_name" gorm:"column:employee_full_name"`
	ClockIn          time.Time `json:"clock_in" gorm:"column:work_session_clock_in"`
}

type RealtimeSnapshot struct {
	OpenSessions   []OpenSessionView                   `json:"open_sessions"`
	TodaySummaries []summaryModel.DailyAttendanceModel `json:"today_summaries"`
}

// Realtime: view admin — semua sesi terbuka + summary hari berjalan.
func (s *SessionService) Realtime(ctx context.Context) (*RealtimeSnapshot, error) {
	snap := &RealtimeSnapshot{}

	err := s.DB.WithContext(ctx).
		Table("work_sessions").
		Select("work_sessions.work_session_id, work_sessions.work_session_employee_id, employees.employee_full_name, work_sessions.work_session_clock_in").
		Joins("JOIN employees ON employees.employee_id = work_sessions.work_session_employee_id").
		Where("work_sessions.work_session_clock_out IS NULL").
		Order("work_sessions.work_session_clock_in ASC").
		Scan(&snap.OpenSessions).Error
	if err != nil {
		return nil, err
	}

	today := timezone.Today(s.Now().UTC())
	err = s.DB.WithContext(ctx).
		Where("daily_attendance_date = ?", today).
		Order("daily_attendance_employee_id").
		Find(&snap.TodaySummaries).Error
	if err != nil {
		return nil, err
	}
	return snap, nil
}

/* =========================================================
   INTERNAL
   ========================================================= */

func (s *SessionService) ensureEmployeeActive(ctx context.Context, employeeID uuid.UUID) error {
	var emp userModel.EmployeeModel
	err := s.DB.WithContext(ctx).
		Select("employee_id", "employee_is_active").
		Where("employee_id = ?", employeeID).
		First(&emp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("employee %s: %w", employeeID, apperr.ErrNotFound)
	}
	if err != nil {
		return err
	}
	if !emp.EmployeeIsActive {
		return fmt.Errorf("employee inactive: %w", apperr.ErrForbidden)
	}
	return nil
}

func (s *SessionService) notifyRecompute(ctx context.Context, employeeID uuid.UUID, date time.Time) {
	if s.Agg == nil {
		return
	}
	if err := s.Agg.Recompute(ctx, employeeID, date); err != nil {
		// Clock-in/out sudah commit; summary basi akan dibereskan recompute
		// berikutnya atau rollover harian.
		log.Printf("[LEDGER] recompute %s %s gagal: %v", employeeID, timezone.FormatDate(date), err)
	}
}

func findOpenSession(tx *gorm.DB, employeeID uuid.UUID) (*sessionModel.WorkSessionModel, error) {
	var session sessionModel.WorkSessionModel
	err := tx.Where("work_session_employee_id = ? AND work_session_clock_out IS NULL", employeeID).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("no open session: %w", apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func sumBreakSeconds(tx *gorm.DB, sessionID uuid.UUID) (int64, error) {
	var breaks []sessionModel.BreakIntervalModel
	if err := tx.Where("break_interval_session_id = ? AND break_interval_end IS NOT NULL", sessionID).
		Find(&breaks).Error; err != nil {
		return 0, err
	}
	var total int64
	for _, b := range breaks {
		total += int64(b.BreakIntervalEnd.Sub(b.BreakIntervalStart) / time.Second)
	}
	return total, nil
}
