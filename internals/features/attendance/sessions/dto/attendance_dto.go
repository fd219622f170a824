package dto

import (
	"time"

	"github.com/google/uuid"

	"kantorku_backend/internals/features/attendance/sessions/model"
)

/* =========================================================
   RESPONSE
   ========================================================= */

type SessionResponse struct {
	SessionID    uuid.UUID  `json:"session_id"`
	ClockIn      time.Time  `json:"clock_in"`
	ClockOut     *time.Time `json:"clock_out,omitempty"`
	WorkSeconds  int64      `json:"work_seconds"`
	BreakSeconds int64      `json:"break_seconds"`
}

func ToSessionResponse(m model.WorkSessionModel) SessionResponse {
	return SessionResponse{
		SessionID:    m.WorkSessionID,
		ClockIn:      m.WorkSessionClockIn,
		ClockOut:     m.WorkSessionClockOut,
		WorkSeconds:  m.WorkSessionWorkSeconds,
		BreakSeconds: m.WorkSessionBreakSeconds,
	}
}

func ToSessionResponses(ms []model.WorkSessionModel) []SessionResponse {
	out := make([]SessionResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, ToSessionResponse(m))
	}
	return out
}

type BreakResponse struct {
	BreakID uuid.UUID  `json:"break_id"`
	Start   time.Time  `json:"start"`
	End     *time.Time `json:"end,omitempty"`
}

func ToBreakResponse(m model.BreakIntervalModel) BreakResponse {
	return BreakResponse{
		BreakID: m.BreakIntervalID,
		Start:   m.BreakIntervalStart,
		End:     m.BreakIntervalEnd,
	}
}
