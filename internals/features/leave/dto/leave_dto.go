package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"kantorku_backend/internals/features/leave/model"
	"kantorku_backend/internals/helpers/timezone"
)

/* =========================================================
   REQUEST
   ========================================================= */

type CreateLeaveRequest struct {
	Date   string `json:"date" validate:"required"`
	Type   string `json:"type" validate:"omitempty,max=30"`
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type DecideLeaveRequest struct {
	Note string `json:"note" validate:"omitempty,max=255"`
}

/* =========================================================
   RESPONSE
   ========================================================= */

type LeaveResponse struct {
	LeaveID      uuid.UUID         `json:"leave_id"`
	EmployeeID   uuid.UUID         `json:"employee_id"`
	Date         string            `json:"date"`
	Type         string            `json:"type"`
	Reason       string            `json:"reason,omitempty"`
	Status       string            `json:"status"`
	DecisionMeta datatypes.JSONMap `json:"decision_meta,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

func ToLeaveResponse(m model.LeaveRequestModel) LeaveResponse {
	return LeaveResponse{
		LeaveID:      m.LeaveRequestID,
		EmployeeID:   m.LeaveRequestEmployeeID,
		Date:         timezone.FormatDate(m.LeaveRequestDate),
		Type:         m.LeaveRequestType,
		Reason:       m.LeaveRequestReason,
		Status:       string(m.LeaveRequestStatus),
		DecisionMeta: m.LeaveRequestDecisionMeta,
		CreatedAt:    m.CreatedAt,
	}
}

func ToLeaveResponses(ms []model.LeaveRequestModel) []LeaveResponse {
	out := make([]LeaveResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, ToLeaveResponse(m))
	}
	return out
}
