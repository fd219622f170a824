package model

import (
	"time"

	"gorm.io/datatypes"
)

// JobStateModel: state persisted per job background. LastSuccessAt adalah
// watermark untuk catch-up setelah restart; Cursor dipakai job yang butuh
// posisi rotasi (mis. rotasi quote harian).
type JobStateModel struct {
	JobStateName          string            `gorm:"column:job_state_name;size:60;primaryKey" json:"job_state_name"`
	JobStateLastRunAt     *time.Time        `gorm:"column:job_state_last_run_at;type:timestamptz" json:"job_state_last_run_at,omitempty"`
	JobStateLastSuccessAt *time.Time        `gorm:"column:job_state_last_success_at;type:timestamptz" json:"job_state_last_success_at,omitempty"`
	JobStateLastError     string            `gorm:"column:job_state_last_error;type:text" json:"job_state_last_error,omitempty"`
	JobStateLastStats     datatypes.JSONMap `gorm:"column:job_state_last_stats;type:jsonb" json:"job_state_last_stats,omitempty"`
	JobStateCursor        int64             `gorm:"column:job_state_cursor;not null;default:0" json:"job_state_cursor"`
	UpdatedAt             time.Time         `gorm:"column:updated_at;type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (JobStateModel) TableName() string {
	return "job_states"
}
