package scans

import (
	"time"

	"github.com/google/uuid"
)

type ScanStatus string

const (
	ScanStatusPending    ScanStatus = "PENDING"
	ScanStatusProcessing ScanStatus = "PROCESSING"
	ScanStatusCompleted  ScanStatus = "COMPLETED"
	ScanStatusFailed     ScanStatus = "FAILED"
)

// Scan is one uploaded capture. Metrics are set if and only if Status is COMPLETED.
type Scan struct {
	ID     uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID  `gorm:"type:uuid;not null;index:idx_scan_user_captured,priority:1" json:"user_id"`
	Status ScanStatus `gorm:"column:status;type:text;not null;index" json:"status"`

	JawlineAngle   *float64 `gorm:"column:jawline_angle" json:"jawline_angle,omitempty"`
	SymmetryScore  *float64 `gorm:"column:symmetry_score" json:"symmetry_score,omitempty"`
	PuffinessIndex *float64 `gorm:"column:puffiness_index" json:"puffiness_index,omitempty"`

	// Capture signals, kept for diagnostics on rejected scans.
	Brightness *float64 `gorm:"column:brightness" json:"brightness,omitempty"`
	Sharpness  *float64 `gorm:"column:sharpness" json:"sharpness,omitempty"`

	FailureReason  string `gorm:"column:failure_reason;type:text" json:"failure_reason,omitempty"`
	FailureMessage string `gorm:"column:failure_message;type:text" json:"failure_message,omitempty"`
	ImageKey       string `gorm:"column:image_key;type:text" json:"image_key,omitempty"`

	CapturedAt time.Time `gorm:"column:captured_at;not null;index:idx_scan_user_captured,priority:2" json:"captured_at"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (Scan) TableName() string { return "scan" }

func (s *Scan) HasMetrics() bool {
	return s != nil && s.JawlineAngle != nil && s.SymmetryScore != nil && s.PuffinessIndex != nil
}
