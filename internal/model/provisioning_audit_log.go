package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProvisioningAuditLog records one staff provisioning attempt and how far it got.
type ProvisioningAuditLog struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	AttemptID    string     `json:"attempt_id"`
	Timestamp    time.Time  `json:"timestamp"`
	CallerID     string     `json:"caller_id"`
	OrgID        string     `json:"org_id"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	ClinicIDs    StringList `json:"clinic_ids" gorm:"type:jsonb"`
	Stage        string     `json:"stage"`
	Outcome      string     `json:"outcome"`
	ErrorKind    string     `json:"error_kind,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	NewUserID    string     `json:"new_user_id,omitempty"`
	Compensated  bool       `json:"compensated"`
	RequestID    string     `json:"request_id,omitempty"`
	ClientIP     string     `json:"client_ip,omitempty"`
	UserAgent    string     `json:"user_agent,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// TableName specifies the table name for ProvisioningAuditLog
func (ProvisioningAuditLog) TableName() string {
	return "staff_provisioning_audit_logs"
}

func (l *ProvisioningAuditLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now().UTC()
	}
	return nil
}

const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)
