// internal/model/clinic.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Doctor is the legacy owner of clinics created before organizations existed.
type Doctor struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerUserID uuid.UUID `gorm:"type:uuid;not null" json:"owner_user_id"`
	FullName    string    `gorm:"type:text;not null" json:"full_name"`
	DisplayName string    `gorm:"type:text" json:"display_name"`
	Department  string    `gorm:"type:text" json:"department"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Doctor) TableName() string {
	return "doctors"
}

type Clinic struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OrgID     *uuid.UUID `gorm:"type:uuid" json:"org_id,omitempty"`
	DoctorID  *uuid.UUID `gorm:"type:uuid" json:"doctor_id,omitempty"`
	Name      string     `gorm:"type:text;not null" json:"name"`
	Country   string     `gorm:"type:text" json:"country"`
	City      string     `gorm:"type:text" json:"city"`
	Address   string     `gorm:"type:text" json:"address"`
	Phone     string     `gorm:"type:text" json:"phone"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Clinic) TableName() string {
	return "clinics"
}

type ClinicRole string

// ClinicRoleReception is the only role granted by staff provisioning.
const ClinicRoleReception ClinicRole = "reception"

// ClinicStaff grants a user access to a single clinic.
type ClinicStaff struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ClinicID    uuid.UUID  `gorm:"type:uuid;not null" json:"clinic_id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null" json:"user_id"`
	Role        ClinicRole `gorm:"type:text;not null" json:"role"`
	OrgMemberID *uuid.UUID `gorm:"type:uuid" json:"org_member_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (ClinicStaff) TableName() string {
	return "clinic_staff"
}

func (cs *ClinicStaff) BeforeCreate(tx *gorm.DB) error {
	if cs.ID == uuid.Nil {
		cs.ID = uuid.New()
	}
	return nil
}
