// internal/model/organization.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrgRole string

const (
	OrgRoleOwner OrgRole = "owner"
	OrgRoleAdmin OrgRole = "admin"
	OrgRoleStaff OrgRole = "staff"
)

// PrivilegedOrgRoles may invite other staff into an organization.
var PrivilegedOrgRoles = []OrgRole{OrgRoleAdmin, OrgRoleOwner}

var orgRoleRank = map[OrgRole]int{
	OrgRoleStaff: 1,
	OrgRoleAdmin: 2,
	OrgRoleOwner: 3,
}

// Covers reports whether a holder of r may grant other. Unknown roles cover nothing.
func (r OrgRole) Covers(other OrgRole) bool {
	rank, ok := orgRoleRank[r]
	return ok && rank >= orgRoleRank[other] && orgRoleRank[other] > 0
}

type Organization struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"type:text;not null;default:''" json:"name"`
	OwnerUserID uuid.UUID `gorm:"type:uuid;not null" json:"owner_user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Organization) TableName() string {
	return "orgs"
}

// OwnedBy reports whether userID is the organization's recorded owner.
func (o *Organization) OwnedBy(userID uuid.UUID) bool {
	return o != nil && o.OwnerUserID != uuid.Nil && o.OwnerUserID == userID
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

type OrgMember struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrgID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:org_members_org_id_user_id_key" json:"org_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:org_members_org_id_user_id_key" json:"user_id"`
	Role      OrgRole   `gorm:"type:text;not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (OrgMember) TableName() string {
	return "org_members"
}

func (m *OrgMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// IsPrivileged reports whether the membership role grants staff-invitation rights.
func (m *OrgMember) IsPrivileged() bool {
	if m == nil {
		return false
	}
	for _, role := range PrivilegedOrgRoles {
		if m.Role == role {
			return true
		}
	}
	return false
}
