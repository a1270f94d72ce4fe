// internal/repository/staff.go
package repository

import (
	"context"

	"github.com/dangerclosesec/clinicore/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StaffRepositoryIface interface {
	Assign(ctx context.Context, member *model.OrgMember, grants []*model.ClinicStaff) error
	ListByOrganization(ctx context.Context, org *model.Organization) ([]*model.ClinicStaff, error)
}

type StaffRepository struct {
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

// Assign upserts the membership and inserts the clinic grants in a single
// transaction. An existing (org_id, user_id) membership has its role overwritten.
func (r *StaffRepository) Assign(ctx context.Context, member *model.OrgMember, grants []*model.ClinicStaff) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "org_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role", "updated_at"}),
		}).Create(member).Error
		if err != nil {
			return storeError("upserting membership", err)
		}

		// On conflict the stored row keeps its original id.
		var stored model.OrgMember
		if err := tx.Where("org_id = ? AND user_id = ?", member.OrgID, member.UserID).First(&stored).Error; err != nil {
			return storeError("reading membership", err)
		}
		member.ID = stored.ID

		if len(grants) == 0 {
			return nil
		}

		for _, grant := range grants {
			grant.UserID = member.UserID
			grant.OrgMemberID = &stored.ID
			if grant.Role == "" {
				grant.Role = model.ClinicRoleReception
			}
		}

		if err := tx.Create(&grants).Error; err != nil {
			return storeError("inserting clinic grants", err)
		}
		return nil
	})
	if err != nil {
		return storeError("staff transaction", err)
	}
	return nil
}

// ListByOrganization returns every clinic grant for the clinics of org, newest first.
func (r *StaffRepository) ListByOrganization(ctx context.Context, org *model.Organization) ([]*model.ClinicStaff, error) {
	clinics := organizationClinics(r.db.Session(&gorm.Session{NewDB: true}).Model(&model.Clinic{}), org).Select("id")

	var grants []*model.ClinicStaff
	err := r.db.WithContext(ctx).
		Where("clinic_id IN (?)", clinics).
		Order("created_at DESC").
		Find(&grants).Error
	if err != nil {
		return nil, storeError("listing clinic staff", err)
	}
	return grants, nil
}
