// internal/repository/clinic.go
package repository

import (
	"context"

	"github.com/dangerclosesec/clinicore/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClinicRepositoryIface interface {
	FindIDsInOrganization(ctx context.Context, org *model.Organization, ids []uuid.UUID) ([]uuid.UUID, error)
}

type ClinicRepository struct {
	db *gorm.DB
}

func NewClinicRepository(db *gorm.DB) *ClinicRepository {
	return &ClinicRepository{db: db}
}

// organizationClinics scopes a clinics query to org. Clinics created before
// organizations existed have no org_id and are reached through the owner's doctor rows.
func organizationClinics(db *gorm.DB, org *model.Organization) *gorm.DB {
	legacyDoctors := db.Session(&gorm.Session{NewDB: true}).
		Model(&model.Doctor{}).
		Select("id").
		Where("owner_user_id = ?", org.OwnerUserID)

	return db.Where("org_id = ? OR doctor_id IN (?)", org.ID, legacyDoctors)
}

// FindIDsInOrganization returns the subset of ids naming clinics that belong to org.
func (r *ClinicRepository) FindIDsInOrganization(ctx context.Context, org *model.Organization, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var found []uuid.UUID
	err := organizationClinics(r.db.WithContext(ctx).Model(&model.Clinic{}), org).
		Where("id IN ?", ids).
		Pluck("id", &found).Error
	if err != nil {
		return nil, storeError("finding organization clinics", err)
	}
	return found, nil
}
