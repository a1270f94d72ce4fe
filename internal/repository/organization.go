// internal/repository/organization.go
package repository

import (
	"context"
	"errors"

	"github.com/dangerclosesec/clinicore/internal/domain"
	"github.com/dangerclosesec/clinicore/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrganizationRepositoryIface interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Organization, error)
	FindMembership(ctx context.Context, orgID, userID uuid.UUID, roles []model.OrgRole) (*model.OrgMember, error)
}

type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	var org model.Organization
	if err := r.db.WithContext(ctx).First(&org, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrganizationNotFound
		}
		return nil, storeError("finding organization", err)
	}
	return &org, nil
}

// FindMembership returns the caller's membership in orgID. When roles is not
// empty only memberships holding one of those roles match.
func (r *OrganizationRepository) FindMembership(ctx context.Context, orgID, userID uuid.UUID, roles []model.OrgRole) (*model.OrgMember, error) {
	query := r.db.WithContext(ctx).Where("org_id = ? AND user_id = ?", orgID, userID)
	if len(roles) > 0 {
		query = query.Where("role IN ?", roles)
	}

	var member model.OrgMember
	if err := query.First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMembershipNotFound
		}
		return nil, storeError("finding membership", err)
	}
	return &member, nil
}
