// internal/repository/provisioning_audit_log.go
package repository

import (
	"context"
	"time"

	"github.com/dangerclosesec/clinicore/internal/model"
	"gorm.io/gorm"
)

const defaultAuditQueryLimit = 100

type ProvisioningAuditRepositoryIface interface {
	Create(ctx context.Context, entry *model.ProvisioningAuditLog) error
	Query(ctx context.Context, params AuditQueryParams) ([]model.ProvisioningAuditLog, int64, error)
}

// ProvisioningAuditRepository handles database operations for staff provisioning audit logs
type ProvisioningAuditRepository struct {
	db *gorm.DB
}

func NewProvisioningAuditRepository(db *gorm.DB) *ProvisioningAuditRepository {
	return &ProvisioningAuditRepository{db: db}
}

func (r *ProvisioningAuditRepository) Create(ctx context.Context, entry *model.ProvisioningAuditLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return storeError("creating provisioning audit log", err)
	}
	return nil
}

// AuditQueryParams filters provisioning audit logs. OrgID is always applied.
type AuditQueryParams struct {
	OrgID     string
	CallerID  string
	Email     string
	Outcome   string
	StartTime time.Time
	EndTime   time.Time
	Limit     int
	Offset    int
}

// Query returns one page of matching logs, newest first, and the total match count.
func (r *ProvisioningAuditRepository) Query(ctx context.Context, params AuditQueryParams) ([]model.ProvisioningAuditLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.ProvisioningAuditLog{}).Where("org_id = ?", params.OrgID)

	if params.CallerID != "" {
		query = query.Where("caller_id = ?", params.CallerID)
	}
	if params.Email != "" {
		query = query.Where("email = ?", params.Email)
	}
	if params.Outcome != "" {
		query = query.Where("outcome = ?", params.Outcome)
	}
	if !params.StartTime.IsZero() {
		query = query.Where("timestamp >= ?", params.StartTime)
	}
	if !params.EndTime.IsZero() {
		query = query.Where("timestamp <= ?", params.EndTime)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, storeError("counting provisioning audit logs", err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultAuditQueryLimit
	}
	query = query.Limit(limit)
	if params.Offset > 0 {
		query = query.Offset(params.Offset)
	}

	var logs []model.ProvisioningAuditLog
	if err := query.Order("timestamp DESC").Find(&logs).Error; err != nil {
		return nil, 0, storeError("querying provisioning audit logs", err)
	}
	return logs, count, nil
}
