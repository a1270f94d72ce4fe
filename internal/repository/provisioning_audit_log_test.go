package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dangerclosesec/clinicore/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvisioningAuditRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProvisioningAuditRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "staff_provisioning_audit_logs"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	entry := &model.ProvisioningAuditLog{
		AttemptID: "01J0000000000000000000000",
		OrgID:     uuid.NewString(),
		Stage:     "succeeded",
		Outcome:   model.OutcomeSucceeded,
		ClinicIDs: model.StringList{uuid.NewString()},
	}
	require.NoError(t, repo.Create(context.Background(), entry))
	assert.NotEqual(t, uuid.Nil, entry.ID)
	assert.False(t, entry.Timestamp.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProvisioningAuditRepository_Query(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProvisioningAuditRepository(db)

	orgID := uuid.NewString()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "staff_provisioning_audit_logs" WHERE org_id = \$1 AND outcome = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT \* FROM "staff_provisioning_audit_logs" WHERE org_id = \$1 AND outcome = \$2 ORDER BY timestamp DESC LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "org_id", "outcome", "clinic_ids"}).
			AddRow(uuid.NewString(), orgID, model.OutcomeFailed, []byte(`["a","b"]`)))

	logs, count, err := repo.Query(context.Background(), AuditQueryParams{
		OrgID:   orgID,
		Outcome: model.OutcomeFailed,
		Limit:   1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	require.Len(t, logs, 1)
	assert.Equal(t, model.StringList{"a", "b"}, logs[0].ClinicIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}
