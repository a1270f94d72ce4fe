package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dangerclosesec/clinicore/internal/domain"
	"github.com/dangerclosesec/clinicore/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaffRepository_Assign(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStaffRepository(db)

	orgID, userID, storedID := uuid.New(), uuid.New(), uuid.New()
	c1, c2 := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "org_members" .+ ON CONFLICT \("org_id","user_id"\) DO UPDATE SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "org_members" WHERE org_id = \$1 AND user_id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "org_id", "user_id", "role"}).
			AddRow(storedID.String(), orgID.String(), userID.String(), "staff"))
	mock.ExpectExec(`INSERT INTO "clinic_staff"`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	member := &model.OrgMember{OrgID: orgID, UserID: userID, Role: model.OrgRoleStaff}
	grants := []*model.ClinicStaff{{ClinicID: c1}, {ClinicID: c2}}

	require.NoError(t, repo.Assign(context.Background(), member, grants))

	assert.Equal(t, storedID, member.ID)
	for _, grant := range grants {
		assert.Equal(t, userID, grant.UserID)
		assert.Equal(t, model.ClinicRoleReception, grant.Role)
		require.NotNil(t, grant.OrgMemberID)
		assert.Equal(t, storedID, *grant.OrgMemberID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStaffRepository_Assign_MembershipOnly(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStaffRepository(db)

	orgID, userID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "org_members"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FROM "org_members"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "org_id", "user_id", "role"}).
			AddRow(uuid.NewString(), orgID.String(), userID.String(), "staff"))
	mock.ExpectCommit()

	member := &model.OrgMember{OrgID: orgID, UserID: userID, Role: model.OrgRoleStaff}
	require.NoError(t, repo.Assign(context.Background(), member, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStaffRepository_Assign_RollsBackOnGrantFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStaffRepository(db)

	orgID, userID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "org_members"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FROM "org_members"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "org_id", "user_id", "role"}).
			AddRow(uuid.NewString(), orgID.String(), userID.String(), "staff"))
	mock.ExpectExec(`INSERT INTO "clinic_staff"`).WillReturnError(&pgconn.PgError{
		Code:    "23503",
		Message: `insert or update on table "clinic_staff" violates foreign key constraint`,
		Detail:  "Key (clinic_id) is not present in table \"clinics\".",
	})
	mock.ExpectRollback()

	member := &model.OrgMember{OrgID: orgID, UserID: userID, Role: model.OrgRoleStaff}
	err := repo.Assign(context.Background(), member, []*model.ClinicStaff{{ClinicID: uuid.New()}})

	var storeErr *domain.StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "inserting clinic grants", storeErr.Op)
	assert.Equal(t, "23503", storeErr.Code)
	assert.Contains(t, storeErr.Details, "clinic_id")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStaffRepository_Assign_MembershipFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStaffRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "org_members"`).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	member := &model.OrgMember{OrgID: uuid.New(), UserID: uuid.New(), Role: model.OrgRoleStaff}
	err := repo.Assign(context.Background(), member, []*model.ClinicStaff{{ClinicID: uuid.New()}})

	var storeErr *domain.StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "upserting membership", storeErr.Op)
	assert.Equal(t, "connection reset", storeErr.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStaffRepository_ListByOrganization(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStaffRepository(db)

	org := &model.Organization{ID: uuid.New(), OwnerUserID: uuid.New()}
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "clinic_staff" WHERE clinic_id IN \(SELECT .+ FROM "clinics" WHERE org_id = \$1 OR doctor_id IN \(SELECT .+ FROM "doctors" WHERE owner_user_id = \$2\)\) ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "clinic_id", "user_id", "role", "created_at"}).
			AddRow(uuid.NewString(), uuid.NewString(), uuid.NewString(), "reception", now).
			AddRow(uuid.NewString(), uuid.NewString(), uuid.NewString(), "reception", now))

	grants, err := repo.ListByOrganization(context.Background(), org)
	require.NoError(t, err)
	assert.Len(t, grants, 2)
	assert.Equal(t, model.ClinicRoleReception, grants[0].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}
