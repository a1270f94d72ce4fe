package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dangerclosesec/clinicore/internal/domain"
	"github.com/dangerclosesec/clinicore/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrganizationRepository_FindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrganizationRepository(db)

	orgID := uuid.New()
	ownerID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "orgs" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "owner_user_id"}).
			AddRow(orgID.String(), "Northside", ownerID.String()))

	org, err := repo.FindByID(context.Background(), orgID)
	require.NoError(t, err)
	assert.Equal(t, orgID, org.ID)
	assert.True(t, org.OwnedBy(ownerID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrganizationRepository_FindByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrganizationRepository(db)

	mock.ExpectQuery(`FROM "orgs"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	org, err := repo.FindByID(context.Background(), uuid.New())
	assert.Nil(t, org)
	assert.ErrorIs(t, err, domain.ErrOrganizationNotFound)
}

func TestOrganizationRepository_FindByID_StoreError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrganizationRepository(db)

	mock.ExpectQuery(`FROM "orgs"`).WillReturnError(&pgconn.PgError{
		Code:    "42P01",
		Message: `relation "orgs" does not exist`,
	})

	_, err := repo.FindByID(context.Background(), uuid.New())

	var storeErr *domain.StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "42P01", storeErr.Code)
	assert.Equal(t, `relation "orgs" does not exist`, storeErr.Message)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
}

func TestOrganizationRepository_FindMembership(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrganizationRepository(db)

	orgID, userID := uuid.New(), uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "org_members" WHERE .*role IN \(\$3,\$4\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "org_id", "user_id", "role"}).
			AddRow(uuid.NewString(), orgID.String(), userID.String(), "admin"))

	member, err := repo.FindMembership(context.Background(), orgID, userID, model.PrivilegedOrgRoles)
	require.NoError(t, err)
	assert.Equal(t, model.OrgRoleAdmin, member.Role)
	assert.True(t, member.IsPrivileged())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrganizationRepository_FindMembership_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrganizationRepository(db)

	mock.ExpectQuery(`FROM "org_members"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindMembership(context.Background(), uuid.New(), uuid.New(), model.PrivilegedOrgRoles)
	assert.ErrorIs(t, err, domain.ErrMembershipNotFound)
}
