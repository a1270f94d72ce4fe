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

func TestClinicRepository_FindIDsInOrganization(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClinicRepository(db)

	org := &model.Organization{ID: uuid.New(), OwnerUserID: uuid.New()}
	inOrg, legacy, foreign := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery(`FROM "clinics" WHERE \(org_id = \$1 OR doctor_id IN \(SELECT .+ FROM "doctors" WHERE owner_user_id = \$2\)\) AND id IN \(\$3,\$4,\$5\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).
			AddRow(inOrg.String()).
			AddRow(legacy.String()))

	found, err := repo.FindIDsInOrganization(context.Background(), org, []uuid.UUID{inOrg, legacy, foreign})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{inOrg, legacy}, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClinicRepository_FindIDsInOrganization_NoIDs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClinicRepository(db)

	found, err := repo.FindIDsInOrganization(context.Background(), &model.Organization{ID: uuid.New()}, nil)
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}
