package local_test

import (
	"context"
	"testing"
	"time"

	"github.com/dangerclosesec/clinicore/internal/auth"
	"github.com/dangerclosesec/clinicore/internal/domain"
	"github.com/dangerclosesec/clinicore/internal/identity"
	"github.com/dangerclosesec/clinicore/internal/identity/local"
	"github.com/dangerclosesec/clinicore/internal/mocks"
	"github.com/dangerclosesec/clinicore/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newProvider(t *testing.T) (*local.Provider, *mocks.MockUserRepositoryIface, *auth.TokenManager) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepositoryIface(ctrl)
	tokens := auth.NewTokenManager("test_secret", time.Hour)
	hasher := auth.NewPasswordHasherWithParams(auth.Argon2Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32, SaltLen: 16})
	return local.NewProvider(users, hasher, tokens), users, tokens
}

func TestVerifyToken(t *testing.T) {
	provider, users, tokens := newProvider(t)
	owner := &model.User{ID: uuid.New(), Email: "owner@example.com"}

	token, err := tokens.Generate(owner.ID, owner.Email)
	require.NoError(t, err)

	users.EXPECT().FindByID(gomock.Any(), owner.ID).Return(owner, nil)

	caller, err := provider.VerifyToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, caller.ID)
}

func TestVerifyToken_DeletedUser(t *testing.T) {
	provider, users, tokens := newProvider(t)
	userID := uuid.New()

	token, err := tokens.Generate(userID, "gone@example.com")
	require.NoError(t, err)

	users.EXPECT().FindByID(gomock.Any(), userID).Return(nil, domain.ErrUserNotFound)

	_, err = provider.VerifyToken(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifyToken_Garbage(t *testing.T) {
	provider, _, _ := newProvider(t)

	_, err := provider.VerifyToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestCreateUser(t *testing.T) {
	provider, users, _ := newProvider(t)
	orgID := uuid.NewString()

	var stored *model.User
	gomock.InOrder(
		users.EXPECT().FindByEmail(gomock.Any(), "reception@example.com").Return(nil, domain.ErrUserNotFound),
		users.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *model.User) error {
			u.ID = uuid.New()
			stored = u
			return nil
		}),
	)

	user, err := provider.CreateUser(context.Background(), identity.CreateUserParams{
		Email:        " reception@example.com ",
		Password:     "123456",
		EmailConfirm: true,
		UserMetadata: map[string]interface{}{"created_by": identity.CreatedByStaffProvisioning, "org_id": orgID},
	})
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.Equal(t, stored.ID, user.ID)
	assert.True(t, user.EmailConfirmed)
	assert.NotEqual(t, "123456", stored.PasswordHash)
	assert.Equal(t, orgID, stored.UserMetadata["org_id"])
}

func TestCreateUser_Duplicate(t *testing.T) {
	provider, users, _ := newProvider(t)

	users.EXPECT().FindByEmail(gomock.Any(), "taken@example.com").Return(&model.User{ID: uuid.New()}, nil)

	_, err := provider.CreateUser(context.Background(), identity.CreateUserParams{Email: "taken@example.com", Password: "123456"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestCreateUser_DuplicateRace(t *testing.T) {
	provider, users, _ := newProvider(t)

	users.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(nil, domain.ErrUserNotFound)
	users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(domain.ErrEmailAlreadyExists)

	_, err := provider.CreateUser(context.Background(), identity.CreateUserParams{Email: "race@example.com", Password: "123456"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestCreateUser_Rejections(t *testing.T) {
	provider, _, _ := newProvider(t)

	_, err := provider.CreateUser(context.Background(), identity.CreateUserParams{Email: "not-an-email", Password: "123456"})
	assert.ErrorIs(t, err, domain.ErrIdentityRejected)

	_, err = provider.CreateUser(context.Background(), identity.CreateUserParams{Email: "short@example.com", Password: "123"})
	assert.ErrorIs(t, err, domain.ErrIdentityRejected)
	assert.Equal(t, "Password should be at least 6 characters.", err.Error())
}
