package user

import (
	"context"
	"errors"
	"testing"

	"quizrush/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserRepo struct{ mock.Mock }

func (m *MockUserRepo) Create(ctx context.Context, name, email, passwordHash, role string) (*User, error) {
	args := m.Called(ctx, name, email, passwordHash, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepo) FindByID(ctx context.Context, id int) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepo) SetBillingID(ctx context.Context, id int, billingID string) error {
	return m.Called(ctx, id, billingID).Error(0)
}

func (m *MockUserRepo) SetRole(ctx context.Context, id int, role string) error {
	return m.Called(ctx, id, role).Error(0)
}

func TestRegister(t *testing.T) {
	repo := new(MockUserRepo)
	svc := NewService(repo, "test-secret")

	repo.On("EmailExists", mock.Anything, "new@example.com").Return(false, nil)
	repo.On("Create", mock.Anything, "New", "new@example.com", mock.AnythingOfType("string"), RolePlayer).
		Return(&User{ID: 1, Name: "New", Email: "new@example.com", Role: RolePlayer}, nil)

	u, access, refresh, err := svc.Register(context.Background(), RegisterRequest{
		Name: "New", Email: "new@example.com", Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, u.ID)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	repo.AssertExpectations(t)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := new(MockUserRepo)
	svc := NewService(repo, "test-secret")

	repo.On("EmailExists", mock.Anything, "taken@example.com").Return(true, nil)

	_, _, _, err := svc.Register(context.Background(), RegisterRequest{
		Name: "Dup", Email: "taken@example.com", Password: "password123",
	})
	assert.ErrorIs(t, err, ErrEmailExists)
	repo.AssertNotCalled(t, "Create")
}

func TestLogin(t *testing.T) {
	repo := new(MockUserRepo)
	svc := NewService(repo, "test-secret")

	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	repo.On("FindByEmail", mock.Anything, "u@example.com").
		Return(&User{ID: 2, Email: "u@example.com", Role: RolePlayer, PasswordHash: hash}, nil)

	u, access, _, err := svc.Login(context.Background(), LoginRequest{
		Email: "u@example.com", Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, u.ID)
	assert.NotEmpty(t, access)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := new(MockUserRepo)
	svc := NewService(repo, "test-secret")

	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	repo.On("FindByEmail", mock.Anything, "u@example.com").
		Return(&User{ID: 2, Email: "u@example.com", PasswordHash: hash}, nil)

	_, _, _, err = svc.Login(context.Background(), LoginRequest{
		Email: "u@example.com", Password: "nope",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	repo := new(MockUserRepo)
	svc := NewService(repo, "test-secret")

	repo.On("FindByEmail", mock.Anything, "ghost@example.com").
		Return(nil, errors.New("sql: no rows in result set"))

	_, _, _, err := svc.Login(context.Background(), LoginRequest{
		Email: "ghost@example.com", Password: "whatever",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshTokenPicksUpNewRole(t *testing.T) {
	repo := new(MockUserRepo)
	svc := NewService(repo, "test-secret")

	_, refresh, err := auth.GenerateTokens(4, "u@example.com", RolePlayer, "test-secret", "test-secret")
	require.NoError(t, err)

	// User upgraded to host after the refresh token was issued.
	repo.On("FindByID", mock.Anything, 4).
		Return(&User{ID: 4, Email: "u@example.com", Role: RoleHost}, nil)

	access, u, err := svc.RefreshToken(context.Background(), refresh)
	require.NoError(t, err)
	assert.Equal(t, RoleHost, u.Role)

	claims, err := auth.ValidateToken(access, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, RoleHost, claims.Role)
}
