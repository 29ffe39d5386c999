package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"authgate/internal/domain"
	"authgate/internal/password"
	"authgate/internal/repository"
	"authgate/internal/session"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Init(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func newService(repo repository.UserRepository) AuthService {
	return NewAuthService(repo, password.New(bcrypt.MinCost))
}

func TestRegisterSuccess(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByEmail", mock.Anything, "ann@example.com").Return(nil, repository.ErrNotFound)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(int64(1), nil)

	outcome := newService(repo).Register(context.Background(), "Ann", "ann@example.com", "secret1")

	assert.True(t, outcome.OK())
	assert.Equal(t, "Registration successful! Please login.", outcome.Message)
	assert.Equal(t, SeveritySuccess, outcome.Severity)
	assert.Equal(t, "/login", outcome.Redirect)

	created := repo.Calls[1].Arguments.Get(1).(*domain.User)
	assert.Equal(t, "Ann", created.Name)
	assert.Equal(t, "ann@example.com", created.Email)
	assert.NotEqual(t, "secret1", created.PasswordHash, "plaintext must never be stored")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("secret1")))
	repo.AssertExpectations(t)
}

func TestRegisterTrimsInput(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByEmail", mock.Anything, "ann@example.com").Return(nil, repository.ErrNotFound)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(int64(1), nil)

	outcome := newService(repo).Register(context.Background(), "  Ann  ", "  ann@example.com  ", "  secret1  ")

	require.True(t, outcome.OK())
	created := repo.Calls[1].Arguments.Get(1).(*domain.User)
	assert.Equal(t, "Ann", created.Name)
	assert.Equal(t, "ann@example.com", created.Email)
}

func TestRegisterValidationOrder(t *testing.T) {
	tests := []struct {
		name    string
		inName  string
		inEmail string
		inPass  string
		message string
	}{
		{"empty name wins first", "", "", "", "Name should not be empty!"},
		{"empty email", "Ann", "", "secret1", "Email should not be empty!"},
		{"bad email", "Bob", "not-an-email", "secret1", "Invalid email format!"},
		{"empty password", "Ann", "ann@example.com", "", "Password should not be empty!"},
		{"short password", "Ann", "ann@example.com", "12345", "Password must be at least 6 characters!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			outcome := newService(repo).Register(context.Background(), tt.inName, tt.inEmail, tt.inPass)

			assert.Equal(t, tt.message, outcome.Message)
			assert.Equal(t, SeverityDanger, outcome.Severity)
			assert.Equal(t, "/register", outcome.Redirect)
			// validation failures never reach the store
			repo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByEmail", mock.Anything, "ann@example.com").
		Return(&domain.User{ID: 1, Email: "ann@example.com"}, nil)

	outcome := newService(repo).Register(context.Background(), "Ann", "ann@example.com", "secret2")

	assert.Equal(t, "Email already registered!", outcome.Message)
	assert.Equal(t, SeverityDanger, outcome.Severity)
	assert.Equal(t, "/register", outcome.Redirect)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterDuplicateEmailRace(t *testing.T) {
	// the pre-check missed but the unique constraint caught the insert
	repo := new(MockUserRepository)
	repo.On("FindByEmail", mock.Anything, "ann@example.com").Return(nil, repository.ErrNotFound)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
		Return(int64(0), repository.ErrDuplicateEmail)

	outcome := newService(repo).Register(context.Background(), "Ann", "ann@example.com", "secret1")

	assert.Equal(t, "Email already registered!", outcome.Message)
	assert.Equal(t, "/register", outcome.Redirect)
}

func registeredRepo(t *testing.T, plaintext string) *MockUserRepository {
	t.Helper()
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.MinCost)
	require.NoError(t, err)

	repo := new(MockUserRepository)
	repo.On("FindByEmail", mock.Anything, "ann@example.com").
		Return(&domain.User{ID: 1, Name: "Ann", Email: "ann@example.com", PasswordHash: string(digest)}, nil)
	return repo
}

func TestLoginMissingCredentials(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newService(repo)
	sess := session.NewMemory()

	for _, in := range []struct{ email, pass string }{
		{"", ""},
		{"ann@example.com", ""},
		{"", "secret1"},
		{"   ", "   "},
	} {
		outcome := svc.Login(context.Background(), sess, in.email, in.pass)
		assert.Equal(t, "Email and Password are required!", outcome.Message)
		assert.Equal(t, "/login", outcome.Redirect)
	}
	repo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestLoginUnknownEmail(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrNotFound)

	sess := session.NewMemory()
	outcome := newService(repo).Login(context.Background(), sess, "ghost@example.com", "secret1")

	assert.Equal(t, "Invalid email or password!", outcome.Message)
	assert.Equal(t, SeverityDanger, outcome.Severity)
	assert.Equal(t, "/login", outcome.Redirect)
	_, ok := sess.Current()
	assert.False(t, ok, "session must stay anonymous")
}

func TestLoginWrongPassword(t *testing.T) {
	repo := registeredRepo(t, "secret1")
	sess := session.NewMemory()

	outcome := newService(repo).Login(context.Background(), sess, "ann@example.com", "wrongpass")

	assert.Equal(t, "Invalid email or password!", outcome.Message)
	_, ok := sess.Current()
	assert.False(t, ok)
}

func TestLoginSuccess(t *testing.T) {
	repo := registeredRepo(t, "secret1")
	sess := session.NewMemory()
	svc := newService(repo)

	outcome := svc.Login(context.Background(), sess, "ann@example.com", "secret1")

	assert.Equal(t, "Login successful!", outcome.Message)
	assert.Equal(t, SeveritySuccess, outcome.Severity)
	assert.Equal(t, "/dashboard", outcome.Redirect)

	id, deny := svc.RequireAuthenticated(sess)
	require.Nil(t, deny)
	assert.Equal(t, int64(1), id.UserID)
	assert.Equal(t, "Ann", id.Name)
}

func TestLogoutReturnsToAnonymous(t *testing.T) {
	repo := registeredRepo(t, "secret1")
	sess := session.NewMemory()
	svc := newService(repo)

	require.True(t, svc.Login(context.Background(), sess, "ann@example.com", "secret1").OK())

	outcome := svc.Logout(sess)
	assert.Equal(t, "Logged out successfully!", outcome.Message)
	assert.Equal(t, SeverityInfo, outcome.Severity)
	assert.Equal(t, "/", outcome.Redirect)

	_, deny := svc.RequireAuthenticated(sess)
	require.NotNil(t, deny)
	assert.Equal(t, "Please login first!", deny.Message)
	assert.Equal(t, SeverityWarning, deny.Severity)
	assert.Equal(t, "/login", deny.Redirect)
}

func TestLogoutIsIdempotent(t *testing.T) {
	svc := newService(new(MockUserRepository))
	sess := session.NewMemory()

	first := svc.Logout(sess)
	second := svc.Logout(sess)
	assert.Equal(t, first, second)

	for i := 0; i < 2; i++ {
		_, deny := svc.RequireAuthenticated(sess)
		require.NotNil(t, deny)
		assert.Equal(t, "Please login first!", deny.Message)
	}
}

func TestInfrastructureErrorsCarryNoFlash(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByEmail", mock.Anything, "ann@example.com").
		Return(nil, assert.AnError)

	outcome := newService(repo).Register(context.Background(), "Ann", "ann@example.com", "secret1")

	require.Error(t, outcome.Err)
	assert.Empty(t, outcome.Message)
	assert.False(t, outcome.OK())
}
