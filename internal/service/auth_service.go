package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"authgate/internal/domain"
	"authgate/internal/password"
	"authgate/internal/repository"
	"authgate/internal/session"
	"authgate/internal/validate"
)

// Severity classifies an Outcome for the flash UI.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityDanger  Severity = "danger"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Outcome is the result of an auth operation: a user-facing flash message,
// its severity, and where the client should be redirected. Err is set only
// for infrastructure failures (store or session unavailable); those carry no
// flash message and must surface as a server error, not a validation notice.
type Outcome struct {
	Message  string
	Severity Severity
	Redirect string
	Err      error
}

// OK reports whether the operation ended in the success/info path.
func (o Outcome) OK() bool {
	return o.Err == nil && (o.Severity == SeveritySuccess || o.Severity == SeverityInfo)
}

func failure(err error) Outcome {
	return Outcome{Err: err}
}

// AuthService orchestrates registration, login, logout and the access-check
// gate over the user directory, the credential hasher and a per-request
// session.
type AuthService interface {
	Register(ctx context.Context, name, email, plaintext string) Outcome
	Login(ctx context.Context, sess session.Manager, email, plaintext string) Outcome
	Logout(sess session.Manager) Outcome
	RequireAuthenticated(sess session.Manager) (domain.Identity, *Outcome)
}

type authService struct {
	users  repository.UserRepository
	hasher *password.Hasher
}

func NewAuthService(users repository.UserRepository, hasher *password.Hasher) AuthService {
	return &authService{users: users, hasher: hasher}
}

// Register validates the fields in order (name, email, password), rejects a
// taken email, then hashes and stores the new user. The first failing check
// wins and nothing is written.
func (s *authService) Register(ctx context.Context, name, email, plaintext string) Outcome {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	plaintext = strings.TrimSpace(plaintext)

	if verr := validate.Name(name); verr != nil {
		return rejected(verr)
	}
	if verr := validate.Email(email); verr != nil {
		return rejected(verr)
	}
	if verr := validate.Password(plaintext); verr != nil {
		return rejected(verr)
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return Outcome{Message: "Email already registered!", Severity: SeverityDanger, Redirect: "/register"}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return failure(fmt.Errorf("check existing email: %w", err))
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return failure(err)
	}

	user := &domain.User{Name: name, Email: email, PasswordHash: hash}
	if _, err := s.users.Create(ctx, user); err != nil {
		// lost a concurrent race for the same email
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return Outcome{Message: "Email already registered!", Severity: SeverityDanger, Redirect: "/register"}
		}
		return failure(fmt.Errorf("create user: %w", err))
	}

	return Outcome{Message: "Registration successful! Please login.", Severity: SeveritySuccess, Redirect: "/login"}
}

// Login verifies the credentials and starts a session on success. An unknown
// email and a wrong password produce the same outcome so the response body
// does not reveal which one it was. A lookup miss returns before any bcrypt
// work, so the distinction is still observable through timing.
func (s *authService) Login(ctx context.Context, sess session.Manager, email, plaintext string) Outcome {
	email = strings.TrimSpace(email)
	plaintext = strings.TrimSpace(plaintext)

	if email == "" || plaintext == "" {
		return Outcome{Message: "Email and Password are required!", Severity: SeverityDanger, Redirect: "/login"}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return invalidCredentials()
		}
		return failure(fmt.Errorf("find user: %w", err))
	}

	if !s.hasher.Verify(plaintext, user.PasswordHash) {
		return invalidCredentials()
	}

	if err := sess.Start(domain.Identity{UserID: user.ID, Name: user.Name}); err != nil {
		return failure(err)
	}

	return Outcome{Message: "Login successful!", Severity: SeveritySuccess, Redirect: "/dashboard"}
}

// Logout ends the session unconditionally. Calling it while anonymous is a
// no-op with the same outcome.
func (s *authService) Logout(sess session.Manager) Outcome {
	if err := sess.End(); err != nil {
		return failure(err)
	}
	return Outcome{Message: "Logged out successfully!", Severity: SeverityInfo, Redirect: "/"}
}

// RequireAuthenticated is the gate in front of protected resources. A nil
// outcome means access is allowed and the returned identity is valid.
func (s *authService) RequireAuthenticated(sess session.Manager) (domain.Identity, *Outcome) {
	id, ok := sess.Current()
	if !ok {
		return domain.Identity{}, &Outcome{Message: "Please login first!", Severity: SeverityWarning, Redirect: "/login"}
	}
	return id, nil
}

func rejected(verr *validate.Error) Outcome {
	return Outcome{Message: verr.Message, Severity: SeverityDanger, Redirect: "/register"}
}

func invalidCredentials() Outcome {
	return Outcome{Message: "Invalid email or password!", Severity: SeverityDanger, Redirect: "/login"}
}
