package identity

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"

	"github.com/inkpost/inkpost/internal/auth"
)

// Service is the credential service: it validates and hashes passwords on
// registration and verifies them on login.
type Service struct {
	users  Users
	logger auth.Logger
}

// NewService creates a credential service backed by the given store.
func NewService(users Users) *Service {
	return &Service{
		users:  users,
		logger: auth.DefaultLogger(),
	}
}

func (s *Service) WithLogger(logger auth.Logger) *Service {
	if logger != nil {
		s.logger = logger
	}
	return s
}

type registration struct {
	Email    string
	Username string
	Password string
}

// Validate will run validation rules
func (r registration) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Username,
			validation.Required,
		),
		validation.Field(
			&r.Password,
			validation.Required,
			validation.By(auth.ValidatePasswordStrength),
		),
	)
}

// Register validates the triple, hashes the password, and persists a new
// identity record. Validation runs before any hashing work so malformed
// input fails fast without paying the bcrypt cost.
func (s *Service) Register(ctx context.Context, email, username, password string) (*User, error) {
	payload := registration{Email: email, Username: username, Password: password}
	if err := payload.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration payload")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	user := &User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		ID:           newUserID(email),
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		s.logger.Error("register create user: %v", err)
		return nil, err
	}

	return created, nil
}

// Authenticate verifies the email/password pair. Unknown emails and
// mismatched passwords are logged distinctly but both surface as
// auth.ErrInvalidCredentials so responses never confirm which emails exist.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if goerrors.Is(err, auth.ErrIdentityNotFound) {
			s.logger.Info("authenticate unknown email: %s", email)
			return nil, auth.ErrInvalidCredentials
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user during verification")
	}

	if err := auth.ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		s.logger.Info("authenticate password mismatch for user: %s", user.ID)
		return nil, auth.ErrInvalidCredentials
	}

	return user, nil
}

// newUserID derives a deterministic id from the email, falling back to a
// random uuid when derivation fails.
func newUserID(email string) uuid.UUID {
	if id, err := hashid.NewUUID(email); err == nil {
		return id
	}
	return uuid.New()
}
