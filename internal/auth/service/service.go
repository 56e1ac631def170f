// Package service implements account registration, sign-in and the admin
// account operations. Every mutation commits its user row and its event in
// one transaction; the outbox relay delivers the event afterwards.
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"questify/internal/auth"
	"questify/internal/auth/revocation"
	"questify/internal/auth/store"
	"questify/pkg/apperrors"
	"questify/pkg/events"
	"questify/pkg/requestcontext"
)

// EventAppender stages an event for publication in the caller's transaction.
type EventAppender interface {
	Append(ctx context.Context, event events.Event, aggregateType, aggregateID string) error
}

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(user auth.User) (token string, jti string, err error)
}

// TxRunner wraps fn in a transaction scope. Memory-backed setups pass a
// pass-through runner.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	users       store.Users
	outbox      EventAppender
	tokens      TokenIssuer
	revocations revocation.List
	run         TxRunner
	logger      *slog.Logger
}

func New(users store.Users, outbox EventAppender, tokens TokenIssuer, revocations revocation.List, run TxRunner, logger *slog.Logger) *Service {
	return &Service{
		users:       users,
		outbox:      outbox,
		tokens:      tokens,
		revocations: revocations,
		run:         run,
		logger:      logger,
	}
}

// RegisterParams are the sign-up inputs.
type RegisterParams struct {
	Gmail     string
	Password  string
	FirstName string
	LastName  string
	Role      events.Role
}

func (p RegisterParams) validate() *apperrors.Error {
	if !strings.Contains(p.Gmail, "@") {
		return apperrors.BadRequest("Email must be valid")
	}
	if len(p.Password) < 4 || len(p.Password) > 20 {
		return apperrors.BadRequest("Password must be between 4 and 20 characters")
	}
	switch p.Role {
	case "", events.RoleStudent, events.RoleTeacher:
		return nil
	default:
		return apperrors.BadRequest("Invalid role")
	}
}

// Register creates an account and signs the new user in. The UserCreated
// event commits with the row. Admin accounts are never self-registered; see
// the bootstrap in the service main.
func (s *Service) Register(ctx context.Context, params RegisterParams) (auth.User, string, error) {
	if err := params.validate(); err != nil {
		return auth.User{}, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return auth.User{}, "", apperrors.Wrap(err, apperrors.CodeInternal, "Something went wrong")
	}

	role := params.Role
	if role == "" {
		role = events.RoleStudent
	}
	now := requestcontext.Now(ctx)
	user := auth.User{
		ID:           uuid.New(),
		Gmail:        params.Gmail,
		PasswordHash: hash,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Role:         role,
		Status:       events.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.run(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, user); err != nil {
			return err
		}
		return s.outbox.Append(ctx, events.UserCreated{
			ID:        user.ID,
			Gmail:     user.Gmail,
			Role:      user.Role,
			Status:    user.Status,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			CreatedAt: user.CreatedAt,
		}, "user", user.ID.String())
	})
	if err != nil {
		return auth.User{}, "", err
	}

	token, _, err := s.tokens.Issue(user)
	if err != nil {
		return auth.User{}, "", apperrors.Wrap(err, apperrors.CodeInternal, "Something went wrong")
	}

	s.logger.InfoContext(ctx, "user registered",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", user.ID,
		"role", user.Role,
	)
	return user, token, nil
}

// EnsureAdmin provisions the bootstrap admin account if it does not exist
// yet. Mains call it at startup; self-registration never grants the admin
// role.
func (s *Service) EnsureAdmin(ctx context.Context, gmail, password string) (auth.User, error) {
	existing, err := s.users.ByGmail(ctx, gmail)
	if err == nil {
		return existing, nil
	}
	if !apperrors.Is(err, apperrors.CodeNotFound) {
		return auth.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return auth.User{}, apperrors.Wrap(err, apperrors.CodeInternal, "Something went wrong")
	}
	now := requestcontext.Now(ctx)
	admin := auth.User{
		ID:           uuid.New(),
		Gmail:        gmail,
		PasswordHash: hash,
		Role:         events.RoleAdmin,
		Status:       events.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = s.run(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, admin); err != nil {
			return err
		}
		return s.outbox.Append(ctx, events.UserCreated{
			ID:        admin.ID,
			Gmail:     admin.Gmail,
			Role:      admin.Role,
			Status:    admin.Status,
			CreatedAt: admin.CreatedAt,
		}, "user", admin.ID.String())
	})
	if err != nil {
		return auth.User{}, err
	}

	s.logger.InfoContext(ctx, "admin account provisioned", "user_id", admin.ID)
	return admin, nil
}

// SignIn verifies the credentials and issues a fresh token. Unknown emails
// and wrong passwords produce the same error.
func (s *Service) SignIn(ctx context.Context, gmail, password string) (auth.User, string, error) {
	user, err := s.users.ByGmail(ctx, gmail)
	if apperrors.Is(err, apperrors.CodeNotFound) {
		return auth.User{}, "", apperrors.BadRequest("Invalid credentials")
	}
	if err != nil {
		return auth.User{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return auth.User{}, "", apperrors.BadRequest("Invalid credentials")
	}

	token, _, err := s.tokens.Issue(user)
	if err != nil {
		return auth.User{}, "", apperrors.Wrap(err, apperrors.CodeInternal, "Something went wrong")
	}

	fields := []any{
		"request_id", requestcontext.RequestID(ctx),
		"user_id", user.ID,
		"client_ip", requestcontext.ClientIP(ctx),
	}
	if device, ok := requestcontext.ClientDevice(ctx); ok {
		fields = append(fields, "device", device.Label())
	}
	s.logger.InfoContext(ctx, "user signed in", fields...)
	return user, token, nil
}

// SignOut revokes the current token for the remainder of its lifetime. A
// request without a token has nothing to revoke and succeeds.
func (s *Service) SignOut(ctx context.Context) error {
	token, ok := requestcontext.CurrentToken(ctx)
	if !ok || token.JTI == "" {
		return nil
	}
	ttl := time.Until(token.ExpiresAt)
	if err := s.revocations.Revoke(ctx, token.JTI, ttl); err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "Something went wrong")
	}
	s.logger.InfoContext(ctx, "user signed out",
		"request_id", requestcontext.RequestID(ctx),
		"jti", token.JTI,
	)
	return nil
}

// CurrentUser loads the account behind the request's credentials.
func (s *Service) CurrentUser(ctx context.Context) (auth.User, error) {
	current, ok := requestcontext.CurrentUser(ctx)
	if !ok {
		return auth.User{}, apperrors.NotAuthorized()
	}
	return s.users.ByID(ctx, current.ID)
}

// GetUser loads one account by id.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (auth.User, error) {
	return s.users.ByID(ctx, id)
}

// ListUsers returns every live account, oldest first.
func (s *Service) ListUsers(ctx context.Context) ([]auth.User, error) {
	return s.users.List(ctx)
}

// UpdateProfileParams carries the profile fields an update touches; nil
// means unchanged.
type UpdateProfileParams struct {
	Gmail     *string
	FirstName *string
	LastName  *string
}

// UpdateProfile applies the present fields and publishes a UserUpdated
// carrying only those fields.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, params UpdateProfileParams) (auth.User, error) {
	if params.Gmail != nil && !strings.Contains(*params.Gmail, "@") {
		return auth.User{}, apperrors.BadRequest("Email must be valid")
	}

	var user auth.User
	err := s.run(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.users.ByID(ctx, userID)
		if err != nil {
			return err
		}
		if params.Gmail != nil {
			user.Gmail = *params.Gmail
		}
		if params.FirstName != nil {
			user.FirstName = *params.FirstName
		}
		if params.LastName != nil {
			user.LastName = *params.LastName
		}
		user.UpdatedAt = requestcontext.Now(ctx)
		if err := s.users.Update(ctx, user); err != nil {
			return err
		}
		return s.outbox.Append(ctx, events.UserUpdated{
			ID:        user.ID,
			Gmail:     params.Gmail,
			FirstName: params.FirstName,
			LastName:  params.LastName,
			UpdatedAt: user.UpdatedAt,
		}, "user", user.ID.String())
	})
	if err != nil {
		return auth.User{}, err
	}
	return user, nil
}

// SetStatus suspends or reactivates an account and publishes a UserUpdated
// carrying only the status change. Admin only; guards enforce that at the
// transport.
func (s *Service) SetStatus(ctx context.Context, userID uuid.UUID, status events.UserStatus) (auth.User, error) {
	var user auth.User
	err := s.run(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.users.ByID(ctx, userID)
		if err != nil {
			return err
		}
		if user.Status == status {
			return nil
		}
		user.Status = status
		user.UpdatedAt = requestcontext.Now(ctx)
		if err := s.users.Update(ctx, user); err != nil {
			return err
		}
		return s.outbox.Append(ctx, events.UserUpdated{
			ID:        user.ID,
			Status:    &status,
			UpdatedAt: user.UpdatedAt,
		}, "user", user.ID.String())
	})
	if err != nil {
		return auth.User{}, err
	}

	s.logger.InfoContext(ctx, "user status changed",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", userID,
		"status", status,
	)
	return user, nil
}
