package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecom/user-service/internal/core/domain"
	"github.com/ecom/user-service/internal/core/ports"
)

// ProfileCache abstracts the read-through cache in front of the user store
// (Redis). A miss is (nil, nil); cache failures are soft and never abort the
// request.
type ProfileCache interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	Set(ctx context.Context, user *domain.User) error
	Invalidate(ctx context.Context, id string) error
}

type userService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	issuer ports.TokenIssuer
	cache  ProfileCache
	audit  ports.AuditSink
	log    zerolog.Logger
}

// NewUserService returns the UserService implementation. It is stateless
// between requests; all durable state lives in the repository, so concurrent
// use is safe as long as the collaborators are.
func NewUserService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	issuer ports.TokenIssuer,
	cache ProfileCache,
	audit ports.AuditSink,
	log zerolog.Logger,
) ports.UserService {
	return &userService{
		repo:   repo,
		hasher: hasher,
		issuer: issuer,
		cache:  cache,
		audit:  audit,
		log:    log,
	}
}

// Register creates a new identity. The pre-write existence check gives a
// fast duplicate answer, but the unique index behind the repository remains
// authoritative: a racing insert still comes back as ErrUserExists.
func (s *userService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	role := in.Role
	if role == "" {
		role = domain.DefaultRole
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	exists, err := s.repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if exists {
		return nil, domain.ErrUserExists
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.audit.Record(domain.AuditEvent{
		UserID:    created.ID,
		Email:     created.Email,
		Action:    domain.AuditRegistered,
		Timestamp: now,
	})

	s.log.Info().
		Str("user_id", created.ID).
		Str("role", string(created.Role)).
		Msg("user registered")

	return created, nil
}

// Login verifies the credential and, only on a match, issues a token for the
// identity. An unknown email and a wrong password are reported as distinct
// error kinds.
func (s *userService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user.Email, string(user.Role))
	if err != nil {
		return "", nil, fmt.Errorf("login: issue token: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("login succeeded")

	return token, user, nil
}

// GetByID returns the identity record, consulting the profile cache first.
func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if cached, err := s.cache.Get(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("user_id", id).Msg("profile cache read failed")
	} else if cached != nil {
		return cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, user); err != nil {
		s.log.Warn().Err(err).Str("user_id", id).Msg("profile cache write failed")
	}

	return user, nil
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.FindByEmail(ctx, email)
}

// Update applies a partial update: only present fields overwrite, a blank
// password is ignored, and an email change re-checks uniqueness. UpdatedAt
// is refreshed on every successful update.
func (s *userService) Update(ctx context.Context, id string, in ports.UpdateInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var actions []domain.AuditAction

	if in.Email != nil && *in.Email != user.Email {
		exists, err := s.repo.ExistsByEmail(ctx, *in.Email)
		if err != nil {
			return nil, fmt.Errorf("update: %w", err)
		}
		if exists {
			return nil, domain.ErrUserExists
		}
		user.Email = *in.Email
		actions = append(actions, domain.AuditEmailChanged)
	}

	if in.Password != nil && *in.Password != "" {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("update: hash password: %w", err)
		}
		user.PasswordHash = hash
		actions = append(actions, domain.AuditPasswordChanged)
	}

	profileChanged := false
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
		profileChanged = true
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
		profileChanged = true
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, domain.ErrInvalidRole
		}
		user.Role = *in.Role
		profileChanged = true
	}
	if profileChanged {
		actions = append(actions, domain.AuditProfileUpdated)
	}

	now := time.Now().UTC()
	user.UpdatedAt = now

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("user_id", id).Msg("profile cache invalidation failed")
	}

	for _, action := range actions {
		s.audit.Record(domain.AuditEvent{
			UserID:    updated.ID,
			Email:     updated.Email,
			Action:    action,
			Timestamp: now,
		})
	}

	s.log.Info().Str("user_id", updated.ID).Msg("user updated")

	return updated, nil
}
