package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"restaurantadmin/internal/apperr"
	"restaurantadmin/internal/cache"
	"restaurantadmin/internal/ids"
	"restaurantadmin/internal/mail"
	"restaurantadmin/internal/models"
	"restaurantadmin/internal/repository"
	"restaurantadmin/internal/security"
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type UserStore interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	Update(ctx context.Context, user models.User) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type SessionStore interface {
	Get(ctx context.Context, userID string) (models.User, error)
	Set(ctx context.Context, user models.User) error
	Delete(ctx context.Context, userID string) error
}

type ActivationMailer interface {
	SendActivation(ctx context.Context, a mail.Activation) error
}

type AvatarReplacer interface {
	Replace(ctx context.Context, userID string, previous models.Avatar, upload AvatarUpload) (models.Avatar, error)
}

type AuthService struct {
	users      UserStore
	sessions   SessionStore
	mailer     ActivationMailer
	avatars    AvatarReplacer
	tokens     *security.Tokens
	bcryptCost int
	log        zerolog.Logger
}

func NewAuthService(
	users UserStore,
	sessions SessionStore,
	mailer ActivationMailer,
	avatars AvatarReplacer,
	tokens *security.Tokens,
	bcryptCost int,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		mailer:     mailer,
		avatars:    avatars,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		log:        log,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type RegisterResult struct {
	Email           string
	ActivationToken string
}

type ActivateInput struct {
	ActivationToken string
	ActivationCode  string
}

type LoginInput struct {
	Email    string
	Password string
}

type SocialAuthInput struct {
	Email  string
	Name   string
	Avatar string
}

type UpdateInfoInput struct {
	Name  string
	Email string
}

type UpdatePasswordInput struct {
	OldPassword string
	NewPassword string
}

// AuthResult is what a client receives after a successful sign-in or refresh.
type AuthResult struct {
	User    models.User
	Access  security.SignedToken
	Refresh security.SignedToken
}

// Register validates the candidate, hashes the password and sends the
// one-time code. Nothing is persisted until Activate.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (RegisterResult, error) {
	candidate, err := s.candidateFrom(input)
	if err != nil {
		return RegisterResult{}, err
	}

	if err := s.ensureEmailFree(ctx, candidate.Email, ""); err != nil {
		return RegisterResult{}, err
	}

	activation, err := s.tokens.IssueActivation(candidate)
	if err != nil {
		return RegisterResult{}, fmt.Errorf("issue activation token: %w", err)
	}

	if err := s.mailer.SendActivation(ctx, mail.Activation{
		Email: candidate.Email,
		Name:  candidate.Name,
		Code:  activation.Code,
	}); err != nil {
		return RegisterResult{}, apperr.Wrap(http.StatusBadRequest, err.Error(), err)
	}

	return RegisterResult{Email: candidate.Email, ActivationToken: activation.Token}, nil
}

func (s *AuthService) candidateFrom(input RegisterInput) (models.Candidate, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)
	switch {
	case name == "":
		return models.Candidate{}, apperr.BadRequest("Please enter your name")
	case !emailPattern.MatchString(email):
		return models.Candidate{}, apperr.BadRequest("Please Enter a Valid Email")
	case len(input.Password) < minPasswordLength:
		return models.Candidate{}, apperr.BadRequest("Password should be at least 6 characters long")
	}

	hash, err := security.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return models.Candidate{}, fmt.Errorf("hash password: %w", err)
	}
	return models.Candidate{Name: name, Email: email, PasswordHash: hash}, nil
}

// Activate creates the user once the submitted code matches the one sealed in
// the activation token.
func (s *AuthService) Activate(ctx context.Context, input ActivateInput) (models.User, error) {
	payload, err := s.tokens.ParseActivation(input.ActivationToken)
	if err != nil {
		return models.User{}, err
	}
	if strings.TrimSpace(input.ActivationCode) != payload.Code {
		return models.User{}, ErrInvalidActivationCode
	}

	if err := s.ensureEmailFree(ctx, payload.Candidate.Email, ""); err != nil {
		return models.User{}, err
	}

	user, err := s.users.Create(ctx, models.User{
		ID:           ids.New(),
		Name:         payload.Candidate.Name,
		Email:        payload.Candidate.Email,
		PasswordHash: payload.Candidate.PasswordHash,
		Role:         models.UserRoleUser,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return user, nil
}

// Login fails identically for an unknown email and a wrong password.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return AuthResult{}, ErrMissingCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	if !security.VerifyPassword(user.PasswordHash, input.Password) {
		return AuthResult{}, ErrInvalidCredentials
	}

	return s.startSession(ctx, user)
}

// SocialAuth signs in the account owning email, creating a verified account
// without a password on first contact.
func (s *AuthService) SocialAuth(ctx context.Context, input SocialAuthInput) (AuthResult, error) {
	email := normalizeEmail(input.Email)
	if !emailPattern.MatchString(email) {
		return AuthResult{}, apperr.BadRequest("Please Enter a Valid Email")
	}

	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		name := strings.TrimSpace(input.Name)
		if name == "" {
			return AuthResult{}, apperr.BadRequest("Please enter your name")
		}
		user, err = s.users.Create(ctx, models.User{
			ID:         ids.New(),
			Name:       name,
			Email:      email,
			Avatar:     models.Avatar{URL: strings.TrimSpace(input.Avatar)},
			Role:       models.UserRoleUser,
			IsVerified: true,
		})
		if err != nil {
			return AuthResult{}, err
		}
	default:
		return AuthResult{}, err
	}

	return s.startSession(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.sessions.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Refresh mints a new pair when the refresh token verifies and its session
// entry still exists. Both expiries restart from now.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (AuthResult, error) {
	if refreshToken == "" {
		return AuthResult{}, ErrRefreshInvalid
	}
	userID, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		s.log.Debug().Err(err).Msg("refresh token rejected")
		return AuthResult{}, ErrRefreshInvalid
	}

	user, err := s.sessions.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, cache.ErrSessionNotFound) {
			return AuthResult{}, ErrRefreshInvalid
		}
		return AuthResult{}, err
	}

	return s.startSession(ctx, user)
}

// Me returns the cached snapshot of the signed-in user.
func (s *AuthService) Me(ctx context.Context, userID string) (models.User, error) {
	user, err := s.sessions.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, cache.ErrSessionNotFound) {
			return models.User{}, ErrLoginRequired
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *AuthService) UpdateInfo(ctx context.Context, userID string, input UpdateInfoInput) (models.User, error) {
	user, err := s.currentUser(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	if email := normalizeEmail(input.Email); email != "" && email != user.Email {
		if !emailPattern.MatchString(email) {
			return models.User{}, apperr.BadRequest("Please Enter a Valid Email")
		}
		if err := s.ensureEmailFree(ctx, email, user.ID); err != nil {
			return models.User{}, err
		}
		user.Email = email
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		user.Name = name
	}

	return s.persist(ctx, user)
}

func (s *AuthService) UpdatePassword(ctx context.Context, userID string, input UpdatePasswordInput) (models.User, error) {
	if input.OldPassword == "" || input.NewPassword == "" {
		return models.User{}, ErrPasswordFieldsRequired
	}

	user, err := s.currentUser(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	if !user.HasPassword() {
		return models.User{}, ErrInvalidUser
	}
	if !security.VerifyPassword(user.PasswordHash, input.OldPassword) {
		return models.User{}, ErrOldPasswordMismatch
	}
	if len(input.NewPassword) < minPasswordLength {
		return models.User{}, apperr.BadRequest("Password should be at least 6 characters long")
	}

	hash, err := security.HashPassword(input.NewPassword, s.bcryptCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash

	return s.persist(ctx, user)
}

func (s *AuthService) UpdateAvatar(ctx context.Context, userID string, upload AvatarUpload) (models.User, error) {
	user, err := s.currentUser(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	avatar, err := s.avatars.Replace(ctx, user.ID, user.Avatar, upload)
	if err != nil {
		return models.User{}, err
	}
	user.Avatar = avatar

	return s.persist(ctx, user)
}

func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

func (s *AuthService) startSession(ctx context.Context, user models.User) (AuthResult, error) {
	access, err := s.tokens.IssueAccess(user.ID)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.tokens.IssueRefresh(user.ID)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue refresh token: %w", err)
	}
	if err := s.sessions.Set(ctx, user); err != nil {
		return AuthResult{}, fmt.Errorf("store session: %w", err)
	}
	return AuthResult{User: user, Access: access, Refresh: refresh}, nil
}

// persist writes user to the store, then overwrites the session snapshot.
// A failed snapshot write leaves the cache stale until the next mutation.
func (s *AuthService) persist(ctx context.Context, user models.User) (models.User, error) {
	updated, err := s.users.Update(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	if err := s.sessions.Set(ctx, updated); err != nil {
		s.log.Warn().Err(err).Str("user_id", updated.ID).Msg("session snapshot write failed")
	}
	return updated, nil
}

func (s *AuthService) currentUser(ctx context.Context, userID string) (models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.User{}, ErrInvalidUser
		}
		return models.User{}, err
	}
	return user, nil
}

// ensureEmailFree fails with ErrDuplicateEmail when email belongs to an
// account other than exceptID.
func (s *AuthService) ensureEmailFree(ctx context.Context, email, exceptID string) error {
	existing, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.ID != exceptID {
			return ErrDuplicateEmail
		}
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return nil
	default:
		return err
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
