package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/apperr"
	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/models"
	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mailer delivers account verification mail.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, email string) error
}

// TokenSender delivers two-factor tokens.
type TokenSender interface {
	SendToken(ctx context.Context, email string) error
	ResendToken(ctx context.Context, email string) error
}

// UserService is the account directory: it owns authenticated
// identities and is the only component that writes the users
// collection.
type UserService struct {
	users     repository.UserRepository
	mailer    Mailer
	twoFactor TokenSender
}

func NewUserService(users repository.UserRepository, mailer Mailer, twoFactor TokenSender) *UserService {
	return &UserService{users: users, mailer: mailer, twoFactor: twoFactor}
}

// GetUserByEmail returns the account for email, or nil when absent.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.users.FindByEmail(ctx, email)
}

// GetUserByID returns the account for a hex object id, or nil when the
// id is malformed or unknown.
func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return s.users.FindByID(ctx, oid)
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.FindAll(ctx)
}

type RegisterInput struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Register creates a new account. The stored credential is a bcrypt
// hash, never the plaintext.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.ConfirmPassword != "" && in.Password != in.ConfirmPassword {
		return nil, apperr.Validation("passwords do not match")
	}

	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("email", in.Email)
	}

	hashed, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  hashed,
		Role:      models.RoleNone,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// EnsureUserByEmail is an idempotent find-or-create. When no password
// is supplied a generated one that passes the registration policy is
// used. A concurrent registration racing on the same email is resolved
// by re-reading instead of propagating the conflict.
func (s *UserService) EnsureUserByEmail(ctx context.Context, email, fullName, password string) (*models.User, error) {
	if email == "" {
		return nil, apperr.Validation("email required to ensure user")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	firstName, lastName := splitFullName(fullName)
	pw := password
	if pw == "" {
		pw = GeneratePassword()
	}

	user, err := s.Register(ctx, RegisterInput{
		FirstName:       firstName,
		LastName:        lastName,
		Email:           email,
		Password:        pw,
		ConfirmPassword: pw,
	})
	if apperr.IsConflict(err) {
		// Created concurrently; the existing account wins.
		return s.users.FindByEmail(ctx, email)
	}
	return user, err
}

// SetRole tags the account with a role, writing only when it differs.
func (s *UserService) SetRole(ctx context.Context, user *models.User, role string) error {
	if user.Role == role {
		return nil
	}
	user.Role = role
	return s.users.Update(ctx, user)
}

// Login authenticates an account and returns a signed token plus the
// account role.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if user == nil || !VerifyPassword(password, user.Password) {
		return "", nil, fmt.Errorf("invalid credentials: %w", apperr.ErrUnauthorized)
	}

	token, err := GenerateJWT(user.ID.Hex(), user.Role)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, email, currentPassword, newPassword, confirmNewPassword string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user not found: %w", apperr.ErrNotFound)
	}

	if !VerifyPassword(currentPassword, user.Password) {
		return fmt.Errorf("current password is incorrect: %w", apperr.ErrUnauthorized)
	}
	if newPassword != confirmNewPassword {
		return apperr.Validation("new passwords do not match")
	}

	hashed, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	return s.users.Update(ctx, user)
}

type UpdateProfileInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// UpdateProfile mutates name and, after a collision check, the email
// of a single account.
func (s *UserService) UpdateProfile(ctx context.Context, email string, in UpdateProfileInput) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user not found: %w", apperr.ErrNotFound)
	}

	if in.FirstName != "" {
		user.FirstName = in.FirstName
	}
	if in.LastName != "" {
		user.LastName = in.LastName
	}
	if in.Email != "" && in.Email != email {
		existing, err := s.users.FindByEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperr.Conflict("email", in.Email)
		}
		user.Email = in.Email
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) IsEmailVerified(ctx context.Context, email string) (bool, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, fmt.Errorf("user not found: %w", apperr.ErrNotFound)
	}
	return user.IsValid, nil
}

func (s *UserService) VerifyEmail(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user not found: %w", apperr.ErrNotFound)
	}
	if user.IsValid {
		return apperr.Validation("email already verified")
	}

	user.IsValid = true
	return s.users.Update(ctx, user)
}

// SendVerificationEmail dispatches a verification mail for an account
// that is not verified yet.
func (s *UserService) SendVerificationEmail(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user not found: %w", apperr.ErrNotFound)
	}
	if user.IsValid {
		return apperr.Validation("email already verified")
	}

	if err := s.mailer.SendVerificationEmail(ctx, user.Email); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrDelivery, err)
	}
	return nil
}

// UpdateUserToken stores a fresh verification token and marks the
// account unverified until the token is validated.
func (s *UserService) UpdateUserToken(ctx context.Context, email, token string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user not found: %w", apperr.ErrNotFound)
	}

	user.Token = token
	user.IsValid = false
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ValidateUserToken marks the account verified when the supplied token
// matches the stored one on a still-unverified account.
func (s *UserService) ValidateUserToken(ctx context.Context, email, token string) (bool, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if user != nil && user.Token == token && !user.IsValid {
		user.IsValid = true
		if err := s.users.Update(ctx, user); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// SendVerificationToken sends a two-factor token when the account has
// two-factor enabled; otherwise it is a no-op.
func (s *UserService) SendVerificationToken(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil || !user.IsTokenEnabled {
		return nil
	}
	if err := s.twoFactor.SendToken(ctx, email); err != nil {
		return fmt.Errorf("%w: failed to send verification token", apperr.ErrDelivery)
	}
	return nil
}

func (s *UserService) ResendVerificationToken(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil || !user.IsTokenEnabled {
		return nil
	}
	if err := s.twoFactor.ResendToken(ctx, email); err != nil {
		return fmt.Errorf("%w: failed to resend verification token", apperr.ErrDelivery)
	}
	return nil
}

func splitFullName(fullName string) (string, string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
