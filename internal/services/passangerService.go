package services

import (
	"context"
	"fmt"

	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/apperr"
	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/models"
	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/repository"
)

// PassangerService is the passanger registry, the mirror image of the
// driver registry.
type PassangerService struct {
	passangers repository.PassangerRepository
	users      *UserService
	sibling    ProfileLookup
}

func NewPassangerService(passangers repository.PassangerRepository, users *UserService) *PassangerService {
	return &PassangerService{passangers: passangers, users: users}
}

// SetSibling wires the driver registry lookup. Must be called before
// Create is used.
func (s *PassangerService) SetSibling(sibling ProfileLookup) {
	s.sibling = sibling
}

type CreatePassangerInput struct {
	User            string `json:"user"` // optional account id
	Email           string `json:"email"`
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type CreatePassangerResult struct {
	Passanger     *models.Passanger `json:"passanger"`
	ResolutionErr error             `json:"-"`
}

func (s *PassangerService) Create(ctx context.Context, in CreatePassangerInput) (*CreatePassangerResult, error) {
	if in.ConfirmPassword != "" && in.Password != in.ConfirmPassword {
		return nil, apperr.Validation("passwords do not match")
	}

	account, resolutionErr := s.resolveAccount(ctx, in.User, in.Email, in.Name, in.Password)

	if dup, err := s.passangers.FindByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if dup != nil {
		return nil, apperr.Conflict("email", in.Email)
	}
	if dup, err := s.passangers.FindByPhone(ctx, in.Phone); err != nil {
		return nil, err
	} else if dup != nil {
		return nil, apperr.Conflict("phone", in.Phone)
	}

	if s.sibling != nil {
		if taken, err := s.sibling.HasEmail(ctx, in.Email); err != nil {
			return nil, err
		} else if taken {
			return nil, apperr.Conflict("email", in.Email)
		}
		if taken, err := s.sibling.HasPhone(ctx, in.Phone); err != nil {
			return nil, err
		} else if taken {
			return nil, apperr.Conflict("phone", in.Phone)
		}
	}

	passanger := &models.Passanger{
		Email: in.Email,
		Name:  in.Name,
		Phone: in.Phone,
	}
	if account != nil {
		passanger.User = &account.ID
	}

	if err := s.passangers.Insert(ctx, passanger); err != nil {
		return nil, err
	}
	return &CreatePassangerResult{Passanger: passanger, ResolutionErr: resolutionErr}, nil
}

func (s *PassangerService) resolveAccount(ctx context.Context, accountID, email, name, password string) (*models.User, error) {
	var account *models.User
	var err error
	if accountID != "" {
		account, err = s.users.GetUserByID(ctx, accountID)
		if err == nil && account == nil {
			err = fmt.Errorf("account %q did not resolve", accountID)
		}
	} else {
		account, err = s.users.EnsureUserByEmail(ctx, email, name, password)
	}
	if err != nil {
		return nil, err
	}
	if err := s.users.SetRole(ctx, account, models.RolePassenger); err != nil {
		return account, err
	}
	return account, nil
}

func (s *PassangerService) FindByEmail(ctx context.Context, email string) (*models.Passanger, error) {
	return s.passangers.FindByEmail(ctx, email)
}

func (s *PassangerService) FindByPhone(ctx context.Context, phone string) (*models.Passanger, error) {
	return s.passangers.FindByPhone(ctx, phone)
}

func (s *PassangerService) FindAll(ctx context.Context) ([]models.Passanger, error) {
	return s.passangers.FindAll(ctx)
}

type UpdatePassangerInput struct {
	Email      *string  `json:"email"`
	Name       *string  `json:"name"`
	Phone      *string  `json:"phone"`
	Rating     *float64 `json:"rating"`
	TotalTrips *int     `json:"total_trips"`
}

// UpdateByEmail patches a passanger profile, re-resolving the account
// link when the email changes.
func (s *PassangerService) UpdateByEmail(ctx context.Context, email string, in UpdatePassangerInput) (*models.Passanger, error) {
	passanger, err := s.passangers.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if passanger == nil {
		return nil, fmt.Errorf("passanger not found: %w", apperr.ErrNotFound)
	}

	if in.Email != nil && *in.Email != passanger.Email {
		if account, err := s.users.GetUserByEmail(ctx, *in.Email); err == nil && account != nil {
			passanger.User = &account.ID
		}
		passanger.Email = *in.Email
	}
	if in.Name != nil {
		passanger.Name = *in.Name
	}
	if in.Phone != nil {
		passanger.Phone = *in.Phone
	}
	if in.Rating != nil {
		passanger.Rating = *in.Rating
	}
	if in.TotalTrips != nil {
		passanger.TotalTrips = *in.TotalTrips
	}

	if err := s.passangers.Update(ctx, passanger); err != nil {
		return nil, err
	}
	return passanger, nil
}

func (s *PassangerService) SetProfileImage(ctx context.Context, email, url string) (*models.Passanger, error) {
	passanger, err := s.passangers.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if passanger == nil {
		return nil, fmt.Errorf("passanger not found: %w", apperr.ErrNotFound)
	}

	passanger.ProfileImage = url
	if err := s.passangers.Update(ctx, passanger); err != nil {
		return nil, err
	}
	return passanger, nil
}

// HasEmail implements ProfileLookup for the driver registry.
func (s *PassangerService) HasEmail(ctx context.Context, email string) (bool, error) {
	passanger, err := s.passangers.FindByEmail(ctx, email)
	return passanger != nil, err
}

// HasPhone implements ProfileLookup for the driver registry.
func (s *PassangerService) HasPhone(ctx context.Context, phone string) (bool, error) {
	passanger, err := s.passangers.FindByPhone(ctx, phone)
	return passanger != nil, err
}
