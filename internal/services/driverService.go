package services

import (
	"context"
	"fmt"

	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/apperr"
	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/models"
	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/repository"
)

// ProfileLookup is the narrow capability each registry exposes to its
// sibling for the cross-role duplicate check. The two registries
// reference each other through this interface, bound with a setter
// after both are constructed, so there is no construction-order cycle.
type ProfileLookup interface {
	HasEmail(ctx context.Context, email string) (bool, error)
	HasPhone(ctx context.Context, phone string) (bool, error)
}

// DriverService is the driver registry.
type DriverService struct {
	drivers repository.DriverRepository
	users   *UserService
	sibling ProfileLookup
}

func NewDriverService(drivers repository.DriverRepository, users *UserService) *DriverService {
	return &DriverService{drivers: drivers, users: users}
}

// SetSibling wires the passanger registry lookup. Must be called before
// Create is used.
func (s *DriverService) SetSibling(sibling ProfileLookup) {
	s.sibling = sibling
}

type CreateDriverInput struct {
	User            string `json:"user"` // optional account id
	Email           string `json:"email"`
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	LicenseNumber   string `json:"license_number"`
	VehiclePlate    string `json:"vehicle_plate"`
	VehicleModel    string `json:"vehicle_model"`
	VehicleYear     string `json:"vehicle_year"`
	IsVerified      bool   `json:"is_verified"` // ignored: verification is a separate operation
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// CreateDriverResult carries the created profile and, when account
// resolution failed, the reason the profile has no account link.
type CreateDriverResult struct {
	Driver        *models.Driver `json:"driver"`
	ResolutionErr error          `json:"-"`
}

// Create registers a driver profile. Account resolution failures
// degrade to a profile without an account link; duplicate email or
// phone in either role collection aborts with a conflict.
func (s *DriverService) Create(ctx context.Context, in CreateDriverInput) (*CreateDriverResult, error) {
	if in.ConfirmPassword != "" && in.Password != in.ConfirmPassword {
		return nil, apperr.Validation("passwords do not match")
	}

	account, resolutionErr := s.resolveAccount(ctx, in.User, in.Email, in.Name, in.Password)

	if dup, err := s.drivers.FindByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if dup != nil {
		return nil, apperr.Conflict("email", in.Email)
	}
	if dup, err := s.drivers.FindByPhone(ctx, in.Phone); err != nil {
		return nil, err
	} else if dup != nil {
		return nil, apperr.Conflict("phone", in.Phone)
	}

	// A person cannot be registered as driver and passanger at once.
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

	driver := &models.Driver{
		Email:         in.Email,
		Name:          in.Name,
		Phone:         in.Phone,
		LicenseNumber: in.LicenseNumber,
		VehiclePlate:  in.VehiclePlate,
		VehicleModel:  in.VehicleModel,
		VehicleYear:   in.VehicleYear,
		IsVerified:    false, // always starts unverified, whatever the caller sent
	}
	if account != nil {
		driver.User = &account.ID
	}

	if err := s.drivers.Insert(ctx, driver); err != nil {
		return nil, err
	}
	return &CreateDriverResult{Driver: driver, ResolutionErr: resolutionErr}, nil
}

// resolveAccount looks up an explicit account id, otherwise ensures an
// account for the email; either way the account is tagged with the
// driver role. Any failure is reported back instead of aborting
// profile creation.
func (s *DriverService) resolveAccount(ctx context.Context, accountID, email, name, password string) (*models.User, error) {
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
	if err := s.users.SetRole(ctx, account, models.RoleDriver); err != nil {
		return account, err
	}
	return account, nil
}

func (s *DriverService) FindByEmail(ctx context.Context, email string) (*models.Driver, error) {
	return s.drivers.FindByEmail(ctx, email)
}

func (s *DriverService) FindByPhone(ctx context.Context, phone string) (*models.Driver, error) {
	return s.drivers.FindByPhone(ctx, phone)
}

func (s *DriverService) FindAll(ctx context.Context) ([]models.Driver, error) {
	return s.drivers.FindAll(ctx)
}

func (s *DriverService) FindAllOnline(ctx context.Context) ([]models.Driver, error) {
	return s.drivers.FindAllOnline(ctx)
}

type UpdateDriverInput struct {
	Email         *string  `json:"email"`
	Name          *string  `json:"name"`
	Phone         *string  `json:"phone"`
	LicenseNumber *string  `json:"license_number"`
	VehiclePlate  *string  `json:"vehicle_plate"`
	VehicleModel  *string  `json:"vehicle_model"`
	VehicleYear   *string  `json:"vehicle_year"`
	IsOnline      *bool    `json:"is_online"`
	Rating        *float64 `json:"rating"`
	TotalTrips    *int     `json:"total_trips"`
}

// UpdateByEmail patches a driver profile. When the email changes, the
// account link is re-resolved against the new email.
func (s *DriverService) UpdateByEmail(ctx context.Context, email string, in UpdateDriverInput) (*models.Driver, error) {
	driver, err := s.drivers.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if driver == nil {
		return nil, fmt.Errorf("driver not found: %w", apperr.ErrNotFound)
	}

	if in.Email != nil && *in.Email != driver.Email {
		if account, err := s.users.GetUserByEmail(ctx, *in.Email); err == nil && account != nil {
			driver.User = &account.ID
		}
		driver.Email = *in.Email
	}
	if in.Name != nil {
		driver.Name = *in.Name
	}
	if in.Phone != nil {
		driver.Phone = *in.Phone
	}
	if in.LicenseNumber != nil {
		driver.LicenseNumber = *in.LicenseNumber
	}
	if in.VehiclePlate != nil {
		driver.VehiclePlate = *in.VehiclePlate
	}
	if in.VehicleModel != nil {
		driver.VehicleModel = *in.VehicleModel
	}
	if in.VehicleYear != nil {
		driver.VehicleYear = *in.VehicleYear
	}
	if in.IsOnline != nil {
		driver.IsOnline = *in.IsOnline
	}
	if in.Rating != nil {
		driver.Rating = *in.Rating
	}
	if in.TotalTrips != nil {
		driver.TotalTrips = *in.TotalTrips
	}

	if err := s.drivers.Update(ctx, driver); err != nil {
		return nil, err
	}
	return driver, nil
}

// Verify flips the verification flag. Creation always leaves it false.
func (s *DriverService) Verify(ctx context.Context, email string) (*models.Driver, error) {
	driver, err := s.drivers.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if driver == nil {
		return nil, fmt.Errorf("driver not found: %w", apperr.ErrNotFound)
	}

	driver.IsVerified = true
	if err := s.drivers.Update(ctx, driver); err != nil {
		return nil, err
	}
	return driver, nil
}

func (s *DriverService) SetProfileImage(ctx context.Context, email, url string) (*models.Driver, error) {
	driver, err := s.drivers.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if driver == nil {
		return nil, fmt.Errorf("driver not found: %w", apperr.ErrNotFound)
	}

	driver.ProfileImage = url
	if err := s.drivers.Update(ctx, driver); err != nil {
		return nil, err
	}
	return driver, nil
}

// HasEmail implements ProfileLookup for the passanger registry.
func (s *DriverService) HasEmail(ctx context.Context, email string) (bool, error) {
	driver, err := s.drivers.FindByEmail(ctx, email)
	return driver != nil, err
}

// HasPhone implements ProfileLookup for the passanger registry.
func (s *DriverService) HasPhone(ctx context.Context, phone string) (bool, error) {
	driver, err := s.drivers.FindByPhone(ctx, phone)
	return driver != nil, err
}
