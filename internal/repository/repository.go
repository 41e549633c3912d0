package repository

import (
	"context"
	"strings"

	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/apperr"
	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Find methods return (nil, nil) when no document matches, so callers
// can tell absence apart from a store failure.

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	Insert(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

type DriverRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Driver, error)
	FindByPhone(ctx context.Context, phone string) (*models.Driver, error)
	FindAll(ctx context.Context) ([]models.Driver, error)
	FindAllOnline(ctx context.Context) ([]models.Driver, error)
	Insert(ctx context.Context, driver *models.Driver) error
	Update(ctx context.Context, driver *models.Driver) error
}

type PassangerRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Passanger, error)
	FindByPhone(ctx context.Context, phone string) (*models.Passanger, error)
	FindAll(ctx context.Context) ([]models.Passanger, error)
	Insert(ctx context.Context, passanger *models.Passanger) error
	Update(ctx context.Context, passanger *models.Passanger) error
}

// mapDuplicateKey converts a unique-index rejection into a
// ConflictError naming the colliding field. Which index fired is
// recovered from the error text (indexes are named "<field>_1"); the
// driver does not expose it structurally. pairs is field, value,
// field, value...; the first pair is the fallback.
func mapDuplicateKey(err error, pairs ...string) error {
	if !mongo.IsDuplicateKeyError(err) {
		return err
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.Contains(err.Error(), pairs[i]+"_1") {
			return apperr.Conflict(pairs[i], pairs[i+1])
		}
	}
	return apperr.Conflict(pairs[0], pairs[1])
}

type RideRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Ride, error)
	FindAll(ctx context.Context) ([]models.Ride, error)
	FindByPassengerEmail(ctx context.Context, email string) ([]models.Ride, error)
	FindByDriverEmail(ctx context.Context, email string) ([]models.Ride, error)
	Insert(ctx context.Context, ride *models.Ride) error
	Update(ctx context.Context, ride *models.Ride) error
}
