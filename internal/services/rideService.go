package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/apperr"
	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/models"
	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/repository"
	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidTransition reports a ride status change the lifecycle
// graph does not allow.
var ErrInvalidTransition = errors.New("invalid ride status transition")

// RideService owns the ride ledger and its lifecycle:
// pending -> accepted -> in-progress -> completed, with cancelled
// reachable from any non-terminal state.
type RideService struct {
	rides      repository.RideRepository
	passangers *PassangerService
	drivers    *DriverService
}

func NewRideService(rides repository.RideRepository, passangers *PassangerService, drivers *DriverService) *RideService {
	return &RideService{rides: rides, passangers: passangers, drivers: drivers}
}

type CreateRideInput struct {
	PassengerEmail         string    `json:"passenger_email"`
	PassengerName          string    `json:"passenger_name"`
	DriverEmail            string    `json:"driver_email"`
	DriverName             string    `json:"driver_name"`
	PickupAddress          string    `json:"pickup_address"`
	PickupCoordinates      []float64 `json:"pickup_coordinates"`
	DestinationAddress     string    `json:"destination_address"`
	DestinationCoordinates []float64 `json:"destination_coordinates"`
	EstimatedFare          float64   `json:"estimated_fare"`
	EstimatedDuration      int       `json:"estimated_duration"`
}

// Create stores a pending ride. Participant references are resolved on
// a best-effort basis; the submitted emails are persisted verbatim, so
// a ride with an unknown passenger still goes through and remains
// queryable.
func (s *RideService) Create(ctx context.Context, in CreateRideInput) (*models.Ride, error) {
	if len(in.PickupCoordinates) < 2 || len(in.DestinationCoordinates) < 2 {
		return nil, apperr.Validation("pickup and destination coordinates must be [longitude, latitude] pairs")
	}

	now := time.Now().UTC()
	ride := &models.Ride{
		PassengerEmail:         in.PassengerEmail,
		PassengerName:          in.PassengerName,
		DriverEmail:            in.DriverEmail,
		DriverName:             in.DriverName,
		PickupAddress:          in.PickupAddress,
		PickupCoordinates:      in.PickupCoordinates,
		DestinationAddress:     in.DestinationAddress,
		DestinationCoordinates: in.DestinationCoordinates,
		EstimatedFare:          in.EstimatedFare,
		EstimatedDuration:      in.EstimatedDuration,
		Status:                 models.RidePending,
		RequestedAt:            &now,
	}

	// Resolve both participant references concurrently; failures only
	// leave the reference absent.
	tasks := []utils.ParallelTask{
		func() (interface{}, error) {
			return s.passangers.FindByEmail(ctx, in.PassengerEmail)
		},
	}
	if in.DriverEmail != "" {
		tasks = append(tasks, func() (interface{}, error) {
			return s.drivers.FindByEmail(ctx, in.DriverEmail)
		})
	}
	results, _ := utils.RunParallelTasks(tasks)

	if passanger, ok := results[0].(*models.Passanger); ok && passanger != nil {
		ride.Passenger = &passanger.ID
	}
	if len(results) > 1 {
		if driver, ok := results[1].(*models.Driver); ok && driver != nil {
			ride.Driver = &driver.ID
		}
	}

	if err := s.rides.Insert(ctx, ride); err != nil {
		return nil, err
	}
	return ride, nil
}

// FindByID returns the ride for a hex object id, or nil when the id is
// malformed or unknown.
func (s *RideService) FindByID(ctx context.Context, id string) (*models.Ride, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return s.rides.FindByID(ctx, oid)
}

func (s *RideService) FindAll(ctx context.Context) ([]models.Ride, error) {
	return s.rides.FindAll(ctx)
}

func (s *RideService) FindByPassengerEmail(ctx context.Context, email string) ([]models.Ride, error) {
	return s.rides.FindByPassengerEmail(ctx, email)
}

func (s *RideService) FindByDriverEmail(ctx context.Context, email string) ([]models.Ride, error) {
	return s.rides.FindByDriverEmail(ctx, email)
}

type UpdateRideInput struct {
	DriverEmail      *string            `json:"driver_email"`
	DriverName       *string            `json:"driver_name"`
	Status           *models.RideStatus `json:"status"`
	ActualFare       *float64           `json:"actual_fare"`
	PassengerComment *string            `json:"passenger_comment"`
	PassengerRating  *float64           `json:"passenger_rating"`
	DriverRating     *float64           `json:"driver_rating"`
}

// UpdateByID is the unvalidated escape hatch: any status in the patch
// is applied verbatim, bypassing the lifecycle graph. Use Transition
// for validated status changes.
func (s *RideService) UpdateByID(ctx context.Context, id string, in UpdateRideInput) (*models.Ride, error) {
	ride, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ride == nil {
		return nil, fmt.Errorf("ride not found: %w", apperr.ErrNotFound)
	}

	if in.DriverEmail != nil {
		ride.DriverEmail = *in.DriverEmail
		if driver, err := s.drivers.FindByEmail(ctx, *in.DriverEmail); err == nil && driver != nil {
			ride.Driver = &driver.ID
		}
	}
	if in.DriverName != nil {
		ride.DriverName = *in.DriverName
	}
	if in.Status != nil {
		ride.Status = *in.Status
	}
	if in.ActualFare != nil {
		ride.ActualFare = in.ActualFare
	}
	if in.PassengerComment != nil {
		ride.PassengerComment = *in.PassengerComment
	}
	if in.PassengerRating != nil {
		ride.PassengerRating = in.PassengerRating
	}
	if in.DriverRating != nil {
		ride.DriverRating = in.DriverRating
	}

	if err := s.rides.Update(ctx, ride); err != nil {
		return nil, err
	}
	return ride, nil
}

// Transition applies a validated lifecycle change and stamps the
// matching timestamp.
func (s *RideService) Transition(ctx context.Context, id string, target models.RideStatus) (*models.Ride, error) {
	ride, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ride == nil {
		return nil, fmt.Errorf("ride not found: %w", apperr.ErrNotFound)
	}

	if !canTransition(ride.Status, target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, ride.Status, target)
	}

	now := time.Now().UTC()
	ride.Status = target
	switch target {
	case models.RideAccepted:
		ride.AcceptedAt = &now
	case models.RideCompleted:
		ride.CompletedAt = &now
	case models.RideCancelled:
		ride.CancelledAt = &now
	}

	if err := s.rides.Update(ctx, ride); err != nil {
		return nil, err
	}
	return ride, nil
}

// CancelRide is the dedicated terminal transition.
func (s *RideService) CancelRide(ctx context.Context, id, reason, passengerComment string) (*models.Ride, error) {
	ride, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ride == nil {
		return nil, fmt.Errorf("ride not found: %w", apperr.ErrNotFound)
	}
	if ride.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, ride.Status, models.RideCancelled)
	}

	if reason == "" {
		reason = "No reason provided"
	}

	now := time.Now().UTC()
	ride.Status = models.RideCancelled
	ride.CancelledAt = &now
	ride.CancellationReason = reason
	if passengerComment != "" {
		ride.PassengerComment = passengerComment
	}

	if err := s.rides.Update(ctx, ride); err != nil {
		return nil, err
	}
	return ride, nil
}

func canTransition(from, to models.RideStatus) bool {
	if !to.IsValid() {
		return false
	}
	if to == models.RideCancelled {
		return !from.IsTerminal()
	}
	switch from {
	case models.RidePending:
		return to == models.RideAccepted
	case models.RideAccepted:
		return to == models.RideInProgress
	case models.RideInProgress:
		return to == models.RideCompleted
	}
	return false
}
