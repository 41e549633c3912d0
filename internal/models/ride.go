package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideStatus string

const (
	RidePending    RideStatus = "pending"
	RideAccepted   RideStatus = "accepted"
	RideInProgress RideStatus = "in-progress"
	RideCompleted  RideStatus = "completed"
	RideCancelled  RideStatus = "cancelled"
)

// IsValid reports whether s is one of the known ride statuses.
func (s RideStatus) IsValid() bool {
	switch s {
	case RidePending, RideAccepted, RideInProgress, RideCompleted, RideCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further lifecycle transition is expected.
func (s RideStatus) IsTerminal() bool {
	return s == RideCompleted || s == RideCancelled
}

// Ride is a single trip request. Participant emails are persisted
// verbatim next to the resolved profile references, so the ride stays
// queryable even when resolution failed at creation time.
type Ride struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	Passenger      *primitive.ObjectID `bson:"passenger,omitempty" json:"passenger,omitempty"`
	PassengerEmail string              `bson:"passenger_email" json:"passenger_email"`
	PassengerName  string              `bson:"passenger_name" json:"passenger_name"`
	Driver         *primitive.ObjectID `bson:"driver,omitempty" json:"driver,omitempty"`
	DriverEmail    string              `bson:"driver_email,omitempty" json:"driver_email,omitempty"`
	DriverName     string              `bson:"driver_name,omitempty" json:"driver_name,omitempty"`

	PickupAddress          string    `bson:"pickup_address" json:"pickup_address"`
	PickupCoordinates      []float64 `bson:"pickup_coordinates" json:"pickup_coordinates"` // [longitude, latitude]
	DestinationAddress     string    `bson:"destination_address" json:"destination_address"`
	DestinationCoordinates []float64 `bson:"destination_coordinates" json:"destination_coordinates"` // [longitude, latitude]

	Status            RideStatus `bson:"status" json:"status"`
	EstimatedFare     float64    `bson:"estimated_fare" json:"estimated_fare"`
	ActualFare        *float64   `bson:"actual_fare,omitempty" json:"actual_fare,omitempty"`
	EstimatedDuration int        `bson:"estimated_duration" json:"estimated_duration"` // minutes

	RequestedAt *time.Time `bson:"requested_at,omitempty" json:"requested_at,omitempty"`
	AcceptedAt  *time.Time `bson:"accepted_at,omitempty" json:"accepted_at,omitempty"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	CancelledAt *time.Time `bson:"cancelled_at,omitempty" json:"cancelled_at,omitempty"`

	CancellationReason string   `bson:"cancellation_reason,omitempty" json:"cancellation_reason,omitempty"`
	PassengerComment   string   `bson:"passenger_comment,omitempty" json:"passenger_comment,omitempty"`
	PassengerRating    *float64 `bson:"passenger_rating,omitempty" json:"passenger_rating,omitempty"`
	DriverRating       *float64 `bson:"driver_rating,omitempty" json:"driver_rating,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
