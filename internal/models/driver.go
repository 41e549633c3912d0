package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Driver is the driver-side profile. The backing user account is a weak
// reference: the profile keeps the account id but never manages the
// account's lifecycle.
type Driver struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	User          *primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"`
	Email         string              `bson:"email" json:"email" validate:"required,email"`
	Name          string              `bson:"name" json:"name"`
	Phone         string              `bson:"phone" json:"phone"`
	LicenseNumber string              `bson:"license_number" json:"license_number"`
	VehiclePlate  string              `bson:"vehicle_plate" json:"vehicle_plate"`
	VehicleModel  string              `bson:"vehicle_model" json:"vehicle_model"`
	VehicleYear   string              `bson:"vehicle_year" json:"vehicle_year"`
	IsVerified    bool                `bson:"is_verified" json:"is_verified"`
	Rating        float64             `bson:"rating" json:"rating"`
	TotalTrips    int                 `bson:"total_trips" json:"total_trips"`
	IsOnline      bool                `bson:"is_online" json:"is_online"`
	ProfileImage  string              `bson:"profile_image,omitempty" json:"profile_image,omitempty"`
	CreatedAt     time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time           `bson:"updated_at" json:"updated_at"`
}
