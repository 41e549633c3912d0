package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account roles. A user starts with no role and gets tagged when a
// driver or passanger profile attaches.
const (
	RoleNone      = ""
	RoleDriver    = "driver"
	RolePassenger = "passenger"
)

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	FirstName      string             `bson:"first_name" json:"first_name"`
	LastName       string             `bson:"last_name" json:"last_name"`
	Email          string             `bson:"email" json:"email" validate:"required,email"`
	Password       string             `bson:"password,omitempty" json:"-"`
	Role           string             `bson:"role" json:"role"`
	IsValid        bool               `bson:"is_valid" json:"is_valid"`
	Token          string             `bson:"token,omitempty" json:"-"`
	IsTokenEnabled bool               `bson:"is_token_enabled" json:"is_token_enabled"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}
