package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Passanger struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	User         *primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"`
	Email        string              `bson:"email" json:"email" validate:"required,email"`
	Name         string              `bson:"name" json:"name"`
	Phone        string              `bson:"phone" json:"phone"`
	Rating       float64             `bson:"rating" json:"rating"`
	TotalTrips   int                 `bson:"total_trips" json:"total_trips"`
	ProfileImage string              `bson:"profile_image,omitempty" json:"profile_image,omitempty"`
	CreatedAt    time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time           `bson:"updated_at" json:"updated_at"`
}
