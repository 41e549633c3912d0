package repository

import (
	"context"
	"time"

	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoRideRepo struct {
	col *mongo.Collection
}

func NewMongoRideRepo(db *mongo.Database) RideRepository {
	return &mongoRideRepo{col: db.Collection("rides")}
}

func (r *mongoRideRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Ride, error) {
	var ride models.Ride
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&ride)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ride, nil
}

func (r *mongoRideRepo) findMany(ctx context.Context, filter bson.M) ([]models.Ride, error) {
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rides []models.Ride
	if err := cursor.All(ctx, &rides); err != nil {
		return nil, err
	}
	return rides, nil
}

func (r *mongoRideRepo) FindAll(ctx context.Context) ([]models.Ride, error) {
	return r.findMany(ctx, bson.M{})
}

func (r *mongoRideRepo) FindByPassengerEmail(ctx context.Context, email string) ([]models.Ride, error) {
	return r.findMany(ctx, bson.M{"passenger_email": email})
}

func (r *mongoRideRepo) FindByDriverEmail(ctx context.Context, email string) ([]models.Ride, error) {
	return r.findMany(ctx, bson.M{"driver_email": email})
}

func (r *mongoRideRepo) Insert(ctx context.Context, ride *models.Ride) error {
	now := time.Now().UTC()
	ride.CreatedAt = now
	ride.UpdatedAt = now
	if ride.ID.IsZero() {
		ride.ID = primitive.NewObjectID()
	}
	_, err := r.col.InsertOne(ctx, ride)
	return err
}

func (r *mongoRideRepo) Update(ctx context.Context, ride *models.Ride) error {
	ride.UpdatedAt = time.Now().UTC()
	_, err := r.col.UpdateByID(ctx, ride.ID, bson.M{"$set": ride})
	return err
}
