package repository

import (
	"context"
	"time"

	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoDriverRepo struct {
	col *mongo.Collection
}

func NewMongoDriverRepo(db *mongo.Database) DriverRepository {
	col := db.Collection("drivers")
	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "phone", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return &mongoDriverRepo{col: col}
}

func (r *mongoDriverRepo) findOne(ctx context.Context, filter bson.M) (*models.Driver, error) {
	var d models.Driver
	err := r.col.FindOne(ctx, filter).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *mongoDriverRepo) FindByEmail(ctx context.Context, email string) (*models.Driver, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoDriverRepo) FindByPhone(ctx context.Context, phone string) (*models.Driver, error) {
	return r.findOne(ctx, bson.M{"phone": phone})
}

func (r *mongoDriverRepo) findMany(ctx context.Context, filter bson.M) ([]models.Driver, error) {
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var drivers []models.Driver
	if err := cursor.All(ctx, &drivers); err != nil {
		return nil, err
	}
	return drivers, nil
}

func (r *mongoDriverRepo) FindAll(ctx context.Context) ([]models.Driver, error) {
	return r.findMany(ctx, bson.M{})
}

func (r *mongoDriverRepo) FindAllOnline(ctx context.Context) ([]models.Driver, error) {
	return r.findMany(ctx, bson.M{"is_online": true})
}

func (r *mongoDriverRepo) Insert(ctx context.Context, driver *models.Driver) error {
	now := time.Now().UTC()
	driver.CreatedAt = now
	driver.UpdatedAt = now
	if driver.ID.IsZero() {
		driver.ID = primitive.NewObjectID()
	}
	_, err := r.col.InsertOne(ctx, driver)
	return mapDuplicateKey(err, "email", driver.Email, "phone", driver.Phone)
}

func (r *mongoDriverRepo) Update(ctx context.Context, driver *models.Driver) error {
	driver.UpdatedAt = time.Now().UTC()
	_, err := r.col.UpdateByID(ctx, driver.ID, bson.M{"$set": driver})
	return err
}
