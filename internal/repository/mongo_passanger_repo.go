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

type mongoPassangerRepo struct {
	col *mongo.Collection
}

func NewMongoPassangerRepo(db *mongo.Database) PassangerRepository {
	col := db.Collection("passangers")
	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "phone", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return &mongoPassangerRepo{col: col}
}

func (r *mongoPassangerRepo) findOne(ctx context.Context, filter bson.M) (*models.Passanger, error) {
	var p models.Passanger
	err := r.col.FindOne(ctx, filter).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *mongoPassangerRepo) FindByEmail(ctx context.Context, email string) (*models.Passanger, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoPassangerRepo) FindByPhone(ctx context.Context, phone string) (*models.Passanger, error) {
	return r.findOne(ctx, bson.M{"phone": phone})
}

func (r *mongoPassangerRepo) FindAll(ctx context.Context) ([]models.Passanger, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var passangers []models.Passanger
	if err := cursor.All(ctx, &passangers); err != nil {
		return nil, err
	}
	return passangers, nil
}

func (r *mongoPassangerRepo) Insert(ctx context.Context, passanger *models.Passanger) error {
	now := time.Now().UTC()
	passanger.CreatedAt = now
	passanger.UpdatedAt = now
	if passanger.ID.IsZero() {
		passanger.ID = primitive.NewObjectID()
	}
	_, err := r.col.InsertOne(ctx, passanger)
	return mapDuplicateKey(err, "email", passanger.Email, "phone", passanger.Phone)
}

func (r *mongoPassangerRepo) Update(ctx context.Context, passanger *models.Passanger) error {
	passanger.UpdatedAt = time.Now().UTC()
	_, err := r.col.UpdateByID(ctx, passanger.ID, bson.M{"$set": passanger})
	return err
}
