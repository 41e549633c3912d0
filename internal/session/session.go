package session

import (
	"context"
	"time"

	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/models"
	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SerializeUser reduces an account to its identifier. Only the id goes
// into the session store.
func SerializeUser(user *models.User) string {
	return user.ID.Hex()
}

// DeserializeUser resolves an identifier back to the full account, or
// nil when it no longer resolves.
func DeserializeUser(ctx context.Context, users repository.UserRepository, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return users.FindByID(ctx, oid)
}

// Store keeps server-side sessions in Redis, keyed by an opaque
// session id holding only the serialized account id.
type Store struct {
	rdb   *redis.Client
	users repository.UserRepository
	ttl   time.Duration
}

func NewStore(rdb *redis.Client, users repository.UserRepository, ttl time.Duration) *Store {
	return &Store{rdb: rdb, users: users, ttl: ttl}
}

// Save creates a session for the account and returns its id.
func (s *Store) Save(ctx context.Context, user *models.User) (string, error) {
	sid := uuid.NewString()
	if err := s.rdb.Set(ctx, sessionKey(sid), SerializeUser(user), s.ttl).Err(); err != nil {
		return "", err
	}
	return sid, nil
}

// Get resolves a session id to the full account, or nil when the
// session is expired, unknown, or the account is gone.
func (s *Store) Get(ctx context.Context, sid string) (*models.User, error) {
	id, err := s.rdb.Get(ctx, sessionKey(sid)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return DeserializeUser(ctx, s.users, id)
}

// Destroy removes a session.
func (s *Store) Destroy(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, sessionKey(sid)).Err()
}

func sessionKey(sid string) string {
	return "session:" + sid
}
