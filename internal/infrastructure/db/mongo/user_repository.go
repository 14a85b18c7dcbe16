package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/photoevents/photo-api/internal/core/domain"
)

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(collectionUsers)}
}

type mongoUser struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty"`
	Name             string               `bson:"name,omitempty"`
	Email            string               `bson:"email"`
	PasswordHash     string               `bson:"password,omitempty"`
	Role             string               `bson:"role"`
	RegistrationDate time.Time            `bson:"registration_date"`
	EventIDs         []primitive.ObjectID `bson:"event_ids"`
}

func toMongoUser(u *domain.User) mongoUser {
	return mongoUser{
		Name:             u.Name,
		Email:            u.Email,
		PasswordHash:     u.PasswordHash,
		Role:             u.Role,
		RegistrationDate: u.RegistrationDate.UTC(),
		EventIDs:         objectIDs(u.EventIDs),
	}
}

func (mu mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:               mu.ID.Hex(),
		Name:             mu.Name,
		Email:            mu.Email,
		PasswordHash:     mu.PasswordHash,
		Role:             mu.Role,
		RegistrationDate: mu.RegistrationDate.UTC(),
		EventIDs:         hexIDs(mu.EventIDs),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoUser(user)
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = id
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := objectID(id, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

// AddEvent appends eventID to the user's event references with $addToSet.
func (r *UserRepository) AddEvent(ctx context.Context, userID, eventID string) error {
	uid, err := objectID(userID, domain.ErrUserNotFound)
	if err != nil {
		return err
	}
	eid, err := objectID(eventID, domain.ErrEventNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$addToSet": bson.M{"event_ids": eid}})
	if err != nil {
		return fmt.Errorf("add event to user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// EnsureIndexes creates the unique email index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
