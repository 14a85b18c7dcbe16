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
	"github.com/photoevents/photo-api/internal/core/ports"
)

var (
	_ ports.PhotoRepository = (*PhotoRepository)(nil)
	_ ports.EventRepository = (*EventRepository)(nil)
	_ ports.UserRepository  = (*UserRepository)(nil)
)

// PhotoRepository implements ports.PhotoRepository using MongoDB.
type PhotoRepository struct {
	coll *mongo.Collection
}

func NewPhotoRepository(db *mongo.Database) *PhotoRepository {
	return &PhotoRepository{coll: db.Collection(collectionPhotos)}
}

type mongoPhoto struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	EventID      primitive.ObjectID `bson:"event_id"`
	UserID       primitive.ObjectID `bson:"user_id"`
	URL          string             `bson:"url"`
	OriginalName string             `bson:"originalName"`
	ContentType  string             `bson:"content_type,omitempty"`
	Size         int64              `bson:"size,omitempty"`
	UploadedAt   time.Time          `bson:"uploaded_at"`
}

func toMongoPhoto(p *domain.Photo) (mongoPhoto, error) {
	eid, err := primitive.ObjectIDFromHex(p.EventID)
	if err != nil {
		return mongoPhoto{}, fmt.Errorf("photo event id %q: %w", p.EventID, domain.ErrInvalidID)
	}
	uid, err := primitive.ObjectIDFromHex(p.UserID)
	if err != nil {
		return mongoPhoto{}, fmt.Errorf("photo user id %q: %w", p.UserID, domain.ErrInvalidID)
	}
	return mongoPhoto{
		EventID:      eid,
		UserID:       uid,
		URL:          p.URL,
		OriginalName: p.OriginalName,
		ContentType:  p.ContentType,
		Size:         p.Size,
		UploadedAt:   p.UploadedAt.UTC(),
	}, nil
}

func (mp mongoPhoto) toDomain() *domain.Photo {
	return &domain.Photo{
		ID:           mp.ID.Hex(),
		EventID:      mp.EventID.Hex(),
		UserID:       mp.UserID.Hex(),
		URL:          mp.URL,
		OriginalName: mp.OriginalName,
		ContentType:  mp.ContentType,
		Size:         mp.Size,
		UploadedAt:   mp.UploadedAt.UTC(),
	}
}

func (r *PhotoRepository) FindByID(ctx context.Context, id string) (*domain.Photo, error) {
	oid, err := objectID(id, domain.ErrPhotoNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoPhoto
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPhotoNotFound
		}
		return nil, fmt.Errorf("find photo: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *PhotoRepository) FindByEvent(ctx context.Context, eventID string) ([]*domain.Photo, error) {
	eid, err := objectID(eventID, domain.ErrInvalidID)
	if err != nil {
		return nil, err
	}
	return r.find(ctx, bson.M{"event_id": eid})
}

// FindByEventAndUser backs the dedup lookup of Upload; it is served by the
// (event_id, user_id, originalName) index.
func (r *PhotoRepository) FindByEventAndUser(ctx context.Context, eventID, userID string) ([]*domain.Photo, error) {
	eid, err := objectID(eventID, domain.ErrInvalidID)
	if err != nil {
		return nil, err
	}
	uid, err := objectID(userID, domain.ErrInvalidID)
	if err != nil {
		return nil, err
	}
	return r.find(ctx, bson.M{"event_id": eid, "user_id": uid})
}

func (r *PhotoRepository) FindByIDs(ctx context.Context, ids []string, eventID string) ([]*domain.Photo, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []*domain.Photo{}, nil
	}

	filter := bson.M{"_id": bson.M{"$in": oids}}
	if eventID != "" {
		eid, err := objectID(eventID, domain.ErrInvalidID)
		if err != nil {
			return nil, err
		}
		filter["event_id"] = eid
	}
	return r.find(ctx, filter)
}

func (r *PhotoRepository) find(ctx context.Context, filter bson.M) ([]*domain.Photo, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find photos: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoPhoto
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode photos: %w", err)
	}
	photos := make([]*domain.Photo, 0, len(docs))
	for _, d := range docs {
		photos = append(photos, d.toDomain())
	}
	return photos, nil
}

func (r *PhotoRepository) CountByEvent(ctx context.Context, eventID string) (int64, error) {
	eid, err := objectID(eventID, domain.ErrInvalidID)
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"event_id": eid})
	if err != nil {
		return 0, fmt.Errorf("count photos: %w", err)
	}
	return n, nil
}

// InsertMany stores all photos with one ordered insert. Ids are generated
// client side so the returned records carry them without a re-read.
func (r *PhotoRepository) InsertMany(ctx context.Context, photos []*domain.Photo) ([]*domain.Photo, error) {
	if len(photos) == 0 {
		return []*domain.Photo{}, nil
	}

	docs := make([]interface{}, 0, len(photos))
	out := make([]*domain.Photo, 0, len(photos))
	for _, p := range photos {
		mp, err := toMongoPhoto(p)
		if err != nil {
			return nil, err
		}
		mp.ID = primitive.NewObjectID()
		docs = append(docs, mp)
		out = append(out, mp.toDomain())
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return nil, fmt.Errorf("insert photos: %w", err)
	}
	return out, nil
}

func (r *PhotoRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return 0, fmt.Errorf("delete photos: %w", err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the indexes on the photos collection. The compound
// index is intentionally not unique.
func (r *PhotoRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "event_id", Value: 1}, {Key: "user_id", Value: 1}, {Key: "originalName", Value: 1}}},
		{Keys: bson.D{{Key: "event_id", Value: 1}}},
	})
	return err
}
