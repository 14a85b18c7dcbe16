package mongo

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/photoevents/photo-api/internal/core/domain"
)

func TestObjectIDs_DropsMalformed(t *testing.T) {
	good := primitive.NewObjectID()
	got := objectIDs([]string{good.Hex(), "nope", "", "123"})
	if len(got) != 1 || got[0] != good {
		t.Fatalf("unexpected ids: %v", got)
	}
	if hex := hexIDs(got); len(hex) != 1 || hex[0] != good.Hex() {
		t.Fatalf("unexpected hex ids: %v", hex)
	}
}

func TestObjectID_MapsMalformedToNotFound(t *testing.T) {
	if _, err := objectID("garbage", domain.ErrEventNotFound); !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
}

func TestMongoPhoto_Document(t *testing.T) {
	eid, uid := primitive.NewObjectID(), primitive.NewObjectID()
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	mp, err := toMongoPhoto(&domain.Photo{
		EventID:      eid.Hex(),
		UserID:       uid.Hex(),
		URL:          "uploads/1-x.jpg",
		OriginalName: "a.jpg",
		UploadedAt:   at,
	})
	if err != nil {
		t.Fatalf("toMongoPhoto returned error: %v", err)
	}

	raw, err := bson.Marshal(mp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := doc["_id"]; ok {
		t.Fatalf("zero id must be omitted so the server assigns one")
	}
	if doc["event_id"] != eid || doc["user_id"] != uid {
		t.Fatalf("references must be stored as ObjectIDs: %v", doc)
	}
	if doc["originalName"] != "a.jpg" || doc["url"] != "uploads/1-x.jpg" {
		t.Fatalf("unexpected document: %v", doc)
	}

	back := mp.toDomain()
	if back.EventID != eid.Hex() || back.UserID != uid.Hex() || !back.UploadedAt.Equal(at) {
		t.Fatalf("unexpected round trip: %+v", back)
	}
}

func TestMongoPhoto_RejectsBadReferences(t *testing.T) {
	if _, err := toMongoPhoto(&domain.Photo{EventID: "x", UserID: primitive.NewObjectID().Hex()}); !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestMongoUser_OmitsEmptyPassword(t *testing.T) {
	doc := toMongoUser(&domain.User{Email: "c@example.com", Role: domain.RoleClient})
	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := m["password"]; ok {
		t.Fatalf("clients must not carry a password field: %v", m)
	}
}

func TestMongoEvent_ToDomain(t *testing.T) {
	uid := primitive.NewObjectID()
	me := mongoEvent{ID: primitive.NewObjectID(), Name: "Gala", UserIDs: []primitive.ObjectID{uid}}

	ev := me.toDomain()
	if ev.Date != nil {
		t.Fatalf("expected nil date, got %v", ev.Date)
	}
	if !ev.HasContributor(uid.Hex()) {
		t.Fatalf("expected contributor %s in %v", uid.Hex(), ev.UserIDs)
	}
}
