package sink

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/matzehuels/skillflow/pkg/errors"
)

// Defaults for [NewMongoSink].
const (
	DefaultMongoDatabase   = "skillflow"
	DefaultMongoCollection = "exports"
)

// mongoArtifact is the stored document. The artifact name is the primary key,
// so exporting the same project twice replaces the previous artifact.
type mongoArtifact struct {
	Name        string    `bson:"_id"`
	ContentType string    `bson:"content_type"`
	Size        int       `bson:"size"`
	Data        []byte    `bson:"data"`
	DeliveredAt time.Time `bson:"delivered_at"`
}

func newMongoArtifact(a Artifact, now time.Time) mongoArtifact {
	return mongoArtifact{
		Name:        a.Name,
		ContentType: a.ContentType,
		Size:        len(a.Data),
		Data:        a.Data,
		DeliveredAt: now.UTC(),
	}
}

// MongoSink upserts artifacts into a MongoDB collection.
type MongoSink struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

// NewMongoSink connects to uri and targets database.collection. Empty names
// fall back to [DefaultMongoDatabase] and [DefaultMongoCollection].
func NewMongoSink(ctx context.Context, uri, database, collection string) (*MongoSink, error) {
	if database == "" {
		database = DefaultMongoDatabase
	}
	if collection == "" {
		collection = DefaultMongoCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeSinkFailed, err, "connect to mongodb")
	}
	return &MongoSink{
		client: client,
		coll:   client.Database(database).Collection(collection),
		now:    time.Now,
	}, nil
}

// Deliver upserts the artifact keyed by its name.
func (s *MongoSink) Deliver(ctx context.Context, a Artifact) error {
	doc := newMongoArtifact(a, s.now())
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": a.Name}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeSinkFailed, err, "store %s in mongodb", a.Name)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoSink) Close(ctx context.Context) error { return s.client.Disconnect(ctx) }
