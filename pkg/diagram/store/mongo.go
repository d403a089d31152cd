package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vennkit/vennkit/pkg/diagram"
	"github.com/vennkit/vennkit/pkg/errors"
)

// MongoConfig configures the MongoDB store.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// defaults for unset MongoConfig fields.
const (
	defaultMongoDatabase   = "vennkit"
	defaultMongoCollection = "diagrams"
)

// Mongo is a MongoDB-backed Store for multi-instance deployments.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongo connects to MongoDB and verifies the connection with a ping.
func NewMongo(ctx context.Context, cfg MongoConfig) (*Mongo, error) {
	if cfg.URI == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo URI cannot be empty")
	}
	if cfg.Database == "" {
		cfg.Database = defaultMongoDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = defaultMongoCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "ping mongo")
	}

	return &Mongo{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Put implements Store.
func (s *Mongo) Put(ctx context.Context, d diagram.Diagram) (string, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if err := errors.ValidateDiagramID(d.ID); err != nil {
		return "", err
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": d.ID}, d, opts); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "store diagram %s", d.ID)
	}
	return d.ID, nil
}

// Get implements Store.
func (s *Mongo) Get(ctx context.Context, id string) (diagram.Diagram, error) {
	var d diagram.Diagram
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return diagram.Diagram{}, errors.New(errors.ErrCodeDiagramNotFound, "no diagram with id %q", id)
	}
	if err != nil {
		return diagram.Diagram{}, errors.Wrap(errors.ErrCodeInternal, err, "load diagram %s", id)
	}
	return d, nil
}

// Delete implements Store.
func (s *Mongo) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete diagram %s", id)
	}
	return nil
}

// List implements Store.
func (s *Mongo) List(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"_id": 1})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list diagrams")
	}
	defer cur.Close(ctx)

	var ids []string
	for cur.Next(ctx) {
		var row struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode diagram id")
		}
		ids = append(ids, row.ID)
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list diagrams")
	}
	return ids, nil
}

// Close implements Store.
func (s *Mongo) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure Mongo implements Store.
var _ Store = (*Mongo)(nil)
