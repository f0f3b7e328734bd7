package source

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	rerrors "github.com/matzehuels/radiant/pkg/errors"
	"github.com/matzehuels/radiant/pkg/hierarchy"
)

// finder is the subset of *mongo.Collection used by MongoSource.
type finder interface {
	FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult
}

// categoryRecord is the stored shape: the category key next to the root
// of the hierarchy.
type categoryRecord struct {
	Category string             `bson:"category"`
	Root     hierarchy.Document `bson:"root"`
}

// MongoSource loads {category: <name>, root: <document>} records.
type MongoSource struct {
	coll finder
}

// NewMongoSource returns a MongoSource reading from coll.
func NewMongoSource(coll *mongo.Collection) *MongoSource {
	return &MongoSource{coll: coll}
}

// ConnectMongo opens a client for uri and returns a source over
// database.collection together with a function that disconnects.
func ConnectMongo(ctx context.Context, uri, database, collection string) (*MongoSource, func(context.Context) error, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, rerrors.Wrap(rerrors.ErrCodeNetwork, err, "connect mongodb")
	}
	return NewMongoSource(client.Database(database).Collection(collection)), client.Disconnect, nil
}

// Load implements [DataSource].
func (s *MongoSource) Load(ctx context.Context, category string) (hierarchy.Document, error) {
	if err := rerrors.ValidateCategory(category); err != nil {
		return hierarchy.Document{}, err
	}
	var rec categoryRecord
	err := s.coll.FindOne(ctx, bson.M{"category": category}).Decode(&rec)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return hierarchy.Document{}, rerrors.New(rerrors.ErrCodeNotFound, "no document for category %q", category)
	case err != nil:
		return hierarchy.Document{}, rerrors.Wrap(rerrors.ErrCodeNetwork, err, "find category %q", category)
	}
	return rec.Root, nil
}
