package preset

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/carousel/pkg/errors"
)

// MongoOptions configures NewMongoStore.
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
}

// MongoStore persists presets in a MongoDB collection with a unique index
// on name.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB, verifies the connection and ensures
// the name index exists.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	if opts.URI == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "mongo uri must not be empty")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect mongo")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongo")
	}

	s := NewMongoStoreFromCollection(client, client.Database(opts.Database).Collection(opts.Collection))
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// NewMongoStoreFromCollection wraps an existing client and collection.
// The client is disconnected by Close.
func NewMongoStoreFromCollection(client *mongo.Client, coll *mongo.Collection) *MongoStore {
	return &MongoStore{client: client, coll: coll}
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("name_unique"),
	})
	if err != nil {
		return fmt.Errorf("create preset index: %w", err)
	}
	return nil
}

func (s *MongoStore) Save(ctx context.Context, p *Preset) error {
	if err := errors.ValidatePresetName(p.Name); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := s.coll.UpdateOne(ctx, nameFilter(p.Name), upsertDocument(p, time.Now().UTC()),
		options.Update().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "save preset %s", p.Name)
	}

	saved, err := s.Get(ctx, p.Name)
	if err != nil {
		return err
	}
	*p = *saved
	return nil
}

func (s *MongoStore) Get(ctx context.Context, name string) (*Preset, error) {
	var p Preset
	err := s.coll.FindOne(ctx, nameFilter(name)).Decode(&p)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "get preset %s", name)
	}
	return &p, nil
}

func (s *MongoStore) List(ctx context.Context) ([]*Preset, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "list presets")
	}
	out := []*Preset{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "list presets")
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, name string) error {
	res, err := s.coll.DeleteOne(ctx, nameFilter(name))
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "delete preset %s", name)
	}
	if res.DeletedCount == 0 {
		return notFound(name)
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func nameFilter(name string) bson.D {
	return bson.D{{Key: "name", Value: name}}
}

// upsertDocument replaces the mutable fields and sets the identity fields
// only when the document is inserted.
func upsertDocument(p *Preset, now time.Time) bson.D {
	return bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "description", Value: p.Description},
			{Key: "options", Value: p.Options},
			{Key: "updated_at", Value: now},
		}},
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "_id", Value: p.ID},
			{Key: "created_at", Value: now},
		}},
	}
}

var _ Store = (*MongoStore)(nil)
