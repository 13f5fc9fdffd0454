package database

import (
	"context"
	"errors"
	"time"

	"github.com/secretsweb/secrets/database/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection = "users"
	connectTimeout  = 10 * time.Second
)

type mongoStore struct {
	client *mongo.Client
	users  *mongo.Collection
}

func openMongo(uri string, database string) (*mongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	s := &mongoStore{
		client: client,
		users:  client.Database(database).Collection(usersCollection),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// ensureIndexes creates unique indexes over the optional identifiers. The
// partial filter keeps documents without the field out of the index.
func (s *mongoStore) ensureIndexes(ctx context.Context) error {
	fields := []string{"username", "google_id", "facebook_id"}
	indexes := make([]mongo.IndexModel, 0, len(fields))
	for _, field := range fields {
		indexes = append(indexes, mongo.IndexModel{
			Keys: bson.D{{Key: field, Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{field: bson.M{"$exists": true}}),
		})
	}
	_, err := s.users.Indexes().CreateMany(ctx, indexes)
	return err
}

func (s *mongoStore) Create(ctx context.Context, user *model.User) error {
	prepareNew(user)
	_, err := s.users.InsertOne(ctx, user)
	return translateMongoError(err)
}

func (s *mongoStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *mongoStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.findOne(ctx, bson.M{"username": username})
}

func (s *mongoStore) GetByExternalID(ctx context.Context, provider model.Provider, externalId string) (*model.User, error) {
	field, err := externalColumn(provider)
	if err != nil {
		return nil, err
	}
	return s.findOne(ctx, bson.M{field: externalId})
}

func (s *mongoStore) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	user := &model.User{}
	if err := s.users.FindOne(ctx, filter).Decode(user); err != nil {
		return nil, translateMongoError(err)
	}
	return user, nil
}

func (s *mongoStore) UpdateSecret(ctx context.Context, id string, secret string) error {
	result, err := s.users.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"secret": secret, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return translateMongoError(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoStore) ListWithSecrets(ctx context.Context) ([]*model.User, error) {
	cursor, err := s.users.Find(ctx,
		bson.M{"secret": bson.M{"$ne": nil}},
		options.Find().SetSort(bson.D{{Key: "updated_at", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	var users []*model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *mongoStore) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	var err error
	if stats.Users, err = s.users.CountDocuments(ctx, bson.M{}); err != nil {
		return stats, err
	}
	stats.Secrets, err = s.users.CountDocuments(ctx, bson.M{"secret": bson.M{"$ne": nil}})
	return stats, err
}

func (s *mongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func translateMongoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	}
	return err
}
