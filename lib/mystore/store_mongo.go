package mystore

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultDatabaseName = "ghl-bridge"
	connectTimeout      = 10 * time.Second
)

type mongoDocument[T any] struct {
	UID   string `bson:"_id"`
	Value T      `bson:"value"`
}

type mongoStore[T any] struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func newMongoStore[T any](c context.Context, uri string) (*mongoStore[T], func(), error) {
	ctx, cancel := context.WithTimeout(c, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("error creating mongo-client: %s", err)
	}

	err = client.Ping(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("error connecting to mongo: %s", err)
	}

	val := new(T)
	kind := fmt.Sprintf("%T", *val)
	if strings.Contains(kind, ".") {
		kind = strings.Split(kind, ".")[1]
	}

	collection := client.Database(databaseNameFromURI(uri)).Collection(strings.ToLower(kind) + "s")

	return &mongoStore[T]{
			client:     client,
			collection: collection,
		}, func() {
			disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), connectTimeout)
			defer disconnectCancel()
			_ = client.Disconnect(disconnectCtx)
		}, nil
}

func databaseNameFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return defaultDatabaseName
	}

	name := strings.Trim(u.Path, "/")
	if name == "" {
		return defaultDatabaseName
	}

	return name
}

// RunInTransaction does not start a server-side transaction: individual
// document writes are atomic in Mongo and that is the only guarantee callers
// rely on.
func (s *mongoStore[T]) RunInTransaction(c context.Context, f func(c context.Context) error) error {
	return f(context.WithValue(c, ctxTransactionKey{}, true))
}

func (s *mongoStore[T]) Put(c context.Context, uid string, value T) error {
	_, err := s.collection.ReplaceOne(c,
		bson.M{"_id": uid},
		mongoDocument[T]{UID: uid, Value: value},
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("error storing %s: %s", uid, err)
	}

	return nil
}

func (s *mongoStore[T]) Get(c context.Context, uid string) (T, bool, error) {
	doc := mongoDocument[T]{}

	err := s.collection.FindOne(c, bson.M{"_id": uid}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		var empty T
		return empty, false, nil
	}
	if err != nil {
		var empty T
		return empty, false, fmt.Errorf("error fetching %s: %s", uid, err)
	}

	return doc.Value, true, nil
}

func (s *mongoStore[T]) List(c context.Context) ([]T, error) {
	cursor, err := s.collection.Find(c, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error listing: %s", err)
	}

	docs := []mongoDocument[T]{}
	err = cursor.All(c, &docs)
	if err != nil {
		return nil, fmt.Errorf("error decoding list: %s", err)
	}

	result := make([]T, 0, len(docs))
	for _, doc := range docs {
		result = append(result, doc.Value)
	}

	return result, nil
}
