package mystore

import (
	"context"
	"os"
)

type ctxTransactionKey struct{}

//go:generate mockgen -source=api.go -package mystore -destination store_mock.go Store
type Store[T any] interface {
	RunInTransaction(c context.Context, f func(c context.Context) error) error
	Put(c context.Context, uid string, value T) error
	Get(c context.Context, uid string) (T, bool, error)
	List(c context.Context) ([]T, error)
}

// New returns a Mongo-backed store when MONGODB_URI is set, an in-memory
// store otherwise.
func New[T any](c context.Context) (Store[T], func(), error) {
	uri := os.Getenv("MONGODB_URI")
	if uri != "" {
		return newMongoStore[T](c, uri)
	}

	return NewInMemoryStore[T](c)
}
