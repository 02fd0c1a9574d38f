package main

import "context"

// DocumentStore defines the raw operations on JSON documents grouped by collection.
// Implementations perform no validation and report a missing document with
// ErrDocumentNotFound.
type DocumentStore interface {
	Put(ctx context.Context, collection, id string, doc []byte) error
	Get(ctx context.Context, collection, id string) ([]byte, error)
	Delete(ctx context.Context, collection, id string) error
	GetAll(ctx context.Context, collection string) ([][]byte, error)
	Count(ctx context.Context, collection string) (int, error)
	Drop(ctx context.Context, collection string) error
}
