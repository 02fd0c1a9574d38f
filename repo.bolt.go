package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

var _ DocumentStore = (*boltDocumentStore)(nil)

type boltDocumentStore struct {
	logger *zap.Logger
	client *bolt.DB
	config *BoltDBConfig
}

// GetBoltDBClient setup the database and the collections buckets then provides a ready to use client.
func GetBoltDBClient(config *Config) (*bolt.DB, error) {
	db, err := bolt.Open(config.BoltDB.FilePath, 0o600, &bolt.Options{Timeout: config.BoltDB.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open the database, %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, collection := range []string{AuthorsCollection, GenresCollection, BooksCollection, CommentsCollection, UsersCollection} {
			name := config.BoltDB.BucketPrefix + collection
			if _, errB := tx.CreateBucketIfNotExists([]byte(name)); errB != nil {
				return fmt.Errorf("failed to create %s bucket: %v", name, errB)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set up buckets: %v", err)
	}
	return db, nil
}

// NewBoltDocumentStore provides an instance of bolt-based document store.
// Each collection lives in its own bucket.
func NewBoltDocumentStore(logger *zap.Logger, boltConfig *BoltDBConfig, client *bolt.DB) *boltDocumentStore {
	return &boltDocumentStore{
		logger: logger,
		client: client,
		config: boltConfig,
	}
}

// Close shuts down the bolt-based document store.
func (bs *boltDocumentStore) Close() error {
	return bs.client.Close()
}

func (bs *boltDocumentStore) bucket(collection string) []byte {
	return []byte(bs.config.BucketPrefix + collection)
}

// Put inserts or replaces a document.
func (bs *boltDocumentStore) Put(_ context.Context, collection, id string, doc []byte) error {
	return bs.client.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bs.bucket(collection))
		if err != nil {
			return err
		}
		return b.Put([]byte(id), doc)
	})
}

// Get retrieves a document based on its ID.
func (bs *boltDocumentStore) Get(_ context.Context, collection, id string) ([]byte, error) {
	// initialize a readable transaction.
	tx, err := bs.client.Begin(false)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	b := tx.Bucket(bs.bucket(collection))
	if b == nil {
		return nil, ErrDocumentNotFound
	}
	result := b.Get([]byte(id))
	if result == nil {
		return nil, ErrDocumentNotFound
	}
	// the value is only valid for the life of the transaction.
	return append([]byte(nil), result...), nil
}

// Delete removes a document based on its ID. Removing a missing
// document returns ErrDocumentNotFound.
func (bs *boltDocumentStore) Delete(_ context.Context, collection, id string) error {
	return bs.client.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bs.bucket(collection))
		if b == nil || b.Get([]byte(id)) == nil {
			return ErrDocumentNotFound
		}
		return b.Delete([]byte(id))
	})
}

// GetAll retrieves all documents stored in the collection bucket.
func (bs *boltDocumentStore) GetAll(_ context.Context, collection string) ([][]byte, error) {
	tx, err := bs.client.Begin(false)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	docs := [][]byte{}
	b := tx.Bucket(bs.bucket(collection))
	if b == nil {
		return docs, nil
	}

	// Create a cursor on the collection bucket.
	c := b.Cursor()
	for k, v := c.First(); k != nil; k, v = c.Next() {
		docs = append(docs, append([]byte(nil), v...))
	}
	return docs, nil
}

// Count returns the number of documents into the collection.
func (bs *boltDocumentStore) Count(_ context.Context, collection string) (int, error) {
	tx, err := bs.client.Begin(false)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	b := tx.Bucket(bs.bucket(collection))
	if b == nil {
		return 0, nil
	}
	return b.Stats().KeyN, nil
}

// Drop removes the whole collection bucket.
func (bs *boltDocumentStore) Drop(_ context.Context, collection string) error {
	return bs.client.Update(func(tx *bolt.Tx) error {
		err := tx.DeleteBucket(bs.bucket(collection))
		if errors.Is(err, bolt.ErrBucketNotFound) {
			return nil
		}
		return err
	})
}
