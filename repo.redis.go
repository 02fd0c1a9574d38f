package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var _ DocumentStore = (*redisDocumentStore)(nil)

// redisDocumentStore keeps each collection into a redis hash
// where fields are documents ids.
type redisDocumentStore struct {
	logger *zap.Logger
	client *redis.Client
	prefix string
}

// NewRedisDocumentStore provides an instance of redis-based document store.
func NewRedisDocumentStore(logger *zap.Logger, client *redis.Client, prefix string) *redisDocumentStore {
	return &redisDocumentStore{
		logger: logger,
		client: client,
		prefix: prefix,
	}
}

// GetRedisClient provides a ready to use redis client.
func GetRedisClient(config *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", config.Redis.Host, config.Redis.Port),
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
		PoolSize:     config.Redis.PoolSize,
		PoolTimeout:  config.Redis.PoolTimeout,
		Password:     config.Redis.Password,
		Username:     config.Redis.Username,
		DB:           config.Redis.DatabaseIndex,
	})

	// test connection.
	if pong, err := client.Ping(context.Background()).Result(); pong != "PONG" || err != nil {
		return client, fmt.Errorf("test connection failed: %v", err)
	}
	return client, nil
}

func (rs *redisDocumentStore) key(collection string) string {
	return rs.prefix + collection
}

// Put inserts or replaces a document.
func (rs *redisDocumentStore) Put(ctx context.Context, collection, id string, doc []byte) error {
	return rs.client.HSet(ctx, rs.key(collection), id, doc).Err()
}

// Get retrieves a document based on its ID.
func (rs *redisDocumentStore) Get(ctx context.Context, collection, id string) ([]byte, error) {
	doc, err := rs.client.HGet(ctx, rs.key(collection), id).Bytes()
	if err == redis.Nil {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Delete removes a document based on its ID. HDEL reports the number
// of removed fields, zero means there was nothing to remove.
func (rs *redisDocumentStore) Delete(ctx context.Context, collection, id string) error {
	n, err := rs.client.HDel(ctx, rs.key(collection), id).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

// GetAll retrieves all documents of the collection.
func (rs *redisDocumentStore) GetAll(ctx context.Context, collection string) ([][]byte, error) {
	values, err := rs.client.HVals(ctx, rs.key(collection)).Result()
	if err != nil {
		return nil, err
	}
	docs := make([][]byte, 0, len(values))
	for _, v := range values {
		docs = append(docs, []byte(v))
	}
	return docs, nil
}

// Count returns the number of documents into the collection.
func (rs *redisDocumentStore) Count(ctx context.Context, collection string) (int, error) {
	n, err := rs.client.HLen(ctx, rs.key(collection)).Result()
	return int(n), err
}

// Drop removes the whole collection hash.
func (rs *redisDocumentStore) Drop(ctx context.Context, collection string) error {
	return rs.client.Del(ctx, rs.key(collection)).Err()
}
