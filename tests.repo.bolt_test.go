package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestBoltStore returns a bolt store in a temporary path. It is
// closed when the test ends.
func newTestBoltStore(t *testing.T) *boltDocumentStore {
	t.Helper()
	testConfig := &Config{
		BoltDB: BoltDBConfig{
			FilePath:     filepath.Join(t.TempDir(), "tmp.bolt.db"),
			Timeout:      5 * time.Second,
			BucketPrefix: "test.",
		},
	}
	client, err := GetBoltDBClient(testConfig)
	require.NoError(t, err, "failed in creating a test bolt store")
	bs := NewBoltDocumentStore(zap.NewNop(), &testConfig.BoltDB, client)
	t.Cleanup(func() { _ = bs.Close() })
	return bs
}

// testCatalog bundles a fully wired catalog over a temporary bolt store.
type testCatalog struct {
	store       *boltDocumentStore
	hooks       *Interceptors
	collections *Collections
	services    *Services
}

func newTestCatalog(t *testing.T) *testCatalog {
	t.Helper()
	store := newTestBoltStore(t)
	hooks := NewInterceptors(zap.NewNop())
	cs := NewCollections(zap.NewNop(), store, hooks, NewIDsHandler())
	require.NoError(t, RegisterIntegrityGuards(hooks, cs, nil))
	return &testCatalog{
		store:       store,
		hooks:       hooks,
		collections: cs,
		services: &Services{
			Authors:  NewAuthorService(zap.NewNop(), cs.Authors, nil),
			Genres:   NewGenreService(zap.NewNop(), cs.Genres, nil),
			Books:    NewBookService(zap.NewNop(), cs, nil),
			Comments: NewCommentService(zap.NewNop(), cs),
			Users:    NewUserService(zap.NewNop(), cs.Users),
		},
	}
}

// Ensure bolt store can insert and retrieve a document.
func TestBoltStore_PutAndGet(t *testing.T) {
	bs := newTestBoltStore(t)
	ctx := context.Background()

	err := bs.Put(ctx, AuthorsCollection, "a:0", []byte(`{"id":"a:0","name":"Lev"}`))
	assert.NoError(t, err)

	doc, err := bs.Get(ctx, AuthorsCollection, "a:0")
	assert.NoError(t, err)
	assert.JSONEq(t, `{"id":"a:0","name":"Lev"}`, string(doc))

	// same id into another collection does not collide.
	_, err = bs.Get(ctx, GenresCollection, "a:0")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

// Ensure bolt store replaces an existing document.
func TestBoltStore_PutReplaces(t *testing.T) {
	bs := newTestBoltStore(t)
	ctx := context.Background()
	require.NoError(t, bs.Put(ctx, GenresCollection, "g:0", []byte(`{"name":"novel"}`)))
	require.NoError(t, bs.Put(ctx, GenresCollection, "g:0", []byte(`{"name":"poetry"}`)))

	doc, err := bs.Get(ctx, GenresCollection, "g:0")
	assert.NoError(t, err)
	assert.JSONEq(t, `{"name":"poetry"}`, string(doc))
	n, err := bs.Count(ctx, GenresCollection)
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}

// Ensure bolt store reports missing documents.
func TestBoltStore_NotFound(t *testing.T) {
	bs := newTestBoltStore(t)
	ctx := context.Background()

	_, err := bs.Get(ctx, BooksCollection, "b:unknown")
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	err = bs.Delete(ctx, BooksCollection, "b:unknown")
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	_, err = bs.Get(ctx, "unknown-collection", "x:0")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

// Ensure bolt store can list, count, delete and drop.
func TestBoltStore_GetAllCountDeleteDrop(t *testing.T) {
	bs := newTestBoltStore(t)
	ctx := context.Background()
	for _, id := range []string{"c:0", "c:1", "c:2"} {
		require.NoError(t, bs.Put(ctx, CommentsCollection, id, []byte(`{"id":"`+id+`"}`)))
	}

	docs, err := bs.GetAll(ctx, CommentsCollection)
	assert.NoError(t, err)
	assert.Len(t, docs, 3)

	n, err := bs.Count(ctx, CommentsCollection)
	assert.NoError(t, err)
	assert.Equal(t, 3, n)

	assert.NoError(t, bs.Delete(ctx, CommentsCollection, "c:1"))
	n, err = bs.Count(ctx, CommentsCollection)
	assert.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.NoError(t, bs.Drop(ctx, CommentsCollection))
	docs, err = bs.GetAll(ctx, CommentsCollection)
	assert.NoError(t, err)
	assert.Empty(t, docs)
	n, err = bs.Count(ctx, CommentsCollection)
	assert.NoError(t, err)
	assert.Equal(t, 0, n)

	// dropping twice is fine.
	assert.NoError(t, bs.Drop(ctx, CommentsCollection))
}
