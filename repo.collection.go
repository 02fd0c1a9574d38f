package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"
)

// Filter holds exact-match conditions on document fields. A document
// matches when every field exists and equals the expected value.
type Filter map[string]string

// Match reports whether the raw document satisfies all conditions.
func (f Filter) Match(raw []byte) bool {
	for path, want := range f {
		got := gjson.GetBytes(raw, path)
		if !got.Exists() || got.String() != want {
			return false
		}
	}
	return true
}

// DocumentFinder is the read side a guard needs from a collection.
type DocumentFinder interface {
	Name() string
	FindIDs(ctx context.Context, filter Filter) ([]string, error)
	Exists(ctx context.Context, filter Filter) (bool, error)
}

// DocumentRemover is the delete side a cascade needs from a collection.
type DocumentRemover interface {
	Name() string
	DeleteWhere(ctx context.Context, filter Filter) (int, error)
}

var (
	_ DocumentFinder  = (*Collection[Author])(nil)
	_ DocumentRemover = (*Collection[Comment])(nil)
)

// Collection maps records of type T to JSON documents of a single collection.
// Records are expected to carry their identifier under the `id` json field.
// Every save and delete goes through the registered interceptors.
type Collection[T any] struct {
	logger *zap.Logger
	name   string
	prefix string
	store  DocumentStore
	hooks  *Interceptors
	ids    UIDGenerator
}

// NewCollection provides a collection adapter named `name` whose new
// documents get identifiers with the given prefix.
func NewCollection[T any](logger *zap.Logger, name, prefix string, store DocumentStore, hooks *Interceptors, ids UIDGenerator) *Collection[T] {
	return &Collection[T]{
		logger: logger.With(zap.String("collection", name)),
		name:   name,
		prefix: prefix,
		store:  store,
		hooks:  hooks,
		ids:    ids,
	}
}

// Name returns the collection name.
func (c *Collection[T]) Name() string {
	return c.name
}

// Save persists the record. A record without id is inserted under a fresh
// identifier. A record with an id is merged onto the stored document so
// fields unknown to T are preserved, or inserted under that id if absent.
// The before-save interceptor may veto the operation.
func (c *Collection[T]) Save(ctx context.Context, record T) (T, error) {
	var saved T
	raw, err := json.Marshal(record)
	if err != nil {
		return saved, fmt.Errorf("%s: failed to encode document: %w", c.name, err)
	}

	id := gjson.GetBytes(raw, "id").String()
	isNew := id == ""
	if isNew {
		id = c.ids.Generate(c.prefix)
		if raw, err = sjson.SetBytes(raw, "id", id); err != nil {
			return saved, fmt.Errorf("%s: failed to set document id: %w", c.name, err)
		}
	} else {
		current, gerr := c.store.Get(ctx, c.name, id)
		switch {
		case gerr == nil:
			if raw, err = mergeDocuments(current, raw); err != nil {
				return saved, fmt.Errorf("%s: failed to merge document %s: %w", c.name, id, err)
			}
		case errors.Is(gerr, ErrDocumentNotFound):
		default:
			return saved, gerr
		}
	}

	doc := Document{Collection: c.name, ID: id, Raw: raw, IsNew: isNew}
	if err = c.hooks.BeforeSave(ctx, doc); err != nil {
		return saved, err
	}

	if err = c.store.Put(ctx, c.name, id, raw); err != nil {
		return saved, err
	}

	err = json.Unmarshal(raw, &saved)
	return saved, err
}

// mergeDocuments overwrites the top-level fields of current with those of candidate.
func mergeDocuments(current, candidate []byte) ([]byte, error) {
	merged := current
	var err error
	gjson.ParseBytes(candidate).ForEach(func(key, value gjson.Result) bool {
		merged, err = sjson.SetRawBytes(merged, key.String(), []byte(value.Raw))
		return err == nil
	})
	return merged, err
}

// FindByID retrieves the record stored under id.
func (c *Collection[T]) FindByID(ctx context.Context, id string) (T, error) {
	var record T
	raw, err := c.store.Get(ctx, c.name, id)
	if err != nil {
		return record, err
	}
	err = json.Unmarshal(raw, &record)
	return record, err
}

// FindAll retrieves all records of the collection.
func (c *Collection[T]) FindAll(ctx context.Context) ([]T, error) {
	return c.Find(ctx, nil)
}

// Find retrieves all records matching the filter. An empty filter matches everything.
func (c *Collection[T]) Find(ctx context.Context, filter Filter) ([]T, error) {
	docs, err := c.store.GetAll(ctx, c.name)
	if err != nil {
		return nil, err
	}
	records := []T{}
	for _, raw := range docs {
		if !filter.Match(raw) {
			continue
		}
		var record T
		if err = json.Unmarshal(raw, &record); err != nil {
			return nil, fmt.Errorf("%s: failed to decode document: %w", c.name, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// FindByField retrieves all records whose field equals value.
func (c *Collection[T]) FindByField(ctx context.Context, field, value string) ([]T, error) {
	return c.Find(ctx, Filter{field: value})
}

// FindOne retrieves the first record matching the filter.
func (c *Collection[T]) FindOne(ctx context.Context, filter Filter) (T, error) {
	var record T
	records, err := c.Find(ctx, filter)
	if err != nil {
		return record, err
	}
	if len(records) == 0 {
		return record, ErrDocumentNotFound
	}
	return records[0], nil
}

// FindIDs returns the identifiers of the documents matching the filter.
func (c *Collection[T]) FindIDs(ctx context.Context, filter Filter) ([]string, error) {
	docs, err := c.store.GetAll(ctx, c.name)
	if err != nil {
		return nil, err
	}
	ids := []string{}
	for _, raw := range docs {
		if filter.Match(raw) {
			ids = append(ids, gjson.GetBytes(raw, "id").String())
		}
	}
	return ids, nil
}

// Exists reports whether at least one document matches the filter.
func (c *Collection[T]) Exists(ctx context.Context, filter Filter) (bool, error) {
	docs, err := c.store.GetAll(ctx, c.name)
	if err != nil {
		return false, err
	}
	for _, raw := range docs {
		if filter.Match(raw) {
			return true, nil
		}
	}
	return false, nil
}

// ExistsByField reports whether a document has field equal to value.
func (c *Collection[T]) ExistsByField(ctx context.Context, field, value string) (bool, error) {
	return c.Exists(ctx, Filter{field: value})
}

// Count returns the number of records into the collection.
func (c *Collection[T]) Count(ctx context.Context) (int, error) {
	return c.store.Count(ctx, c.name)
}

// DeleteByID removes the record stored under id. The before-delete interceptor
// may veto the removal. The after-delete interceptor runs once the document
// is gone and cannot fail the call.
func (c *Collection[T]) DeleteByID(ctx context.Context, id string) error {
	raw, err := c.store.Get(ctx, c.name, id)
	if err != nil {
		return err
	}
	return c.delete(ctx, Document{Collection: c.name, ID: id, Raw: raw})
}

// DeleteWhere removes every record matching the filter, one by one through
// the interceptors, and returns how many were removed.
func (c *Collection[T]) DeleteWhere(ctx context.Context, filter Filter) (int, error) {
	docs, err := c.store.GetAll(ctx, c.name)
	if err != nil {
		return 0, err
	}
	var deleted int
	for _, raw := range docs {
		if !filter.Match(raw) {
			continue
		}
		doc := Document{Collection: c.name, ID: gjson.GetBytes(raw, "id").String(), Raw: raw}
		err = c.delete(ctx, doc)
		if errors.Is(err, ErrDocumentNotFound) {
			// removed concurrently.
			continue
		}
		if err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

func (c *Collection[T]) delete(ctx context.Context, doc Document) error {
	if err := c.hooks.BeforeDelete(ctx, doc); err != nil {
		return err
	}
	if err := c.store.Delete(ctx, c.name, doc.ID); err != nil {
		return err
	}
	c.hooks.AfterDelete(ctx, doc)
	return nil
}

// DeleteAll drops the collection without firing any interceptor.
func (c *Collection[T]) DeleteAll(ctx context.Context) error {
	return c.store.Drop(ctx, c.name)
}

// Collections groups the adapters of the catalog.
type Collections struct {
	Authors  *Collection[Author]
	Genres   *Collection[Genre]
	Books    *Collection[Book]
	Comments *Collection[Comment]
	Users    *Collection[User]
}

// NewCollections builds all catalog collections on top of the same store and interceptors.
func NewCollections(logger *zap.Logger, store DocumentStore, hooks *Interceptors, ids UIDGenerator) *Collections {
	return &Collections{
		Authors:  NewCollection[Author](logger, AuthorsCollection, AuthorIDPrefix, store, hooks, ids),
		Genres:   NewCollection[Genre](logger, GenresCollection, GenreIDPrefix, store, hooks, ids),
		Books:    NewCollection[Book](logger, BooksCollection, BookIDPrefix, store, hooks, ids),
		Comments: NewCollection[Comment](logger, CommentsCollection, CommentIDPrefix, store, hooks, ids),
		Users:    NewCollection[User](logger, UsersCollection, UserIDPrefix, store, hooks, ids),
	}
}

// Drop empties every collection.
func (cs *Collections) Drop(ctx context.Context) error {
	for _, drop := range []func(context.Context) error{
		cs.Comments.DeleteAll,
		cs.Books.DeleteAll,
		cs.Authors.DeleteAll,
		cs.Genres.DeleteAll,
		cs.Users.DeleteAll,
	} {
		if err := drop(ctx); err != nil {
			return err
		}
	}
	return nil
}
