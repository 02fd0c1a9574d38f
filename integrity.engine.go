package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Document is what interceptors get to inspect: the collection-native
// representation of the record being saved or deleted.
type Document struct {
	Collection string
	ID         string
	Raw        []byte
	IsNew      bool
}

// Field returns the string value of the field at path, or empty string.
func (d Document) Field(path string) string {
	return gjson.GetBytes(d.Raw, path).String()
}

// Interceptor is notified around writes on the collection it is registered for.
// A non-nil error from a before hook vetoes the operation. The error of
// AfterDelete is only reported, the deletion has already happened.
type Interceptor interface {
	BeforeSave(ctx context.Context, doc Document) error
	BeforeDelete(ctx context.Context, doc Document) error
	AfterDelete(ctx context.Context, doc Document) error
}

// NopInterceptor allows everything. Embed it to implement only some hooks.
type NopInterceptor struct{}

func (NopInterceptor) BeforeSave(context.Context, Document) error   { return nil }
func (NopInterceptor) BeforeDelete(context.Context, Document) error { return nil }
func (NopInterceptor) AfterDelete(context.Context, Document) error  { return nil }

// Interceptors is the registry the collections consult on every write.
// At most one interceptor governs a collection. A nil *Interceptors
// allows everything.
type Interceptors struct {
	logger *zap.Logger
	mu     sync.RWMutex
	hooks  map[string]Interceptor
}

// NewInterceptors provides an empty registry.
func NewInterceptors(logger *zap.Logger) *Interceptors {
	return &Interceptors{
		logger: logger,
		hooks:  make(map[string]Interceptor),
	}
}

// Register attaches the interceptor to the collection. A collection
// cannot be governed twice.
func (in *Interceptors) Register(collection string, i Interceptor) error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if _, found := in.hooks[collection]; found {
		return fmt.Errorf("interceptor already registered for collection %q", collection)
	}
	in.hooks[collection] = i
	return nil
}

// Registered returns the interceptor governing the collection if any.
func (in *Interceptors) Registered(collection string) (Interceptor, bool) {
	if in == nil {
		return nil, false
	}
	in.mu.RLock()
	defer in.mu.RUnlock()
	i, found := in.hooks[collection]
	return i, found
}

// BeforeSave runs the before-save hook of the document collection.
func (in *Interceptors) BeforeSave(ctx context.Context, doc Document) error {
	i, found := in.Registered(doc.Collection)
	if !found {
		return nil
	}
	if err := i.BeforeSave(ctx, doc); err != nil {
		in.logger.Debug("integrity: save vetoed",
			zap.String("collection", doc.Collection),
			zap.String("id", doc.ID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// BeforeDelete runs the before-delete hook of the document collection.
func (in *Interceptors) BeforeDelete(ctx context.Context, doc Document) error {
	i, found := in.Registered(doc.Collection)
	if !found {
		return nil
	}
	if err := i.BeforeDelete(ctx, doc); err != nil {
		in.logger.Debug("integrity: delete vetoed",
			zap.String("collection", doc.Collection),
			zap.String("id", doc.ID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// AfterDelete runs the after-delete hook of the document collection. Its
// failure is logged and swallowed: the caller deletion already succeeded.
func (in *Interceptors) AfterDelete(ctx context.Context, doc Document) {
	i, found := in.Registered(doc.Collection)
	if !found {
		return
	}
	if err := i.AfterDelete(ctx, doc); err != nil {
		in.logger.Error("integrity: after delete hook failed",
			zap.String("collection", doc.Collection),
			zap.String("id", doc.ID),
			zap.Error(err),
		)
	}
}
