package main

import (
	"context"
	"sync"
	"time"
)

// This file contains mocks definitions needed to perform unit tests.

// MockDocumentStore delegates to Fallback unless a func is set.
type MockDocumentStore struct {
	Fallback   DocumentStore
	PutFunc    func(ctx context.Context, collection, id string, doc []byte) error
	GetFunc    func(ctx context.Context, collection, id string) ([]byte, error)
	DeleteFunc func(ctx context.Context, collection, id string) error
	GetAllFunc func(ctx context.Context, collection string) ([][]byte, error)
}

// Put mocks the behavior of saving a document by the store.
func (m *MockDocumentStore) Put(ctx context.Context, collection, id string, doc []byte) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, collection, id, doc)
	}
	return m.Fallback.Put(ctx, collection, id, doc)
}

// Get mocks the behavior of retrieving a document by the store.
func (m *MockDocumentStore) Get(ctx context.Context, collection, id string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, collection, id)
	}
	return m.Fallback.Get(ctx, collection, id)
}

// Delete mocks the behavior of deleting a document by the store.
func (m *MockDocumentStore) Delete(ctx context.Context, collection, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, collection, id)
	}
	return m.Fallback.Delete(ctx, collection, id)
}

// GetAll mocks the behavior of listing a collection by the store.
func (m *MockDocumentStore) GetAll(ctx context.Context, collection string) ([][]byte, error) {
	if m.GetAllFunc != nil {
		return m.GetAllFunc(ctx, collection)
	}
	return m.Fallback.GetAll(ctx, collection)
}

func (m *MockDocumentStore) Count(ctx context.Context, collection string) (int, error) {
	return m.Fallback.Count(ctx, collection)
}

func (m *MockDocumentStore) Drop(ctx context.Context, collection string) error {
	return m.Fallback.Drop(ctx, collection)
}

// MockInterceptor records the hooks calls and returns the configured errors.
type MockInterceptor struct {
	mu              sync.Mutex
	Calls           []string
	BeforeSaveErr   error
	BeforeDeleteErr error
	AfterDeleteErr  error
}

func (m *MockInterceptor) record(hook string, doc Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, hook+":"+doc.ID)
}

func (m *MockInterceptor) BeforeSave(_ context.Context, doc Document) error {
	m.record("BeforeSave", doc)
	return m.BeforeSaveErr
}

func (m *MockInterceptor) BeforeDelete(_ context.Context, doc Document) error {
	m.record("BeforeDelete", doc)
	return m.BeforeDeleteErr
}

func (m *MockInterceptor) AfterDelete(_ context.Context, doc Document) error {
	m.record("AfterDelete", doc)
	return m.AfterDeleteErr
}

// MockQueuer implements a fake Queuer.
type MockQueuer struct {
	PushFunc func(ctx context.Context, qid string, job CascadeJob) error
	PopFunc  func(ctx context.Context, qids ...string) (string, CascadeJob, error)
}

// Push mocks the behavior of enqueueing a job.
func (m *MockQueuer) Push(ctx context.Context, qid string, job CascadeJob) error {
	return m.PushFunc(ctx, qid, job)
}

// Pop mocks the behavior of dequeueing a job.
func (m *MockQueuer) Pop(ctx context.Context, qids ...string) (string, CascadeJob, error) {
	return m.PopFunc(ctx, qids...)
}

// MockCascadeRetrier records the jobs it is handed.
type MockCascadeRetrier struct {
	Jobs []CascadeJob
	Err  error
}

func (m *MockCascadeRetrier) Retry(_ context.Context, job CascadeJob) error {
	m.Jobs = append(m.Jobs, job)
	return m.Err
}

// MockDocumentRemover implements a fake DocumentRemover.
type MockDocumentRemover struct {
	CollectionName  string
	DeleteWhereFunc func(ctx context.Context, filter Filter) (int, error)
}

func (m *MockDocumentRemover) Name() string {
	return m.CollectionName
}

func (m *MockDocumentRemover) DeleteWhere(ctx context.Context, filter Filter) (int, error) {
	return m.DeleteWhereFunc(ctx, filter)
}

// MockClocker implements a fake Clocker.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2023, 0o7, 0o2, 0o0, 0o0, 0o0, 0o00000000, time.UTC)}
}

// Now returns an already defined time to be used as mock. This
// equals to `Sun, 02 Jul 2023 00:00:00 UTC` in time.RFC1123 format.
func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

// MockUIDHandler implements a fake UIDHandler.
type MockUIDHandler struct {
	MockedUID string
	Valid     bool
}

// NewMockUIDHandler returns a mocked instance with predictable id.
func NewMockUIDHandler(id string, valid bool) *MockUIDHandler {
	return &MockUIDHandler{MockedUID: id, Valid: valid}
}

// Generate constructs a predictable id to be used as mock.
func (muid *MockUIDHandler) Generate(prefix string) string {
	return prefix + ":" + muid.MockedUID
}

// IsValid mocks IsValid behavior by providing configured status.
func (muid *MockUIDHandler) IsValid(_, _ string) bool {
	return muid.Valid
}
