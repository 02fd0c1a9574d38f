package main

import (
	"context"
	"errors"
	"fmt"
)

// UniquenessGuard refuses a save when another document of the same
// collection already holds the same values for all Fields.
type UniquenessGuard struct {
	Collection DocumentFinder
	Fields     []string
	Message    string
}

// Check vetoes with ErrDuplicateKey if the candidate key is taken by another
// document. Saving a document onto its own key is allowed.
func (g *UniquenessGuard) Check(ctx context.Context, doc Document) error {
	filter := make(Filter, len(g.Fields))
	for _, field := range g.Fields {
		filter[field] = doc.Field(field)
	}
	ids, err := g.Collection.FindIDs(ctx, filter)
	if err != nil {
		return fmt.Errorf("uniqueness check on %s: %w", doc.Collection, err)
	}
	for _, id := range ids {
		if doc.IsNew || id != doc.ID {
			return &VetoError{Collection: doc.Collection, ID: doc.ID, Reason: ErrDuplicateKey, Message: g.Message}
		}
	}
	return nil
}

// ReferenceGuard refuses the deletion of a document still referenced
// by at least one document of Dependents through Field.
type ReferenceGuard struct {
	Dependents DocumentFinder
	Field      string
	Message    string
}

// Check vetoes with ErrReferenced when a dependent points to the document.
func (g *ReferenceGuard) Check(ctx context.Context, doc Document) error {
	found, err := g.Dependents.Exists(ctx, Filter{g.Field: doc.ID})
	if err != nil {
		return fmt.Errorf("reference check of %s on %s: %w", doc.Collection, g.Dependents.Name(), err)
	}
	if found {
		return &VetoError{Collection: doc.Collection, ID: doc.ID, Reason: ErrReferenced, Message: g.Message}
	}
	return nil
}

// CascadeJob describes the removal of all dependents pointing to a deleted document.
type CascadeJob struct {
	Collection string `json:"collection"`
	Field      string `json:"field"`
	Value      string `json:"value"`
	Attempt    int    `json:"attempt"`
}

// CascadeRetrier takes over a cascade that failed inline.
type CascadeRetrier interface {
	Retry(ctx context.Context, job CascadeJob) error
}

// CascadeDelete removes the dependents of a deleted document. It is best-effort:
// a failure is reported, handed to the Retrier when set, and never undoes
// the parent deletion.
type CascadeDelete struct {
	Dependents DocumentRemover
	Field      string
	Retrier    CascadeRetrier
}

// Apply deletes every dependent whose Field equals the deleted document id.
func (c *CascadeDelete) Apply(ctx context.Context, doc Document) error {
	_, err := c.Dependents.DeleteWhere(ctx, Filter{c.Field: doc.ID})
	if err == nil {
		return nil
	}
	err = fmt.Errorf("cascade delete of %s where %s=%s: %w", c.Dependents.Name(), c.Field, doc.ID, err)
	if c.Retrier != nil {
		job := CascadeJob{Collection: c.Dependents.Name(), Field: c.Field, Value: doc.ID, Attempt: 1}
		if rerr := c.Retrier.Retry(ctx, job); rerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to schedule cascade retry: %w", rerr))
		}
	}
	return err
}

// Guards bundles the integrity rules governing one collection and
// implements Interceptor for it.
type Guards struct {
	Unique     []*UniquenessGuard
	References []*ReferenceGuard
	Cascades   []*CascadeDelete
}

var _ Interceptor = (*Guards)(nil)

func (gs *Guards) BeforeSave(ctx context.Context, doc Document) error {
	for _, g := range gs.Unique {
		if err := g.Check(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}

func (gs *Guards) BeforeDelete(ctx context.Context, doc Document) error {
	for _, g := range gs.References {
		if err := g.Check(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}

// AfterDelete applies every cascade, even when a previous one failed.
func (gs *Guards) AfterDelete(ctx context.Context, doc Document) error {
	var errs []error
	for _, c := range gs.Cascades {
		if err := c.Apply(ctx, doc); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RegisterIntegrityGuards wires the catalog integrity rules into the interceptors:
// unique author names, genre names and user logins, no deletion of an author or
// a genre used by a book, and removal of the comments of a deleted book.
func RegisterIntegrityGuards(hooks *Interceptors, cs *Collections, retrier CascadeRetrier) error {
	rules := map[string]*Guards{
		AuthorsCollection: {
			Unique: []*UniquenessGuard{
				{Collection: cs.Authors, Fields: []string{"name", "surname"}, Message: "Same author already exists"},
			},
			References: []*ReferenceGuard{
				{Dependents: cs.Books, Field: "authorId", Message: "Can not delete author because exists book with this author"},
			},
		},
		GenresCollection: {
			Unique: []*UniquenessGuard{
				{Collection: cs.Genres, Fields: []string{"name"}, Message: "Same genre already exists"},
			},
			References: []*ReferenceGuard{
				{Dependents: cs.Books, Field: "genreId", Message: "Can not delete genre because exists book with this genre"},
			},
		},
		BooksCollection: {
			Cascades: []*CascadeDelete{
				{Dependents: cs.Comments, Field: "bookId", Retrier: retrier},
			},
		},
		UsersCollection: {
			Unique: []*UniquenessGuard{
				{Collection: cs.Users, Fields: []string{"login"}, Message: "Same user login already exists"},
			},
		},
	}

	for collection, guards := range rules {
		if err := hooks.Register(collection, guards); err != nil {
			return err
		}
	}
	return nil
}
