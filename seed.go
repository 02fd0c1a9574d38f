package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// SeedCatalog drops every collection then loads the example catalog:
// three authors, four genres, three books, three comments and two users.
func SeedCatalog(ctx context.Context, logger *zap.Logger, cs *Collections, services *Services, config *SeedConfig) error {
	if err := cs.Drop(ctx); err != nil {
		return fmt.Errorf("seed: failed to drop collections: %w", err)
	}

	authors := map[string]Author{}
	for _, a := range []Author{
		{Name: "Lev", Surname: "Tolstoy"},
		{Name: "Joseph", Surname: "Brodskiy"},
		{Name: "John", Surname: "Tolkien"},
	} {
		saved, err := services.Authors.Add(ctx, a)
		if err != nil {
			return fmt.Errorf("seed: author %s %s: %w", a.Name, a.Surname, err)
		}
		authors[a.Surname] = saved
	}

	genres := map[string]Genre{}
	for _, name := range []string{"novel", "poetry", "fantasy", "fiction"} {
		saved, err := services.Genres.Add(ctx, Genre{Name: name})
		if err != nil {
			return fmt.Errorf("seed: genre %s: %w", name, err)
		}
		genres[name] = saved
	}

	books := map[string]Book{}
	for _, b := range []struct{ title, author, genre string }{
		{"War and Peace", "Tolstoy", "novel"},
		{"Rozhdestvenskie stikhi", "Brodskiy", "poetry"},
		{"The Hobbit", "Tolkien", "fantasy"},
	} {
		saved, err := services.Books.Add(ctx, Book{Title: b.title, AuthorID: authors[b.author].ID, GenreID: genres[b.genre].ID})
		if err != nil {
			return fmt.Errorf("seed: book %s: %w", b.title, err)
		}
		books[b.title] = saved
	}

	for _, c := range []struct{ content, book string }{
		{"Great book", "War and Peace"},
		{"Nice story", "The Hobbit"},
		{"Best book ever", "The Hobbit"},
	} {
		if _, err := services.Comments.Add(ctx, c.content, books[c.book].ID); err != nil {
			return fmt.Errorf("seed: comment on %s: %w", c.book, err)
		}
	}

	if _, err := services.Users.Add(ctx, "simple_user", config.UserPassword, RoleUser); err != nil {
		return fmt.Errorf("seed: user simple_user: %w", err)
	}
	if _, err := services.Users.Add(ctx, "admin_user", config.AdminPassword, RoleUser, RoleAdmin); err != nil {
		return fmt.Errorf("seed: user admin_user: %w", err)
	}

	logger.Info("seed: catalog loaded",
		zap.Int("authors", len(authors)),
		zap.Int("genres", len(genres)),
		zap.Int("books", len(books)),
	)
	return nil
}
