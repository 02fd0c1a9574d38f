package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// listing renders one record per line, or the empty message.
func listing[T fmt.Stringer](records []T, empty string) string {
	if len(records) == 0 {
		return empty
	}
	var sb strings.Builder
	for _, r := range records {
		sb.WriteString(r.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

func countOf(n int, err error) (string, error) {
	return strconv.Itoa(n), err
}

func (sh *Shell) registerCatalogCommands() {
	sh.registerAuthorCommands()
	sh.registerGenreCommands()
	sh.registerBookCommands()
	sh.registerCommentCommands()
}

func (sh *Shell) registerAuthorCommands() {
	authors := sh.services.Authors
	sh.register(ShellCommand{
		Key: "all authors", Help: "Get all authors",
		Run: func(ctx context.Context, _ map[string]string) (string, error) {
			all, err := authors.GetAll(ctx)
			return listing(all, "No data in table 'Authors'"), err
		},
	})
	sh.register(ShellCommand{
		Key: "author by id", Help: "Get author by ID", Options: []string{"id"},
		Run: func(ctx context.Context, opts map[string]string) (string, error) {
			author, err := authors.GetByID(ctx, opts["id"])
			return author.String(), err
		},
	})
	sh.register(ShellCommand{
		Key: "author by name", Help: "Get author by name and surname", Options: []string{"name", "surname"},
		Run: func(ctx context.Context, opts map[string]string) (string, error) {
			author, err := authors.GetByName(ctx, opts["name"], opts["surname"])
			return author.String(), err
		},
	})
	sh.register(ShellCommand{
		Key: "add author", Help: "Add new author", Options: []string{"name", "surname"},
		Run: func(ctx context.Context, opts map[string]string) (string, error) {
			author, err := authors.Add(ctx, Author{Name: opts["name"], Surname: opts["surname"]})
			return fmt.Sprintf("Author with name %s %s successfully added with id %s!", author.Name, author.Surname, author.ID), err
		},
	})
	sh.register(ShellCommand{
		Key: "update author", Help: "Update the name of an author by ID", Options: []string{"id", "name", "surname"},
		Run: func(ctx context.Context, opts map[string]string) (string, error) {
			author, err := authors.Update(ctx, opts["id"], Author{Name: opts["name"], Surname: opts["surname"]})
			return fmt.Sprintf("Author with id %s successfully updated. Author's name is %s %s", author.ID, author.Name, author.Surname), err
		},
	})
	sh.register(ShellCommand{
		Key: "delete author", Help: "Delete author by ID", Options: []string{"id"},
		Run: func(ctx context.Context, opts map[string]string) (string, error) {
			return "The author with this ID no longer exists", authors.Delete(ctx, opts["id"])
		},
	})
	sh.register(ShellCommand{
		Key: "authors count", Help: "Get count of all authors",
		Run: func(ctx context.Context, _ map[string]string) (string, error) {
			return countOf(authors.Count(ctx))
		},
	})
}

func (sh *Shell) registerGenreCommands() {
	genres := sh.services.Genres
	sh.register(ShellCommand{
		Key: "all genres", Help: "Get all genres",
		Run: func(ctx context.Context, _ map[string]string) (string, error) {
			all, err := genres.GetAll(ctx)
			return listing(all, "No data in table 'Genres'"), err
		},
	})
	sh.register(ShellCommand{
		Key: "genre by id", Help: "Get genre by ID", Options: []string{"id"},
		Run: func(ctx context.Context, opts map[string]string) (string, error) {
			genre, err := genres.GetByID(ctx, opts["id"])
			return genre.String(), err
		},
	})
	sh.register(ShellCommand{
		Key: "genre by name", Help: "Get genre by its name", Options: []string{"name"},
		Run: func(ctx context.Context, opts map[string]string) (string, error) {
			genre, err := genres.GetByName(ctx, opts["name"])
			return genre.String(), err
		},
	})
	sh.register(ShellCommand{
		Key: "add genre", Help: "Add new genre", Options: []string{"name"},
		Run: func(ctx context.Context, opts map[string]string) (string, error) {
			genre, err := genres.Add(ctx, Genre{Name: opts["name"]})
			return fmt.Sprintf("Genre with name %s successfully added with id %s!", genre.Name, genre.ID), err
		},
	})
	sh.register(ShellCommand{
		Key: "update genre", Help: "Update name of a genre by its ID", Options: []string{"id", "name"},
		Run: func(ctx context.Context, opts map[string]string) (string, error) {
			genre, err := genres.Update(ctx, opts["id"], Genre{Name: opts["name"]})
			return fmt.Sprintf("Genre with id %s successfully updated. Genre name is %s", genre.ID, genre.Name), err
		},
	})
	sh.register(ShellCommand{
		Key: "delete genre", Help: "Delete genre by ID", Options: []string{"id"},
		Run: func(ctx context.Context, opts map[string]string) (string, error) {
			return "Genre with this ID no longer exists", genres.Delete(ctx, opts["id"])
		},
	})
	sh.register(ShellCommand{
		Key: "genres count", Help: "Get count of all genres",
		Run: func(ctx context.Context, _ map[string]string) (string, error) {
			return countOf(genres.Count(ctx))
		},
	})
}

func (sh *Shell) registerBookCommands() {
	books := sh.services.Books
	sh.register(ShellCommand{
		Key: "all books", Help: "Get all books",
		Run: func(ctx context.Context, _ map[string]string) (string, error) {
			all, err := books.GetAll(ctx)
			return listing(all, "No data in table 'Books'"), err
		},
	})
	sh.register(ShellCommand{
		Key: "book by id", Help: "Get book by ID", Options: []string{"id"},
		Run: func(ctx context.Context, opts map[string]string) (string, error) {
			book, err := books.GetByID(ctx, opts["id"])
			return book.String(), err
		},
	})
	sh.register(ShellCommand{
		Key: "book by title", Help: "Get books by title", Options: []string{"title"},
		Run: func(ctx context.Context, opts map[string]string) (string, error) {
			found, err := books.GetByTitle(ctx, opts["title"])
			return listing(found, "No books found by provided title"), err
		},
	})
	sh.register(ShellCommand{
		Key: "add book", Help: "Add new book", Options: []string{"title", "author-id", "genre-id"},
		Run: func(ctx context.Context, opts map[string]string) (string, error) {
			book, err := books.Add(ctx, Book{Title: opts["title"], AuthorID: opts["author-id"], GenreID: opts["genre-id"]})
			return fmt.Sprintf("Book with title %s successfully added with id %s!", book.Title, book.ID), err
		},
	})
	sh.register(ShellCommand{
		Key: "update book title", Help: "Update title of a book by its ID", Options: []string{"id", "new-title"},
		Run: func(ctx context.Context, opts map[string]string) (string, error) {
			book, err := books.UpdateTitle(ctx, opts["id"], opts["new-title"])
			return fmt.Sprintf("Book with id %s is successfully updated. Book's title is %s", book.ID, book.Title), err
		},
	})
	sh.register(ShellCommand{
		Key: "delete book", Help: "Delete book by ID with its comments", Options: []string{"id"},
		Run: func(ctx context.Context, opts map[string]string) (string, error) {
			return "Book with this ID no longer exists", books.Delete(ctx, opts["id"])
		},
	})
	sh.register(ShellCommand{
		Key: "books count", Help: "Get count of all books",
		Run: func(ctx context.Context, _ map[string]string) (string, error) {
			return countOf(books.Count(ctx))
		},
	})
}

func (sh *Shell) registerCommentCommands() {
	comments := sh.services.Comments
	sh.register(ShellCommand{
		Key: "all comments", Help: "Get all comments",
		Run: func(ctx context.Context, _ map[string]string) (string, error) {
			all, err := comments.GetAll(ctx)
			return listing(all, "No data in table 'Comments'"), err
		},
	})
	sh.register(ShellCommand{
		Key: "comment by id", Help: "Get comment by ID", Options: []string{"id"},
		Run: func(ctx context.Context, opts map[string]string) (string, error) {
			comment, err := comments.GetByID(ctx, opts["id"])
			return comment.String(), err
		},
	})
	sh.register(ShellCommand{
		Key: "comments by book id", Help: "Get all comments of a book", Options: []string{"book-id"},
		Run: func(ctx context.Context, opts map[string]string) (string, error) {
			found, err := comments.GetByBookID(ctx, opts["book-id"])
			return listing(found, "No comments for this book"), err
		},
	})
	sh.register(ShellCommand{
		Key: "add comment", Help: "Add new comment to a book", Options: []string{"content", "book-id"},
		Run: func(ctx context.Context, opts map[string]string) (string, error) {
			comment, err := comments.Add(ctx, opts["content"], opts["book-id"])
			return fmt.Sprintf("Comment successfully added with id %s!", comment.ID), err
		},
	})
	sh.register(ShellCommand{
		Key: "update comment", Help: "Update content of a comment by its ID", Options: []string{"id", "new-content"},
		Run: func(ctx context.Context, opts map[string]string) (string, error) {
			comment, err := comments.UpdateContent(ctx, opts["id"], opts["new-content"])
			return fmt.Sprintf("Comment with id %s successfully updated. Comment is %s", comment.ID, comment.Content), err
		},
	})
	sh.register(ShellCommand{
		Key: "delete comment", Help: "Delete comment by ID", Options: []string{"id"},
		Run: func(ctx context.Context, opts map[string]string) (string, error) {
			return "Comment with this ID no longer exists", comments.Delete(ctx, opts["id"])
		},
	})
	sh.register(ShellCommand{
		Key: "comments count", Help: "Get count of all comments",
		Run: func(ctx context.Context, _ map[string]string) (string, error) {
			return countOf(comments.Count(ctx))
		},
	})
}
