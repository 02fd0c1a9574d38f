package main

import (
	"context"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

type BookServiceProvider interface {
	GetAll(ctx context.Context) ([]Book, error)
	GetByID(ctx context.Context, id string) (Book, error)
	GetByTitle(ctx context.Context, title string) ([]Book, error)
	Add(ctx context.Context, book Book) (Book, error)
	Update(ctx context.Context, id string, book Book) (Book, error)
	UpdateTitle(ctx context.Context, id, title string) (Book, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type BookService struct {
	logger  *zap.Logger
	books   *Collection[Book]
	authors *Collection[Author]
	genres  *Collection[Genre]
	policy  *ResiliencePolicy
}

func NewBookService(logger *zap.Logger, cs *Collections, policy *ResiliencePolicy) BookServiceProvider {
	return &BookService{
		logger:  logger,
		books:   cs.Books,
		authors: cs.Authors,
		genres:  cs.Genres,
		policy:  policy,
	}
}

// placeholderBook is served when books cannot be read in time.
func placeholderBook(id, title string) Book {
	return Book{
		ID:     id,
		Title:  title,
		Author: &Author{ID: "N/A", Name: "N/A", Surname: "N/A"},
		Genre:  &Genre{ID: "N/A", Name: "N/A"},
	}
}

// embed resolves the author and genre of each book. A dangling
// reference leaves the field empty.
func (bs *BookService) embed(ctx context.Context, books []Book) ([]Book, error) {
	if len(books) == 0 {
		return books, nil
	}
	authors, err := bs.authors.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	genres, err := bs.genres.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	authorsByID := lo.KeyBy(authors, func(a Author) string { return a.ID })
	genresByID := lo.KeyBy(genres, func(g Genre) string { return g.ID })

	return lo.Map(books, func(b Book, _ int) Book {
		if a, found := authorsByID[b.AuthorID]; found {
			b.Author = &a
		}
		if g, found := genresByID[b.GenreID]; found {
			b.Genre = &g
		}
		return b
	}), nil
}

func (bs *BookService) embedOne(ctx context.Context, book Book) (Book, error) {
	books, err := bs.embed(ctx, []Book{book})
	if err != nil {
		return book, err
	}
	return books[0], nil
}

func (bs *BookService) GetAll(ctx context.Context) ([]Book, error) {
	books, err := withPolicy(ctx, bs.policy, BooksCollection,
		func(ctx context.Context) ([]Book, error) {
			books, err := bs.books.FindAll(ctx)
			if err != nil {
				return nil, err
			}
			return bs.embed(ctx, books)
		},
		func() []Book { return []Book{} },
	)
	return books, translateError(err, "", "", "")
}

func (bs *BookService) GetByID(ctx context.Context, id string) (Book, error) {
	book, err := withPolicy(ctx, bs.policy, BooksCollection,
		func(ctx context.Context) (Book, error) {
			book, err := bs.books.FindByID(ctx, id)
			if err != nil {
				return book, err
			}
			return bs.embedOne(ctx, book)
		},
		func() Book { return placeholderBook(id, "N/A") },
	)
	return book, translateError(err, "Book by provided ID not found", "", "")
}

// GetByTitle lists the books with exactly this title. Titles are not unique.
func (bs *BookService) GetByTitle(ctx context.Context, title string) ([]Book, error) {
	books, err := withPolicy(ctx, bs.policy, BooksCollection,
		func(ctx context.Context) ([]Book, error) {
			books, err := bs.books.FindByField(ctx, "title", title)
			if err != nil {
				return nil, err
			}
			return bs.embed(ctx, books)
		},
		func() []Book { return []Book{placeholderBook("N/A", title)} },
	)
	return books, translateError(err, "", "", "")
}

// resolve loads the author and genre the book points to.
func (bs *BookService) resolve(ctx context.Context, book *Book) error {
	author, err := bs.authors.FindByID(ctx, book.AuthorID)
	if err != nil {
		return translateError(err, "Author by provided ID not found", "", "")
	}
	genre, err := bs.genres.FindByID(ctx, book.GenreID)
	if err != nil {
		return translateError(err, "No genre found by provided id", "", "")
	}
	book.Author = &author
	book.Genre = &genre
	return nil
}

func (bs *BookService) Add(ctx context.Context, book Book) (Book, error) {
	if err := bs.resolve(ctx, &book); err != nil {
		return book, err
	}
	author, genre := book.Author, book.Genre

	book.ID = ""
	saved, err := bs.books.Save(ctx, book.stored())
	if err != nil {
		return saved, translateError(err, "", "", "")
	}
	saved.Author, saved.Genre = author, genre
	return saved, nil
}

// Update replaces the title, author and genre of the book.
func (bs *BookService) Update(ctx context.Context, id string, book Book) (Book, error) {
	current, err := bs.books.FindByID(ctx, id)
	if err != nil {
		return current, translateError(err, "Book by provided ID not found", "", "")
	}
	if err = bs.resolve(ctx, &book); err != nil {
		return current, err
	}
	author, genre := book.Author, book.Genre

	current.Title = book.Title
	current.AuthorID = book.AuthorID
	current.GenreID = book.GenreID
	saved, err := bs.books.Save(ctx, current.stored())
	if err != nil {
		return saved, translateError(err, "", "", "")
	}
	saved.Author, saved.Genre = author, genre
	return saved, nil
}

func (bs *BookService) UpdateTitle(ctx context.Context, id, title string) (Book, error) {
	current, err := bs.books.FindByID(ctx, id)
	if err != nil {
		return current, translateError(err, "Book by provided ID not found", "", "")
	}
	current.Title = title
	saved, err := bs.books.Save(ctx, current.stored())
	if err != nil {
		return saved, translateError(err, "", "", "")
	}
	return bs.embedOne(ctx, saved)
}

// Delete removes the book. Its comments are removed on a best-effort basis.
func (bs *BookService) Delete(ctx context.Context, id string) error {
	err := bs.books.DeleteByID(ctx, id)
	return translateError(err, "There is no book with provided id", "", "")
}

func (bs *BookService) Count(ctx context.Context) (int, error) {
	n, err := bs.books.Count(ctx)
	return n, translateError(err, "", "", "")
}
