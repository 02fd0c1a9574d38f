package main

import (
	"fmt"

	"github.com/samber/lo"
)

// Collections names used as buckets, hashes and interceptor keys.
const (
	AuthorsCollection  = "authors"
	GenresCollection   = "genres"
	BooksCollection    = "books"
	CommentsCollection = "comments"
	UsersCollection    = "users"
)

// Identifier prefixes, one per collection.
const (
	AuthorIDPrefix  string = "a"
	GenreIDPrefix   string = "g"
	BookIDPrefix    string = "b"
	CommentIDPrefix string = "c"
	UserIDPrefix    string = "u"
	RequestIDPrefix string = "r"
)

// Author represents an author entity. The pair (Name, Surname) is unique.
type Author struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
}

func (a Author) String() string {
	return a.ID + "," + a.Name + "," + a.Surname
}

// Genre represents a genre entity. Its Name is unique.
type Genre struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (g Genre) String() string {
	return g.ID + "," + g.Name
}

// Book represents a book entity. Only AuthorID and GenreID are persisted,
// Author and Genre are resolved when the book is read.
type Book struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	AuthorID string  `json:"authorId"`
	GenreID  string  `json:"genreId"`
	Author   *Author `json:"author,omitempty"`
	Genre    *Genre  `json:"genre,omitempty"`
}

func (b Book) String() string {
	author, genre := "N/A", "N/A"
	if b.Author != nil {
		author = b.Author.Name + " " + b.Author.Surname
	}
	if b.Genre != nil {
		genre = b.Genre.Name
	}
	return fmt.Sprintf("%s,%s,%s,%s", b.ID, b.Title, author, genre)
}

// stored returns the book without its read-time embedded references.
func (b Book) stored() Book {
	b.Author = nil
	b.Genre = nil
	return b
}

// Comment represents a comment left on a book.
type Comment struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	BookID  string `json:"bookId"`
}

func (c Comment) String() string {
	return c.ID + "," + c.Content + "," + c.BookID
}

// Role is a user authority.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User represents an account allowed to use the api. Login is unique.
type User struct {
	ID           string `json:"id"`
	Login        string `json:"login"`
	PasswordHash string `json:"passwordHash"`
	Roles        []Role `json:"roles"`
}

// HasRole reports whether the user holds the given role.
func (u User) HasRole(role Role) bool {
	return lo.Contains(u.Roles, role)
}
