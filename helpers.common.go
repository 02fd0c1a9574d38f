package main

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"os"
	"strings"
)

type (
	ContextKey        string
	missingFieldError string
)

const (
	RequestIDContextKey     ContextKey = "request.id"
	RequestNumberContextKey ContextKey = "request.number"
	UserContextKey          ContextKey = "request.user"
)

func (m missingFieldError) Error() string {
	return string(m) + " is required"
}

// GetValueFromContext returns the value of a given key in the context
// if this key is not available, it returns an empty string.
func GetValueFromContext(ctx context.Context, contextKey ContextKey) string {
	if val, ok := ctx.Value(contextKey).(string); ok {
		return val
	}
	return ""
}

// GetRequestNumberFromContext returns the request number set in
// the context. if not previously set then it returns 0.
func GetRequestNumberFromContext(ctx context.Context) uint64 {
	if val, ok := ctx.Value(RequestNumberContextKey).(uint64); ok {
		return val
	}
	return 0
}

// GetUserFromContext returns the authenticated user set in the context.
func GetUserFromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(UserContextKey).(User)
	return user, ok
}

// DecodeRequestBody is a helper function to read the json content of a creation or update request.
func DecodeRequestBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("invalid request body")
	}
	return json.NewDecoder(r.Body).Decode(v)
}

// ValidateAuthorRequestBody checks the content of an author creation or update request.
func ValidateAuthorRequestBody(author *Author) error {
	if len(author.Name) == 0 {
		return missingFieldError("name")
	}
	if len(author.Surname) == 0 {
		return missingFieldError("surname")
	}
	return nil
}

// ValidateGenreRequestBody checks the content of a genre creation or update request.
func ValidateGenreRequestBody(genre *Genre) error {
	if len(genre.Name) == 0 {
		return missingFieldError("name")
	}
	return nil
}

// ValidateBookRequestBody checks the content of a book creation or update request.
func ValidateBookRequestBody(book *Book) error {
	if len(book.Title) == 0 {
		return missingFieldError("title")
	}
	if len(book.AuthorID) == 0 {
		return missingFieldError("authorId")
	}
	if len(book.GenreID) == 0 {
		return missingFieldError("genreId")
	}
	return nil
}

// ValidateCommentRequestBody checks the content of a comment creation request.
// The book reference is not required on update.
func ValidateCommentRequestBody(comment *Comment, creation bool) error {
	if len(comment.Content) == 0 {
		return missingFieldError("content")
	}
	if creation && len(comment.BookID) == 0 {
		return missingFieldError("bookId")
	}
	return nil
}

// GetRequestSourceIP helps find the source IP of the caller.
func GetRequestSourceIP(r *http.Request) string {
	// Get IP from the X-REAL-IP header
	ip := r.Header.Get("X-REAL-IP")
	netIP := net.ParseIP(ip)
	if netIP != nil {
		return ip
	}

	// Get IP from X-FORWARDED-FOR header
	ips := r.Header.Get("X-FORWARDED-FOR")
	splitIps := strings.Split(ips, ",")
	for _, ip := range splitIps {
		ip = strings.TrimSpace(ip)
		netIP = net.ParseIP(ip)
		if netIP != nil {
			return ip
		}
	}

	// Get IP from RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return ""
	}
	netIP = net.ParseIP(ip)
	if netIP != nil {
		return ip
	}
	return ""
}

// IsAppRunningInDocker checks the existence of the .dockerenv
// file at the root directory and returns a boolean result. This
// helps know if the App is running in a docker container or not.
func IsAppRunningInDocker() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	return false
}
