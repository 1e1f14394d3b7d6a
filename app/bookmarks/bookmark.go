// Package bookmarks holds the bookmark domain: the record type, the
// in-memory store, and the service layered on top.
package bookmarks

import (
	"errors"
	"strconv"
	"time"
)

// Bookmark is one saved link.
type Bookmark struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Notes     string    `json:"notes,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TagCount is one tag with the number of bookmarks carrying it.
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ErrStoreClosed is returned by store operations after Close.
var ErrStoreClosed = errors.New("bookmarks: store is closed")

// NotFoundError is returned when a bookmark id does not exist.
type NotFoundError struct{ ID string }

// Error implements the error interface.
func (e NotFoundError) Error() string {
	return "bookmarks: bookmark " + strconv.Quote(e.ID) + " not found"
}
