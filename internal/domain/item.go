package domain

import (
	"encoding/json"
	"time"
)

// Cursor is a provider-defined pagination marker. Only the adapter that
// produced it may interpret it.
type Cursor = string

// ItemPagination carries the cursor that resumes a since-style fetch right
// after the item it is attached to.
type ItemPagination struct {
	Since Cursor `json:"since"`
}

// Item is anything the merge engine can order and paginate.
type Item interface {
	ItemID() string
	ItemAccountID() string
	ItemCreatedAt() time.Time
	SinceCursor() Cursor
}

// Post is an adapter-normalized timeline entry.
type Post struct {
	ID         string          `json:"id"`
	AccountID  string          `json:"providerId"`
	Provider   ProviderName    `json:"provider"`
	CreatedAt  time.Time       `json:"createdAt"`
	Content    json.RawMessage `json:"content"`
	Pagination ItemPagination  `json:"pagination"`
}

func (p Post) ItemID() string           { return p.ID }
func (p Post) ItemAccountID() string    { return p.AccountID }
func (p Post) ItemCreatedAt() time.Time { return p.CreatedAt }
func (p Post) SinceCursor() Cursor      { return p.Pagination.Since }

// Notification is an adapter-normalized notification entry.
type Notification struct {
	ID         string          `json:"id"`
	AccountID  string          `json:"providerId"`
	Provider   ProviderName    `json:"provider"`
	Kind       string          `json:"kind"`
	CreatedAt  time.Time       `json:"createdAt"`
	Content    json.RawMessage `json:"content"`
	Pagination ItemPagination  `json:"pagination"`
}

func (n Notification) ItemID() string           { return n.ID }
func (n Notification) ItemAccountID() string    { return n.AccountID }
func (n Notification) ItemCreatedAt() time.Time { return n.CreatedAt }
func (n Notification) SinceCursor() Cursor      { return n.Pagination.Since }

// Comment is a reply attached to a post.
type Comment struct {
	ID        string          `json:"id"`
	ParentID  string          `json:"parentId,omitempty"`
	AuthorID  string          `json:"authorId"`
	CreatedAt time.Time       `json:"createdAt"`
	Content   json.RawMessage `json:"content"`
	Mine      bool            `json:"mine,omitempty"`
}

// Comments is a page of comments for a single post.
type Comments struct {
	ProviderID     string    `json:"providerId"`
	PostID         string    `json:"postId"`
	Comments       []Comment `json:"comments"`
	ParentComments []Comment `json:"parentComments"`
	HasMore        bool      `json:"hasMore"`
	PostLink       string    `json:"postLink,omitempty"`
}
