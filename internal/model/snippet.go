package model

import "time"

// Snippet represents a code snippet. Snippets are publicly readable but
// owned and mutable by a single user.
type Snippet struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"userId"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Language  string    `json:"language"`
	Snippet   string    `json:"snippet"`
	Views     int64     `json:"views"`
	Downloads int64     `json:"downloads"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Owner returns the identity of the user who owns the snippet.
func (s *Snippet) Owner() int64 { return s.UserID }

// CreateSnippetRequest represents a snippet creation request.
type CreateSnippetRequest struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Language string `json:"language"`
	Snippet  string `json:"snippet"`
}

// UpdateSnippetRequest is the allow-listed patch for a snippet. Counters
// and ownership are deliberately absent.
type UpdateSnippetRequest struct {
	Title    *string `json:"title"`
	Category *string `json:"category"`
	Language *string `json:"language"`
	Snippet  *string `json:"snippet"`
}
