package db

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// History item types.
const (
	HistoryTypePPTX       = "pptx"
	HistoryTypeResumePDF  = "resume-pdf"
	HistoryTypeResumeHTML = "resume-html"
)

// User represents an account
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize to JSON
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HistoryItem is one generated document. SourceData holds the structured
// input the document was built from; FileContent holds the rendered file
// encoded as base64.
type HistoryItem struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	Title       string          `json:"title"`
	Type        string          `json:"type"`
	SourceData  json.RawMessage `json:"sourceData"`
	FileContent string          `json:"fileContent,omitempty"`
	Prompt      string          `json:"prompt,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// HistorySummary is a history row without the file payload, for listings.
type HistorySummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	Prompt    string    `json:"prompt,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Feedback is a user rating of a generated document
type Feedback struct {
	ID        uuid.UUID `json:"id"`
	HistoryID uuid.UUID `json:"historyId"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Refinement records one review pass over a history item: the requested
// change plus the source data before and after.
type Refinement struct {
	ID        uuid.UUID       `json:"id"`
	HistoryID uuid.UUID       `json:"historyId"`
	UserID    uuid.UUID       `json:"user_id"`
	Request   string          `json:"request"`
	Before    json.RawMessage `json:"before"`
	After     json.RawMessage `json:"after"`
	CreatedAt time.Time       `json:"createdAt"`
}
