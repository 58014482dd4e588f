// Package models defines the data types shared by the RecipeDeck client:
// the authenticated identity, the recipe record as served by the backend,
// and the local draft used while creating or editing a record.
package models

import "time"

// UserIdentity is the authenticated user as reported by the backend's
// identity endpoint. Opaque beyond identity comparison.
type UserIdentity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AttachmentRef is a remote-resolved reference to a record's image.
// Once a record is persisted the client only ever sees URLs, never bytes.
type AttachmentRef struct {
	ThumbnailURL string `json:"thumbnailUrl"`
}

// Recipe is a persisted recipe record, expanded with author identity.
type Recipe struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Instructions string         `json:"instructions"`
	CookingTime  int            `json:"cookingTime"`
	AuthorID     string         `json:"authorId"`
	AuthorName   string         `json:"authorName"`
	Attachment   *AttachmentRef `json:"attachment,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// RecipeFields is the write payload for create/update. The attachment does
// not travel here; it is handled separately per the draft's file state.
type RecipeFields struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Instructions string `json:"instructions"`
	CookingTime  int    `json:"cookingTime"`
}

// FileHandle is a locally selected file that has not been transmitted yet.
type FileHandle struct {
	Name        string
	ContentType string
	Data        []byte
}
