package models

import "time"

// Exhibition is a user-owned named collection of saved artifacts. SavedItems
// is persisted as a single serialized JSON column on the exhibition row, not
// a relational child table, so every mutation rewrites the whole collection.
type Exhibition struct {
	ID         string           `json:"id"`
	UserID     string           `json:"user_id"`
	Name       string           `json:"name"`
	SavedItems []NormalizedItem `json:"savedItems"`
	CreatedAt  time.Time        `json:"created_at"`
}
