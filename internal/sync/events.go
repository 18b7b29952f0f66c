package sync

import "time"

// Event types broadcast to connected clients.
const (
	EventExhibitionCreated = "exhibition.created"
	EventExhibitionDeleted = "exhibition.deleted"
	EventItemAdded         = "exhibition.item_added"
	EventItemsReplaced     = "exhibition.items_replaced"
)

type ExhibitionEvent struct {
	Type         string    `json:"type"`
	UserID       string    `json:"user_id"`
	ExhibitionID string    `json:"exhibition_id"`
	Name         string    `json:"name,omitempty"`
	ItemsCount   int       `json:"items_count"`
	At           time.Time `json:"at"`
}
