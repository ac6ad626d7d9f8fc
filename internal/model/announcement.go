package model

import "time"

// Announcement is a notice published by a librarian.  Students only see
// announcements that are active and not yet expired; ExpiresAt == nil
// means the announcement never expires on its own.
type Announcement struct {
	ID          uint64     `json:"id"`           // announcements.id
	LibrarianID uint64     `json:"librarian_id"` // announcements.librarian_id
	Title       string     `json:"title"`        // announcements.title
	Content     string     `json:"content"`      // announcements.content
	Active      bool       `json:"active"`       // announcements.active
	ExpiresAt   *time.Time `json:"expires_at,omitempty"` // announcements.expires_at (nullable)
	CreatedAt   time.Time  `json:"created_at"`   // announcements.created_at
	UpdatedAt   time.Time  `json:"updated_at"`   // announcements.updated_at
}
