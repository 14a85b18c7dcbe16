package domain

import "time"

// Event is a named occasion photographers upload photos to.
// UserIDs is the set of photographers that contributed at least one upload.
type Event struct {
	ID      string     `json:"id"`
	Name    string     `json:"event_name"`
	Date    *time.Time `json:"event_date,omitempty"`
	UserIDs []string   `json:"user_ids"`
}

// HasContributor reports whether userID is already in the contributor set.
func (e *Event) HasContributor(userID string) bool {
	for _, id := range e.UserIDs {
		if id == userID {
			return true
		}
	}
	return false
}
