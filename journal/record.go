// Package journal reads the append-only key-collection journals: one JSON
// record per LF-terminated line, chunked into keys-NNNN.json[.xz] files.
package journal

import (
	"time"

	"github.com/go-errors/errors"
)

// User is the identity block of a journal record.
type User struct {
	ID         int64  `json:"id"`
	Login      string `json:"login"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	Company    string `json:"company,omitempty"`
	Bio        string `json:"bio,omitempty"`
	Location   string `json:"location,omitempty"`
	WebsiteURL string `json:"websiteUrl,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Record is one journal entry: a user and their published authorized_keys
// lines, in publication order.
type Record struct {
	User User     `json:"user"`
	Keys []string `json:"keys"`
}

// validate enforces the fixed schema. A record that fails here means the
// journal is corrupt, which invalidates the whole run.
func (r *Record) validate() error {
	if r.User.ID <= 0 {
		return errors.Errorf("record has non-positive user id %d", r.User.ID)
	}
	if r.User.Login == "" {
		return errors.Errorf("record for user id %d has no login", r.User.ID)
	}
	return nil
}
