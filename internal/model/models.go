package model

import "time"

// Term is a single term/definition pair within a study set.
type Term struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// StudySet is a titled collection of terms owned by a single user.
// Terms is always non-nil; an empty set has an empty slice.
type StudySet struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId,omitempty"` // empty in local mode when nobody is signed in
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Terms       []Term    `json:"terms"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Folder groups study sets by id. SetIDs is duplicate-free; uniqueness is
// enforced on insertion, not by the storage layer.
type Folder struct {
	ID          string   `json:"id"`
	OwnerID     string   `json:"ownerId,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	SetIDs      []string `json:"setIds"`
}

// Group is a shared collection of study sets with a member list.
// Members is the canonical flat shape: an ordered, duplicate-free list of
// usernames. The remote backend derives it from a membership relation; the
// local backend stores it inline. Neither representation leaks past the
// adapters.
type Group struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	School      string   `json:"school,omitempty"`
	CreatedBy   string   `json:"createdBy"`
	SetIDs      []string `json:"setIds"`
	Members     []string `json:"members"`
}

// User is the identity attached to a session. In local mode it is just a
// cached object, not a verified session, and ID is empty.
type User struct {
	ID        string            `json:"id,omitempty"`
	Email     string            `json:"email"`
	Username  string            `json:"username"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// DisplayName returns the username, falling back to the email address when
// no username was recorded at sign-up.
func (u *User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

// NewSet carries the caller-supplied fields for creating a study set.
// Ownership, id and timestamps are stamped by the backend.
type NewSet struct {
	Title       string
	Description string
	Terms       []Term
}

// SetUpdate is a partial update for a study set. Nil fields are left
// untouched; the backend shallow-merges the rest.
type SetUpdate struct {
	Title       *string
	Description *string
	Terms       *[]Term
}

// NewFolder carries the caller-supplied fields for creating a folder.
type NewFolder struct {
	Name        string
	Description string
}

// NewGroup carries the caller-supplied fields for creating a group.
type NewGroup struct {
	Name        string
	Description string
	School      string
}
