// Package model defines the persisted user record shared by the SQLite and
// MongoDB stores.
package model

import "time"

// Provider names an external identity provider.
type Provider string

const (
	Google   Provider = "google"
	Facebook Provider = "facebook"
)

// User is the single persisted entity. Optional identifiers are pointers so
// that an absent value is stored as NULL (or left out of the document) and
// does not collide with the unique indexes.
type User struct {
	Id           string    `json:"id" gorm:"primaryKey" bson:"_id"`
	Username     *string   `json:"username,omitempty" gorm:"uniqueIndex" bson:"username,omitempty"`
	PasswordHash string    `json:"-" gorm:"column:password_hash" bson:"password_hash,omitempty"`
	GoogleId     *string   `json:"-" gorm:"uniqueIndex" bson:"google_id,omitempty"`
	FacebookId   *string   `json:"-" gorm:"uniqueIndex" bson:"facebook_id,omitempty"`
	Secret       *string   `json:"secret,omitempty" bson:"secret,omitempty"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updated_at"`
}

// GetUsername returns the local login name or "" for OAuth-only users.
func (u *User) GetUsername() string {
	if u.Username == nil {
		return ""
	}
	return *u.Username
}

// GetSecret returns the submitted secret or "".
func (u *User) GetSecret() string {
	if u.Secret == nil {
		return ""
	}
	return *u.Secret
}

func (u *User) HasSecret() bool {
	return u.Secret != nil
}

// ExternalId returns the identifier the user holds at the given provider.
func (u *User) ExternalId(provider Provider) string {
	var id *string
	switch provider {
	case Google:
		id = u.GoogleId
	case Facebook:
		id = u.FacebookId
	}
	if id == nil {
		return ""
	}
	return *id
}

// SetExternalId records the user's identifier at the given provider.
func (u *User) SetExternalId(provider Provider, id string) {
	switch provider {
	case Google:
		u.GoogleId = &id
	case Facebook:
		u.FacebookId = &id
	}
}
