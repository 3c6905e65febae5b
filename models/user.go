package models

import (
	"time"
)

// NoDiscriminator is the sentinel value for users whose platform identity
// carries no discriminator tag.
const NoDiscriminator = "0"

type User struct {
	ID            string    `db:"id"             json:"id"`
	DisplayName   string    `db:"display_name"   json:"display_name"`
	Discriminator string    `db:"discriminator"  json:"discriminator"`
	CreatedAt     time.Time `db:"created_at"     json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"     json:"updated_at"`
}

// Tag renders the user's display name with the discriminator suffix,
// omitting it for the "none" sentinel.
func (u *User) Tag() string {
	if u.Discriminator == NoDiscriminator || u.Discriminator == "" {
		return u.DisplayName
	}
	return u.DisplayName + "#" + u.Discriminator
}
