// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account record. ID is a snowflake identifier assigned at
// signup. EmailHash is the non-secret md5 digest of the email, used for
// public avatar lookups only. ActivePhotoID is -1 while the user has not
// chosen a profile photo.
type User struct {
	ID            int64
	Email         string
	PasswordHash  string
	EmailHash     string
	ActivePhotoID int64
	CreatedAt     time.Time
}
