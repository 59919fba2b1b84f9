package models

import "time"

// Profile is one uploaded profile image. ID is a snowflake identifier that
// doubles as the object-storage key suffix, so the row and the stored image
// are correlated without an extra column.
type Profile struct {
	ID        int64
	UserID    int64
	CreatedAt time.Time
}
