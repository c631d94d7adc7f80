package traillog

// A TrailEntry is one logged hike, owned by exactly one User.
//
// Latitude, Longitude and DateTraveled are stored as the free text the
// owner submitted. DateTraveled is constrained to the 10 characters of
// YYYY-MM-DD but is not parsed as a calendar date.
type TrailEntry struct {
	Model
	Trailname    string `db:"trailname" json:"trailname"`
	Latitude     string `db:"latitude" json:"latitude"`
	Longitude    string `db:"longitude" json:"longitude"`
	DateTraveled string `db:"date_traveled" json:"dateTraveled"`
	UserID       uint   `db:"user_id" json:"userId"`
}

// TableName tells GORM the table backing TrailEntry.
func (TrailEntry) TableName() string { return "trail_entries" }

// OwnedBy asserts whether the entry belongs to the user with the given ID.
func (t TrailEntry) OwnedBy(userID uint) bool { return t.UserID == userID }
