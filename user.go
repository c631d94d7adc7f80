package traillog

// A User is the account that owns trail entries.
//
// An agent's HTTP requests are authenticated first by a specific request
// with email & password data matching credentials stored on a DB record
// for a User. Upon a match, a session is created and stored. Further
// requests are authenticated by referencing that session.
type User struct {
	Model
	Username     string `db:"username" json:"username"`
	Email        string `db:"email" json:"email"`
	PasswordHash string `db:"password_hash" json:"-"`

	// Associations
	Trails []TrailEntry `json:"-"`
}

// GetID retrieves the application's identifier for the User.
//
// GetID partially implements logger.LogUser.
func (u User) GetID() uint { return u.ID }

// GetEmail retrieves the email address of the User.
//
// GetEmail partially implements logger.LogUser.
func (u User) GetEmail() string { return u.Email }

// HasAccess asserts whether the User's properties give it general access
// to the trail log. There are no invited or revoked states in this
// application, so any persisted User has access.
func (u User) HasAccess() bool { return u.Exists() }

// HomePath returns the relative URL path designated as the default
// resource the User can access.
func (u User) HomePath() string {
	if !u.HasAccess() {
		return "/login"
	}

	return "/"
}
