package core

// Actor is the authenticated staff member on whose behalf a write is performed.
// It is recorded as created_by, marked_by or uploaded_by.
type Actor struct {
	UserID  string
	Email   string
	IsAdmin bool
}

// Check returns ErrNoActor when no one is logged in.
func (a Actor) Check() error {
	if a.UserID == "" {
		return ErrNoActor
	}
	return nil
}
