package domain

import "time"

// Session is the authenticated identity resolved for a single request.
type Session struct {
	ID        string
	UserID    string
	Role      Role
	ExpiresAt time.Time
}

func (s *Session) Is(role Role) bool {
	return s != nil && s.Role == role
}
