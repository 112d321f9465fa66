package entity

import (
	"time"
)

// User is the aggregate root for identity
// Passwords are stored as bcrypt hashes in Password field
//
// SubscribedProjects keeps project ids in subscription order; the matching
// email lives in each Project's Subscribers.
type User struct {
	ID                 string
	Email              string
	Password           string
	Name               string
	Surname            string
	Phone              string
	ImageURL           string
	SubscribedProjects []string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsSubscribedTo reports whether projectID is in the user's subscription list.
func (u *User) IsSubscribedTo(projectID string) bool {
	for _, id := range u.SubscribedProjects {
		if id == projectID {
			return true
		}
	}
	return false
}
