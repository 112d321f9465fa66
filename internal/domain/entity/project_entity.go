package entity

import "time"

// Project is an organization publishing events.
// CoordinatorID is set once on creation and never rewritten.
type Project struct {
	ID          string
	Name        string
	Theme       string
	City        string
	Description string
	Email       string
	Phone       string
	Org         string
	Facebook    string
	Instagram   string
	ImageURL    string
	Images      []string

	CoordinatorID string
	Coordinator   *User

	Subscribers []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasSubscriber reports whether email is in the subscriber list.
func (p *Project) HasSubscriber(email string) bool {
	for _, e := range p.Subscribers {
		if e == email {
			return true
		}
	}
	return false
}
