package entity

import "time"

// Event belongs to exactly one Project; ProjectID is immutable.
type Event struct {
	ID          string
	Name        string
	Description string
	City        string
	Address     string
	Date        time.Time
	RegURL      string
	ImageURL    string

	ProjectID string
	Project   *Project

	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}
