package handlers

import (
	"time"

	"github.com/oksasatya/community-events/internal/domain/entity"
)

type userView struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	Name               string    `json:"name"`
	Surname            string    `json:"surname,omitempty"`
	Phone              string    `json:"phone,omitempty"`
	ImageURL           string    `json:"image_url,omitempty"`
	SubscribedProjects []string  `json:"subscribed_projects"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type coordinatorView struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Surname  string `json:"surname,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

type projectView struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Theme       string           `json:"theme,omitempty"`
	City        string           `json:"city,omitempty"`
	Description string           `json:"description,omitempty"`
	Email       string           `json:"email,omitempty"`
	Phone       string           `json:"phone,omitempty"`
	Org         string           `json:"org,omitempty"`
	Facebook    string           `json:"facebook,omitempty"`
	Instagram   string           `json:"instagram,omitempty"`
	ImageURL    string           `json:"image_url,omitempty"`
	Images      []string         `json:"images"`
	Coordinator *coordinatorView `json:"coordinator,omitempty"`
	Subscribers []string         `json:"subscribers"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

type eventView struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	City        string       `json:"city,omitempty"`
	Address     string       `json:"address,omitempty"`
	Date        time.Time    `json:"date"`
	RegURL      string       `json:"reg_url,omitempty"`
	ImageURL    string       `json:"image_url,omitempty"`
	CreatedBy   string       `json:"created_by,omitempty"`
	Project     *projectView `json:"project,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func toUserView(u *entity.User) userView {
	subs := u.SubscribedProjects
	if subs == nil {
		subs = []string{}
	}
	return userView{
		ID:                 u.ID,
		Email:              u.Email,
		Name:               u.Name,
		Surname:            u.Surname,
		Phone:              u.Phone,
		ImageURL:           u.ImageURL,
		SubscribedProjects: subs,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}

func toProjectView(p *entity.Project) *projectView {
	if p == nil {
		return nil
	}
	v := &projectView{
		ID:          p.ID,
		Name:        p.Name,
		Theme:       p.Theme,
		City:        p.City,
		Description: p.Description,
		Email:       p.Email,
		Phone:       p.Phone,
		Org:         p.Org,
		Facebook:    p.Facebook,
		Instagram:   p.Instagram,
		ImageURL:    p.ImageURL,
		Images:      nonNil(p.Images),
		Subscribers: nonNil(p.Subscribers),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if c := p.Coordinator; c != nil {
		v.Coordinator = &coordinatorView{ID: c.ID, Email: c.Email, Name: c.Name, Surname: c.Surname, ImageURL: c.ImageURL}
	}
	return v
}

func toEventView(e *entity.Event) eventView {
	return eventView{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		City:        e.City,
		Address:     e.Address,
		Date:        e.Date,
		RegURL:      e.RegURL,
		ImageURL:    e.ImageURL,
		CreatedBy:   e.CreatedBy,
		Project:     toProjectView(e.Project),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toProjectViews(list []*entity.Project) []*projectView {
	out := make([]*projectView, 0, len(list))
	for _, p := range list {
		out = append(out, toProjectView(p))
	}
	return out
}

func toEventViews(list []*entity.Event) []eventView {
	out := make([]eventView, 0, len(list))
	for _, e := range list {
		out = append(out, toEventView(e))
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
