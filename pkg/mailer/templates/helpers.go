package templates

import (
	"strings"
	"time"

	"github.com/oksasatya/community-events/config"
)

// Option pattern
type Option func(*EmailData)

func WithProject(name, city string) Option {
	return func(d *EmailData) {
		d.ProjectName = name
		d.ProjectCity = city
	}
}

func WithSubscriber(name, email string) Option {
	return func(d *EmailData) {
		d.SubscriberName = strings.TrimSpace(name)
		d.SubscriberEmail = email
	}
}

func WithEvent(name, city, address, regURL string, at time.Time) Option {
	return func(d *EmailData) {
		d.EventName = name
		d.EventCity = city
		d.EventAddress = address
		d.RegURL = regURL
		d.EventAt = at
		d.EventDate = at.Format("02 January 2006, 15:04")
	}
}

// NewBaseEmailData fills the common fields from config, then applies options
func NewBaseEmailData(cfg *config.Config, typ, name, recipient string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          recipient,
		RecipientEmail: recipient,
		Type:           typ,

		CompanyName: cfg.CompanyName,
		AppName:     cfg.AppName,
		AppURL:      cfg.AppURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// NewSubscriberData addresses a project coordinator about a new subscriber.
func NewSubscriberData(cfg *config.Config, coordinatorName, coordinatorEmail string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(cfg, NewSubscriber, coordinatorName, coordinatorEmail, opts...))
}

// NewEventPublishedData addresses a project subscriber about a new event.
func NewEventPublishedData(cfg *config.Config, recipient string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(cfg, EventPublished, "", recipient, opts...))
}
