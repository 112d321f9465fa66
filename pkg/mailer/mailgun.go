package mailer

import (
	"context"
	"errors"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

const sendTimeout = 10 * time.Second

var ErrNoRecipient = errors.New("mailer: no recipient")

// Mailgun sends rendered notifications through one Mailgun domain.
type Mailgun struct {
	client *mg.MailgunImpl
	Sender string
}

// NewMailgun builds the client once. baseURL is optional and selects the
// region endpoint, e.g. mg.APIBaseEU.
func NewMailgun(domain, apiKey, sender string, baseURL ...string) *Mailgun {
	client := mg.NewMailgun(domain, apiKey)
	if len(baseURL) > 0 && baseURL[0] != "" {
		client.SetAPIBase(baseURL[0])
	}
	return &Mailgun{client: client, Sender: sender}
}

// Send delivers one message. html is optional and used as the HTML body.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	if to == "" {
		return ErrNoRecipient
	}
	msg := m.client.NewMessage(m.Sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	_, _, err := m.client.Send(c, msg)
	return err
}
