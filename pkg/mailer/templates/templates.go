package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	htmpl "html/template"
	"reflect"
	"strings"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// EmailData defines standard fields for email templates.
type EmailData struct {
	// Basic info
	Name           string `json:"Name"`
	Email          string `json:"Email"`
	RecipientEmail string `json:"RecipientEmail"`
	Type           string `json:"Type"`

	// Company info
	CompanyName string `json:"CompanyName"`
	AppName     string `json:"AppName"`
	AppURL      string `json:"AppURL"`

	// Project
	ProjectName string `json:"ProjectName"`
	ProjectCity string `json:"ProjectCity"`

	// Subscriber
	SubscriberName  string `json:"SubscriberName"`
	SubscriberEmail string `json:"SubscriberEmail"`

	// Event
	EventName    string    `json:"EventName"`
	EventCity    string    `json:"EventCity"`
	EventAddress string    `json:"EventAddress"`
	EventDate    string    `json:"EventDate"`
	EventAt      time.Time `json:"EventAt"`
	RegURL       string    `json:"RegURL"`
}

// ToMap flattens EmailData into the map carried by EmailJob.Data.
func ToMap(d EmailData) map[string]any {
	b, err := json.Marshal(d)
	if err != nil {
		return map[string]any{}
	}
	m := make(map[string]any)
	_ = json.Unmarshal(b, &m)
	return m
}

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback any, value any) any {
	switch x := value.(type) {
	case nil:
		return fallback
	case string:
		if strings.TrimSpace(x) == "" {
			return fallback
		}
		return x
	}
	rv := reflect.ValueOf(value)
	if rv.IsZero() {
		return fallback
	}
	return value
}

const (
	NewSubscriber  = "new_subscriber"
	EventPublished = "event_published"
)

// ErrUnknownTemplate is returned by Render for a name with no template files.
var ErrUnknownTemplate = errors.New("unknown email template")

// Parsed once from the embedded FS.
var (
	textSet = texttpl.Must(texttpl.New("text").
		Funcs(texttpl.FuncMap{"default": defaultFn}).
		ParseFS(FS, "*.subject.tmpl", "*.text.tmpl"))
	htmlSet = htmpl.Must(htmpl.New("html").
		Funcs(htmpl.FuncMap{"default": defaultFn}).
		ParseFS(FS, "*.html.tmpl"))
)

// Message is a rendered email.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

// Render executes <name>.subject.tmpl, <name>.text.tmpl and <name>.html.tmpl
// against data.
func Render(name string, data any) (Message, error) {
	if textSet.Lookup(name+".subject.tmpl") == nil {
		return Message{}, fmt.Errorf("templates.Render %q: %w", name, ErrUnknownTemplate)
	}
	var msg Message
	var buf bytes.Buffer

	exec := func(file string, run func() error) (string, error) {
		buf.Reset()
		if err := run(); err != nil {
			return "", fmt.Errorf("templates.Render %s: %w", file, err)
		}
		return buf.String(), nil
	}

	var err error
	subjectFile, textFile, htmlFile := name+".subject.tmpl", name+".text.tmpl", name+".html.tmpl"
	if msg.Subject, err = exec(subjectFile, func() error { return textSet.ExecuteTemplate(&buf, subjectFile, data) }); err != nil {
		return Message{}, err
	}
	msg.Subject = strings.TrimSpace(msg.Subject)
	if msg.Text, err = exec(textFile, func() error { return textSet.ExecuteTemplate(&buf, textFile, data) }); err != nil {
		return Message{}, err
	}
	if msg.HTML, err = exec(htmlFile, func() error { return htmlSet.ExecuteTemplate(&buf, htmlFile, data) }); err != nil {
		return Message{}, err
	}
	return msg, nil
}
