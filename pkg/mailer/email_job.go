package mailer

// EmailJob is one queued notification. A job names a Template plus its Data,
// or carries a ready Subject/Text/HTML body.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// TemplateJob builds a job rendered by the worker from a named template.
func TemplateJob(to, template string, data map[string]any) EmailJob {
	return EmailJob{To: to, Template: template, Data: data}
}

// Sendable reports whether the job has a recipient and something to render.
func (j EmailJob) Sendable() bool {
	return j.To != "" && (j.Template != "" || j.Subject != "")
}
