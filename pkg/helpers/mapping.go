package helpers

import (
	"fmt"
	"strings"

	"github.com/oksasatya/community-events/pkg/mailer"
)

// EnsureRecipientAndEmail fills recipient fields templates rely on from job.To
func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}

// NormalizeTemplate lowercases the template name and maps the Type field onto
// jobs published without an explicit template.
func NormalizeTemplate(job *mailer.EmailJob) {
	job.Template = strings.ToLower(strings.TrimSpace(job.Template))
	if job.Template != "" || job.Data == nil {
		return
	}
	if typ, ok := job.Data["Type"].(string); ok {
		job.Template = strings.ToLower(typ)
	}
}
