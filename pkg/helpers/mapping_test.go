package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/community-events/pkg/mailer"
)

func TestEnsureRecipientAndEmail(t *testing.T) {
	job := &mailer.EmailJob{To: "a@x.io"}
	EnsureRecipientAndEmail(job)
	assert.Equal(t, "a@x.io", job.Data["Email"])
	assert.Equal(t, "a@x.io", job.Data["RecipientEmail"])

	job = &mailer.EmailJob{To: "a@x.io", Data: map[string]any{"Email": "b@x.io"}}
	EnsureRecipientAndEmail(job)
	assert.Equal(t, "b@x.io", job.Data["Email"])
}

func TestNormalizeTemplate(t *testing.T) {
	job := &mailer.EmailJob{Template: " New_Subscriber "}
	NormalizeTemplate(job)
	assert.Equal(t, "new_subscriber", job.Template)

	job = &mailer.EmailJob{Data: map[string]any{"Type": "event_published"}}
	NormalizeTemplate(job)
	assert.Equal(t, "event_published", job.Template)

	job = &mailer.EmailJob{Subject: "plain"}
	NormalizeTemplate(job)
	assert.Empty(t, job.Template)
}
