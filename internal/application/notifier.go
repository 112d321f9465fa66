package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/community-events/config"
	"github.com/oksasatya/community-events/internal/domain/entity"
	"github.com/oksasatya/community-events/pkg/mailer"
	mailtpl "github.com/oksasatya/community-events/pkg/mailer/templates"
	"github.com/oksasatya/community-events/pkg/metrics"
)

// Notifier turns domain events into email jobs on the queue. Failures are
// logged and never fail the originating request. A nil Notifier or one
// without a Publisher does nothing.
type Notifier struct {
	Pub     Publisher
	Cfg     *config.Config
	Metrics *metrics.Metrics
	Logger  *logrus.Logger
}

func NewNotifier(pub Publisher, cfg *config.Config, m *metrics.Metrics, logger *logrus.Logger) *Notifier {
	if cfg == nil {
		cfg = &config.Config{}
	}
	return &Notifier{Pub: pub, Cfg: cfg, Metrics: m, Logger: logger}
}

// NewSubscriber tells the coordinator of p that subscriber joined.
func (n *Notifier) NewSubscriber(ctx context.Context, p *entity.Project, subscriber *entity.User) {
	if n == nil || n.Pub == nil || p.Coordinator == nil || p.Coordinator.Email == "" {
		return
	}
	data := mailtpl.NewSubscriberData(n.Cfg, fullName(p.Coordinator), p.Coordinator.Email,
		mailtpl.WithProject(p.Name, p.City),
		mailtpl.WithSubscriber(fullName(subscriber), subscriber.Email),
	)
	n.publish(ctx, mailer.TemplateJob(p.Coordinator.Email, mailtpl.NewSubscriber, data))
}

// EventPublished tells every subscriber of the event's project about it.
func (n *Notifier) EventPublished(ctx context.Context, e *entity.Event) {
	if n == nil || n.Pub == nil || e.Project == nil {
		return
	}
	for _, email := range e.Project.Subscribers {
		data := mailtpl.NewEventPublishedData(n.Cfg, email,
			mailtpl.WithProject(e.Project.Name, e.Project.City),
			mailtpl.WithEvent(e.Name, e.City, e.Address, e.RegURL, e.Date),
		)
		n.publish(ctx, mailer.TemplateJob(email, mailtpl.EventPublished, data))
	}
}

func (n *Notifier) publish(ctx context.Context, job mailer.EmailJob) {
	err := n.Pub.PublishJSON(ctx, job)
	n.Metrics.ObserveNotification(job.Template, err)
	if err != nil && n.Logger != nil {
		n.Logger.WithError(err).WithField("template", job.Template).WithField("to", job.To).Warn("publish notification failed")
	}
}
