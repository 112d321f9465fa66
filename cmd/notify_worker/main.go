package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/community-events/config"
	"github.com/oksasatya/community-events/pkg/helpers"
	"github.com/oksasatya/community-events/pkg/mailer"
	mailtpl "github.com/oksasatya/community-events/pkg/mailer/templates"
)

// sender is the part of the mail client the worker needs.
type sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-notify-worker", cfg.Env, cfg.LogLevel)

	if !cfg.NotifySendEnabled {
		logger.Info("NOTIFY_SEND_ENABLED=false; notify worker disabled (no emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQNotifyQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		logger.Fatal("Mailgun not configured")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.WithError(err).Fatal("amqp dial")
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.WithError(err).Fatal("amqp channel")
	}
	defer func() { _ = ch.Close() }()

	// prefetch for fair dispatch
	if err := ch.Qos(16, 0, false); err != nil {
		logger.WithError(err).Fatal("qos")
	}
	if err := helpers.DeclareQueue(ch, cfg.RabbitMQNotifyQueue); err != nil {
		logger.WithError(err).Fatal("queue declare")
	}
	msgs, err := ch.Consume(cfg.RabbitMQNotifyQueue, "", false, false, false, false, nil)
	if err != nil {
		logger.WithError(err).Fatal("consume")
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			switch handle(ctx, mg, logger, msg.Body) {
			case ack:
				_ = msg.Ack(false)
			case retry:
				_ = msg.Nack(false, true)
			default:
				_ = msg.Nack(false, false)
			}
		}
	}()

	logger.WithField("queue", cfg.RabbitMQNotifyQueue).Info("notify worker listening")
	<-stop
	logger.Info("shutting down...")
	cancel()
	_ = ch.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

type outcome int

const (
	ack outcome = iota
	retry
	drop
)

// handle renders and sends one job. Malformed or unrenderable jobs are
// dropped; send failures are requeued.
func handle(ctx context.Context, mg sender, logger *logrus.Logger, body []byte) outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		logger.WithError(err).Warn("bad message")
		return drop
	}
	helpers.EnsureRecipientAndEmail(&job)
	helpers.NormalizeTemplate(&job)
	if !job.Sendable() {
		logger.WithField("template", job.Template).Warn("job without recipient or body")
		return drop
	}

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		msg, err := mailtpl.Render(job.Template, job.Data)
		if err != nil {
			logger.WithError(err).WithField("template", job.Template).Warn("render failed")
			return drop
		}
		subject, text, html = msg.Subject, msg.Text, msg.HTML
	}

	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := mg.Send(c, job.To, subject, text, html); err != nil {
		logger.WithError(err).WithField("to", job.To).Warn("send failed")
		return retry
	}
	logger.WithField("to", job.To).WithField("template", job.Template).Info("notification sent")
	return ack
}
