package main

import (
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/timeguard/attendance-backend/internal/config"
	"github.com/timeguard/attendance-backend/internal/domain"
	"github.com/wneessen/go-mail"
)

// alertTemplates maps an alert type to its mail template and subject.
var alertTemplates = map[string]struct {
	File    string
	Subject string
}{
	domain.AlertTypeLateness:         {"./templates/lateness_alert_email.html", "TimeGuard - lateness alert"},
	domain.AlertTypeOverdueBreak:     {"./templates/overdue_break_alert_email.html", "TimeGuard - overdue break alert"},
	domain.AlertTypeScheduleConflict: {"./templates/schedule_conflict_alert_email.html", "TimeGuard - schedule conflict"},
}

func main() {
	/**********************************************
	 * Logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	/**********************************************
	 * Configuration
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * Mail client
	 **********************************************/
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		logger.Error("failed to create mail client", slog.String("error", err.Error()))
		return
	}
	defer client.Close()

	clientDialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := client.DialWithContext(clientDialCtx); err != nil {
		logger.Error("failed to connect to mail server", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * RabbitMQ
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("failed to connect to rabbitmq", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("failed to open channel", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		"alert_queue",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("failed to declare queue", slog.String("error", err.Error()))
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		q.Name,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("failed to consume messages", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				logger.Info("alert received", slog.String("message", string(msg.Body)))

				alert := domain.AlertMessage{}
				if err := json.Unmarshal(msg.Body, &alert); err != nil {
					logger.Error("failed to decode alert", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				entry, ok := alertTemplates[alert.Type]
				if !ok {
					logger.Error("unsupported alert type", slog.String("type", alert.Type))
					_ = msg.Nack(false, false)
					continue
				}

				// Every alert goes to the security mailbox.
				m := mail.NewMsg()
				if err := m.From(cfg.Email.SMTP.Username); err != nil {
					logger.Error("failed to set mail sender", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}
				if err := m.To(cfg.Email.SecurityAddress); err != nil {
					logger.Error("failed to set mail recipient", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				tmpl, err := template.ParseFiles(entry.File)
				if err != nil {
					logger.Error("failed to parse mail template", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}
				if err := m.SetBodyHTMLTemplate(tmpl, alert.Data); err != nil {
					logger.Error("failed to set mail body", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}
				m.Subject(entry.Subject)

				if err := client.DialAndSend(m); err != nil {
					logger.Error("failed to send mail", slog.String("error", err.Error()))
					_ = msg.Nack(false, true) // requeue, the SMTP server may be back later
					continue
				}

				_ = msg.Ack(false)
			}
		}
	}()

	logger.Info("waiting for alerts... (CTRL+C to exit)")
	<-sigChan

	slog.Info("shutting down alert worker...")
	cancel()
	wg.Wait()
	slog.Info("alert worker stopped")
}
