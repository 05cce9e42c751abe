// Package notify announces shipment status changes. EmailNotifier renders
// the customer email and writes it out instead of talking to an SMTP server;
// Dispatcher moves delivery off the caller's goroutine.
package notify

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/template"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adinrama/eto-telco-tracking/internal/core/domain"
	"github.com/adinrama/eto-telco-tracking/internal/metrics"
)

// Notice is a rendered notification.
type Notice struct {
	ID         string
	TrackingID string
	Recipient  string
	Status     string
	Subject    string
	Body       string
}

// EmailConfig holds the sender identity and the SMTP endpoint that would be
// used for real delivery.
type EmailConfig struct {
	From     string
	TrackURL string
	SMTPHost string
	SMTPPort int
}

var (
	statusSubject    = template.Must(template.New("status_subject").Parse(`ETO-TELCO: Shipment {{.TrackingID}} Status Update`))
	deliveredSubject = template.Must(template.New("delivered_subject").Parse(`ETO-TELCO: Shipment {{.TrackingID}} Delivered`))

	statusBody = template.Must(template.New("status_body").Parse(`Dear Customer,

Your shipment {{.TrackingID}} has been updated.
Current Status: {{.Status}}

Track your shipment: {{.TrackURL}}/{{.TrackingID}}

Best regards,
ETO-TELCO Team
`))

	deliveredBody = template.Must(template.New("delivered_body").Parse(`Dear Customer,

Your shipment {{.TrackingID}} has been successfully delivered!

Thank you for choosing ETO-TELCO.

Best regards,
ETO-TELCO Team
`))
)

type templateData struct {
	TrackingID string
	Status     string
	TrackURL   string
}

// EmailNotifier composes status emails and writes them to out.
type EmailNotifier struct {
	cfg    EmailConfig
	mu     sync.Mutex
	out    io.Writer
	logger zerolog.Logger
}

// NewEmailNotifier returns a notifier printing to out.
func NewEmailNotifier(cfg EmailConfig, out io.Writer, logger zerolog.Logger) *EmailNotifier {
	cfg.TrackURL = strings.TrimRight(cfg.TrackURL, "/")
	return &EmailNotifier{cfg: cfg, out: out, logger: logger}
}

// Compose renders the notice for a status change. A Delivered status gets
// the delivery confirmation instead of the generic update.
func (n *EmailNotifier) Compose(trackingID, recipient, status string) (Notice, error) {
	subjectTmpl, bodyTmpl := statusSubject, statusBody
	if status == domain.StatusDelivered {
		subjectTmpl, bodyTmpl = deliveredSubject, deliveredBody
	}

	data := templateData{TrackingID: trackingID, Status: status, TrackURL: n.cfg.TrackURL}

	var subject, body strings.Builder
	if err := subjectTmpl.Execute(&subject, data); err != nil {
		return Notice{}, fmt.Errorf("render subject: %w", err)
	}
	if err := bodyTmpl.Execute(&body, data); err != nil {
		return Notice{}, fmt.Errorf("render body: %w", err)
	}

	return Notice{
		ID:         uuid.NewString(),
		TrackingID: trackingID,
		Recipient:  recipient,
		Status:     status,
		Subject:    subject.String(),
		Body:       body.String(),
	}, nil
}

// Deliver composes the notice and writes it out.
func (n *EmailNotifier) Deliver(_ context.Context, trackingID, recipient, status string) error {
	notice, err := n.Compose(trackingID, recipient, status)
	if err != nil {
		return err
	}

	headline := "Email sent to"
	if status == domain.StatusDelivered {
		headline = "Delivery confirmation sent to"
	}

	n.mu.Lock()
	_, err = fmt.Fprintf(n.out, "%s %s\nFrom: %s\nSubject: %s\n\n%s\n",
		headline, notice.Recipient, n.cfg.From, notice.Subject, notice.Body)
	n.mu.Unlock()
	if err != nil {
		return fmt.Errorf("write notice %s: %w", notice.ID, err)
	}

	n.logger.Info().
		Str("notice_id", notice.ID).
		Str("tracking_id", trackingID).
		Str("recipient", recipient).
		Str("status", status).
		Str("smtp", fmt.Sprintf("%s:%d", n.cfg.SMTPHost, n.cfg.SMTPPort)).
		Msg("notice sent")
	return nil
}

// Notify implements ports.NotificationSink synchronously. Failures are
// logged and counted, never returned.
func (n *EmailNotifier) Notify(ctx context.Context, trackingID, recipient, status string) {
	if err := n.Deliver(ctx, trackingID, recipient, status); err != nil {
		metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		n.logger.Error().Err(err).Str("tracking_id", trackingID).Msg("notice not sent")
		return
	}
	metrics.NotificationsTotal.WithLabelValues("sent").Inc()
}
