package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultMailAPIURL is the Brevo transactional email endpoint.
	DefaultMailAPIURL = "https://api.brevo.com/v3/smtp/email"

	defaultMailFrom = "noreply@rise-rentals.be"
	senderName      = "Rise Rentals"
	rentalLayout    = "Monday 2 January 2006, 15:04 MST"
)

var mailTemplates = template.Must(template.New("mail").Parse(`
{{define "confirmed"}}<h1>Your booking is confirmed</h1>
<p>Hi {{.FirstName}},</p>
<p>Your rental on <strong>{{.RentalDate}}</strong> is confirmed. Your booking number is <strong>{{.BookingID}}</strong>.</p>
<p>See you on the water!</p>{{end}}
{{define "canceled"}}<h1>Your booking was canceled</h1>
<p>Hi {{.FirstName}},</p>
<p>Your rental on <strong>{{.RentalDate}}</strong> (booking {{.BookingID}}) has been canceled.</p>
{{if .Reason}}<p>Reason: {{.Reason}}</p>{{end}}
<p>You are welcome to book another time slot.</p>{{end}}
`))

type mailView struct {
	FirstName  string
	RentalDate string
	BookingID  int64
	Reason     string
}

type mailRequest struct {
	Sender      mailAddress   `json:"sender"`
	To          []mailAddress `json:"to"`
	Subject     string        `json:"subject"`
	HTMLContent string        `json:"htmlContent"`
}

type mailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// MailerConfig holds the transactional email API settings.
type MailerConfig struct {
	APIKey string
	From   string
	APIURL string
}

// Mailer sends booking emails through a Brevo-compatible HTTP API.
// Without an API key it logs and skips delivery.
type Mailer struct {
	cfg    MailerConfig
	client *http.Client
	logger *zap.Logger
}

// NewMailer creates a Mailer. A nil client gets a 15s timeout client.
func NewMailer(cfg MailerConfig, client *http.Client, logger *zap.Logger) *Mailer {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultMailAPIURL
	}
	if cfg.From == "" {
		cfg.From = defaultMailFrom
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Mailer{cfg: cfg, client: client, logger: logger}
}

// SendBookingConfirmed emails the renter that the booking was accepted.
func (m *Mailer) SendBookingConfirmed(ctx context.Context, email, firstName string, bookingID int64, rentalAt time.Time) error {
	html, err := render("confirmed", newMailView(firstName, bookingID, rentalAt, ""))
	if err != nil {
		return err
	}
	return m.send(ctx, email, firstName, "Booking confirmed", html)
}

// SendBookingCanceled emails the renter that the booking was canceled.
func (m *Mailer) SendBookingCanceled(ctx context.Context, email, firstName string, bookingID int64, rentalAt time.Time, reason string) error {
	html, err := render("canceled", newMailView(firstName, bookingID, rentalAt, reason))
	if err != nil {
		return err
	}
	return m.send(ctx, email, firstName, "Booking canceled", html)
}

func newMailView(firstName string, bookingID int64, rentalAt time.Time, reason string) mailView {
	if firstName == "" {
		firstName = "there"
	}
	return mailView{
		FirstName:  firstName,
		RentalDate: rentalAt.UTC().Format(rentalLayout),
		BookingID:  bookingID,
		Reason:     reason,
	}
}

func render(name string, view mailView) (string, error) {
	var buf bytes.Buffer
	if err := mailTemplates.ExecuteTemplate(&buf, name, view); err != nil {
		return "", fmt.Errorf("failed to render %s email: %w", name, err)
	}
	return buf.String(), nil
}

func (m *Mailer) send(ctx context.Context, toEmail, toName, subject, html string) error {
	if m.cfg.APIKey == "" {
		m.logger.Info("mail api key not configured, skipping email",
			zap.String("to", toEmail),
			zap.String("subject", subject),
		)
		return nil
	}

	body, err := json.Marshal(mailRequest{
		Sender:      mailAddress{Email: m.cfg.From, Name: senderName},
		To:          []mailAddress{{Email: toEmail, Name: toName}},
		Subject:     subject,
		HTMLContent: html,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("api-key", m.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("mail api returned status %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}

	m.logger.Info("email sent", zap.String("to", toEmail), zap.String("subject", subject))
	return nil
}
