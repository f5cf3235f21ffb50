// Package mailer sends transactional email through the Resend API.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v2"
)

// RSVPConfirmation carries everything the confirmation email shows
type RSVPConfirmation struct {
	RecipientEmail string
	RecipientName  string
	EventTitle     string
	EventDate      string // already formatted for display
	EventTime      string // optional, "18:00 - 20:30" style
	EventLocation  string // optional
}

// Config holds mailer configuration
type Config struct {
	APIKey  string
	From    string // e.g. "Gatherly <events@gatherly.events>"
	SiteURL string // linked from the email body
}

// ResendMailer implements Mailer over the Resend API
type ResendMailer struct {
	client *resend.Client
	config Config
}

// NewResendMailer creates a new Resend-backed mailer
func NewResendMailer(cfg Config) *ResendMailer {
	return &ResendMailer{
		client: resend.NewClient(cfg.APIKey),
		config: cfg,
	}
}

// SendRSVPConfirmation sends one confirmation email for a confirmed RSVP
func (m *ResendMailer) SendRSVPConfirmation(ctx context.Context, msg RSVPConfirmation) error {
	html, err := renderConfirmation(msg, m.config.SiteURL)
	if err != nil {
		return fmt.Errorf("mailer: render confirmation: %w", err)
	}

	_, err = m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.config.From,
		To:      []string{msg.RecipientEmail},
		Subject: fmt.Sprintf("RSVP Confirmed: %s", msg.EventTitle),
		Html:    html,
	})
	if err != nil {
		return fmt.Errorf("mailer: send confirmation to %s: %w", msg.RecipientEmail, err)
	}
	return nil
}

var confirmationTmpl = template.Must(template.New("rsvp_confirmation").Parse(`<!DOCTYPE html>
<html>
  <head>
    <style>
      body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
      .header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 30px; border-radius: 10px 10px 0 0; text-align: center; }
      .content { background: #f9fafb; padding: 30px; border-radius: 0 0 10px 10px; }
      .event-details { background: white; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #667eea; }
      .detail-row { display: flex; padding: 10px 0; border-bottom: 1px solid #e5e7eb; }
      .detail-row:last-child { border-bottom: none; }
      .detail-label { font-weight: 600; color: #6b7280; min-width: 100px; }
      .detail-value { color: #111827; }
      .footer { text-align: center; margin-top: 30px; color: #6b7280; font-size: 14px; }
      .emoji { font-size: 24px; }
    </style>
  </head>
  <body>
    <div class="header">
      <div class="emoji">&#127881;</div>
      <h1 style="margin: 10px 0;">RSVP Confirmed!</h1>
      <p style="margin: 0; opacity: 0.9;">You're all set for this event</p>
    </div>
    <div class="content">
      <p>Hi {{if .RecipientName}}{{.RecipientName}}{{else}}there{{end}},</p>
      <p>Great news! Your RSVP has been confirmed for:</p>
      <div class="event-details">
        <h2 style="margin-top: 0; color: #111827;">{{.EventTitle}}</h2>
        <div class="detail-row">
          <span class="detail-label">&#128197; Date:</span>
          <span class="detail-value">{{.EventDate}}</span>
        </div>
        {{if .EventTime}}
        <div class="detail-row">
          <span class="detail-label">&#128336; Time:</span>
          <span class="detail-value">{{.EventTime}}</span>
        </div>
        {{end}}
        {{if .EventLocation}}
        <div class="detail-row">
          <span class="detail-label">&#128205; Location:</span>
          <span class="detail-value">{{.EventLocation}}</span>
        </div>
        {{end}}
      </div>
      <p>We're excited to see you there! If you need to cancel your RSVP, you can do so from the event page.</p>
      <div style="text-align: center; margin-top: 30px;">
        <a href="{{.SiteURL}}" style="background: #667eea; color: white; padding: 12px 30px; text-decoration: none; border-radius: 6px; display: inline-block; font-weight: 600;">
          View Event Details
        </a>
      </div>
    </div>
    <div class="footer">
      <p>Gatherly - Making event management simple</p>
      <p style="font-size: 12px; color: #9ca3af;">
        You received this email because you RSVP'd to an event on Gatherly.
      </p>
    </div>
  </body>
</html>`))

func renderConfirmation(msg RSVPConfirmation, siteURL string) (string, error) {
	data := struct {
		RSVPConfirmation
		SiteURL string
	}{msg, siteURL}

	var buf bytes.Buffer
	if err := confirmationTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
