// Package mailer delivers contact-form notifications through the SMTP2GO
// HTTP API. When no API key is configured the mailer is a no-op, which
// keeps local development working without credentials.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/strategia/content-service/pkg/models"
)

const apiURL = "https://api.smtp2go.com/v3/email/send"

type Mailer struct {
	apiKey    string
	sender    string
	recipient string
	client    *http.Client
	endpoint  string
}

type sendRequest struct {
	APIKey   string   `json:"api_key"`
	To       []string `json:"to"`
	Sender   string   `json:"sender"`
	Subject  string   `json:"subject"`
	TextBody string   `json:"text_body"`
}

func New(apiKey, sender, recipient string) *Mailer {
	return &Mailer{
		apiKey:    apiKey,
		sender:    sender,
		recipient: recipient,
		client:    &http.Client{Timeout: 10 * time.Second},
		endpoint:  apiURL,
	}
}

// Enabled reports whether the mailer has credentials to send with.
func (m *Mailer) Enabled() bool {
	return m.apiKey != "" && m.sender != "" && m.recipient != ""
}

// SendContactNotification mails one submission to the configured inbox.
func (m *Mailer) SendContactNotification(ctx context.Context, sub *models.ContactSubmission) error {
	if !m.Enabled() {
		return nil
	}

	body := fmt.Sprintf(
		"New contact form submission\n\nName: %s\nEmail: %s\nCompany: %s\nReceived: %s\n\n%s\n",
		sub.Name, sub.Email, sub.Company, sub.ReceivedAt.Format(time.RFC3339), sub.Message,
	)

	payload, err := json.Marshal(sendRequest{
		APIKey:   m.apiKey,
		To:       []string{m.recipient},
		Sender:   m.sender,
		Subject:  "Contact form: " + sub.Name,
		TextBody: body,
	})
	if err != nil {
		return fmt.Errorf("marshal mail request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mail API returned status %d", resp.StatusCode)
	}
	return nil
}
