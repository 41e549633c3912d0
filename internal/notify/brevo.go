package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/apperr"
)

const brevoAPIURL = "https://api.brevo.com/v3/smtp/email"

// Client sends transactional mail through the Brevo API. An
// unconfigured client fails fast instead of silently dropping mail.
type Client struct {
	apiKey     string
	fromEmail  string
	fromName   string
	httpClient *http.Client
	configured bool
}

func NewClient(apiKey, fromEmail, fromName string) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	if apiKey != "" && fromEmail != "" && fromName != "" {
		c.apiKey = apiKey
		c.fromEmail = fromEmail
		c.fromName = fromName
		c.configured = true
	}
	return c
}

func (c *Client) IsConfigured() bool {
	return c.configured
}

type sendEmailReq struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HtmlContent string              `json:"htmlContent"`
}

// SendEmail sends a single transactional email.
func (c *Client) SendEmail(ctx context.Context, toEmail, subject, html string) error {
	if !c.configured {
		return fmt.Errorf("%w: mail client not configured", apperr.ErrDelivery)
	}

	reqBody := sendEmailReq{
		Sender:      map[string]string{"email": c.fromEmail, "name": c.fromName},
		To:          []map[string]string{{"email": toEmail}},
		Subject:     subject,
		HtmlContent: html,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal email request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", brevoAPIURL, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create mail request: %w", err)
	}
	httpReq.Header.Set("api-key", c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrDelivery, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: mail API returned status %d", apperr.ErrDelivery, resp.StatusCode)
	}
	return nil
}

// SendVerificationEmail mails the account verification message.
func (c *Client) SendVerificationEmail(ctx context.Context, email string) error {
	html := "<p>Welcome to SafeRide. Please confirm your email address to activate your account.</p>"
	return c.SendEmail(ctx, email, "Verify your SafeRide account", html)
}

// SendTokenEmail mails a two-factor token.
func (c *Client) SendTokenEmail(ctx context.Context, email, code string) error {
	html := fmt.Sprintf("<p>Your SafeRide verification code is <b>%s</b>. It expires shortly.</p>", code)
	return c.SendEmail(ctx, email, "Your SafeRide verification code", html)
}
