package mailer

// Package mailer implements the CodeMailer port against the transactional
// email delivery service's webhook endpoint. Delivery is fire-and-forget from
// the flow's perspective; the verification core only produces the code.

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Config captures the delivery endpoint behavior.
type Config struct {
	EndpointURL string
	FromAddress string
	Timeout     time.Duration // default 5s
	RetryLimit  int
}

// Webhook posts verification codes to the email delivery endpoint.
type Webhook struct {
	http *resty.Client
	from string
}

// message is the delivery payload.
type message struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Code    string `json:"code"`
}

// NewWebhook builds a delivery client.
func NewWebhook(cfg Config) (*Webhook, error) {
	endpoint := strings.TrimSpace(cfg.EndpointURL)
	if endpoint == "" {
		return nil, errors.New("mailer endpoint url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	retries := cfg.RetryLimit
	if retries < 0 {
		retries = 0
	}

	rc := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(200 * time.Millisecond)

	from := strings.TrimSpace(cfg.FromAddress)
	if from == "" {
		from = "no-reply@linguahub.app"
	}

	return &Webhook{http: rc, from: from}, nil
}

// SendCode delivers a verification code to the address.
func (w *Webhook) SendCode(ctx context.Context, email, code string) error {
	resp, err := w.http.R().
		SetContext(ctx).
		SetBody(message{
			To:      email,
			From:    w.from,
			Subject: "Your LinguaHub verification code",
			Code:    code,
		}).
		Post("")
	if err != nil {
		return fmt.Errorf("deliver verification code: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("delivery endpoint returned %d", resp.StatusCode())
	}
	return nil
}
