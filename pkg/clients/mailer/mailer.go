package mailer

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/coldstore/internal/config"
)

// Client exposes the mail-relay operations used by the application.
type Client interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// APIClient is a resty-backed implementation of Client talking to an HTTP
// transactional mail relay.
type APIClient struct {
	httpClient *resty.Client
	from       string
}

// NewClient builds a mail relay client using the provided configuration values.
func NewClient(cfg config.MailerConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{
		httpClient: restyClient,
		from:       cfg.From,
	}
}

// apiError represents a relay error payload.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// SendEmail delivers one plain-text message through the relay.
func (c *APIClient) SendEmail(ctx context.Context, to, subject, body string) error {
	payload := map[string]any{
		"from":    c.from,
		"to":      to,
		"subject": subject,
		"text":    body,
	}

	apiErr := new(apiError)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetError(apiErr).
		Post("/messages")
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := apiErr.Error.Message
		code := resp.StatusCode()
		if apiErr.Error.Code != 0 {
			code = apiErr.Error.Code
		}
		return fmt.Errorf("mail relay error: code=%d, message=%s", code, message)
	}
	return nil
}
