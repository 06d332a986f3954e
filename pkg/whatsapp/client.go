// Package whatsapp talks to the outbound messaging provider. It only sends;
// inbound traffic arrives through the webhook route.
package whatsapp

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/go-resty/resty/v2"

	"github.com/waqas1412/ReAgentWABot-sub001/pkg/metrics"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/models"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/tracing"
)

// Sender delivers replies to a phone number and reports the provider's
// message id.
type Sender interface {
	SendText(ctx context.Context, to, text string) (string, error)
	SendMedia(ctx context.Context, to, text, mediaURL string) (string, error)
	SendResponse(ctx context.Context, to string, resp *models.Response) (string, error)
}

// Config holds the provider connection settings.
type Config struct {
	BaseURL    string `env:"WHATSAPP_BASE_URL" validate:"required"`
	AuthToken  string `env:"WHATSAPP_AUTH_TOKEN" validate:"required"`
	FromNumber string `env:"WHATSAPP_FROM_NUMBER" validate:"required"`
	Timeout    int    `env:"WHATSAPP_TIMEOUT_SECONDS" env-default:"15"`
}

type outboundPayload struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Body     string `json:"body"`
	MediaURL string `json:"media_url,omitempty"`
}

type outboundResult struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

type Client struct {
	httpClient *resty.Client
	fromNumber string
	logger     ectologger.Logger
}

// NewClient returns a provider client with retries on transient failures.
func NewClient(cfg Config, logger ectologger.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.AuthToken).
		SetTimeout(time.Duration(cfg.Timeout) * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: httpClient,
		fromNumber: cfg.FromNumber,
		logger:     logger,
	}
}

// SendText posts a text message and returns the provider message id.
func (c *Client) SendText(ctx context.Context, to, text string) (string, error) {
	return c.send(ctx, outboundPayload{From: c.fromNumber, To: to, Body: text})
}

// SendMedia posts a media message with an optional caption.
func (c *Client) SendMedia(ctx context.Context, to, text, mediaURL string) (string, error) {
	return c.send(ctx, outboundPayload{From: c.fromNumber, To: to, Body: text, MediaURL: mediaURL})
}

// SendResponse delivers a router response, choosing the endpoint by kind.
func (c *Client) SendResponse(ctx context.Context, to string, resp *models.Response) (string, error) {
	if resp.Kind == models.ResponseKindMedia {
		return c.SendMedia(ctx, to, resp.Content, resp.MediaURL)
	}
	return c.SendText(ctx, to, resp.Content)
}

func (c *Client) send(ctx context.Context, payload outboundPayload) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "WhatsAppClient.send")
	defer span.End()

	var result outboundResult
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&result).
		Post("/messages")
	if err != nil {
		metrics.OutboundMessagesTotal.WithLabelValues("error").Inc()
		c.logger.WithContext(ctx).WithError(err).Error("failed to call messaging provider")
		return "", fmt.Errorf("failed to call messaging provider: %w", err)
	}

	if resp.IsError() {
		metrics.OutboundMessagesTotal.WithLabelValues("rejected").Inc()
		c.logger.WithContext(ctx).
			WithField("status_code", resp.StatusCode()).
			WithField("provider_error", result.Error).
			Error("messaging provider rejected message")
		return "", fmt.Errorf("messaging provider rejected message: status %d", resp.StatusCode())
	}

	metrics.OutboundMessagesTotal.WithLabelValues("sent").Inc()
	return result.MessageID, nil
}
