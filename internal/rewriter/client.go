package rewriter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultTimeout bounds every call to the appliance. There are no retries:
// a failed call is reported to the caller as-is.
const DefaultTimeout = 10 * time.Second

var _ Store = (*Client)(nil)

// Client talks to the AdGuard Home rewrite API.
type Client struct {
	httpc *resty.Client
	log   zerolog.Logger
}

func NewClient(opts ...Option) (*Client, error) {
	return NewClientWithHTTP(http.DefaultClient, opts...)
}

func NewClientWithHTTP(httpc *http.Client, opts ...Option) (*Client, error) {
	client := &Client{
		log: log.With().
			Str("source", "agh-rewrite").
			Logger(),
		httpc: resty.NewWithClient(httpc).
			SetHeader("User-Agent", "adguard-rewriter").
			SetHeader("Content-Type", "application/json").
			SetTimeout(DefaultTimeout),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpc.BaseURL == "" {
		return nil, errors.New("no AdGuard Home address configured, use WithBaseURL()")
	}
	return client, nil
}

func (c *Client) List(ctx context.Context) ([]Rule, error) {
	var rules []Rule
	httpRsp, err := c.httpc.R().
		SetContext(ctx).
		SetResult(&rules).
		Get("/control/rewrite/list")
	if err != nil {
		return nil, fmt.Errorf("make http request: %w", err)
	}

	if httpRsp.IsError() {
		return nil, fmt.Errorf("non-200 response: %s", string(httpRsp.Body()))
	}

	return rules, nil
}

func (c *Client) Add(ctx context.Context, r Rule) error {
	httpRsp, err := c.httpc.R().
		SetContext(ctx).
		SetBody(r).
		Post("/control/rewrite/add")
	if err != nil {
		return fmt.Errorf("make http request: %w", err)
	}

	if httpRsp.IsError() {
		return fmt.Errorf("non-200 response: %s", string(httpRsp.Body()))
	}

	c.log.Debug().Str("domain", r.Domain).Str("answer", r.Answer).Msg("rewrite added")
	return nil
}

func (c *Client) Delete(ctx context.Context, domain string) error {
	httpRsp, err := c.httpc.R().
		SetContext(ctx).
		SetBody(struct {
			Domain string `json:"domain"`
		}{
			Domain: domain,
		}).
		Post("/control/rewrite/delete")
	if err != nil {
		return fmt.Errorf("make http request: %w", err)
	}

	if httpRsp.IsError() {
		return fmt.Errorf("non-200 response: %s", string(httpRsp.Body()))
	}

	c.log.Debug().Str("domain", domain).Msg("rewrite deleted")
	return nil
}
