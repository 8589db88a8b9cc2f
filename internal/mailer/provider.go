package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
)

const defaultProviderTimeout = 5 * time.Second

// ProviderTransport posts rendered emails to an HTTP mail provider
// (cmd/mailsink in local development). One provider, no failover.
type ProviderTransport struct {
	url     string
	client  *fasthttp.Client
	timeout time.Duration
}

func NewProviderTransport(url string) *ProviderTransport {
	return &ProviderTransport{
		url: url,
		client: &fasthttp.Client{
			MaxConnsPerHost:     64,
			ReadTimeout:         defaultProviderTimeout,
			WriteTimeout:        defaultProviderTimeout,
			MaxIdleConnDuration: 60 * time.Second,
		},
		timeout: defaultProviderTimeout,
	}
}

func (t *ProviderTransport) Send(ctx context.Context, e *Email) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(t.url + "/mail/send")
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(t.timeout)
	}

	if err := t.client.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("mail provider request failed: %w", err)
	}

	status := resp.StatusCode()
	if status != fasthttp.StatusOK && status != fasthttp.StatusAccepted {
		return fmt.Errorf("mail provider returned status %d: %s", status, resp.Body())
	}
	return nil
}
